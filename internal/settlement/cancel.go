package settlement

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roninmarket/marketbot/internal/order"
	"github.com/roninmarket/marketbot/pkg/contracts"
	"github.com/roninmarket/marketbot/pkg/types"
)

// CancelKnownAxieOrder invalidates an already-fetched axie order on chain.
// Cancellation needs no signature: the gateway checks the sender is the maker.
func (e *Executor) CancelKnownAxieOrder(ctx context.Context, o types.Order) (*SettleResult, error) {
	encoded, err := order.EncodeNonFungible(o)
	if err != nil {
		return nil, err
	}

	payload, err := contracts.PackCancelOrder(encoded)
	if err != nil {
		return nil, err
	}

	e.logger.Info("canceling-order",
		zap.String("order-id", o.ID),
		zap.String("maker", o.Maker.Hex()))

	return e.interactWith(ctx, "cancel_axie", contracts.ModuleOrderExchange, payload,
		gwei(e.cfg.CancelGasPriceGwei), e.cfg.CancelGasLimit, &o)
}

// CancelAxieOrder looks up the active order for one axie and cancels it.
// Returns ErrNoActiveOrder when the axie is not listed.
func (e *Executor) CancelAxieOrder(ctx context.Context, axieID int64) (*SettleResult, error) {
	o, err := e.book.GetAxieOrder(ctx, axieID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, types.ErrNoActiveOrder
	}
	if o.Maker != e.signer.Address() {
		return rejected(o, "order not authored by this account"), nil
	}
	return e.CancelKnownAxieOrder(ctx, *o)
}

// CancelMaterialOrders cancels every order this account has open for one
// material token. Individual failures do not abort the run; each order's
// outcome is recorded and the summary reports both sides. Calling it with no
// open orders is a successful no-op.
func (e *Executor) CancelMaterialOrders(ctx context.Context, tokenID string) (*types.CancellationSummary, error) {
	maker := e.signer.Address()
	runID := uuid.NewString()

	page, err := e.book.GetOrdersByMaker(ctx, tokenID, maker)
	if err != nil {
		return nil, err
	}

	summary := &types.CancellationSummary{
		RunID:       runID,
		TotalOrders: len(page.Orders),
	}
	if len(page.Orders) == 0 {
		summary.Message = "no open orders to cancel"
		return summary, nil
	}

	e.logger.Info("canceling-material-orders",
		zap.String("run-id", runID),
		zap.String("token-id", tokenID),
		zap.Int("orders", len(page.Orders)))

	for i := range page.Orders {
		o := page.Orders[i]

		result, err := e.cancelFungible(ctx, o)
		if err != nil {
			summary.Failed++
			summary.FailedCancellations = append(summary.FailedCancellations, types.CancelFailure{
				OrderID: o.ID,
				Reason:  err.Error(),
			})
			continue
		}
		if result.State != StateSuccess {
			summary.Failed++
			summary.FailedCancellations = append(summary.FailedCancellations, types.CancelFailure{
				OrderID: o.ID,
				Reason:  fmt.Sprintf("transaction %s: %s", result.State, result.TxHash.Hex()),
			})
			continue
		}

		summary.Canceled++
		summary.CanceledOrders = append(summary.CanceledOrders, types.CancelRecord{
			OrderID:  o.ID,
			TxHash:   result.TxHash.Hex(),
			Quantity: o.Asset.AvailableQuantity.String(),
			Price:    o.CurrentPrice.String(),
		})
	}

	summary.Message = fmt.Sprintf("canceled %d of %d orders", summary.Canceled, summary.TotalOrders)
	CancellationRunsTotal.Inc()
	return summary, nil
}

func (e *Executor) cancelFungible(ctx context.Context, o types.Order) (*SettleResult, error) {
	encoded, err := order.EncodeFungible(o)
	if err != nil {
		return nil, err
	}

	payload, err := contracts.PackCancelOrder(encoded)
	if err != nil {
		return nil, err
	}

	return e.interactWith(ctx, "cancel_material", contracts.ModuleERC1155Exchange, payload,
		gwei(e.cfg.CancelGasPriceGwei), e.cfg.CancelGasLimit, &o)
}

// DelistAllAxies invalidates every open axie listing of this account in one
// transaction by batch self-transferring the tokens, which bumps their
// on-chain state nonce. Owning no axies is a successful no-op.
func (e *Executor) DelistAllAxies(ctx context.Context) (*SettleResult, error) {
	owner := e.signer.Address()

	ids, err := e.OwnedAxieIDs(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return &SettleResult{State: StateNoop, Reason: "no axies owned"}, nil
	}

	e.logger.Info("delisting-all-axies",
		zap.String("owner", owner.Hex()),
		zap.Int("axies", len(ids)))

	return e.BatchTransferAxies(ctx, owner, ids)
}
