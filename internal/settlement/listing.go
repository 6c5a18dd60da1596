package settlement

import (
	"context"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roninmarket/marketbot/internal/marketplace"
	"github.com/roninmarket/marketbot/internal/order"
	"github.com/roninmarket/marketbot/internal/sign"
	"github.com/roninmarket/marketbot/pkg/types"
)

// Listing is a request to put one asset on the book. EndedAt nonzero makes a
// Dutch auction decaying from BasePrice to EndedPrice.
type Listing struct {
	BasePrice  *big.Int
	EndedPrice *big.Int
	EndedAt    int64
}

// ListAxie creates a signed sell order for one axie on the order book.
// The marketplace gateway gets collection approval first when missing. A
// benign rejection (the axie is already listed) returns a nil order and nil
// error.
func (e *Executor) ListAxie(ctx context.Context, axieID int64, listing Listing) (*types.Order, error) {
	_, err := e.EnsureCollectionApproval(ctx, e.registry.Axie, e.registry.Gateway)
	if err != nil {
		return nil, err
	}

	asset := types.Asset{
		Standard:        types.StandardNonFungible,
		ContractAddress: e.registry.Axie,
		TokenID:         big.NewInt(axieID),
	}

	created, err := e.submitListing(ctx, asset, listing)
	if err != nil {
		if types.IsBenignRejection(err) {
			e.logger.Info("axie-already-listed", zap.Int64("axie-id", axieID))
			return nil, nil
		}
		return nil, err
	}

	e.logger.Info("axie-listed",
		zap.Int64("axie-id", axieID),
		zap.String("base-price", listing.BasePrice.String()))
	return created, nil
}

// ListMaterial creates a signed fixed-price sell order for quantity units of
// one material token. Quantity 0 lists the full owned balance.
func (e *Executor) ListMaterial(ctx context.Context, tokenID string, quantity int64, unitPrice *big.Int) (*types.Order, error) {
	owner := e.signer.Address()

	owned, err := e.book.GetMaterialBalance(ctx, tokenID, owner)
	if err != nil {
		return nil, err
	}
	if quantity == 0 {
		quantity = owned
	}
	if quantity <= 0 || quantity > owned {
		return nil, fmt.Errorf("list %d of %d owned units: %w", quantity, owned, types.ErrInvalidQuantity)
	}

	_, err = e.EnsureMaterialApproval(ctx, e.registry.Material, e.registry.Gateway)
	if err != nil {
		return nil, err
	}

	id, ok := new(big.Int).SetString(tokenID, 10)
	if !ok {
		return nil, fmt.Errorf("parse token id %q", tokenID)
	}

	asset := types.Asset{
		Standard:        types.StandardFungible,
		ContractAddress: e.registry.Material,
		TokenID:         id,
		Quantity:        big.NewInt(quantity),
	}

	created, err := e.submitListing(ctx, asset, Listing{BasePrice: unitPrice})
	if err != nil {
		return nil, err
	}

	e.logger.Info("material-listed",
		zap.String("token-id", tokenID),
		zap.Int64("quantity", quantity),
		zap.String("unit-price", unitPrice.String()))
	return created, nil
}

// ListAllAxies lists every axie this account owns at one fixed price.
// Already-listed axies count as successes; other failures are collected and
// do not abort the run.
func (e *Executor) ListAllAxies(ctx context.Context, basePrice *big.Int) (*types.BatchResult, error) {
	ids, err := e.OwnedAxieIDs(ctx)
	if err != nil {
		return nil, err
	}

	result := &types.BatchResult{
		RunID: uuid.NewString(),
		Total: len(ids),
	}

	e.logger.Info("listing-all-axies",
		zap.String("run-id", result.RunID),
		zap.Int("axies", len(ids)))

	for _, id := range ids {
		_, err := e.ListAxie(ctx, id.Int64(), Listing{BasePrice: basePrice})
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, types.BatchError{
				Item:   id.String(),
				Reason: err.Error(),
			})
			continue
		}
		result.Succeeded++
	}

	return result, nil
}

// submitListing constructs, signs, and posts one sell order.
func (e *Executor) submitListing(ctx context.Context, asset types.Asset, listing Listing) (*types.Order, error) {
	maker := e.signer.Address()
	startedAt := e.now().Unix()

	o, err := order.New(asset,
		order.Pricing{BasePrice: listing.BasePrice, EndedPrice: listing.EndedPrice},
		order.Timing{StartedAt: startedAt, EndedAt: listing.EndedAt},
		maker)
	if err != nil {
		return nil, err
	}
	o.PaymentToken = e.registry.WETH

	domain := sign.Domain(e.cfg.ChainID, e.registry.Gateway)
	signature, err := e.signer.SignTypedData(sign.OrderTypedData(o, domain))
	if err != nil {
		return nil, err
	}

	input := marketplace.CreateOrderInput{
		Maker: maker.Hex(),
		Nonce: 0,
		Assets: []marketplace.CreateOrderAsset{{
			ID:       o.Asset.TokenID.String(),
			Address:  o.Asset.ContractAddress.Hex(),
			Erc:      ercName(o.Asset.Standard),
			Quantity: o.Asset.Quantity.String(),
		}},
		Kind:          "Sell",
		ExpectedState: o.ExpectedState.String(),
		BasePrice:     o.BasePrice.String(),
		EndedPrice:    o.EndedPrice.String(),
		StartedAt:     o.StartedAt,
		EndedAt:       o.EndedAt,
		ExpiredAt:     o.ExpiredAt,
	}

	ListingsTotal.WithLabelValues(ercName(o.Asset.Standard)).Inc()
	return e.book.CreateOrder(ctx, input, signature)
}

func ercName(s types.AssetStandard) string {
	switch s {
	case types.StandardFungible:
		return "Erc1155"
	default:
		return "Erc721"
	}
}
