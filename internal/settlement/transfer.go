package settlement

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/roninmarket/marketbot/pkg/contracts"
)

// OwnedAxieIDs enumerates the axie token IDs this account holds, via
// balanceOf plus tokenOfOwnerByIndex. Individual index lookups that fail are
// skipped with a warning so one bad read does not hide the rest.
func (e *Executor) OwnedAxieIDs(ctx context.Context) ([]*big.Int, error) {
	owner := e.signer.Address()

	count, err := e.erc721BalanceOf(ctx, e.registry.Axie, owner)
	if err != nil {
		return nil, err
	}

	n := count.Int64()
	ids := make([]*big.Int, 0, n)
	for i := int64(0); i < n; i++ {
		values, err := e.call(ctx, e.registry.Axie, contracts.ERC721ABI, "tokenOfOwnerByIndex", owner, big.NewInt(i))
		if err != nil {
			e.logger.Warn("axie-index-lookup-failed", zap.Int64("index", i), zap.Error(err))
			continue
		}
		ids = append(ids, values[0].(*big.Int))
	}
	return ids, nil
}

// TransferAxie moves one axie to another account via safeTransferFrom.
func (e *Executor) TransferAxie(ctx context.Context, to common.Address, axieID int64) (*SettleResult, error) {
	from := e.signer.Address()

	data, err := contracts.ERC721ABI.Pack("safeTransferFrom", from, to, big.NewInt(axieID))
	if err != nil {
		return nil, fmt.Errorf("pack safeTransferFrom: %w", err)
	}

	e.logger.Info("transferring-axie",
		zap.Int64("axie-id", axieID),
		zap.String("to", to.Hex()))

	return e.submitAndWait(ctx, "transfer_axie", e.registry.Axie, data,
		gwei(e.cfg.TransferGasPriceGwei), 0, nil)
}

// BatchTransferAxies moves a set of axies to one recipient through the batch
// transfer helper contract, granting it operator rights first if needed.
func (e *Executor) BatchTransferAxies(ctx context.Context, to common.Address, ids []*big.Int) (*SettleResult, error) {
	if len(ids) == 0 {
		return &SettleResult{State: StateNoop, Reason: "no axies to transfer"}, nil
	}

	_, err := e.EnsureCollectionApproval(ctx, e.registry.Axie, e.registry.BatchTransfer)
	if err != nil {
		return nil, err
	}

	data, err := contracts.BatchTransferABI.Pack("safeBatchTransfer", e.registry.Axie, ids, to)
	if err != nil {
		return nil, fmt.Errorf("pack safeBatchTransfer: %w", err)
	}

	e.logger.Info("batch-transferring-axies",
		zap.Int("count", len(ids)),
		zap.String("to", to.Hex()))

	return e.submitAndWait(ctx, "batch_transfer", e.registry.BatchTransfer, data,
		gwei(e.cfg.TransferGasPriceGwei), 0, nil)
}
