package settlement

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/roninmarket/marketbot/pkg/contracts"
)

// AccountInfo is a point-in-time snapshot of the signing account's balances
// and marketplace approvals.
type AccountInfo struct {
	Address           common.Address
	RON               *big.Int
	WETH              *big.Int
	USDC              *big.Int
	ExchangeAllowance *big.Int
	GatewayApproved   bool
	AxieIDs           []*big.Int
}

// AccountInfo reads the account's RON and token balances, the WETH allowance
// of the ERC-1155 exchange, the gateway's collection approval, and the owned
// axie IDs.
func (e *Executor) AccountInfo(ctx context.Context) (*AccountInfo, error) {
	owner := e.signer.Address()

	ron, err := e.provider.BalanceAt(ctx, owner, nil)
	if err != nil {
		return nil, err
	}

	weth, err := e.erc20BalanceOf(ctx, e.registry.WETH, owner)
	if err != nil {
		return nil, err
	}

	usdc, err := e.erc20BalanceOf(ctx, e.registry.USDC, owner)
	if err != nil {
		return nil, err
	}

	allowance, err := e.erc20Allowance(ctx, e.registry.WETH, owner, e.registry.ERC1155Exchange)
	if err != nil {
		return nil, err
	}

	approved, err := e.isApprovedForAll(ctx, contracts.ERC721ABI, e.registry.Axie, owner, e.registry.Gateway)
	if err != nil {
		return nil, err
	}

	ids, err := e.OwnedAxieIDs(ctx)
	if err != nil {
		return nil, err
	}

	return &AccountInfo{
		Address:           owner,
		RON:               ron,
		WETH:              weth,
		USDC:              usdc,
		ExchangeAllowance: allowance,
		GatewayApproved:   approved,
		AxieIDs:           ids,
	}, nil
}
