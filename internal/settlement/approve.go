package settlement

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/roninmarket/marketbot/pkg/contracts"
)

// maxApproval is the unbounded ERC-20 allowance granted once per spender.
var maxApproval = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

func (e *Executor) call(ctx context.Context, to common.Address, parsed abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}

	raw, err := e.provider.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}

	values, err := parsed.Unpack(method, raw)
	if err != nil {
		return nil, fmt.Errorf("unpack %s result: %w", method, err)
	}
	return values, nil
}

func (e *Executor) erc20BalanceOf(ctx context.Context, token, owner common.Address) (*big.Int, error) {
	values, err := e.call(ctx, token, contracts.ERC20ABI, "balanceOf", owner)
	if err != nil {
		return nil, err
	}
	return values[0].(*big.Int), nil
}

func (e *Executor) erc20Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	values, err := e.call(ctx, token, contracts.ERC20ABI, "allowance", owner, spender)
	if err != nil {
		return nil, err
	}
	return values[0].(*big.Int), nil
}

func (e *Executor) erc721BalanceOf(ctx context.Context, token, owner common.Address) (*big.Int, error) {
	values, err := e.call(ctx, token, contracts.ERC721ABI, "balanceOf", owner)
	if err != nil {
		return nil, err
	}
	return values[0].(*big.Int), nil
}

func (e *Executor) isApprovedForAll(ctx context.Context, parsed abi.ABI, token, owner, operator common.Address) (bool, error) {
	values, err := e.call(ctx, token, parsed, "isApprovedForAll", owner, operator)
	if err != nil {
		return false, err
	}
	return values[0].(bool), nil
}

// EnsureWETHAllowance grants the spender an unbounded WETH allowance when the
// current one is below amount. Returns true when an approval transaction was
// submitted.
func (e *Executor) EnsureWETHAllowance(ctx context.Context, spender common.Address, amount *big.Int) (bool, error) {
	owner := e.signer.Address()

	current, err := e.erc20Allowance(ctx, e.registry.WETH, owner, spender)
	if err != nil {
		return false, err
	}
	if current.Cmp(amount) >= 0 {
		return false, nil
	}

	data, err := contracts.ERC20ABI.Pack("approve", spender, maxApproval)
	if err != nil {
		return false, fmt.Errorf("pack approve: %w", err)
	}

	e.logger.Info("approving-weth",
		zap.String("spender", spender.Hex()),
		zap.String("current-allowance", current.String()))

	result, err := e.submitAndWait(ctx, "approve_weth", e.registry.WETH, data,
		gwei(e.cfg.ApproveGasPriceGwei), 0, nil)
	if err != nil {
		return false, err
	}
	if result.State != StateSuccess {
		return false, fmt.Errorf("weth approval %s: tx %s", result.State, result.TxHash.Hex())
	}
	return true, nil
}

// EnsureCollectionApproval grants the operator blanket transfer rights over an
// ERC-721 collection when not already granted. Returns true when an approval
// transaction was submitted.
func (e *Executor) EnsureCollectionApproval(ctx context.Context, collection, operator common.Address) (bool, error) {
	return e.ensureOperator(ctx, contracts.ERC721ABI, collection, operator, "approve_collection")
}

// EnsureMaterialApproval is the ERC-1155 counterpart of
// EnsureCollectionApproval.
func (e *Executor) EnsureMaterialApproval(ctx context.Context, token, operator common.Address) (bool, error) {
	return e.ensureOperator(ctx, contracts.ERC1155ABI, token, operator, "approve_material")
}

func (e *Executor) ensureOperator(ctx context.Context, parsed abi.ABI, token, operator common.Address, operation string) (bool, error) {
	owner := e.signer.Address()

	approved, err := e.isApprovedForAll(ctx, parsed, token, owner, operator)
	if err != nil {
		return false, err
	}
	if approved {
		return false, nil
	}

	data, err := parsed.Pack("setApprovalForAll", operator, true)
	if err != nil {
		return false, fmt.Errorf("pack setApprovalForAll: %w", err)
	}

	e.logger.Info("approving-operator",
		zap.String("token", token.Hex()),
		zap.String("operator", operator.Hex()))

	result, err := e.submitAndWait(ctx, operation, token, data,
		gwei(e.cfg.ApproveGasPriceGwei), 0, nil)
	if err != nil {
		return false, err
	}
	if result.State != StateSuccess {
		return false, fmt.Errorf("operator approval %s: tx %s", result.State, result.TxHash.Hex())
	}
	return true, nil
}
