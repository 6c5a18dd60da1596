// Package settlement builds, submits, and interprets the on-chain calls that
// consume or invalidate signed orders through the market gateway, plus the
// off-chain listing flow that creates them.
package settlement

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/roninmarket/marketbot/internal/marketplace"
	"github.com/roninmarket/marketbot/internal/order"
	"github.com/roninmarket/marketbot/internal/sign"
	"github.com/roninmarket/marketbot/pkg/config"
	"github.com/roninmarket/marketbot/pkg/contracts"
	"github.com/roninmarket/marketbot/pkg/types"
)

// Provider is the slice of chain RPC the executor needs. *ethclient.Client
// satisfies it.
type Provider interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *ethtypes.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*ethtypes.Receipt, error)
}

// Book is the slice of the order book client the executor needs.
type Book interface {
	GetAxieOrder(ctx context.Context, axieID int64) (*types.Order, error)
	GetMaterialOrders(ctx context.Context, tokenID string, from, size int) (types.OrderBookPage, error)
	GetOrdersByMaker(ctx context.Context, tokenID string, maker common.Address) (types.OrderBookPage, error)
	GetMaterialBalance(ctx context.Context, tokenID string, owner common.Address) (int64, error)
	CreateOrder(ctx context.Context, input marketplace.CreateOrderInput, signature string) (*types.Order, error)
}

// State is the terminal state of one settlement or cancellation attempt.
type State string

const (
	// StateRejected means local pre-checks failed; nothing was submitted.
	StateRejected State = "rejected"
	// StateSuccess means the transaction mined with status 1.
	StateSuccess State = "success"
	// StateReverted means the transaction mined with status 0. An expected
	// on-chain outcome, not an error.
	StateReverted State = "reverted"
	// StateTimedOut means no receipt arrived within the deadline; the
	// transaction outcome is unknown.
	StateTimedOut State = "timed_out"
	// StateNoop means there was nothing to do and that is fine.
	StateNoop State = "noop"
)

// SettleResult is the typed outcome of one on-chain attempt. Expected
// outcomes, including reverts, are states here rather than errors.
type SettleResult struct {
	State   State
	TxHash  common.Hash
	Receipt *ethtypes.Receipt
	Order   *types.Order
	Reason  string
}

// Executor drives settlement and cancellation against the market gateway.
type Executor struct {
	provider Provider
	signer   sign.Signer
	book     Book
	registry contracts.Registry
	cfg      *config.Config
	chainID  *big.Int
	logger   *zap.Logger
	now      func() time.Time
}

// New creates an executor.
func New(provider Provider, signer sign.Signer, book Book, registry contracts.Registry, cfg *config.Config, logger *zap.Logger) *Executor {
	return &Executor{
		provider: provider,
		signer:   signer,
		book:     book,
		registry: registry,
		cfg:      cfg,
		chainID:  big.NewInt(cfg.ChainID),
		logger:   logger,
		now:      time.Now,
	}
}

func gwei(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1_000_000_000))
}

func rejected(o *types.Order, reason string) *SettleResult {
	return &SettleResult{State: StateRejected, Order: o, Reason: reason}
}

// sendTx builds, signs, and submits a legacy transaction. A zero gasLimit
// means estimate-plus-buffer, capped.
func (e *Executor) sendTx(ctx context.Context, to common.Address, data []byte, gasPrice *big.Int, gasLimit uint64) (*ethtypes.Transaction, error) {
	from := e.signer.Address()

	nonce, err := e.provider.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("fetch account nonce: %w", err)
	}

	if gasLimit == 0 {
		estimate, err := e.provider.EstimateGas(ctx, ethereum.CallMsg{
			From:     from,
			To:       &to,
			GasPrice: gasPrice,
			Data:     data,
		})
		if err != nil {
			return nil, fmt.Errorf("estimate gas: %w", err)
		}
		gasLimit = estimate + e.cfg.SettleGasBuffer
		if gasLimit > e.cfg.SettleGasCap {
			gasLimit = e.cfg.SettleGasCap
		}
	}

	tx := ethtypes.NewTx(&ethtypes.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Value:    big.NewInt(0),
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})

	signed, err := e.signer.SignTx(tx, e.chainID)
	if err != nil {
		return nil, err
	}

	err = e.provider.SendTransaction(ctx, signed)
	if err != nil {
		return nil, fmt.Errorf("send transaction: %w", err)
	}

	return signed, nil
}

// waitMined polls for a receipt until the configured deadline. A nil receipt
// with nil error means the deadline expired.
func (e *Executor) waitMined(ctx context.Context, txHash common.Hash) (*ethtypes.Receipt, error) {
	deadline := time.NewTimer(e.cfg.ReceiptTimeout)
	defer deadline.Stop()

	poll := time.NewTicker(2 * time.Second)
	defer poll.Stop()

	for {
		receipt, err := e.provider.TransactionReceipt(ctx, txHash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			return nil, fmt.Errorf("fetch receipt: %w", err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			return nil, nil
		case <-poll.C:
		}
	}
}

// submitAndWait submits one transaction and classifies its outcome.
func (e *Executor) submitAndWait(ctx context.Context, operation string, to common.Address, data []byte, gasPrice *big.Int, gasLimit uint64, o *types.Order) (*SettleResult, error) {
	start := e.now()

	tx, err := e.sendTx(ctx, to, data, gasPrice, gasLimit)
	if err != nil {
		TransactionsTotal.WithLabelValues(operation, "submit_error").Inc()
		return nil, err
	}

	e.logger.Info("transaction-submitted",
		zap.String("operation", operation),
		zap.String("tx", tx.Hash().Hex()))

	receipt, err := e.waitMined(ctx, tx.Hash())
	TransactionDurationSeconds.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		TransactionsTotal.WithLabelValues(operation, "wait_error").Inc()
		return nil, err
	}

	if receipt == nil {
		TransactionsTotal.WithLabelValues(operation, "timeout").Inc()
		e.logger.Warn("receipt-timeout",
			zap.String("operation", operation),
			zap.String("tx", tx.Hash().Hex()))
		return &SettleResult{State: StateTimedOut, TxHash: tx.Hash(), Order: o}, nil
	}

	if receipt.Status != ethtypes.ReceiptStatusSuccessful {
		TransactionsTotal.WithLabelValues(operation, "reverted").Inc()
		return &SettleResult{State: StateReverted, TxHash: tx.Hash(), Receipt: receipt, Order: o}, nil
	}

	TransactionsTotal.WithLabelValues(operation, "success").Inc()
	return &SettleResult{State: StateSuccess, TxHash: tx.Hash(), Receipt: receipt, Order: o}, nil
}

// interactWith wraps an exchange payload in the gateway dispatch call and
// submits it.
func (e *Executor) interactWith(ctx context.Context, operation, module string, payload []byte, gasPrice *big.Int, gasLimit uint64, o *types.Order) (*SettleResult, error) {
	data, err := contracts.PackInteractWith(module, payload)
	if err != nil {
		return nil, err
	}
	return e.submitAndWait(ctx, operation, e.registry.Gateway, data, gasPrice, gasLimit, o)
}

// BuyAxie settles the active sell order of one axie: fetch, pre-check,
// re-validate, encode, submit through ORDER_EXCHANGE, and wait for the
// receipt. Returns ErrNoActiveOrder when the axie is not listed.
func (e *Executor) BuyAxie(ctx context.Context, axieID int64) (*SettleResult, error) {
	quoted, err := e.book.GetAxieOrder(ctx, axieID)
	if err != nil {
		return nil, err
	}
	if quoted == nil {
		return nil, types.ErrNoActiveOrder
	}

	caller := e.signer.Address()
	nowSeconds := e.now().Unix()

	if quoted.Maker == caller {
		return rejected(quoted, "order is self-authored"), nil
	}
	if !order.IsValid(*quoted, nowSeconds) {
		return rejected(quoted, "order expired or exhausted"), nil
	}

	balance, err := e.erc20BalanceOf(ctx, e.registry.WETH, caller)
	if err != nil {
		return nil, err
	}
	if balance.Cmp(quoted.CurrentPrice) < 0 {
		balErr := &types.InsufficientBalanceError{Token: "WETH", Need: quoted.CurrentPrice, Have: balance}
		return rejected(quoted, balErr.Error()), nil
	}

	// Snapshot comparison immediately before submission: the book may have
	// repriced or filled the order since the quote.
	fresh, err := e.book.GetAxieOrder(ctx, axieID)
	if err != nil {
		return nil, err
	}
	if fresh == nil || !order.IsValid(*fresh, e.now().Unix()) {
		return rejected(quoted, "order no longer available"), nil
	}
	if fresh.CurrentPrice.Cmp(quoted.CurrentPrice) > 0 {
		e.logger.Warn("price-drift",
			zap.Int64("axie-id", axieID),
			zap.String("quoted", quoted.CurrentPrice.String()),
			zap.String("current", fresh.CurrentPrice.String()))
		if e.cfg.AbortOnPriceDrift {
			return rejected(fresh, "price moved above quoted snapshot"), nil
		}
	}

	payload, err := e.settlePayload721(*fresh)
	if err != nil {
		return nil, err
	}

	e.logger.Info("buying-axie",
		zap.Int64("axie-id", axieID),
		zap.String("price", fresh.CurrentPrice.String()),
		zap.String("maker", fresh.Maker.Hex()))

	return e.interactWith(ctx, "settle_axie", contracts.ModuleOrderExchange, payload,
		gwei(e.cfg.SettleGasPriceGwei), 0, fresh)
}

func (e *Executor) settlePayload721(o types.Order) ([]byte, error) {
	encoded, err := order.EncodeNonFungible(o)
	if err != nil {
		return nil, err
	}

	signature, err := hexutil.Decode(o.Signature)
	if err != nil {
		return nil, fmt.Errorf("decode order signature: %w", err)
	}

	caller := e.signer.Address()
	info := contracts.SettleInfo{
		OrderData:     encoded,
		Signature:     signature,
		ReferralAddr:  e.registry.Referral,
		ExpectedState: big.NewInt(0),
		Recipient:     caller,
		Refunder:      caller,
	}

	return contracts.PackSettleOrder(info, o.CurrentPrice)
}

// BuyMaterial settles a partial fill of quantity units against the cheapest
// single order that can cover it, approving the ERC-1155 exchange's WETH
// allowance first when short.
func (e *Executor) BuyMaterial(ctx context.Context, tokenID string, quantity int64) (*SettleResult, error) {
	if quantity <= 0 {
		return nil, types.ErrInvalidQuantity
	}

	page, err := e.book.GetMaterialOrders(ctx, tokenID, 0, 50)
	if err != nil {
		return nil, err
	}
	if len(page.Orders) == 0 {
		return nil, types.ErrNoActiveOrder
	}

	caller := e.signer.Address()
	nowSeconds := e.now().Unix()
	want := big.NewInt(quantity)

	var target *types.Order
	for i := range page.Orders {
		o := page.Orders[i]
		if !order.Purchasable(o, caller, nowSeconds) {
			continue
		}
		if o.Asset.AvailableQuantity.Cmp(want) >= 0 {
			target = &o
			break
		}
	}
	if target == nil {
		return rejected(nil, "no valid order with sufficient quantity"), nil
	}

	totalCost := new(big.Int).Mul(target.CurrentPrice, want)

	balance, err := e.erc20BalanceOf(ctx, e.registry.WETH, caller)
	if err != nil {
		return nil, err
	}
	if balance.Cmp(totalCost) < 0 {
		balErr := &types.InsufficientBalanceError{Token: "WETH", Need: totalCost, Have: balance}
		return rejected(target, balErr.Error()), nil
	}

	// The ERC-1155 exchange pulls WETH directly; approve it when short.
	_, err = e.EnsureWETHAllowance(ctx, e.registry.ERC1155Exchange, totalCost)
	if err != nil {
		return nil, err
	}

	payload, err := e.settlePayload1155(*target, want, totalCost)
	if err != nil {
		return nil, err
	}

	e.logger.Info("buying-material",
		zap.String("token-id", tokenID),
		zap.Int64("quantity", quantity),
		zap.String("total-cost", totalCost.String()),
		zap.String("order-id", target.ID))

	return e.interactWith(ctx, "settle_material", contracts.ModuleERC1155Exchange, payload,
		gwei(e.cfg.SettleGasPriceGwei), 0, target)
}

func (e *Executor) settlePayload1155(o types.Order, quantity, totalCost *big.Int) ([]byte, error) {
	encoded, err := order.EncodeFungibleSettlement(o)
	if err != nil {
		return nil, err
	}

	signature, err := hexutil.Decode(o.Signature)
	if err != nil {
		return nil, fmt.Errorf("decode order signature: %w", err)
	}

	expectedState := o.ExpectedState
	if expectedState == nil {
		expectedState = big.NewInt(0)
	}

	caller := e.signer.Address()
	info := contracts.SettleInfo{
		OrderData:     encoded,
		Signature:     signature,
		ReferralAddr:  e.registry.Referral,
		ExpectedState: expectedState,
		Recipient:     caller,
		Refunder:      caller,
	}

	return contracts.PackSettleOrder1155(info, quantity, totalCost)
}
