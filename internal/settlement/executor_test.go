package settlement

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/roninmarket/marketbot/internal/marketplace"
	"github.com/roninmarket/marketbot/internal/sign"
	"github.com/roninmarket/marketbot/internal/testutil"
	"github.com/roninmarket/marketbot/pkg/config"
	"github.com/roninmarket/marketbot/pkg/contracts"
	"github.com/roninmarket/marketbot/pkg/types"
)

// fakeBook is an in-memory Book. GetAxieOrder serves axieOrders one per call
// so tests can model the book changing between quote and re-check; the last
// entry repeats.
type fakeBook struct {
	axieOrders   []*types.Order
	axieErr      error
	materialPage types.OrderBookPage
	makerPage    types.OrderBookPage
	balance      int64

	created      *types.Order
	createErr    error
	createInputs []marketplace.CreateOrderInput
	signatures   []string
}

func (b *fakeBook) GetAxieOrder(ctx context.Context, axieID int64) (*types.Order, error) {
	if b.axieErr != nil {
		return nil, b.axieErr
	}
	if len(b.axieOrders) == 0 {
		return nil, nil
	}
	o := b.axieOrders[0]
	if len(b.axieOrders) > 1 {
		b.axieOrders = b.axieOrders[1:]
	}
	return o, nil
}

func (b *fakeBook) GetMaterialOrders(ctx context.Context, tokenID string, from, size int) (types.OrderBookPage, error) {
	return b.materialPage, nil
}

func (b *fakeBook) GetOrdersByMaker(ctx context.Context, tokenID string, maker common.Address) (types.OrderBookPage, error) {
	return b.makerPage, nil
}

func (b *fakeBook) GetMaterialBalance(ctx context.Context, tokenID string, owner common.Address) (int64, error) {
	return b.balance, nil
}

func (b *fakeBook) CreateOrder(ctx context.Context, input marketplace.CreateOrderInput, signature string) (*types.Order, error) {
	b.createInputs = append(b.createInputs, input)
	b.signatures = append(b.signatures, signature)
	if b.createErr != nil {
		return nil, b.createErr
	}
	return b.created, nil
}

func newTestExecutor(t *testing.T, provider *testutil.MockProvider, book Book) *Executor {
	t.Helper()

	signer, err := sign.NewPrivateKeySigner(testutil.TestKey)
	require.NoError(t, err)

	cfg := &config.Config{
		ChainID:              2020,
		SettleGasPriceGwei:   20,
		CancelGasPriceGwei:   30,
		ApproveGasPriceGwei:  26,
		TransferGasPriceGwei: 25,
		CancelGasLimit:       110_000,
		SettleGasBuffer:      50_000,
		SettleGasCap:         600_000,
		ReceiptTimeout:       50 * time.Millisecond,
	}

	e := New(provider, signer, book, contracts.DefaultRegistry(), cfg, zap.NewNop())
	e.now = func() time.Time { return time.Unix(1_700_000_100, 0) }
	return e
}

// wealthy answers every contract read with a large uint256, which covers
// balanceOf and allowance checks alike.
func wealthy(msg ethereum.CallMsg) ([]byte, error) {
	return testutil.Uint256Result(testutil.Wei("1000")), nil
}

func seller() common.Address {
	return common.HexToAddress(testutil.OtherAddress)
}

func TestBuyAxie_Success(t *testing.T) {
	o := testutil.AxieOrder(123, "0.8", seller())
	book := &fakeBook{axieOrders: []*types.Order{&o}}

	provider := testutil.NewMockProvider()
	provider.CallFn = wealthy

	e := newTestExecutor(t, provider, book)

	result, err := e.BuyAxie(context.Background(), 123)
	require.NoError(t, err)
	require.Equal(t, StateSuccess, result.State)
	require.NotNil(t, result.Receipt)
	require.Equal(t, &o, result.Order)

	sent := provider.Sent()
	require.Len(t, sent, 1)

	tx := sent[0]
	require.Equal(t, contracts.DefaultRegistry().Gateway, *tx.To())
	require.Zero(t, tx.GasPrice().Cmp(gwei(20)))
	// estimate plus buffer, under the cap
	require.Equal(t, uint64(150_000), tx.Gas())
}

func TestBuyAxie_NoActiveOrder(t *testing.T) {
	provider := testutil.NewMockProvider()
	provider.CallFn = wealthy

	e := newTestExecutor(t, provider, &fakeBook{})

	_, err := e.BuyAxie(context.Background(), 123)
	require.ErrorIs(t, err, types.ErrNoActiveOrder)
	require.Empty(t, provider.Sent())
}

func TestBuyAxie_SelfOrderRejected(t *testing.T) {
	o := testutil.AxieOrder(123, "0.8", testutil.TestMaker())
	book := &fakeBook{axieOrders: []*types.Order{&o}}

	provider := testutil.NewMockProvider()
	provider.CallFn = wealthy

	e := newTestExecutor(t, provider, book)

	result, err := e.BuyAxie(context.Background(), 123)
	require.NoError(t, err)
	require.Equal(t, StateRejected, result.State)
	require.Contains(t, result.Reason, "self-authored")
	require.Empty(t, provider.Sent())
}

func TestBuyAxie_ExpiredOrderRejected(t *testing.T) {
	o := testutil.AxieOrder(123, "0.8", seller())
	o.ExpiredAt = 1_700_000_000
	book := &fakeBook{axieOrders: []*types.Order{&o}}

	provider := testutil.NewMockProvider()
	provider.CallFn = wealthy

	e := newTestExecutor(t, provider, book)

	result, err := e.BuyAxie(context.Background(), 123)
	require.NoError(t, err)
	require.Equal(t, StateRejected, result.State)
	require.Contains(t, result.Reason, "expired")
}

func TestBuyAxie_InsufficientBalanceRejected(t *testing.T) {
	o := testutil.AxieOrder(123, "0.8", seller())
	book := &fakeBook{axieOrders: []*types.Order{&o}}

	provider := testutil.NewMockProvider()
	provider.CallFn = func(msg ethereum.CallMsg) ([]byte, error) {
		return testutil.Uint256Result(testutil.Wei("0.1")), nil
	}

	e := newTestExecutor(t, provider, book)

	result, err := e.BuyAxie(context.Background(), 123)
	require.NoError(t, err)
	require.Equal(t, StateRejected, result.State)
	require.Contains(t, result.Reason, "WETH")
	require.Empty(t, provider.Sent())
}

func TestBuyAxie_PriceDriftAborts(t *testing.T) {
	quoted := testutil.AxieOrder(123, "0.8", seller())
	repriced := testutil.AxieOrder(123, "0.9", seller())
	book := &fakeBook{axieOrders: []*types.Order{&quoted, &repriced}}

	provider := testutil.NewMockProvider()
	provider.CallFn = wealthy

	e := newTestExecutor(t, provider, book)
	e.cfg.AbortOnPriceDrift = true

	result, err := e.BuyAxie(context.Background(), 123)
	require.NoError(t, err)
	require.Equal(t, StateRejected, result.State)
	require.Contains(t, result.Reason, "price moved")
	require.Empty(t, provider.Sent())
}

func TestBuyAxie_PriceDriftToleratedByDefault(t *testing.T) {
	quoted := testutil.AxieOrder(123, "0.8", seller())
	repriced := testutil.AxieOrder(123, "0.9", seller())
	book := &fakeBook{axieOrders: []*types.Order{&quoted, &repriced}}

	provider := testutil.NewMockProvider()
	provider.CallFn = wealthy

	e := newTestExecutor(t, provider, book)

	result, err := e.BuyAxie(context.Background(), 123)
	require.NoError(t, err)
	require.Equal(t, StateSuccess, result.State)
	require.Len(t, provider.Sent(), 1)
}

func TestBuyAxie_Reverted(t *testing.T) {
	o := testutil.AxieOrder(123, "0.8", seller())
	book := &fakeBook{axieOrders: []*types.Order{&o}}

	provider := testutil.NewMockProvider()
	provider.CallFn = wealthy
	provider.ReceiptStatus = ethtypes.ReceiptStatusFailed

	e := newTestExecutor(t, provider, book)

	result, err := e.BuyAxie(context.Background(), 123)
	require.NoError(t, err, "a mined revert is a state, not an error")
	require.Equal(t, StateReverted, result.State)
	require.NotNil(t, result.Receipt)
	require.NotEqual(t, common.Hash{}, result.TxHash)
}

func TestBuyAxie_ReceiptTimeout(t *testing.T) {
	o := testutil.AxieOrder(123, "0.8", seller())
	book := &fakeBook{axieOrders: []*types.Order{&o}}

	provider := testutil.NewMockProvider()
	provider.CallFn = wealthy
	provider.NeverMine = true

	e := newTestExecutor(t, provider, book)

	result, err := e.BuyAxie(context.Background(), 123)
	require.NoError(t, err)
	require.Equal(t, StateTimedOut, result.State)
	require.NotEqual(t, common.Hash{}, result.TxHash)
	require.Nil(t, result.Receipt)
}

func TestBuyAxie_BookError(t *testing.T) {
	book := &fakeBook{axieErr: errors.New("gateway timeout")}

	e := newTestExecutor(t, testutil.NewMockProvider(), book)

	_, err := e.BuyAxie(context.Background(), 123)
	require.Error(t, err)
}

func TestBuyMaterial_Success(t *testing.T) {
	o := testutil.MaterialOrder("7", 20, "0.01", seller())
	book := &fakeBook{materialPage: types.OrderBookPage{Orders: []types.Order{o}}}

	provider := testutil.NewMockProvider()
	provider.CallFn = wealthy

	e := newTestExecutor(t, provider, book)

	result, err := e.BuyMaterial(context.Background(), "7", 5)
	require.NoError(t, err)
	require.Equal(t, StateSuccess, result.State)

	sent := provider.Sent()
	require.Len(t, sent, 1, "allowance already covers the cost, no approve needed")
	require.Equal(t, contracts.DefaultRegistry().Gateway, *sent[0].To())
}

func TestBuyMaterial_InvalidQuantity(t *testing.T) {
	e := newTestExecutor(t, testutil.NewMockProvider(), &fakeBook{})

	for _, quantity := range []int64{0, -3} {
		_, err := e.BuyMaterial(context.Background(), "7", quantity)
		require.ErrorIs(t, err, types.ErrInvalidQuantity)
	}
}

func TestBuyMaterial_NoOrderCoversQuantity(t *testing.T) {
	o := testutil.MaterialOrder("7", 20, "0.01", seller())
	book := &fakeBook{materialPage: types.OrderBookPage{Orders: []types.Order{o}}}

	provider := testutil.NewMockProvider()
	provider.CallFn = wealthy

	e := newTestExecutor(t, provider, book)

	result, err := e.BuyMaterial(context.Background(), "7", 50)
	require.NoError(t, err)
	require.Equal(t, StateRejected, result.State)
	require.Contains(t, result.Reason, "quantity")
	require.Empty(t, provider.Sent())
}

func TestBuyMaterial_ApprovesWhenAllowanceShort(t *testing.T) {
	o := testutil.MaterialOrder("7", 20, "0.01", seller())
	book := &fakeBook{materialPage: types.OrderBookPage{Orders: []types.Order{o}}}

	balanceOfID := contracts.ERC20ABI.Methods["balanceOf"].ID
	allowanceID := contracts.ERC20ABI.Methods["allowance"].ID

	provider := testutil.NewMockProvider()
	provider.CallFn = func(msg ethereum.CallMsg) ([]byte, error) {
		switch {
		case bytes.HasPrefix(msg.Data, balanceOfID):
			return testutil.Uint256Result(testutil.Wei("10")), nil
		case bytes.HasPrefix(msg.Data, allowanceID):
			return testutil.Uint256Result(big.NewInt(0)), nil
		}
		return nil, fmt.Errorf("unexpected contract read")
	}

	e := newTestExecutor(t, provider, book)

	result, err := e.BuyMaterial(context.Background(), "7", 5)
	require.NoError(t, err)
	require.Equal(t, StateSuccess, result.State)

	sent := provider.Sent()
	require.Len(t, sent, 2)

	registry := contracts.DefaultRegistry()
	approve, settle := sent[0], sent[1]
	require.Equal(t, registry.WETH, *approve.To())
	require.Zero(t, approve.GasPrice().Cmp(gwei(26)))
	require.Equal(t, registry.Gateway, *settle.To())
	require.Zero(t, settle.GasPrice().Cmp(gwei(20)))
}

func TestBuyMaterial_SkipsOwnOrders(t *testing.T) {
	mine := testutil.MaterialOrder("7", 20, "0.01", testutil.TestMaker())
	theirs := testutil.MaterialOrder("7", 20, "0.02", seller())
	book := &fakeBook{materialPage: types.OrderBookPage{Orders: []types.Order{mine, theirs}}}

	provider := testutil.NewMockProvider()
	provider.CallFn = wealthy

	e := newTestExecutor(t, provider, book)

	result, err := e.BuyMaterial(context.Background(), "7", 5)
	require.NoError(t, err)
	require.Equal(t, StateSuccess, result.State)
	require.Equal(t, theirs.ID, result.Order.ID)
}
