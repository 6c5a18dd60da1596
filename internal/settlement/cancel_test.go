package settlement

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"

	"github.com/roninmarket/marketbot/internal/testutil"
	"github.com/roninmarket/marketbot/pkg/contracts"
	"github.com/roninmarket/marketbot/pkg/types"
)

func TestCancelAxieOrder(t *testing.T) {
	o := testutil.AxieOrder(123, "0.8", testutil.TestMaker())
	book := &fakeBook{axieOrders: []*types.Order{&o}}

	provider := testutil.NewMockProvider()

	e := newTestExecutor(t, provider, book)

	result, err := e.CancelAxieOrder(context.Background(), 123)
	if err != nil {
		t.Fatalf("CancelAxieOrder() error: %v", err)
	}
	if result.State != StateSuccess {
		t.Fatalf("State = %s, want success", result.State)
	}

	sent := provider.Sent()
	if len(sent) != 1 {
		t.Fatalf("sent %d transactions, want 1", len(sent))
	}

	tx := sent[0]
	if *tx.To() != contracts.DefaultRegistry().Gateway {
		t.Errorf("To = %s, want gateway", tx.To().Hex())
	}
	if tx.Gas() != 110_000 {
		t.Errorf("Gas = %d, want the fixed cancel limit", tx.Gas())
	}
	if tx.GasPrice().Cmp(gwei(30)) != 0 {
		t.Errorf("GasPrice = %s, want 30 gwei", tx.GasPrice())
	}
}

func TestCancelAxieOrder_NotListed(t *testing.T) {
	e := newTestExecutor(t, testutil.NewMockProvider(), &fakeBook{})

	_, err := e.CancelAxieOrder(context.Background(), 123)
	if !errors.Is(err, types.ErrNoActiveOrder) {
		t.Errorf("error = %v, want ErrNoActiveOrder", err)
	}
}

func TestCancelAxieOrder_ForeignMaker(t *testing.T) {
	o := testutil.AxieOrder(123, "0.8", seller())
	book := &fakeBook{axieOrders: []*types.Order{&o}}

	provider := testutil.NewMockProvider()

	e := newTestExecutor(t, provider, book)

	result, err := e.CancelAxieOrder(context.Background(), 123)
	if err != nil {
		t.Fatalf("CancelAxieOrder() error: %v", err)
	}
	if result.State != StateRejected {
		t.Errorf("State = %s, want rejected", result.State)
	}
	if len(provider.Sent()) != 0 {
		t.Error("cancellation of a foreign order should not submit anything")
	}
}

func TestCancelMaterialOrders(t *testing.T) {
	first := testutil.MaterialOrder("7", 20, "0.01", testutil.TestMaker())
	second := testutil.MaterialOrder("7", 5, "0.02", testutil.TestMaker())
	second.ID = "order-material-7b"
	book := &fakeBook{makerPage: types.OrderBookPage{Orders: []types.Order{first, second}}}

	provider := testutil.NewMockProvider()

	e := newTestExecutor(t, provider, book)

	summary, err := e.CancelMaterialOrders(context.Background(), "7")
	if err != nil {
		t.Fatalf("CancelMaterialOrders() error: %v", err)
	}

	if summary.TotalOrders != 2 || summary.Canceled != 2 || summary.Failed != 0 {
		t.Errorf("summary = %d/%d canceled, %d failed", summary.Canceled, summary.TotalOrders, summary.Failed)
	}
	if summary.RunID == "" {
		t.Error("summary has no run id")
	}
	if summary.Message != "canceled 2 of 2 orders" {
		t.Errorf("Message = %q", summary.Message)
	}
	if len(summary.CanceledOrders) != 2 {
		t.Fatalf("CanceledOrders = %d records", len(summary.CanceledOrders))
	}
	if summary.CanceledOrders[0].OrderID != first.ID {
		t.Errorf("first canceled = %s", summary.CanceledOrders[0].OrderID)
	}
	if len(provider.Sent()) != 2 {
		t.Errorf("sent %d transactions, want 2", len(provider.Sent()))
	}
}

func TestCancelMaterialOrders_NoOpenOrders(t *testing.T) {
	provider := testutil.NewMockProvider()

	e := newTestExecutor(t, provider, &fakeBook{})

	summary, err := e.CancelMaterialOrders(context.Background(), "7")
	if err != nil {
		t.Fatalf("CancelMaterialOrders() error: %v", err)
	}
	if summary.TotalOrders != 0 {
		t.Errorf("TotalOrders = %d, want 0", summary.TotalOrders)
	}
	if summary.Message != "no open orders to cancel" {
		t.Errorf("Message = %q", summary.Message)
	}
	if len(provider.Sent()) != 0 {
		t.Error("empty run should not submit anything")
	}
}

func TestCancelMaterialOrders_FailuresDoNotAbortRun(t *testing.T) {
	first := testutil.MaterialOrder("7", 20, "0.01", testutil.TestMaker())
	second := testutil.MaterialOrder("7", 5, "0.02", testutil.TestMaker())
	second.ID = "order-material-7b"
	book := &fakeBook{makerPage: types.OrderBookPage{Orders: []types.Order{first, second}}}

	provider := testutil.NewMockProvider()
	provider.SendErr = errors.New("nonce too low")

	e := newTestExecutor(t, provider, book)

	summary, err := e.CancelMaterialOrders(context.Background(), "7")
	if err != nil {
		t.Fatalf("CancelMaterialOrders() error: %v", err)
	}

	if summary.Failed != 2 || summary.Canceled != 0 {
		t.Errorf("summary = %d failed, %d canceled", summary.Failed, summary.Canceled)
	}
	if len(summary.FailedCancellations) != 2 {
		t.Fatalf("FailedCancellations = %d records", len(summary.FailedCancellations))
	}
	for _, failure := range summary.FailedCancellations {
		if failure.Reason == "" {
			t.Errorf("failure %s has no reason", failure.OrderID)
		}
	}
	if summary.Message != "canceled 0 of 2 orders" {
		t.Errorf("Message = %q", summary.Message)
	}
}

func TestDelistAllAxies_NoAxiesOwned(t *testing.T) {
	provider := testutil.NewMockProvider()
	provider.CallFn = func(msg ethereum.CallMsg) ([]byte, error) {
		return testutil.Uint256Result(big.NewInt(0)), nil
	}

	e := newTestExecutor(t, provider, &fakeBook{})

	result, err := e.DelistAllAxies(context.Background())
	if err != nil {
		t.Fatalf("DelistAllAxies() error: %v", err)
	}
	if result.State != StateNoop {
		t.Errorf("State = %s, want noop", result.State)
	}
	if len(provider.Sent()) != 0 {
		t.Error("delisting with no axies should not submit anything")
	}
}
