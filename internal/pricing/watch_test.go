package pricing

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/roninmarket/marketbot/internal/testutil"
	"github.com/roninmarket/marketbot/pkg/types"
)

func TestWatcher_PollStoresSnapshots(t *testing.T) {
	book := &fakeBook{
		catalogue: []types.Order{testutil.AxieOrder(1, "0.8", seller())},
		materials: []types.Order{testutil.MaterialOrder("7", 3, "0.01", seller())},
	}
	engine := newTestEngine(book, testutil.TestMaker())
	watcher := NewWatcher(engine, []string{"7"}, time.Minute, zap.NewNop())

	watcher.poll(context.Background())

	snapshots := watcher.Snapshots()
	if len(snapshots) != 2 {
		t.Fatalf("Snapshots() returned %d entries, want 2", len(snapshots))
	}

	byToken := make(map[string]FloorSnapshot, len(snapshots))
	for _, s := range snapshots {
		byToken[s.Token] = s
	}

	if got := byToken["axie"].Quote.UnitPrice; got != "0.800000" {
		t.Errorf("axie floor = %s, want 0.800000", got)
	}
	if got := byToken["7"].Quote.UnitPrice; got != "0.010000" {
		t.Errorf("material floor = %s, want 0.010000", got)
	}
	if byToken["axie"].UpdatedAt.IsZero() {
		t.Error("snapshot missing update time")
	}
}

func TestWatcher_FailedTokenKeepsPreviousSnapshot(t *testing.T) {
	book := &fakeBook{
		catalogue: []types.Order{testutil.AxieOrder(1, "0.8", seller())},
		materials: []types.Order{testutil.MaterialOrder("7", 3, "0.01", seller())},
	}
	engine := newTestEngine(book, testutil.TestMaker())
	watcher := NewWatcher(engine, []string{"7"}, time.Minute, zap.NewNop())

	watcher.poll(context.Background())

	// Liquidity dries up; the old snapshot survives the failed poll
	book.materials = nil
	watcher.poll(context.Background())

	for _, s := range watcher.Snapshots() {
		if s.Token == "7" && s.Quote.UnitPrice != "0.010000" {
			t.Errorf("stale snapshot = %s, want previous 0.010000", s.Quote.UnitPrice)
		}
	}
}

func TestWatcher_RunStopsOnCancel(t *testing.T) {
	book := &fakeBook{
		catalogue: []types.Order{testutil.AxieOrder(1, "0.8", seller())},
	}
	engine := newTestEngine(book, testutil.TestMaker())
	watcher := NewWatcher(engine, nil, 10*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- watcher.Run(ctx)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run() error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run() did not stop after cancel")
	}

	if len(watcher.Snapshots()) == 0 {
		t.Error("no snapshots recorded before shutdown")
	}
}
