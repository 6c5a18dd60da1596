package pricing

import (
	"context"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/roninmarket/marketbot/pkg/types"
)

// FloorSnapshot is one observed floor price, kept for the HTTP API.
type FloorSnapshot struct {
	Token     string      `json:"token"`
	Quote     types.Quote `json:"quote"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Watcher polls floor prices on an interval and retains the latest snapshot
// per token. The axie floor is tracked under the token name "axie"; material
// floors under their token IDs.
type Watcher struct {
	engine    *Engine
	materials []string
	interval  time.Duration
	logger    *zap.Logger

	mu        sync.RWMutex
	snapshots map[string]FloorSnapshot
}

// NewWatcher creates a watcher polling the axie floor plus the given material
// token IDs.
func NewWatcher(engine *Engine, materials []string, interval time.Duration, logger *zap.Logger) *Watcher {
	return &Watcher{
		engine:    engine,
		materials: materials,
		interval:  interval,
		logger:    logger,
		snapshots: make(map[string]FloorSnapshot),
	}
}

// Run polls until the context is canceled. One failing token does not stop
// the loop; its snapshot just goes stale.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info("floor-watcher-starting",
		zap.Duration("interval", w.interval),
		zap.Int("materials", len(w.materials)))

	w.poll(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("floor-watcher-stopping")
			return ctx.Err()
		case <-ticker.C:
			w.poll(ctx)
		}
	}
}

func (w *Watcher) poll(ctx context.Context) {
	quote, err := w.engine.AxieFloor(ctx)
	if err != nil {
		w.logger.Warn("axie-floor-poll-failed", zap.Error(err))
	} else {
		w.store("axie", quote)
	}

	for _, tokenID := range w.materials {
		quote, err := w.engine.MaterialFloor(ctx, tokenID, 0)
		if err != nil {
			w.logger.Warn("material-floor-poll-failed",
				zap.String("token-id", tokenID), zap.Error(err))
			continue
		}
		w.store(tokenID, quote)
	}
}

func (w *Watcher) store(token string, quote types.Quote) {
	w.mu.Lock()
	w.snapshots[token] = FloorSnapshot{
		Token:     token,
		Quote:     quote,
		UpdatedAt: time.Now(),
	}
	w.mu.Unlock()

	if price, err := strconv.ParseFloat(quote.UnitPrice, 64); err == nil {
		FloorPriceGauge.WithLabelValues(token).Set(price)
	}

	w.logger.Info("floor-observed",
		zap.String("token", token),
		zap.String("unit-price", quote.UnitPrice))
}

// Snapshots returns the latest snapshot per token.
func (w *Watcher) Snapshots() []FloorSnapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]FloorSnapshot, 0, len(w.snapshots))
	for _, s := range w.snapshots {
		out = append(out, s)
	}
	return out
}
