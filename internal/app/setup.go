package app

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/roninmarket/marketbot/internal/marketplace"
	"github.com/roninmarket/marketbot/internal/pricing"
	"github.com/roninmarket/marketbot/pkg/cache"
	"github.com/roninmarket/marketbot/pkg/config"
	"github.com/roninmarket/marketbot/pkg/healthprobe"
	"github.com/roninmarket/marketbot/pkg/httpserver"
)

// New creates the watch application and wires its components.
func New(cfg *config.Config, logger *zap.Logger, opts *Options) (*App, error) {
	if opts == nil {
		opts = &Options{}
	}

	ctx, cancel := context.WithCancel(context.Background())

	metadata, err := cache.New(&cache.Config{Logger: logger})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("create metadata cache: %w", err)
	}

	session := config.SessionFromEnv()
	book := marketplace.NewClient(cfg.GraphQLURL, session, metadata, logger)

	// Watch mode holds no key; the zero address never matches a maker, so
	// no orders are excluded from the floor.
	engine := pricing.New(book, common.Address{}, logger)

	materials := cfg.WatchMaterials
	if len(opts.Materials) > 0 {
		materials = opts.Materials
	}

	watcher := pricing.NewWatcher(engine, materials, cfg.FloorPollInterval, logger)

	healthChecker := healthprobe.New("http", "watcher")

	httpServer := httpserver.New(&httpserver.Config{
		Port:          cfg.HTTPPort,
		Logger:        logger,
		HealthChecker: healthChecker,
		Floors:        watcher,
	})

	return &App{
		cfg:           cfg,
		logger:        logger,
		healthChecker: healthChecker,
		httpServer:    httpServer,
		book:          book,
		metadata:      metadata,
		watcher:       watcher,
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}
