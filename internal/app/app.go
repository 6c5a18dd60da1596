// Package app wires and runs the long-lived watch mode: a floor price
// watcher behind an HTTP surface with metrics and health probes.
package app

import (
	"context"
	"sync"

	"github.com/roninmarket/marketbot/internal/marketplace"
	"github.com/roninmarket/marketbot/internal/pricing"
	"github.com/roninmarket/marketbot/pkg/cache"
	"github.com/roninmarket/marketbot/pkg/config"
	"github.com/roninmarket/marketbot/pkg/healthprobe"
	"github.com/roninmarket/marketbot/pkg/httpserver"
	"go.uber.org/zap"
)

// App is the watch mode orchestrator.
type App struct {
	cfg           *config.Config
	logger        *zap.Logger
	healthChecker *healthprobe.HealthChecker
	httpServer    *httpserver.Server
	book          *marketplace.Client
	metadata      cache.Cache
	watcher       *pricing.Watcher
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
}

// Options holds application options.
type Options struct {
	// Materials overrides the configured material token IDs to watch.
	Materials []string
}
