package app

import (
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Run starts the application and blocks until shutdown.
func (a *App) Run() error {
	a.logger.Info("watch-starting",
		zap.Duration("poll-interval", a.cfg.FloorPollInterval),
		zap.String("log-level", a.cfg.LogLevel))

	a.startComponents()

	a.healthChecker.SetReady(true)

	a.logger.Info("watch-ready",
		zap.String("http-addr", ":"+a.cfg.HTTPPort),
		zap.String("graphql-url", a.cfg.GraphQLURL))

	return a.waitForShutdown()
}

func (a *App) startComponents() {
	a.wg.Add(1)
	go a.runHTTPServer()

	// Give the HTTP server a moment to bind before probes arrive
	time.Sleep(100 * time.Millisecond)

	a.wg.Add(1)
	go a.runWatcher()
}

func (a *App) runHTTPServer() {
	defer a.wg.Done()
	err := a.httpServer.Start()
	if err != nil {
		a.logger.Error("http-server-error", zap.Error(err))
		a.healthChecker.SetComponentReady("http", false)
	}
}

func (a *App) runWatcher() {
	defer a.wg.Done()
	err := a.watcher.Run(a.ctx)
	if err != nil && !errors.Is(err, a.ctx.Err()) {
		a.logger.Error("floor-watcher-error", zap.Error(err))
		a.healthChecker.SetComponentReady("watcher", false)
	}
}

func (a *App) waitForShutdown() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		a.logger.Info("shutdown-signal-received", zap.String("signal", sig.String()))
	case <-a.ctx.Done():
		a.logger.Info("context-cancelled")
	}

	return a.Shutdown()
}
