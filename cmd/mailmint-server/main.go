package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mailmint/inbound/internal/adapters/httpserver"
	"github.com/mailmint/inbound/internal/config"
	"github.com/mailmint/inbound/internal/core"
	"github.com/mailmint/inbound/internal/di"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	cfg *config.Config,
	logger *zap.Logger,
	server *httpserver.Server,
	store core.EmailStore,
	notifier core.WorkflowNotifier,
	dedupFilter core.DedupFilter,
) error {
	defer logger.Sync()

	address := cfg.GetString("server.listen_address")
	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Error("HTTP server failed", zap.Error(err))
		return err
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownTimeout, err := cfg.GetDuration("server.shutdown_timeout")
	if err != nil {
		shutdownTimeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("failed to shut down HTTP server", zap.Error(err))
	}

	// Close any resources that need closing
	if closer, ok := store.(interface{ Close() }); ok {
		closer.Close()
	}
	if closer, ok := notifier.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("failed to close workflow notifier", zap.Error(err))
		}
	}
	if closer, ok := dedupFilter.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("failed to close dedup filter", zap.Error(err))
		}
	}

	logger.Info("shutdown complete")
	return nil
}
