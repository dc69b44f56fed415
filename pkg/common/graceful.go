package common

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ShutdownHook is run after the stop signal and before the HTTP server shuts down. A
// failing hook is logged and shutdown continues.
type ShutdownHook func(ctx context.Context) error

// TimeoutConfig holds server and shutdown related timeouts.
type TimeoutConfig struct {
	ReadHeader time.Duration
	Read       time.Duration
	Write      time.Duration
	Idle       time.Duration
	Shutdown   time.Duration
	Hook       time.Duration
}

// NewServerWithTimeouts attaches timeout settings to an existing *http.Server or creates a new one if nil.
func NewServerWithTimeouts(base *http.Server, cfg TimeoutConfig) *http.Server {
	if base == nil {
		base = &http.Server{}
	}
	base.ReadHeaderTimeout = cfg.ReadHeader
	base.ReadTimeout = cfg.Read
	base.WriteTimeout = cfg.Write
	base.IdleTimeout = cfg.Idle
	return base
}

// RunServerWithShutdown serves until ctx is cancelled, then runs the hooks in order, each
// with its own timeout inside the overall shutdown deadline, and finally shuts the server
// down gracefully.
//
// Typical usage in main:
//
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//	err := common.RunServerWithShutdown(ctx, logger, server, "api", timeouts, closeRabbit)
func RunServerWithShutdown(ctx context.Context, logger *zap.Logger, server *http.Server, name string, timeouts TimeoutConfig, hooks ...ShutdownHook) error {
	const op = "common.RunServerWithShutdown"
	hookTimeout := timeouts.Hook
	if hookTimeout <= 0 {
		hookTimeout = 5 * time.Second
	}
	shutdownTimeout := timeouts.Shutdown
	if shutdownTimeout <= 0 {
		shutdownTimeout = 15 * time.Second
	}
	log := logger.With(zap.String("server", name), zap.String("addr", server.Addr))

	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("%s: %s listen: %w", op, name, err)
		}
		return nil
	case <-ctx.Done():
	}
	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	for i, h := range hooks {
		if h == nil {
			continue
		}
		hCtx, hCancel := context.WithTimeout(shutdownCtx, hookTimeout)
		if err := h(hCtx); err != nil {
			log.Warn("shutdown hook failed", zap.Int("hook", i), zap.Error(err))
		}
		if errors.Is(hCtx.Err(), context.DeadlineExceeded) {
			log.Warn("shutdown hook timed out", zap.Int("hook", i))
		}
		hCancel()
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("%s: %s shutdown: %w", op, name, err)
	}
	log.Info("shutdown complete")
	return nil
}
