package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"go-employee/internal/config"

	"go.uber.org/zap"
)

// StartHTTPServer serves handler until SIGINT/SIGTERM, then drains in-flight
// requests for at most cfg.ShutdownTimeout.
func StartHTTPServer(
	handler http.Handler,
	cfg config.ServerConfig,
	auditLogger AuditLogger,
	logger *zap.Logger,
) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return Serve(ctx, handler, cfg, auditLogger, logger)
}

// Serve is StartHTTPServer with the stop signal supplied by ctx.
func Serve(
	ctx context.Context,
	handler http.Handler,
	cfg config.ServerConfig,
	auditLogger AuditLogger,
	logger *zap.Logger,
) error {
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server running", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received")
	auditLogger.Log(context.Background(), AuditLog{
		Action:  "SERVER_SHUTDOWN",
		Message: "Server is shutting down",
		Meta: map[string]any{
			"port": cfg.Port,
		},
	})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
		return err
	}
	logger.Info("server exited gracefully")
	return nil
}
