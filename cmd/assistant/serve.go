// cmd/assistant/serve.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jira-assistant/internal/common/config"
	"jira-assistant/internal/common/logger"
	"jira-assistant/internal/server"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// evictInterval is how often idle sessions are dropped from memory.
const evictInterval = 5 * time.Minute

func newServeCommand() *cobra.Command {
	var debug bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP chat service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), debug)
		},
	}
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable gin debug mode")
	return cmd
}

func runServe(ctx context.Context, debug bool) error {
	cfg, err := configure(configPath)
	if err != nil {
		return err
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	a, err := newApp(ctx, cfg, zapLog, 15)
	if err != nil {
		zapLog.Error("startup failed", zap.Error(err))
		return err
	}
	defer a.Close()

	srvCfg := server.LoadConfig()
	srvCfg.ServiceName = cfg.App.Name
	srvCfg.Debug = debug
	srvCfg.RequestTimeout = config.GetDuration(cfg.Server.WriteTimeout)

	opts := []server.Option{
		server.WithDispatcher(a.dispatcher),
		server.WithGeneratorProbe(a.generator),
		server.WithJiraConfigured(cfg.Jira.Configured()),
	}
	for name, check := range a.checks {
		opts = append(opts, server.WithReadinessCheck(name, check))
	}
	srv := server.New(srvCfg, a.router, a.sessions, a.log, opts...)

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      srv.Router(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	// --- Session eviction ---
	evictCtx, stopEvict := context.WithCancel(ctx)
	defer stopEvict()
	go func() {
		ticker := time.NewTicker(evictInterval)
		defer ticker.Stop()
		for {
			select {
			case <-evictCtx.Done():
				return
			case now := <-ticker.C:
				a.sessions.Evict(now)
			}
		}
	}()

	serveErr := make(chan error, 1)
	go func() {
		zapLog.Info("HTTP server listening",
			zap.String("addr", httpServer.Addr),
			zap.String("environment", cfg.App.Environment),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case <-sigCh:
		zapLog.Info("Shutdown signal received, stopping server...")
	case err, ok := <-serveErr:
		if ok {
			zapLog.Error("HTTP server failed", zap.Error(err))
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
		return err
	}

	zapLog.Info("Assistant stopped gracefully")
	return nil
}
