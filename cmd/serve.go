package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/loanflow/internal/adapters/httpapi"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(app *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the loan session HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = app.cfg.GetString("server.addr")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runServer(ctx, app, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from server.addr)")

	return cmd
}

func runServer(ctx context.Context, app *app, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           httpapi.NewRouter(app.orchestrator, app.logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go runEvictionLoop(ctx, app, app.cfg.GetDuration("session.evict_interval"), app.cfg.GetDuration("session.evict_after"))

	serveErr := make(chan error, 1)
	go func() {
		app.logger.Info("http server listening", "addr", addr, "audit_dir", app.audit.Dir())
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	app.logger.Info("http server shutting down")
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

// runEvictionLoop drops terminal sessions older than maxAge until ctx ends.
func runEvictionLoop(ctx context.Context, app *app, interval, maxAge time.Duration) {
	if interval <= 0 || maxAge <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			evicted, err := app.orchestrator.EvictTerminal(ctx, maxAge)
			if err != nil {
				app.logger.Warn("evict terminal sessions", "error", err)
				continue
			}
			if evicted > 0 {
				app.logger.Info("evicted terminal sessions", "count", evicted)
			}
		}
	}
}
