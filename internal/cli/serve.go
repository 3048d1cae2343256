package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	apphttp "runclub/internal/http"
	applog "runclub/internal/log"
)

const shutdownTimeout = 30 * time.Second

func newServeCommand(a *app) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tracker, dashboard and leaderboard pages over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if port == "" {
				port = a.cfg.Port
			}
			var ready func(context.Context) error
			if a.backend != nil {
				ready = a.backend.Ready
			}

			srv, err := apphttp.NewServer(apphttp.Options{
				Addr:               ":" + port,
				Ledger:             a.ledger,
				Identity:           a.identity,
				Ready:              ready,
				Logger:             a.logger,
				RateLimitPerMinute: a.cfg.RateLimitPerMinute,
			})
			if err != nil {
				return err
			}

			ctx, stop := GracefulShutdown(cmd.Context())
			defer stop()
			return serve(ctx, srv, a.logger)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (defaults to PORT or the config file)")
	return cmd
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, srv *apphttp.Server, logger *applog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting runclub server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
			return err
		}
		logger.Info("Server stopped gracefully")
		return nil
	})

	return g.Wait()
}
