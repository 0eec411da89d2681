package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aescanero/rxplay/pkg/api/http"
	"github.com/aescanero/rxplay/pkg/api/metrics"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func serveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the hello-world endpoint on port 5000",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			a.logger.Info("starting rxplay",
				zap.String("version", Version),
				zap.String("build_time", BuildTime))

			return a.serve(ctx)
		},
	}
}

// serve runs the HTTP server, and the metrics server when configured,
// until ctx is done or one of them fails.
func (a *app) serve(ctx context.Context) error {
	httpServer := http.NewServer(&http.Config{
		Logger:  a.logger,
		Metrics: a.metrics,
	})

	var metricsServer *metrics.Server
	if addr := a.cfg.GetMetricsAddr(); addr != "" {
		metricsServer = metrics.NewServer(&metrics.Config{
			Addr:     addr,
			Gatherer: a.registry,
			Logger:   a.logger,
		})
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(httpServer.Start)
	if metricsServer != nil {
		g.Go(metricsServer.Start)
	}

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Timeouts.ShutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("HTTP server shutdown error", zap.Error(err))
		}
		if metricsServer != nil {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				a.logger.Error("metrics server shutdown error", zap.Error(err))
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	a.logger.Info("rxplay shut down complete")
	return nil
}
