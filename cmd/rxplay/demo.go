package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/aescanero/rxplay/pkg/api/http"
	"github.com/aescanero/rxplay/pkg/api/metrics"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func demoCmd(opts *rootOptions) *cobra.Command {
	var serve bool

	cmd := &cobra.Command{
		Use:   "demo <name>... | all",
		Short: "Run one or more demos",
		Long: "Run demos by name, or every demo with \"all\". Each emitted value is printed on its own line.\n" +
			"The api demos call the server at RXPLAY_SERVER_URL; pass --serve to start it in-process.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			names := args
			if len(args) == 1 && args[0] == "all" {
				names = nil
				for _, d := range a.runner.Catalog().List() {
					names = append(names, d.Name)
				}
			}

			if a.cfg.GetMetricsAddr() != "" {
				shutdown, err := a.serveMetrics()
				if err != nil {
					return err
				}
				defer shutdown()
			}

			if serve {
				shutdown, err := a.serveInProcess()
				if err != nil {
					return err
				}
				defer shutdown()
			}

			return a.runDemos(ctx, cmd, names)
		},
	}

	cmd.Flags().BoolVar(&serve, "serve", false, "start the hello-world server on port 5000 for the duration of the run")
	return cmd
}

// runDemos runs names in order, keeping going after a failed demo
func (a *app) runDemos(ctx context.Context, cmd *cobra.Command, names []string) error {
	out := cmd.OutOrStdout()
	var errs []error

	for _, name := range names {
		if len(names) > 1 {
			fmt.Fprintf(out, "== %s ==\n", name)
		}

		if _, err := a.runner.Run(ctx, name, out); err != nil {
			errs = append(errs, err)
			if ctx.Err() != nil {
				break
			}
		}
	}

	return errors.Join(errs...)
}

// serveInProcess binds port 5000 before returning so demos can call it
// straight away.
func (a *app) serveInProcess() (func(), error) {
	server := http.NewServer(&http.Config{
		Logger:  a.logger,
		Metrics: a.metrics,
	})

	l, err := net.Listen("tcp", server.Addr())
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", server.Addr(), err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := server.Serve(l); err != nil {
			a.logger.Error("HTTP server failed", zap.Error(err))
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Timeouts.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			a.logger.Error("HTTP server shutdown error", zap.Error(err))
		}
		<-done
	}, nil
}

// serveMetrics exposes the registry on RXPLAY_METRICS_PORT while demos run
func (a *app) serveMetrics() (func(), error) {
	server := metrics.NewServer(&metrics.Config{
		Addr:     a.cfg.GetMetricsAddr(),
		Gatherer: a.registry,
		Logger:   a.logger,
	})

	l, err := net.Listen("tcp", server.Addr())
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", server.Addr(), err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := server.Serve(l); err != nil {
			a.logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Timeouts.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			a.logger.Error("metrics server shutdown error", zap.Error(err))
		}
		<-done
	}, nil
}
