package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aescanero/rxplay/internal/application/demos"
	"github.com/aescanero/rxplay/internal/application/runner"
	"github.com/aescanero/rxplay/internal/config"
	promcollector "github.com/aescanero/rxplay/pkg/adapters/metrics/prometheus"
	"github.com/aescanero/rxplay/pkg/adapters/storage/memory"
	redisstorage "github.com/aescanero/rxplay/pkg/adapters/storage/redis"
	"github.com/aescanero/rxplay/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootOptions struct {
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "rxplay",
		Short:        "Reactive streams playground",
		Long:         "rxplay runs small reactive-stream demos against a one-route hello-world server on port 5000.",
		Version:      fmt.Sprintf("%s (built %s)", Version, BuildTime),
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error (overrides LOG_LEVEL)")

	cmd.AddCommand(
		serveCmd(opts),
		demoCmd(opts),
		listCmd(),
		runsCmd(opts),
	)
	return cmd
}

// app holds the components shared by the commands
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	metrics  *promcollector.Collector
	storage  ports.RunStorage
	runner   *runner.Runner

	redisClient goredis.UniversalClient
}

// newApp loads configuration and wires storage, metrics and the runner
func newApp(ctx context.Context, opts *rootOptions) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
	}

	logger := initLogger(cfg.LogLevel)

	a := &app{
		cfg:      cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
	}
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a.metrics = promcollector.NewCollector(a.registry)

	if cfg.UseRedis() {
		a.redisClient = goredis.NewClient(&goredis.Options{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			MaxRetries:   cfg.Redis.MaxRetries,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})

		if err := a.redisClient.Ping(ctx).Err(); err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		logger.Debug("connected to Redis", zap.String("addr", cfg.Redis.Addr))

		a.storage = redisstorage.NewRunStorage(a.redisClient, cfg.Runs.TTL, logger)
	} else {
		a.storage = memory.NewRunStorage()
	}

	a.runner = runner.NewRunner(
		demos.Builtin(),
		a.storage,
		a.metrics,
		demos.EnvConfig{
			Logger:    logger,
			Client:    &http.Client{Timeout: cfg.Timeouts.HTTPClientTimeout},
			ServerURL: cfg.ServerURL,
			Timing:    demos.DefaultTiming(),
		},
		logger,
		cfg.Runs.Timeout,
	)

	return a, nil
}

// Close releases the Redis client and flushes the logger
func (a *app) Close() {
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Error("Redis close error", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
