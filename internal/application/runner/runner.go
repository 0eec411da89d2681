package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/aescanero/rxplay/internal/application/demos"
	"github.com/aescanero/rxplay/pkg/domain"
	"github.com/aescanero/rxplay/pkg/ports"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Runner coordinates demo execution
type Runner struct {
	catalog *demos.Catalog
	storage ports.RunStorage
	metrics ports.MetricsCollector
	logger  *zap.Logger
	env     demos.EnvConfig

	// Track active runs
	active sync.Map // map[string]context.CancelFunc

	// Configuration
	timeout time.Duration
}

// NewRunner creates a new demo runner. env is the template every run's
// environment is built from; its Out and OnPrint are set per run.
func NewRunner(
	catalog *demos.Catalog,
	storage ports.RunStorage,
	metrics ports.MetricsCollector,
	env demos.EnvConfig,
	logger *zap.Logger,
	timeout time.Duration,
) *Runner {
	if env.Logger == nil {
		env.Logger = logger
	}
	return &Runner{
		catalog: catalog,
		storage: storage,
		metrics: metrics,
		logger:  logger,
		env:     env,
		timeout: timeout,
	}
}

// Run executes the named demo, printing to out. The returned run is in a
// terminal state; a non-nil error means the demo did not complete.
func (r *Runner) Run(ctx context.Context, name string, out io.Writer) (*domain.Run, error) {
	demo, err := r.catalog.Get(name)
	if err != nil {
		return nil, err
	}

	run := &domain.Run{
		ID:        uuid.New().String(),
		Demo:      demo.Name,
		Status:    domain.RunStatusRunning,
		StartedAt: time.Now(),
	}

	if err := r.storage.SaveRun(ctx, run); err != nil {
		r.logger.Error("failed to save run",
			zap.String("run_id", run.ID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to save run: %w", err)
	}
	r.metrics.RecordDemoRun(demo.Name, domain.RunStatusRunning, 0)

	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	r.active.Store(run.ID, cancel)
	defer r.active.Delete(run.ID)

	// Env.Print serializes calls to OnPrint
	var output []string
	envCfg := r.env
	envCfg.Out = out
	envCfg.OnPrint = func(line string) {
		output = append(output, line)
		r.metrics.IncItemsEmitted(demo.Name)
	}

	r.logger.Info("demo started",
		zap.String("run_id", run.ID),
		zap.String("demo", demo.Name))

	runErr := demo.Run(runCtx, demos.NewEnv(envCfg))

	now := time.Now()
	run.Output = output
	run.CompletedAt = &now
	run.Status, run.Error = classify(runErr, runCtx, r.timeout)

	r.metrics.RecordDemoRun(demo.Name, run.Status, run.Duration())

	// The caller's context may already be done; the final state is saved regardless.
	saveCtx, saveCancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer saveCancel()
	if err := r.storage.SaveRun(saveCtx, run); err != nil {
		r.logger.Error("failed to save final run state",
			zap.String("run_id", run.ID),
			zap.Error(err))
		return run, fmt.Errorf("failed to save run: %w", err)
	}

	fields := []zap.Field{
		zap.String("run_id", run.ID),
		zap.String("demo", demo.Name),
		zap.String("status", string(run.Status)),
		zap.Duration("duration", run.Duration()),
		zap.Int("items", len(output)),
	}
	if run.Status != domain.RunStatusCompleted {
		r.logger.Warn("demo did not complete", append(fields, zap.String("error", run.Error))...)
		return run, fmt.Errorf("demo %s %s: %s", demo.Name, run.Status, run.Error)
	}
	r.logger.Info("demo completed", fields...)

	return run, nil
}

// classify maps a demo's return value to a terminal status and error text.
// Timeouts are failures, cancellation from the caller is not.
func classify(err error, runCtx context.Context, timeout time.Duration) (domain.RunStatus, string) {
	switch {
	case err == nil && runCtx.Err() == nil:
		return domain.RunStatusCompleted, ""
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(runCtx.Err(), context.DeadlineExceeded):
		return domain.RunStatusFailed, fmt.Sprintf("demo timed out after %s", timeout)
	case errors.Is(err, context.Canceled) || errors.Is(runCtx.Err(), context.Canceled):
		return domain.RunStatusCancelled, "run cancelled"
	default:
		return domain.RunStatusFailed, err.Error()
	}
}

// Cancel stops an active run
func (r *Runner) Cancel(id string) error {
	val, ok := r.active.Load(id)
	if !ok {
		return fmt.Errorf("%w: %s is not active", domain.ErrRunNotFound, id)
	}

	val.(context.CancelFunc)()
	r.logger.Info("demo run cancelled", zap.String("run_id", id))
	return nil
}

// Get retrieves a stored run
func (r *Runner) Get(ctx context.Context, id string) (*domain.Run, error) {
	run, err := r.storage.GetRun(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// List returns all stored runs, oldest first
func (r *Runner) List(ctx context.Context) ([]*domain.Run, error) {
	runs, err := r.storage.ListRuns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// Catalog returns the demos the runner can execute
func (r *Runner) Catalog() *demos.Catalog {
	return r.catalog
}

// Shutdown cancels every active run
func (r *Runner) Shutdown(ctx context.Context) error {
	r.logger.Info("shutting down runner")

	r.active.Range(func(key, value interface{}) bool {
		value.(context.CancelFunc)()
		return true
	})

	r.logger.Info("runner shut down complete")
	return nil
}
