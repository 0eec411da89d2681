// Package ports defines the interfaces the application layer depends on.
package ports

import (
	"context"
	"time"

	"github.com/aescanero/rxplay/pkg/domain"
)

// RunStorage persists demo run records
type RunStorage interface {
	// SaveRun stores or replaces a run record
	SaveRun(ctx context.Context, run *domain.Run) error

	// GetRun returns the run with the given ID or domain.ErrRunNotFound
	GetRun(ctx context.Context, id string) (*domain.Run, error)

	// ListRuns returns all stored runs, oldest first
	ListRuns(ctx context.Context) ([]*domain.Run, error)

	// DeleteRun removes a run record
	DeleteRun(ctx context.Context, id string) error
}

// MetricsCollector records HTTP and demo metrics
type MetricsCollector interface {
	RecordHTTPRequest(method, path string, status int, duration time.Duration)
	RecordDemoRun(demo string, status domain.RunStatus, duration time.Duration)
	IncItemsEmitted(demo string)
}
