package domain

import (
	"errors"
	"time"
)

var (
	// ErrDemoNotFound is returned when a demo name is not in the catalog
	ErrDemoNotFound = errors.New("demo not found")

	// ErrRunNotFound is returned when a run ID has no stored record
	ErrRunNotFound = errors.New("run not found")
)

// RunStatus represents the lifecycle state of a demo run
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCancelled RunStatus = "cancelled"
)

// IsTerminal reports whether the run has finished
func (s RunStatus) IsTerminal() bool {
	return s == RunStatusCompleted || s == RunStatusFailed || s == RunStatusCancelled
}

// Run is the record of a single demo execution
type Run struct {
	ID          string     `json:"id" yaml:"id"`
	Demo        string     `json:"demo" yaml:"demo"`
	Status      RunStatus  `json:"status" yaml:"status"`
	Output      []string   `json:"output,omitempty" yaml:"output,omitempty"`
	Error       string     `json:"error,omitempty" yaml:"error,omitempty"`
	StartedAt   time.Time  `json:"started_at" yaml:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
}

// Duration returns how long the run took, or zero while it is still running
func (r *Run) Duration() time.Duration {
	if r.CompletedAt == nil {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt)
}

// Clone returns a copy that shares no mutable state with r
func (r *Run) Clone() *Run {
	c := *r
	if r.Output != nil {
		c.Output = append([]string(nil), r.Output...)
	}
	if r.CompletedAt != nil {
		t := *r.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}
