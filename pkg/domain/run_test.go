package domain

import (
	"testing"
	"time"
)

func TestRunStatusIsTerminal(t *testing.T) {
	cases := []struct {
		status RunStatus
		want   bool
	}{
		{RunStatusRunning, false},
		{RunStatusCompleted, true},
		{RunStatusFailed, true},
		{RunStatusCancelled, true},
	}
	for _, c := range cases {
		if got := c.status.IsTerminal(); got != c.want {
			t.Errorf("%q.IsTerminal() = %v, want %v", c.status, got, c.want)
		}
	}
}

func TestRunDuration(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r := &Run{StartedAt: start}
	if d := r.Duration(); d != 0 {
		t.Fatalf("expected zero duration for running run, got %v", d)
	}

	end := start.Add(1500 * time.Millisecond)
	r.CompletedAt = &end
	if d := r.Duration(); d != 1500*time.Millisecond {
		t.Fatalf("expected 1.5s, got %v", d)
	}
}

func TestRunCloneIsIndependent(t *testing.T) {
	end := time.Now()
	r := &Run{ID: "a", Output: []string{"1", "2"}, CompletedAt: &end}

	c := r.Clone()
	c.Output[0] = "changed"
	*c.CompletedAt = end.Add(time.Hour)

	if r.Output[0] != "1" {
		t.Fatalf("clone shares output slice: %v", r.Output)
	}
	if !r.CompletedAt.Equal(end) {
		t.Fatalf("clone shares completion time")
	}
}
