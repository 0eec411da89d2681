// Package runner executes catalog demos and records each execution as a run.
//
// A run moves from running to completed, failed or cancelled. Every state
// change is saved to run storage and reported to the metrics collector, and
// everything the demo prints is kept as the run's output.
package runner
