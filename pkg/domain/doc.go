// Package domain holds the types shared by the runner, storage adapters and
// the CLI: demo runs and their status.
package domain
