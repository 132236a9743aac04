// Package store defines the interface for persisting collected build statistics.
package store

import (
	"context"
	"fmt"
	"time"

	"circle-stats/src/stats"
)

// RunInfo identifies one aggregation run.
type RunInfo struct {
	RunID        string
	Organization string
	Repository   string
	Branch       string
	Mode         string
	CollectedAt  time.Time
}

// Store defines the interface for persisting runs and their records.
type Store interface {
	// SaveRun saves a run together with all of its build and test records
	SaveRun(ctx context.Context, run RunInfo, result *stats.Result) error

	// GetRun returns the records saved for a run
	GetRun(ctx context.Context, runID string) (*stats.Result, error)

	// Close closes the store connection
	Close() error
}

// ErrNotFound is returned when a run does not exist.
type ErrNotFound struct {
	RunID string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("run not found: %s", e.RunID)
}

// NewRunID derives a run identifier from the project and collection time.
func NewRunID(org, repo string, at time.Time) string {
	return fmt.Sprintf("%s/%s@%s", org, repo, at.UTC().Format("20060102T150405Z"))
}
