// Package pipeline runs a full collection: aggregate, write output files, deliver to sinks.
// This package is used by both the CLI and the MCP server.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"circle-stats/src/circleci"
	"circle-stats/src/config"
	"circle-stats/src/logger"
	"circle-stats/src/output"
	"circle-stats/src/stats"
	"circle-stats/src/store"
	"circle-stats/src/timestamp"
)

// Report describes a completed run.
type Report struct {
	Run     store.RunInfo
	Files   []string
	Summary stats.Summary
}

// Collect runs the aggregator against the configured CircleCI API.
func Collect(ctx context.Context, cfg *config.Config, log logger.Logger) (*stats.Result, error) {
	normalizer, err := timestamp.New(cfg.Timezone)
	if err != nil {
		return nil, err
	}

	client := circleci.NewClient(cfg.Token).
		WithBaseURL(cfg.APIBaseURL).
		WithVCS(cfg.VCSType)

	log.Info("Collecting %d pages of %s/%s (mode %s)", cfg.PageCount, cfg.Organization, cfg.Repository, cfg.Mode)
	return stats.NewAggregator(cfg, circleci.NewProvider(client), normalizer, log).Run(ctx)
}

// NewRun describes a run of cfg started at the given time.
func NewRun(cfg *config.Config, at time.Time) store.RunInfo {
	return store.RunInfo{
		RunID:        store.NewRunID(cfg.Organization, cfg.Repository, at),
		Organization: cfg.Organization,
		Repository:   cfg.Repository,
		Branch:       cfg.Branch,
		Mode:         string(cfg.Mode),
		CollectedAt:  at.UTC(),
	}
}

// Run collects, writes build.csv and tests.csv (and the workbook when enabled), then delivers
// the run to the sinks. Nothing is written when collection fails.
func Run(ctx context.Context, cfg *config.Config, sinks *Sinks, log logger.Logger) (*Report, error) {
	run := NewRun(cfg, time.Now())

	result, err := Collect(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	files, err := output.WriteResult(cfg.OutputDir, result)
	if err != nil {
		return nil, fmt.Errorf("failed to write output: %w", err)
	}
	log.Info("Wrote %d builds and %d tests to %s", len(result.Builds), len(result.Tests), filepath.Clean(cfg.OutputDir))

	if cfg.XLSX {
		workbook, err := output.WriteResultXLSX(cfg.OutputDir, result)
		if err != nil {
			return nil, fmt.Errorf("failed to write workbook: %w", err)
		}
		files = append(files, workbook)
	}

	if sinks != nil {
		if err := sinks.Deliver(ctx, run, result, files); err != nil {
			return nil, err
		}
	}

	return &Report{
		Run:     run,
		Files:   files,
		Summary: stats.Summarize(result),
	}, nil
}
