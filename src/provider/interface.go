package provider

import (
	"context"
)

// Provider defines the read-only operations the stats pipeline needs from a CI service.
type Provider interface {
	// Name returns the provider name (e.g., "circleci")
	Name() string

	// RecentBuilds retrieves one page of build summaries, in provider order
	RecentBuilds(ctx context.Context, q PageQuery) ([]BuildSummary, error)

	// BuildDetail retrieves the steps and actions of a build
	BuildDetail(ctx context.Context, org, repo string, buildNum int) (*BuildDetail, error)

	// BuildTests retrieves per-test results recorded for a build
	BuildTests(ctx context.Context, org, repo string, buildNum int) ([]TestEntry, error)
}
