//go:build integration

package integration

import (
	"context"
	"os"
	"testing"

	"circle-stats/src/circleci"
	"circle-stats/src/config"
	"circle-stats/src/logger"
	"circle-stats/src/pipeline"
	"circle-stats/src/provider"
)

func TestCircleCIIntegration(t *testing.T) {
	if os.Getenv(config.EnvToken) == "" || os.Getenv(config.EnvOrganization) == "" {
		t.Skip("CI_TOKEN or GITHUB_USER not set, skipping integration test")
	}

	repo := os.Getenv("TEST_CIRCLE_REPO")
	if repo == "" {
		t.Skip("TEST_CIRCLE_REPO not set, skipping integration test")
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}

	client := circleci.NewClient(cfg.Token).WithBaseURL(cfg.APIBaseURL).WithVCS(cfg.VCSType)
	prov := circleci.NewProvider(client)

	builds, err := prov.RecentBuilds(context.Background(), provider.PageQuery{
		Organization: cfg.Organization,
		Repository:   repo,
		Filter:       provider.FilterCompleted,
		Limit:        provider.PageSize,
	})
	if err != nil {
		t.Fatalf("RecentBuilds failed: %v", err)
	}
	t.Logf("Fetched %d builds of %s/%s", len(builds), cfg.Organization, repo)
}

func TestCollectIntegration(t *testing.T) {
	repo := os.Getenv("TEST_CIRCLE_REPO")
	if os.Getenv(config.EnvToken) == "" || repo == "" {
		t.Skip("CI_TOKEN or TEST_CIRCLE_REPO not set, skipping integration test")
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}
	if err := cfg.ApplyArgs([]string{repo, "100", "-", string(config.ModeTestFailures)}); err != nil {
		t.Fatalf("ApplyArgs failed: %v", err)
	}
	cfg.OutputDir = t.TempDir()

	report, err := pipeline.Run(context.Background(), cfg, nil, logger.NewSilentLogger())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	t.Logf("Run %s wrote %v", report.Run.RunID, report.Files)
}
