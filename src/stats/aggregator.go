package stats

import (
	"context"
	"fmt"

	"circle-stats/src/config"
	"circle-stats/src/logger"
	"circle-stats/src/provider"
	"circle-stats/src/timestamp"
)

// Aggregator walks a bounded number of build-history pages and enriches each build.
// Calls are strictly sequential: one request in flight at any time.
type Aggregator struct {
	cfg        *config.Config
	provider   provider.Provider
	normalizer *timestamp.Normalizer
	log        logger.Logger
}

// NewAggregator creates an aggregator for one resolved configuration.
func NewAggregator(cfg *config.Config, p provider.Provider, n *timestamp.Normalizer, log logger.Logger) *Aggregator {
	return &Aggregator{
		cfg:        cfg,
		provider:   p,
		normalizer: n,
		log:        log,
	}
}

// Run fetches exactly cfg.PageCount pages. An empty page does not end the walk, since
// the API does not reliably signal the end of history.
// Any error aborts the run and discards what was collected so far.
func (a *Aggregator) Run(ctx context.Context) (*Result, error) {
	result := &Result{}

	for page := 0; page < a.cfg.PageCount; page++ {
		q := provider.PageQuery{
			Organization: a.cfg.Organization,
			Repository:   a.cfg.Repository,
			Branch:       a.cfg.Branch,
			Filter:       a.cfg.Filter(),
			Offset:       page * provider.PageSize,
			Limit:        provider.PageSize,
		}

		a.log.Debug("Fetching page %d (offset %d, filter %s)", page, q.Offset, q.Filter)
		summaries, err := a.provider.RecentBuilds(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch recent builds page %d: %w", page, err)
		}

		builds, tests, err := a.processPage(ctx, summaries)
		if err != nil {
			return nil, fmt.Errorf("failed to process page %d: %w", page, err)
		}

		result.Builds = append(result.Builds, builds...)
		result.Tests = append(result.Tests, tests...)
		a.log.Info("Page %d: %d builds, %d tests (total %d builds)", page, len(builds), len(tests), len(result.Builds))
	}

	return result, nil
}

// processPage turns one page of summaries into records, in page order.
func (a *Aggregator) processPage(ctx context.Context, summaries []provider.BuildSummary) ([]BuildRecord, []TestResultRecord, error) {
	builds := make([]BuildRecord, 0, len(summaries))
	var tests []TestResultRecord

	for _, s := range summaries {
		record, err := a.buildRecord(ctx, s)
		if err != nil {
			return nil, nil, err
		}

		if a.cfg.ExpandTests() {
			expanded, err := ExpandTests(ctx, a.provider, a.cfg.Organization, a.cfg.Repository, s.BuildNum, a.cfg.AllowedStatuses())
			if err != nil {
				return nil, nil, err
			}
			tests = append(tests, expanded...)
		}

		builds = append(builds, record)
	}

	return builds, tests, nil
}

func (a *Aggregator) buildRecord(ctx context.Context, s provider.BuildSummary) (BuildRecord, error) {
	ref := fmt.Sprintf("build %d", s.BuildNum)

	var failureStep string
	if a.cfg.AttributeFailures() {
		step, err := AttributeFailure(ctx, a.provider, a.cfg.Organization, a.cfg.Repository, s.BuildNum)
		if err != nil {
			return BuildRecord{}, err
		}
		failureStep = step
	}

	if s.StartTime == nil {
		return BuildRecord{}, &provider.SchemaError{Field: "start_time", Record: ref}
	}
	startTime, err := a.normalizer.Normalize(*s.StartTime)
	if err != nil {
		return BuildRecord{}, fmt.Errorf("%s: %w", ref, err)
	}

	if s.BuildTimeMillis == nil {
		return BuildRecord{}, &provider.SchemaError{Field: "build_time_millis", Record: ref}
	}

	return BuildRecord{
		BuildNum:        s.BuildNum,
		StartTime:       startTime,
		Status:          s.Status,
		BuildTimeMillis: *s.BuildTimeMillis,
		FailureStep:     failureStep,
		JobName:         s.JobName,
	}, nil
}
