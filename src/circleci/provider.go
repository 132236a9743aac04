package circleci

import (
	"context"

	"circle-stats/src/provider"
)

// Provider implements provider.Provider for CircleCI
type Provider struct {
	client *Client
}

// NewProvider creates a CircleCI provider around an API client
func NewProvider(client *Client) *Provider {
	return &Provider{client: client}
}

// Name returns "circleci"
func (p *Provider) Name() string {
	return "circleci"
}

// RecentBuilds retrieves one page of build summaries
func (p *Provider) RecentBuilds(ctx context.Context, q provider.PageQuery) ([]provider.BuildSummary, error) {
	ciBuilds, err := p.client.GetRecentBuilds(ctx, q)
	if err != nil {
		return nil, err
	}

	builds := make([]provider.BuildSummary, 0, len(ciBuilds))
	for _, b := range ciBuilds {
		summary := provider.BuildSummary{
			BuildNum:        b.BuildNum,
			StartTime:       b.StartTime,
			Status:          b.Status,
			BuildTimeMillis: b.BuildTimeMillis,
			Branch:          b.Branch,
		}
		if b.Workflows != nil {
			summary.JobName = b.Workflows.JobName
			summary.WorkflowName = b.Workflows.WorkflowName
		}
		builds = append(builds, summary)
	}

	return builds, nil
}

// BuildDetail retrieves the steps of a build
func (p *Provider) BuildDetail(ctx context.Context, org, repo string, buildNum int) (*provider.BuildDetail, error) {
	ciBuild, err := p.client.GetBuild(ctx, org, repo, buildNum)
	if err != nil {
		return nil, err
	}

	detail := &provider.BuildDetail{
		BuildNum: buildNum,
		Steps:    make([]provider.Step, 0, len(ciBuild.Steps)),
	}
	for _, s := range ciBuild.Steps {
		step := provider.Step{
			Name:    s.Name,
			Actions: make([]provider.Action, 0, len(s.Actions)),
		}
		for _, a := range s.Actions {
			step.Actions = append(step.Actions, provider.Action{Name: a.Name, Status: a.Status})
		}
		detail.Steps = append(detail.Steps, step)
	}

	return detail, nil
}

// BuildTests retrieves the recorded tests of a build
func (p *Provider) BuildTests(ctx context.Context, org, repo string, buildNum int) ([]provider.TestEntry, error) {
	meta, err := p.client.GetTests(ctx, org, repo, buildNum)
	if err != nil {
		return nil, err
	}

	tests := make([]provider.TestEntry, 0, len(meta.Tests))
	for _, t := range meta.Tests {
		entry := provider.TestEntry{
			ClassName: t.ClassName,
			Name:      t.Name,
			Result:    t.Result,
			RunTime:   t.RunTime,
		}
		if t.Message != nil {
			entry.Message = *t.Message
		}
		tests = append(tests, entry)
	}

	return tests, nil
}
