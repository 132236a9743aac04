// Package circleci provides a client for the CircleCI v1.1 REST API.
package circleci

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"circle-stats/src/provider"
)

const (
	// APIBaseURL is the base URL for the CircleCI v1.1 API.
	APIBaseURL = "https://circleci.com/api/v1.1"

	// DefaultVCS is the version control segment used in project URLs.
	DefaultVCS = "github"
)

// Client is a CircleCI API client.
type Client struct {
	apiToken   string
	httpClient *http.Client
	baseURL    string
	vcs        string
}

// Build is an entry of the recent-builds listing.
type Build struct {
	BuildNum        int        `json:"build_num"`
	Branch          string     `json:"branch"`
	Status          string     `json:"status"`
	StartTime       *string    `json:"start_time"`
	BuildTimeMillis *int64     `json:"build_time_millis"`
	Workflows       *Workflows `json:"workflows"`
}

// Workflows is the workflow metadata attached to builds that ran as part of a workflow.
type Workflows struct {
	JobName      string `json:"job_name"`
	WorkflowName string `json:"workflow_name"`
	WorkflowID   string `json:"workflow_id"`
}

// BuildDetail is the single-build document, including its steps.
type BuildDetail struct {
	BuildNum int    `json:"build_num"`
	Status   string `json:"status"`
	Steps    []Step `json:"steps"`
}

// Step is a named group of actions.
type Step struct {
	Name    string   `json:"name"`
	Actions []Action `json:"actions"`
}

// Action is a single executed command of a step.
type Action struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Step   int    `json:"step"`
	Index  int    `json:"index"`
}

// TestMetadata is the per-build test document.
type TestMetadata struct {
	Tests []Test `json:"tests"`
}

// Test is one recorded test case.
type Test struct {
	ClassName string  `json:"classname"`
	Name      string  `json:"name"`
	File      string  `json:"file"`
	Result    string  `json:"result"`
	RunTime   float64 `json:"run_time"`
	Message   *string `json:"message"`
	Source    string  `json:"source"`
}

// NewClient creates a new CircleCI API client.
func NewClient(apiToken string) *Client {
	return &Client{
		apiToken: apiToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: APIBaseURL,
		vcs:     DefaultVCS,
	}
}

// WithBaseURL points the client at a different API root (CircleCI server installs, tests).
func (c *Client) WithBaseURL(baseURL string) *Client {
	if baseURL != "" {
		c.baseURL = baseURL
	}
	return c
}

// WithVCS sets the version control segment ("github", "bitbucket").
func (c *Client) WithVCS(vcs string) *Client {
	if vcs != "" {
		c.vcs = vcs
	}
	return c
}

// projectURL returns {base}/project/{vcs}/{org}/{repo}.
func (c *Client) projectURL(org, repo string) string {
	return fmt.Sprintf("%s/project/%s/%s/%s", c.baseURL, c.vcs, url.PathEscape(org), url.PathEscape(repo))
}

// RecentBuildsURL builds the paginated build-history URL.
// The credential travels in a header, never in the query string.
func (c *Client) RecentBuildsURL(q provider.PageQuery) string {
	u := c.projectURL(q.Organization, q.Repository)
	if q.Branch != "" {
		u += "/tree/" + url.PathEscape(q.Branch)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = provider.PageSize
	}

	params := url.Values{}
	params.Set("limit", fmt.Sprintf("%d", limit))
	params.Set("offset", fmt.Sprintf("%d", q.Offset))
	params.Set("filter", q.Filter)

	return u + "?" + params.Encode()
}

// BuildURL returns the single-build URL.
func (c *Client) BuildURL(org, repo string, buildNum int) string {
	return fmt.Sprintf("%s/%d", c.projectURL(org, repo), buildNum)
}

// TestsURL returns the test metadata URL of a build.
func (c *Client) TestsURL(org, repo string, buildNum int) string {
	return fmt.Sprintf("%s/%d/tests", c.projectURL(org, repo), buildNum)
}

// GetRecentBuilds fetches one page of recent builds.
func (c *Client) GetRecentBuilds(ctx context.Context, q provider.PageQuery) ([]Build, error) {
	var builds []Build
	if err := c.getJSON(ctx, c.RecentBuildsURL(q), "recent builds response", &builds); err != nil {
		return nil, err
	}
	return builds, nil
}

// GetBuild fetches a build's detail document.
func (c *Client) GetBuild(ctx context.Context, org, repo string, buildNum int) (*BuildDetail, error) {
	var build BuildDetail
	if err := c.getJSON(ctx, c.BuildURL(org, repo, buildNum), "build detail response", &build); err != nil {
		return nil, err
	}
	return &build, nil
}

// GetTests fetches a build's test metadata.
func (c *Client) GetTests(ctx context.Context, org, repo string, buildNum int) (*TestMetadata, error) {
	var meta TestMetadata
	if err := c.getJSON(ctx, c.TestsURL(org, repo, buildNum), "test metadata response", &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// getJSON issues one GET against rawURL and decodes the JSON body into v.
func (c *Client) getJSON(ctx context.Context, rawURL, what string, v any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Circle-Token", c.apiToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &provider.TransportError{URL: rawURL, StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &provider.ParseError{What: what, Err: err}
	}

	return nil
}
