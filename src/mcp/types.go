// Package mcp exposes build statistics collection as MCP tools.
package mcp

import (
	"circle-stats/src/stats"
)

// CollectResponse is returned by the collect_build_stats tool.
// Only failing rows are included to keep the payload small; get_run returns everything.
type CollectResponse struct {
	RunID        string                   `json:"run_id"`
	Organization string                   `json:"organization"`
	Repository   string                   `json:"repository"`
	Branch       string                   `json:"branch,omitempty"`
	Mode         string                   `json:"mode"`
	Summary      stats.Summary            `json:"summary"`
	FailedBuilds []stats.BuildRecord      `json:"failed_builds"`
	FailedTests  []stats.TestResultRecord `json:"failed_tests"`
}

// RunResponse is returned by the get_run tool.
type RunResponse struct {
	RunID  string                   `json:"run_id"`
	Builds []stats.BuildRecord      `json:"builds"`
	Tests  []stats.TestResultRecord `json:"tests"`
}
