// Package stats aggregates CircleCI build history into flat build and test records.
package stats

import (
	"strconv"
)

// BuildRecord is one fetched build, flattened for output.
type BuildRecord struct {
	BuildNum        int    `json:"build_num"`
	StartTime       string `json:"start_time"`
	Status          string `json:"status"`
	BuildTimeMillis int64  `json:"build_time_millis"`
	// FailureStep is empty unless failures were attributed and a failing step was found.
	FailureStep string `json:"failure_step"`
	JobName     string `json:"job_name,omitempty"`
}

// Row renders the record under its output column names.
func (r BuildRecord) Row() map[string]string {
	return map[string]string{
		"start_time":   r.StartTime,
		"status":       r.Status,
		"build_time":   strconv.FormatInt(r.BuildTimeMillis, 10),
		"failure_step": r.FailureStep,
		"job_name":     r.JobName,
	}
}

// TestResultRecord is one test case of a build.
type TestResultRecord struct {
	BuildNum  int     `json:"build"`
	TestClass string  `json:"test_class"`
	TestName  string  `json:"test_name"`
	FullName  string  `json:"full_name"`
	Result    string  `json:"result"`
	RunTime   float64 `json:"run_time"`
	Message   string  `json:"message"`
}

// Row renders the record under its output column names.
func (r TestResultRecord) Row() map[string]string {
	return map[string]string{
		"build":      strconv.Itoa(r.BuildNum),
		"test_class": r.TestClass,
		"test_name":  r.TestName,
		"full_name":  r.FullName,
		"result":     r.Result,
		"run_time":   strconv.FormatFloat(r.RunTime, 'f', -1, 64),
		"message":    r.Message,
	}
}

// Result holds everything collected by one run, in fetch order.
type Result struct {
	Builds []BuildRecord
	Tests  []TestResultRecord
}

// HasJobNames reports whether any build carried workflow job information.
func (r *Result) HasJobNames() bool {
	for _, b := range r.Builds {
		if b.JobName != "" {
			return true
		}
	}
	return false
}

// BuildRows returns the build records as output rows.
func (r *Result) BuildRows() []map[string]string {
	rows := make([]map[string]string, 0, len(r.Builds))
	for _, b := range r.Builds {
		rows = append(rows, b.Row())
	}
	return rows
}

// TestRows returns the test records as output rows.
func (r *Result) TestRows() []map[string]string {
	rows := make([]map[string]string, 0, len(r.Tests))
	for _, t := range r.Tests {
		rows = append(rows, t.Row())
	}
	return rows
}
