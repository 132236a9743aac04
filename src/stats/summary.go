package stats

import (
	"sort"

	"github.com/montanaflynn/stats"

	"circle-stats/src/provider"
)

// failedStatuses are the build statuses counted as failures.
var failedStatuses = map[string]bool{
	"failed":              true,
	"timedout":            true,
	"infrastructure_fail": true,
}

// IsFailedStatus reports whether a build status counts as a failure.
func IsFailedStatus(status string) bool {
	return failedStatuses[status]
}

// Summary condenses a Result for logs and the MCP tool.
type Summary struct {
	Builds            int     `json:"builds"`
	FailedBuilds      int     `json:"failed_builds"`
	FailureRate       float64 `json:"failure_rate"`
	MeanBuildMillis   float64 `json:"mean_build_millis"`
	MedianBuildMillis float64 `json:"median_build_millis"`
	P90BuildMillis    float64 `json:"p90_build_millis"`

	// FailureSteps counts attributed failing steps.
	FailureSteps []StepCount `json:"failure_steps,omitempty"`

	Tests        int `json:"tests"`
	TestFailures int `json:"test_failures"`
	// MedianRunTimeByClass is the median test run time in seconds per test class.
	MedianRunTimeByClass map[string]float64 `json:"median_run_time_by_class,omitempty"`
}

// StepCount is the number of builds that failed in a step.
type StepCount struct {
	Step  string `json:"step"`
	Count int    `json:"count"`
}

// Summarize computes build time and failure statistics.
func Summarize(r *Result) Summary {
	var s Summary
	if r == nil {
		return s
	}

	s.Builds = len(r.Builds)
	durations := make(stats.Float64Data, 0, len(r.Builds))
	steps := make(map[string]int)
	for _, b := range r.Builds {
		durations = append(durations, float64(b.BuildTimeMillis))
		if IsFailedStatus(b.Status) {
			s.FailedBuilds++
		}
		if b.FailureStep != "" {
			steps[b.FailureStep]++
		}
	}

	if s.Builds > 0 {
		s.FailureRate = float64(s.FailedBuilds) / float64(s.Builds)
		s.MeanBuildMillis, _ = durations.Mean()
		s.MedianBuildMillis, _ = durations.Median()
		s.P90BuildMillis, _ = durations.Percentile(90)
	}

	for step, count := range steps {
		s.FailureSteps = append(s.FailureSteps, StepCount{Step: step, Count: count})
	}
	sort.Slice(s.FailureSteps, func(i, j int) bool {
		if s.FailureSteps[i].Count != s.FailureSteps[j].Count {
			return s.FailureSteps[i].Count > s.FailureSteps[j].Count
		}
		return s.FailureSteps[i].Step < s.FailureSteps[j].Step
	})

	s.Tests = len(r.Tests)
	byClass := make(map[string]stats.Float64Data)
	for _, t := range r.Tests {
		if t.Result == provider.ResultFailure {
			s.TestFailures++
		}
		byClass[t.TestClass] = append(byClass[t.TestClass], t.RunTime)
	}
	if len(byClass) > 0 {
		s.MedianRunTimeByClass = make(map[string]float64, len(byClass))
		for class, times := range byClass {
			median, err := times.Median()
			if err != nil {
				continue
			}
			s.MedianRunTimeByClass[class] = median
		}
	}

	return s
}
