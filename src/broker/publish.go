package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"circle-stats/src/stats"
)

// BuildMessage is the payload published per build.
type BuildMessage struct {
	RunID string `json:"run_id"`
	stats.BuildRecord
}

// TestMessage is the payload published per test result.
type TestMessage struct {
	RunID string `json:"run_id"`
	stats.TestResultRecord
}

// PublishResult publishes every build on TopicBuilds and every test on TopicTests,
// keyed by build number so records of one build share a partition.
func PublishResult(ctx context.Context, b Broker, runID string, result *stats.Result) error {
	for _, build := range result.Builds {
		value, err := json.Marshal(BuildMessage{RunID: runID, BuildRecord: build})
		if err != nil {
			return fmt.Errorf("failed to marshal build %d: %w", build.BuildNum, err)
		}
		if err := b.Publish(ctx, TopicBuilds, strconv.Itoa(build.BuildNum), value); err != nil {
			return fmt.Errorf("failed to publish build %d: %w", build.BuildNum, err)
		}
	}

	for _, test := range result.Tests {
		value, err := json.Marshal(TestMessage{RunID: runID, TestResultRecord: test})
		if err != nil {
			return fmt.Errorf("failed to marshal test %s: %w", test.FullName, err)
		}
		if err := b.Publish(ctx, TopicTests, strconv.Itoa(test.BuildNum), value); err != nil {
			return fmt.Errorf("failed to publish test %s: %w", test.FullName, err)
		}
	}

	return nil
}
