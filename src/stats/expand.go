package stats

import (
	"context"
	"fmt"

	"circle-stats/src/provider"
)

// ExpandTests fetches a build's test metadata and flattens the entries whose result is
// in allowed. Source order is preserved; a build without tests yields an empty slice.
func ExpandTests(ctx context.Context, p provider.Provider, org, repo string, buildNum int, allowed map[string]bool) ([]TestResultRecord, error) {
	entries, err := p.BuildTests(ctx, org, repo, buildNum)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tests of build %d: %w", buildNum, err)
	}
	return filterTests(buildNum, entries, allowed), nil
}

func filterTests(buildNum int, entries []provider.TestEntry, allowed map[string]bool) []TestResultRecord {
	records := make([]TestResultRecord, 0, len(entries))
	for _, e := range entries {
		if !allowed[e.Result] {
			continue
		}
		records = append(records, TestResultRecord{
			BuildNum:  buildNum,
			TestClass: e.ClassName,
			TestName:  e.Name,
			FullName:  e.ClassName + "." + e.Name,
			Result:    e.Result,
			RunTime:   e.RunTime,
			Message:   e.Message,
		})
	}
	return records
}
