package stats

import (
	"context"
	"fmt"

	"circle-stats/src/provider"
)

// actionSuccess is the only action status that does not count as a failure.
const actionSuccess = "success"

// FirstFailingStep returns the name of the step holding the first action whose status
// is not "success", scanning steps and their actions in order. It returns "" when every
// action succeeded.
func FirstFailingStep(detail *provider.BuildDetail) string {
	if detail == nil {
		return ""
	}
	for _, step := range detail.Steps {
		for _, action := range step.Actions {
			if action.Status != actionSuccess {
				return step.Name
			}
		}
	}
	return ""
}

// AttributeFailure fetches a build's detail and returns its first failing step.
func AttributeFailure(ctx context.Context, p provider.Provider, org, repo string, buildNum int) (string, error) {
	detail, err := p.BuildDetail(ctx, org, repo, buildNum)
	if err != nil {
		return "", fmt.Errorf("failed to fetch detail of build %d: %w", buildNum, err)
	}
	return FirstFailingStep(detail), nil
}
