package provider

// PageSize is the number of builds the recent-builds endpoint returns per page.
const PageSize = 100

// Build status filters understood by the recent-builds endpoint.
const (
	FilterCompleted = "completed"
	FilterFailed    = "failed"
)

// Test results as reported in a build's test metadata.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// PageQuery selects one page of a project's build history.
type PageQuery struct {
	Organization string
	Repository   string
	Branch       string // empty for all branches
	Filter       string // FilterCompleted or FilterFailed
	Offset       int
	Limit        int
}

// BuildSummary is one entry of the recent-builds listing.
// StartTime and BuildTimeMillis are pointers because the API reports them as null
// for builds that never ran.
type BuildSummary struct {
	BuildNum        int
	StartTime       *string
	Status          string
	BuildTimeMillis *int64
	Branch          string
	JobName         string // empty when the build carries no workflow information
	WorkflowName    string
}

// BuildDetail holds the step breakdown of a single build.
type BuildDetail struct {
	BuildNum int
	Steps    []Step
}

// Step is a named unit of a build, made of one or more actions.
type Step struct {
	Name    string
	Actions []Action
}

// Action is a single command executed within a step.
type Action struct {
	Name   string
	Status string
}

// TestEntry is one test case from a build's test metadata.
type TestEntry struct {
	ClassName string
	Name      string
	Result    string
	RunTime   float64 // seconds
	Message   string
}
