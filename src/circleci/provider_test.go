package circleci

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"circle-stats/src/provider"
)

func TestCircleCIProvider_Name(t *testing.T) {
	p := NewProvider(NewClient("fake-token"))
	if p.Name() != "circleci" {
		t.Errorf("Name() = %v, want circleci", p.Name())
	}
}

func TestCircleCIProvider_Mapping(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/project/github/acme/widgets", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"build_num": 9, "status": "failed", "branch": "main", "start_time": "2023-03-15T14:30:00Z",
			"build_time_millis": 1200, "workflows": {"job_name": "build", "workflow_name": "nightly"}},
			{"build_num": 8, "status": "success", "start_time": "2023-03-15T13:00:00Z", "build_time_millis": 900}]`))
	})
	mux.HandleFunc("/project/github/acme/widgets/9", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"build_num": 9, "steps": [
			{"name": "checkout", "actions": [{"name": "checkout", "status": "success"}]},
			{"name": "make test", "actions": [{"name": "make test", "status": "failed"}]}
		]}`))
	})
	mux.HandleFunc("/project/github/acme/widgets/9/tests", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tests": [{"classname": "pkg.Foo", "name": "TestBar", "result": "failure", "run_time": 2, "message": null}]}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	p := NewProvider(NewClient("fake-token").WithBaseURL(server.URL))
	ctx := context.Background()

	builds, err := p.RecentBuilds(ctx, provider.PageQuery{Organization: "acme", Repository: "widgets", Filter: provider.FilterFailed})
	if err != nil {
		t.Fatalf("RecentBuilds() error = %v", err)
	}
	if len(builds) != 2 {
		t.Fatalf("len(builds) = %d, want 2", len(builds))
	}
	if builds[0].JobName != "build" || builds[0].WorkflowName != "nightly" {
		t.Errorf("builds[0] workflow = %q/%q, want nightly/build", builds[0].WorkflowName, builds[0].JobName)
	}
	if builds[1].JobName != "" {
		t.Errorf("builds[1].JobName = %q, want empty", builds[1].JobName)
	}

	detail, err := p.BuildDetail(ctx, "acme", "widgets", 9)
	if err != nil {
		t.Fatalf("BuildDetail() error = %v", err)
	}
	if len(detail.Steps) != 2 || detail.Steps[1].Actions[0].Status != "failed" {
		t.Errorf("BuildDetail() steps = %+v", detail.Steps)
	}

	tests, err := p.BuildTests(ctx, "acme", "widgets", 9)
	if err != nil {
		t.Fatalf("BuildTests() error = %v", err)
	}
	if len(tests) != 1 {
		t.Fatalf("len(tests) = %d, want 1", len(tests))
	}
	if tests[0].Message != "" {
		t.Errorf("tests[0].Message = %q, want empty for null message", tests[0].Message)
	}
	if tests[0].RunTime != 2 {
		t.Errorf("tests[0].RunTime = %v, want 2", tests[0].RunTime)
	}
}

func TestCircleCIProvider_EmptyTests(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tests": []}`))
	}))
	defer server.Close()

	p := NewProvider(NewClient("fake-token").WithBaseURL(server.URL))

	tests, err := p.BuildTests(context.Background(), "acme", "widgets", 3)
	if err != nil {
		t.Fatalf("BuildTests() error = %v", err)
	}
	if len(tests) != 0 {
		t.Errorf("len(tests) = %d, want 0", len(tests))
	}
}
