package circleci

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"circle-stats/src/provider"
)

func TestNewClient(t *testing.T) {
	token := "test-api-token"
	client := NewClient(token)

	if client == nil {
		t.Fatal("NewClient() returned nil")
	}

	if client.apiToken != token {
		t.Errorf("NewClient() apiToken = %v, want %v", client.apiToken, token)
	}

	if client.httpClient == nil {
		t.Error("NewClient() httpClient is nil")
	}

	if client.baseURL != APIBaseURL {
		t.Errorf("NewClient() baseURL = %v, want %v", client.baseURL, APIBaseURL)
	}
}

func TestClient_RecentBuildsURL(t *testing.T) {
	client := NewClient("secret").WithBaseURL("https://ci.example.test/api/v1.1")

	tests := []struct {
		name  string
		query provider.PageQuery
		want  string
	}{
		{
			name:  "first page all branches",
			query: provider.PageQuery{Organization: "acme", Repository: "widgets", Filter: provider.FilterCompleted},
			want:  "https://ci.example.test/api/v1.1/project/github/acme/widgets?filter=completed&limit=100&offset=0",
		},
		{
			name:  "third page on a branch",
			query: provider.PageQuery{Organization: "acme", Repository: "widgets", Branch: "main", Filter: provider.FilterFailed, Offset: 200},
			want:  "https://ci.example.test/api/v1.1/project/github/acme/widgets/tree/main?filter=failed&limit=100&offset=200",
		},
		{
			name:  "branch with slash is escaped",
			query: provider.PageQuery{Organization: "acme", Repository: "widgets", Branch: "feature/x", Filter: provider.FilterFailed},
			want:  "https://ci.example.test/api/v1.1/project/github/acme/widgets/tree/feature%2Fx?filter=failed&limit=100&offset=0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := client.RecentBuildsURL(tt.query)
			if got != tt.want {
				t.Errorf("RecentBuildsURL() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClient_BuildAndTestsURL(t *testing.T) {
	client := NewClient("secret").WithBaseURL("https://ci.example.test/api/v1.1").WithVCS("bitbucket")

	if got, want := client.BuildURL("acme", "widgets", 42), "https://ci.example.test/api/v1.1/project/bitbucket/acme/widgets/42"; got != want {
		t.Errorf("BuildURL() = %v, want %v", got, want)
	}
	if got, want := client.TestsURL("acme", "widgets", 42), "https://ci.example.test/api/v1.1/project/bitbucket/acme/widgets/42/tests"; got != want {
		t.Errorf("TestsURL() = %v, want %v", got, want)
	}
}

func TestClient_GetRecentBuilds_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.Header.Get("Circle-Token") != "test-token" {
			t.Errorf("unexpected Circle-Token header: %s", r.Header.Get("Circle-Token"))
		}
		if r.URL.Query().Get("circle-token") != "" {
			t.Error("token must not be sent as a query parameter")
		}
		if r.URL.Path != "/project/github/acme/widgets" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("offset") != "100" {
			t.Errorf("unexpected offset: %s", r.URL.Query().Get("offset"))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`[
			{"build_num": 12, "status": "success", "start_time": "2023-03-15T14:30:00.000Z", "build_time_millis": 61000,
			 "workflows": {"job_name": "test", "workflow_name": "ci"}},
			{"build_num": 11, "status": "failed", "start_time": null, "build_time_millis": null}
		]`))
	}))
	defer server.Close()

	client := NewClient("test-token").WithBaseURL(server.URL)

	builds, err := client.GetRecentBuilds(context.Background(), provider.PageQuery{
		Organization: "acme",
		Repository:   "widgets",
		Filter:       provider.FilterCompleted,
		Offset:       100,
	})
	if err != nil {
		t.Fatalf("GetRecentBuilds() error = %v", err)
	}

	if len(builds) != 2 {
		t.Fatalf("len(builds) = %d, want 2", len(builds))
	}
	if builds[0].BuildNum != 12 || builds[0].Workflows == nil || builds[0].Workflows.JobName != "test" {
		t.Errorf("builds[0] = %+v, want build 12 with job test", builds[0])
	}
	if builds[0].BuildTimeMillis == nil || *builds[0].BuildTimeMillis != 61000 {
		t.Errorf("builds[0].BuildTimeMillis = %v, want 61000", builds[0].BuildTimeMillis)
	}
	if builds[1].StartTime != nil {
		t.Errorf("builds[1].StartTime = %v, want nil", *builds[1].StartTime)
	}
}

func TestClient_GetRecentBuilds_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message": "Project not found"}`))
	}))
	defer server.Close()

	client := NewClient("test-token").WithBaseURL(server.URL)

	_, err := client.GetRecentBuilds(context.Background(), provider.PageQuery{Organization: "acme", Repository: "nope"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var transportErr *provider.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected *provider.TransportError, got %T", err)
	}
	if transportErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", transportErr.StatusCode)
	}
	if transportErr.Body != `{"message": "Project not found"}` {
		t.Errorf("Body = %q", transportErr.Body)
	}
	if !errors.Is(err, provider.ErrBuildNotFound) {
		t.Error("errors.Is(err, ErrBuildNotFound) = false, want true")
	}
}

func TestClient_GetBuild_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"steps": [`))
	}))
	defer server.Close()

	client := NewClient("test-token").WithBaseURL(server.URL)

	_, err := client.GetBuild(context.Background(), "acme", "widgets", 7)
	var parseErr *provider.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *provider.ParseError, got %v", err)
	}
}

func TestClient_GetTests_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/project/github/acme/widgets/7/tests" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"tests": [
			{"classname": "classA", "name": "testX", "result": "failure", "run_time": 1.5, "message": "boom"},
			{"classname": "classA", "name": "testY", "result": "success", "run_time": 0.25, "message": null}
		]}`))
	}))
	defer server.Close()

	client := NewClient("test-token").WithBaseURL(server.URL)

	meta, err := client.GetTests(context.Background(), "acme", "widgets", 7)
	if err != nil {
		t.Fatalf("GetTests() error = %v", err)
	}
	if len(meta.Tests) != 2 {
		t.Fatalf("len(Tests) = %d, want 2", len(meta.Tests))
	}
	if meta.Tests[0].Message == nil || *meta.Tests[0].Message != "boom" {
		t.Errorf("Tests[0].Message = %v, want boom", meta.Tests[0].Message)
	}
	if meta.Tests[1].Message != nil {
		t.Errorf("Tests[1].Message = %v, want nil", *meta.Tests[1].Message)
	}
}
