package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"circle-stats/src/config"
	"circle-stats/src/logger"
	"circle-stats/src/pipeline"
	"circle-stats/src/provider"
	"circle-stats/src/sanitize"
	"circle-stats/src/stats"
	"circle-stats/src/store"
)

// maxMessageWidth bounds failure messages in collect_build_stats responses.
const maxMessageWidth = 500

// Server is the MCP server for circle-stats.
type Server struct {
	mcpServer *server.MCPServer
	store     *store.MemoryStore
	log       logger.Logger
	now       func() time.Time
}

// NewServer creates a new MCP server. Logging must not write to stdout, which carries the protocol.
func NewServer(log logger.Logger) *Server {
	s := server.NewMCPServer(
		"circle-stats",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	srv := &Server{
		mcpServer: s,
		store:     store.NewMemoryStore(),
		log:       log,
		now:       time.Now,
	}
	srv.registerTools()

	return srv
}

// registerTools registers all available tools.
func (s *Server) registerTools() {
	collectTool := mcp.NewTool("collect_build_stats",
		mcp.WithDescription("Collect recent CircleCI build statistics for a repository of the configured organization. Returns build time and failure statistics plus the failed builds (with the failing step) and failed tests. Use get_run with the returned run_id for every collected row."),
		mcp.WithString("repository",
			mcp.Required(),
			mcp.Description("Repository (project) name"),
		),
		mcp.WithNumber("builds",
			mcp.Description("Number of recent builds to scan, a multiple of 100 (default: 100)"),
		),
		mcp.WithString("branch",
			mcp.Description("Restrict to one branch (default: all branches)"),
		),
		mcp.WithString("mode",
			mcp.Description("default, build_failures or test_failures"),
			mcp.Enum(string(config.ModeDefault), string(config.ModeBuildFailures), string(config.ModeTestFailures)),
		),
	)

	runTool := mcp.NewTool("get_run",
		mcp.WithDescription("Get every build and test record of a previous collect_build_stats call."),
		mcp.WithString("run_id",
			mcp.Required(),
			mcp.Description("Run ID from collect_build_stats response"),
		),
	)

	s.mcpServer.AddTool(collectTool, s.handleCollectBuildStats)
	s.mcpServer.AddTool(runTool, s.handleGetRun)
}

// Run starts the MCP server on stdio.
func (s *Server) Run() error {
	return server.ServeStdio(s.mcpServer)
}

// handleCollectBuildStats handles the collect_build_stats tool call.
func (s *Server) handleCollectBuildStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	repository := request.GetString("repository", "")
	if repository == "" {
		return mcp.NewToolResultError("repository parameter is required"), nil
	}

	branch := request.GetString("branch", "")
	if branch == "" {
		branch = "-"
	}
	args := []string{
		repository,
		strconv.Itoa(request.GetInt("builds", config.DefaultBuilds)),
		branch,
		request.GetString("mode", string(config.ModeDefault)),
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return mcp.NewToolResultError(provider.WrapError(err).Error()), nil
	}
	if err := cfg.ApplyArgs(args); err != nil {
		return mcp.NewToolResultError(provider.WrapError(err).Error()), nil
	}

	result, err := pipeline.Collect(ctx, cfg, s.log)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("collection failed: %v", provider.WrapError(err))), nil
	}

	run := pipeline.NewRun(cfg, s.now())
	if err := s.store.SaveRun(ctx, run, result); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to keep run: %v", err)), nil
	}

	response := CollectResponse{
		RunID:        run.RunID,
		Organization: run.Organization,
		Repository:   run.Repository,
		Branch:       run.Branch,
		Mode:         run.Mode,
		Summary:      stats.Summarize(result),
		FailedBuilds: failedBuilds(result),
		FailedTests:  failedTests(result),
	}
	return jsonResult(response)
}

// handleGetRun handles the get_run tool call.
func (s *Server) handleGetRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	runID := request.GetString("run_id", "")
	if runID == "" {
		return mcp.NewToolResultError("run_id parameter is required"), nil
	}

	result, err := s.store.GetRun(ctx, runID)
	if err != nil {
		var notFound store.ErrNotFound
		if errors.As(err, &notFound) {
			return mcp.NewToolResultError(notFound.Error()), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to load run: %v", err)), nil
	}

	return jsonResult(RunResponse{
		RunID:  runID,
		Builds: nonNil(result.Builds),
		Tests:  nonNil(result.Tests),
	})
}

func failedBuilds(r *stats.Result) []stats.BuildRecord {
	builds := []stats.BuildRecord{}
	for _, b := range r.Builds {
		if b.FailureStep != "" || stats.IsFailedStatus(b.Status) {
			builds = append(builds, b)
		}
	}
	return builds
}

func failedTests(r *stats.Result) []stats.TestResultRecord {
	tests := []stats.TestResultRecord{}
	for _, t := range r.Tests {
		if t.Result == provider.ResultFailure {
			t.Message = sanitize.Message(t.Message, maxMessageWidth)
			tests = append(tests, t)
		}
	}
	return tests
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
