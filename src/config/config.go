// Package config provides configuration management for circle-stats.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"circle-stats/src/provider"
)

// Environment variables read at startup.
const (
	EnvOrganization = "GITHUB_USER"
	EnvToken        = "CI_TOKEN"
	EnvAPIURL       = "CIRCLE_API_URL"
	EnvVCS          = "CIRCLE_VCS"
	EnvTimezone     = "CIRCLE_STATS_TZ"
	EnvLogLevel     = "LOGLEVEL"
	EnvPostgresDSN  = "POSTGRES_DSN"
	EnvBrokers      = "REDPANDA_BROKERS"
	EnvS3Bucket     = "S3_BUCKET"
	EnvS3Region     = "AWS_REGION"
	EnvS3Prefix     = "S3_PREFIX"
)

// DefaultBuilds is the number of builds scanned when none is given.
const DefaultBuilds = provider.PageSize

// Mode selects which enrichment the aggregator performs.
type Mode string

const (
	ModeDefault       Mode = "default"
	ModeBuildFailures Mode = "build_failures"
	ModeTestFailures  Mode = "test_failures"
)

// ParseMode maps a CLI keyword to a Mode. An empty keyword selects ModeDefault.
func ParseMode(keyword string) (Mode, error) {
	switch Mode(strings.TrimSpace(keyword)) {
	case "", ModeDefault:
		return ModeDefault, nil
	case ModeBuildFailures:
		return ModeBuildFailures, nil
	case ModeTestFailures:
		return ModeTestFailures, nil
	}
	return "", &provider.ConfigError{
		Setting: "mode",
		Reason:  fmt.Sprintf("unknown mode %q (want %s or %s)", keyword, ModeBuildFailures, ModeTestFailures),
	}
}

// Config holds the application configuration.
type Config struct {
	// Organization owns the project (GITHUB_USER).
	Organization string
	// Repository is the project name.
	Repository string
	// Token is the CircleCI API token (CI_TOKEN). Sent as a header only.
	Token string
	// Branch restricts the build history to one branch; empty means all branches.
	Branch string
	// PageCount is the number of 100-build pages to fetch.
	PageCount int
	// Mode selects failure attribution and test filtering.
	Mode Mode

	APIBaseURL string
	VCSType    string
	Timezone   string
	LogLevel   string

	// OutputDir receives build.csv and tests.csv.
	OutputDir string
	// XLSX additionally writes a workbook next to the CSV files.
	XLSX bool

	PostgresDSN  string
	KafkaBrokers []string
	S3Bucket     string
	S3Region     string
	S3Prefix     string
}

// Filter is the upstream build status filter implied by the mode.
func (c *Config) Filter() string {
	switch c.Mode {
	case ModeBuildFailures, ModeTestFailures:
		return provider.FilterFailed
	}
	return provider.FilterCompleted
}

// AttributeFailures reports whether failing steps are looked up for each build.
func (c *Config) AttributeFailures() bool {
	return c.Filter() == provider.FilterFailed
}

// ExpandTests reports whether per-test results are fetched for each build.
func (c *Config) ExpandTests() bool {
	return c.Mode != ModeBuildFailures
}

// AllowedStatuses is the set of test results kept when expanding tests.
func (c *Config) AllowedStatuses() map[string]bool {
	if c.Mode == ModeTestFailures {
		return map[string]bool{provider.ResultFailure: true}
	}
	return map[string]bool{provider.ResultSuccess: true, provider.ResultFailure: true}
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault(EnvAPIURL, "https://circleci.com/api/v1.1")
	v.SetDefault(EnvVCS, "github")
	v.SetDefault(EnvTimezone, "America/New_York")
	v.SetDefault(EnvLogLevel, "warn")
	v.SetDefault(EnvS3Region, "us-east-1")
	v.SetDefault(EnvS3Prefix, "circle-stats")

	org := v.GetString(EnvOrganization)
	if org == "" {
		return nil, &provider.ConfigError{Setting: EnvOrganization, Reason: "environment variable is required"}
	}

	token := v.GetString(EnvToken)
	if token == "" {
		return nil, &provider.ConfigError{Setting: EnvToken, Reason: "environment variable is required"}
	}

	return &Config{
		Organization: org,
		Token:        token,
		PageCount:    DefaultBuilds / provider.PageSize,
		Mode:         ModeDefault,
		APIBaseURL:   strings.TrimRight(v.GetString(EnvAPIURL), "/"),
		VCSType:      v.GetString(EnvVCS),
		Timezone:     v.GetString(EnvTimezone),
		LogLevel:     v.GetString(EnvLogLevel),
		OutputDir:    ".",
		PostgresDSN:  v.GetString(EnvPostgresDSN),
		KafkaBrokers: splitList(v.GetString(EnvBrokers)),
		S3Bucket:     v.GetString(EnvS3Bucket),
		S3Region:     v.GetString(EnvS3Region),
		S3Prefix:     v.GetString(EnvS3Prefix),
	}, nil
}

// ApplyArgs resolves the positional arguments: repository [builds] [branch] [mode].
// A branch of "" or "-" means all branches.
func (c *Config) ApplyArgs(args []string) error {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return &provider.ConfigError{Setting: "repository", Reason: "argument is required"}
	}
	if len(args) > 4 {
		return &provider.ConfigError{Setting: "arguments", Reason: fmt.Sprintf("expected at most 4, got %d", len(args))}
	}
	c.Repository = args[0]

	if len(args) > 1 {
		pages, err := parseBuilds(args[1])
		if err != nil {
			return err
		}
		c.PageCount = pages
	}

	if len(args) > 2 && args[2] != "-" {
		c.Branch = args[2]
	}

	if len(args) > 3 {
		mode, err := ParseMode(args[3])
		if err != nil {
			return err
		}
		c.Mode = mode
	}

	return nil
}

// parseBuilds converts a build count into a page count. The count must be a positive
// multiple of the page size.
func parseBuilds(raw string) (int, error) {
	builds, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &provider.ConfigError{Setting: "builds", Reason: fmt.Sprintf("%q is not a number", raw)}
	}
	if builds <= 0 || builds%provider.PageSize != 0 {
		return 0, &provider.ConfigError{
			Setting: "builds",
			Reason:  fmt.Sprintf("%d is not a positive multiple of %d", builds, provider.PageSize),
		}
	}
	return builds / provider.PageSize, nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
