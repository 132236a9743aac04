// Package main provides the circle-stats CLI.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"circle-stats/src/config"
	"circle-stats/src/logger"
	"circle-stats/src/pipeline"
	"circle-stats/src/provider"
)

var (
	outputDir string
	writeXLSX bool
	timezone  string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "circle-stats <repository> [builds] [branch] [build_failures|test_failures]",
	Short: "circle-stats - CircleCI build and test statistics as CSV",
	Long: `circle-stats scans the recent CircleCI build history of a project and writes
build.csv and tests.csv.

  builds   number of recent builds to scan, a multiple of 100 (default 100)
  branch   restrict to one branch; "-" scans all branches
  mode     build_failures: failed builds with the failing step, no tests
           test_failures:  failed builds with the failing step and failed tests

GITHUB_USER names the organization and CI_TOKEN holds the API token.
Set POSTGRES_DSN, REDPANDA_BROKERS or S3_BUCKET to also deliver each run there.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runCollect,
}

func init() {
	rootCmd.Flags().StringVarP(&outputDir, "output-dir", "o", ".", "directory receiving build.csv and tests.csv")
	rootCmd.Flags().BoolVar(&writeXLSX, "xlsx", false, "also write circle-stats.xlsx")
	rootCmd.Flags().StringVar(&timezone, "timezone", "", "IANA zone for start_time (default America/New_York)")
}

func runCollect(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return err
	}
	if err := cfg.ApplyArgs(args); err != nil {
		return err
	}
	cfg.OutputDir = outputDir
	cfg.XLSX = writeXLSX
	if timezone != "" {
		cfg.Timezone = timezone
	}

	log := logger.NewConsoleLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sinks *pipeline.Sinks
	if enabled := pipeline.EnabledSinks(cfg); len(enabled) > 0 {
		log.Info("Delivering to %s", strings.Join(enabled, ", "))
		sinks, err = pipeline.NewSinks(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer sinks.Close()
	}

	report, err := pipeline.Run(ctx, cfg, sinks, log)
	if err != nil {
		return err
	}

	s := report.Summary
	log.Info("Run %s: %d builds (%d failed, median %.0f ms, p90 %.0f ms), %d tests (%d failed)",
		report.Run.RunID, s.Builds, s.FailedBuilds, s.MedianBuildMillis, s.P90BuildMillis, s.Tests, s.TestFailures)
	for _, step := range s.FailureSteps {
		log.Debug("Failing step %q: %d builds", step.Step, step.Count)
	}
	return nil
}

// run executes the command with args and returns the process exit code.
// Errors are rendered to stderr through provider.WrapError.
func run(ctx context.Context, args []string, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, provider.WrapError(err))
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stderr))
}
