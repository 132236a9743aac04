// Package main provides the MCP server entry point for circle-stats.
// This server implements the Model Context Protocol over stdio, exposing the
// collect_build_stats and get_run tools.
package main

import (
	"log"

	"circle-stats/src/config"
	"circle-stats/src/logger"
	"circle-stats/src/mcp"
)

func main() {
	// stdout carries the protocol, so logs go to stderr
	level := "warn"
	if cfg, err := config.LoadFromEnv(); err == nil {
		level = cfg.LogLevel
	}

	server := mcp.NewServer(logger.NewConsoleLogger(level))
	if err := server.Run(); err != nil {
		log.Fatalf("MCP server error: %v", err)
	}
}
