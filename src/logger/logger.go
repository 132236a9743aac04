package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger defines the interface for logging throughout the application.
// Different implementations can be used for different contexts (console, silent, etc.)
type Logger interface {
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Debug(msg string, args ...interface{})
}

// ConsoleLogger writes human-readable logs to stderr through logrus.
type ConsoleLogger struct {
	log *logrus.Logger
}

// NewConsoleLogger creates a logger at the given level ("debug", "info", "warn", ...).
// Unknown levels fall back to warn.
func NewConsoleLogger(level string) *ConsoleLogger {
	return newConsoleLogger(os.Stderr, level)
}

func newConsoleLogger(w io.Writer, level string) *ConsoleLogger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.WarnLevel
	}
	l.SetLevel(lvl)

	return &ConsoleLogger{log: l}
}

func (c *ConsoleLogger) Info(msg string, args ...interface{}) {
	c.log.Infof(msg, args...)
}

func (c *ConsoleLogger) Warn(msg string, args ...interface{}) {
	c.log.Warnf(msg, args...)
}

func (c *ConsoleLogger) Error(msg string, args ...interface{}) {
	c.log.Errorf(msg, args...)
}

func (c *ConsoleLogger) Debug(msg string, args ...interface{}) {
	c.log.Debugf(msg, args...)
}

// SilentLogger discards all log messages.
// Used by the MCP server, where stdout carries the protocol, and in tests.
type SilentLogger struct{}

func NewSilentLogger() *SilentLogger {
	return &SilentLogger{}
}

func (s *SilentLogger) Info(msg string, args ...interface{})  {}
func (s *SilentLogger) Warn(msg string, args ...interface{})  {}
func (s *SilentLogger) Error(msg string, args ...interface{}) {}
func (s *SilentLogger) Debug(msg string, args ...interface{}) {}
