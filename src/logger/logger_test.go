package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestConsoleLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	log := newConsoleLogger(&buf, "info")

	log.Debug("hidden %d", 1)
	log.Info("fetched page %d", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message logged at info level: %q", out)
	}
	if !strings.Contains(out, "fetched page 3") {
		t.Errorf("info message missing: %q", out)
	}
}

func TestConsoleLogger_UnknownLevelFallsBackToWarn(t *testing.T) {
	var buf bytes.Buffer
	log := newConsoleLogger(&buf, "chatty")

	log.Info("suppressed")
	log.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "suppressed") {
		t.Errorf("info message logged at warn level: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Errorf("warn message missing: %q", out)
	}
}

func TestSilentLogger(t *testing.T) {
	var log Logger = NewSilentLogger()
	log.Info("nothing")
	log.Error("nothing")
}
