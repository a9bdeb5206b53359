package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelWarn, Output: &buf})

	logger.Debug("hidden")
	logger.Info("also hidden")
	logger.Warn("shown", "queue", 3)
	logger.Error("shown too")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("expected debug/info to be suppressed, got: %s", out)
	}
	if !strings.Contains(out, "[WARN] shown queue=3") {
		t.Fatalf("expected warn line with args, got: %s", out)
	}
	if !strings.Contains(out, "[ERROR] shown too") {
		t.Fatalf("expected error line, got: %s", out)
	}
}

func TestDefaultLoggerIsSingleton(t *testing.T) {
	first := Default()
	second := Default()
	if first != second {
		t.Fatal("Default() should return the same logger instance")
	}
}

func TestSetDefaultReplacesLogger(t *testing.T) {
	var buf bytes.Buffer
	custom := NewLogger(&Config{Level: LevelDebug, Output: &buf})
	SetDefault(custom)
	defer SetDefault(NewLogger(nil))

	Info("hello", "k", "v")
	if !strings.Contains(buf.String(), "hello k=v") {
		t.Fatalf("expected global Info to use custom default logger, got: %s", buf.String())
	}
}

func TestPrintfIsInfoAlias(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelInfo, Output: &buf})
	logger.Printf("device %d ready", 7)
	if !strings.Contains(buf.String(), "[INFO] device 7 ready") {
		t.Fatalf("expected Printf to log at info level, got: %s", buf.String())
	}
}
