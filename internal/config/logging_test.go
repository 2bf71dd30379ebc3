package config

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestLog(t *testing.T) {
	// Just verify it doesn't panic
	Log(validSettings())
}

func TestLogWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	LogWithLogger(validSettings(), logger)

	output := buf.String()
	if !strings.Contains(output, "base_dir") {
		t.Error("Expected 'base_dir' in log output")
	}
	if !strings.Contains(output, "workers") {
		t.Error("Expected 'workers' in log output")
	}
	if !strings.Contains(output, "pom-scijava") {
		t.Error("Expected BOM artifact in log output")
	}
	if !strings.Contains(output, "search.max_results") {
		t.Error("Expected 'search.max_results' in log output when search enabled")
	}
}

func TestLogWithLogger_SearchDisabled(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	s := validSettings()
	s.Search.Enabled = false
	LogWithLogger(s, logger)

	if strings.Contains(buf.String(), "max_results") {
		t.Error("Expected no 'max_results' in log output with search disabled")
	}
}

func TestSettingsLogValue(t *testing.T) {
	val := SettingsLogValue(*validSettings())
	if val.Kind() != slog.KindGroup {
		t.Errorf("Expected group kind, got %v", val.Kind())
	}
}
