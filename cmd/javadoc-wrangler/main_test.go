package main

import (
	"strings"
	"testing"
)

func TestExecute_Version(t *testing.T) {
	err := Execute("1.0.0", "abc123", "javadoc-wrangler", []string{"--version"})
	if err != nil {
		t.Errorf("Expected no error for --version, got: %v", err)
	}
}

func TestExecute_Help(t *testing.T) {
	err := Execute("1.0.0", "abc123", "javadoc-wrangler", []string{"--help"})
	if err != nil {
		t.Errorf("Expected no error for --help, got: %v", err)
	}
}

func TestExecute_InvalidFlag(t *testing.T) {
	err := Execute("1.0.0", "abc123", "javadoc-wrangler", []string{"--invalid-flag"})
	if err == nil {
		t.Error("Expected error for invalid flag")
	}
}

func TestExecute_InvalidWorkers(t *testing.T) {
	err := Execute("1.0.0", "abc123", "javadoc-wrangler", []string{"--workers", "-1", "31.1.0"})
	if err == nil {
		t.Fatal("Expected error for negative workers")
	}
	if !strings.Contains(err.Error(), "workers") {
		t.Errorf("Expected error about workers, got: %v", err)
	}
}

func TestExecute_InvalidLegacyPrefix(t *testing.T) {
	err := Execute("1.0.0", "abc123", "javadoc-wrangler", []string{"--legacy-prefix", "SciJava", "31.1.0"})
	if err == nil {
		t.Fatal("Expected error for prefix without slashes")
	}
	if !strings.Contains(err.Error(), "legacy prefix") {
		t.Errorf("Expected error about legacy prefix, got: %v", err)
	}
}

func TestRunMain_Success(t *testing.T) {
	exitCode := -1
	mockExit := func(code int) {
		exitCode = code
	}

	// --help should succeed
	runMain([]string{"javadoc-wrangler", "--help"}, mockExit)

	if exitCode != -1 {
		t.Errorf("Expected no exit call for --help, got exit code: %d", exitCode)
	}
}

func TestRunMain_Failure(t *testing.T) {
	exitCode := -1
	mockExit := func(code int) {
		exitCode = code
	}

	runMain([]string{"javadoc-wrangler", "--invalid"}, mockExit)

	if exitCode != 1 {
		t.Errorf("Expected exit code 1 for invalid flag, got: %d", exitCode)
	}
}
