// Package support holds the godog step definitions and per-scenario state
// for the CLI feature tests. Commands run in-process against the cobra
// root command, so scenarios stay fast and need no prebuilt binary.
package support

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// TestContext holds the state for one scenario.
type TestContext struct {
	// Command execution state
	LastCommand string
	LastOutput  string
	LastError   error

	// Test environment
	TempDir string
}

// NewTestContext creates a fresh context with its own temp directory.
func NewTestContext() (*TestContext, error) {
	tempDir, err := os.MkdirTemp("", "stipple-test-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	return &TestContext{TempDir: tempDir}, nil
}

// Cleanup removes the scenario's temp directory.
func (testCtx *TestContext) Cleanup() error {
	if err := os.RemoveAll(testCtx.TempDir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove temp directory %s: %w", testCtx.TempDir, err)
	}
	return nil
}

// expandPath substitutes ${TMP} with the scenario temp dir and resolves
// bare names relative to it, so features never hardcode host paths.
func (testCtx *TestContext) expandPath(path string) string {
	path = strings.ReplaceAll(path, "${TMP}", testCtx.TempDir)
	if !filepath.IsAbs(path) {
		path = filepath.Join(testCtx.TempDir, path)
	}
	return path
}

// GetTempFile returns a unique path inside the scenario temp dir.
func (testCtx *TestContext) GetTempFile(suffix string) string {
	return filepath.Join(testCtx.TempDir, fmt.Sprintf("test-%d%s", time.Now().UnixNano(), suffix))
}
