// Package e2e provides testing infrastructure for end-to-end CLI tests.
// It includes a test harness for running CLI commands against an isolated
// project directory, fixture management and assertions.
package e2e

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/klauern/vendorjs/internal/cli"
)

// ProjectPlaceholder replaces the project directory in normalized output.
const ProjectPlaceholder = "$PROJECT"

// Result contains the outcome of running a CLI command.
type Result struct {
	// Stdout contains the captured standard output (the report).
	Stdout string
	// Stderr contains the captured standard error (diagnostics).
	Stderr string
	// Err is the error returned by the CLI command, if any.
	Err error
	// ExitCode is the exit code main would use.
	ExitCode int

	projectDir string
}

// Success returns true if the command completed without error.
func (r *Result) Success() bool {
	return r.Err == nil
}

// Normalized returns Stdout with the project directory replaced by
// ProjectPlaceholder.
func (r *Result) Normalized() string {
	if r.projectDir == "" {
		return r.Stdout
	}
	return strings.ReplaceAll(r.Stdout, r.projectDir, ProjectPlaceholder)
}

// Harness provides a test harness for running E2E CLI tests.
// It manages environment isolation, the project directory and output capture.
type Harness struct {
	t          *testing.T
	homeDir    string
	projectDir string
	env        map[string]string
}

// NewHarness creates a new E2E test harness with an empty project directory
// and an isolated home and config directory. Timestamps are read as UTC.
func NewHarness(t *testing.T) *Harness {
	t.Helper()

	h := &Harness{
		t:          t,
		homeDir:    t.TempDir(),
		projectDir: t.TempDir(),
		env:        make(map[string]string),
	}

	h.SetEnv("HOME", h.homeDir)
	h.SetEnv("XDG_CONFIG_HOME", h.homeDir+"/.config")
	h.SetEnv("VENDORJS_TIMESTAMP_LOCATION", "UTC")
	h.SetEnv("NO_COLOR", "1")

	return h
}

// SetEnv sets an environment variable for CLI commands run through this harness.
// The environment will be restored after the test completes.
func (h *Harness) SetEnv(key, value string) {
	h.t.Helper()
	h.env[key] = value
	h.t.Setenv(key, value)
}

// HomeDir returns the isolated home directory for this test harness.
func (h *Harness) HomeDir() string {
	return h.homeDir
}

// ProjectDir returns the project directory commands run against.
func (h *Harness) ProjectDir() string {
	return h.projectDir
}

// Project returns a fixture rooted at the project directory.
func (h *Harness) Project() *Fixture {
	return NewFixture(h.t, h.projectDir)
}

// Run executes a CLI command against the project directory and captures
// stdout and stderr.
func (h *Harness) Run(args ...string) *Result {
	h.t.Helper()

	args = append([]string{"vendorjs", "--project", h.projectDir}, args...)

	stdout, stderr, cmdErr := h.capture(func() error {
		return cli.Run(context.Background(), args)
	})

	return &Result{
		Stdout:     stdout,
		Stderr:     stderr,
		Err:        cmdErr,
		ExitCode:   cli.ExitCode(cmdErr),
		projectDir: h.projectDir,
	}
}

// capture runs fn with os.Stdout and os.Stderr redirected to pipes.
func (h *Harness) capture(fn func() error) (stdout, stderr string, err error) {
	h.t.Helper()

	oldStdout, oldStderr := os.Stdout, os.Stderr
	outR, outW, pipeErr := os.Pipe()
	if pipeErr != nil {
		h.t.Fatalf("failed to create stdout pipe: %v", pipeErr)
	}
	errR, errW, pipeErr := os.Pipe()
	if pipeErr != nil {
		h.t.Fatalf("failed to create stderr pipe: %v", pipeErr)
	}
	os.Stdout, os.Stderr = outW, errW

	// Drain both pipes while the command runs so large output cannot block it.
	drain := func(r io.Reader, buf *bytes.Buffer, done chan<- error) {
		_, copyErr := io.Copy(buf, r)
		done <- copyErr
	}
	var outBuf, errBuf bytes.Buffer
	outDone, errDone := make(chan error, 1), make(chan error, 1)
	go drain(outR, &outBuf, outDone)
	go drain(errR, &errBuf, errDone)

	err = fn()

	os.Stdout, os.Stderr = oldStdout, oldStderr
	if closeErr := outW.Close(); closeErr != nil {
		h.t.Fatalf("failed to close stdout pipe writer: %v", closeErr)
	}
	if closeErr := errW.Close(); closeErr != nil {
		h.t.Fatalf("failed to close stderr pipe writer: %v", closeErr)
	}

	if copyErr := <-outDone; copyErr != nil {
		h.t.Fatalf("failed to read captured stdout: %v", copyErr)
	}
	if copyErr := <-errDone; copyErr != nil {
		h.t.Fatalf("failed to read captured stderr: %v", copyErr)
	}
	return outBuf.String(), errBuf.String(), err
}
