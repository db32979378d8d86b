package cargowatch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ProcessResult is the outcome of a process that ran to completion.
// A non-zero ExitCode is data, not a failure.
type ProcessResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// SpawnError reports a process that could not be executed at all. It carries
// whatever output had been captured before the failure.
type SpawnError struct {
	Command string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *SpawnError) Error() string {
	msg := fmt.Sprintf("failed to run %s: %v", e.Command, e.Err)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += "\n" + stderr
	}
	if stdout := strings.TrimSpace(e.Stdout); stdout != "" {
		msg += "\n" + stdout
	}
	return msg
}

func (e *SpawnError) Unwrap() error { return e.Err }

// Runner executes an external command in a working directory
type Runner interface {
	Run(ctx context.Context, name string, args []string, dir string) (*ProcessResult, error)
}

// ExecRunner runs commands with os/exec. It has no timeout; ctx is only
// cancelled when the host shuts down.
type ExecRunner struct {
	// Env, when non-nil, replaces the inherited environment
	Env []string
}

// Run starts name with args in dir and waits for it to exit
func (r ExecRunner) Run(ctx context.Context, name string, args []string, dir string) (*ProcessResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Env = r.Env
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("%s interrupted: %w", name, ctxErr)
	}
	var exitErr *exec.ExitError
	if err == nil || errors.As(err, &exitErr) {
		return &ProcessResult{
			ExitCode: cmd.ProcessState.ExitCode(),
			Stdout:   stdout.String(),
			Stderr:   stderr.String(),
		}, nil
	}
	return nil, &SpawnError{
		Command: strings.TrimSpace(name + " " + strings.Join(args, " ")),
		Stdout:  stdout.String(),
		Stderr:  stderr.String(),
		Err:     err,
	}
}
