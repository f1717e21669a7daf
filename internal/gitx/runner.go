package gitx

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"sync"
)

// Runner executes a git command in a directory and returns its stdout.
// It allows swapping the real runner with a fake one for testing.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// RunError is returned by ExecRunner when git exits non-zero or cannot
// be spawned. Stderr is trimmed; Err is the underlying os/exec error.
type RunError struct {
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *RunError) Error() string {
	msg := e.Stderr
	if msg == "" {
		msg = e.Err.Error()
	}
	return "git " + strings.Join(e.Args, " ") + ": " + msg
}

func (e *RunError) Unwrap() error { return e.Err }

// ExecRunner is the production Runner backed by os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	if dir != "" {
		cmd.Dir = dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return "", &RunError{
			Args:     args,
			ExitCode: exitCode,
			Stderr:   strings.TrimSpace(stderr.String()),
			Err:      err,
		}
	}
	return stdout.String(), nil
}

// FakeRunner is a Runner for unit tests. Handler decides the result for
// each invocation; calls are recorded for assertion.
type FakeRunner struct {
	Handler func(dir string, args []string) (string, error)

	mu    sync.Mutex
	Calls [][]string
}

func (f *FakeRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	f.mu.Lock()
	f.Calls = append(f.Calls, append([]string{}, args...))
	f.mu.Unlock()

	if f.Handler == nil {
		return "", &RunError{Args: args, ExitCode: -1, Stderr: "fake runner: no handler defined", Err: errors.New("no handler")}
	}
	return f.Handler(dir, args)
}
