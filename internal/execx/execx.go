package execx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Result is the captured outcome of a finished command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner abstracts command execution so probes can be unit-tested without
// touching the host network (ping).
type Runner interface {
	// Output runs the command to completion. A non-zero exit status is not an
	// error: callers inspect ExitCode and Stdout. Errors mean the command could
	// not run or ctx expired.
	Output(ctx context.Context, name string, args ...string) (Result, error)
}

// OSRunner executes commands on the host via os/exec.
type OSRunner struct{}

func NewOSRunner() *OSRunner {
	return &OSRunner{}
}

func (r *OSRunner) Output(ctx context.Context, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{
		Stdout: stdout.String(),
		Stderr: strings.TrimSpace(stderr.String()),
	}
	if ctx.Err() != nil {
		return res, fmt.Errorf("%s: %w", name, ctx.Err())
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		if res.Stderr != "" {
			return res, fmt.Errorf("%s: %w: %s", name, err, res.Stderr)
		}
		return res, fmt.Errorf("%s: %w", name, err)
	}
	return res, nil
}

// Fake is a scripted Runner for tests.
type Fake struct {
	Results map[string]Result
	Err     error
	Calls   [][]string
}

func (f *Fake) Output(_ context.Context, name string, args ...string) (Result, error) {
	call := append([]string{name}, args...)
	f.Calls = append(f.Calls, call)
	if f.Err != nil {
		return Result{}, f.Err
	}
	return f.Results[strings.Join(call, " ")], nil
}
