package docconv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/alnah/go-docconv/internal/fileutil"
	"github.com/alnah/go-docconv/internal/process"
)

// maxStderrCapture bounds how much captured stderr is kept per attempt.
const maxStderrCapture = 8 << 10

// killGracePeriod is how long Wait may linger after the child is killed
// before its I/O pipes are forcibly closed.
const killGracePeriod = 5 * time.Second

// commandRunner abstracts subprocess execution to enable testing without
// real child processes.
type commandRunner interface {
	Run(ctx context.Context, workDir, name string, args ...string) (stdout, stderr string, err error)
}

// execRunner implements commandRunner using os/exec. The child gets its
// own process group so that a timeout or cancellation kills the whole
// process tree, not just the direct child.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, workDir, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	process.SetGroup(cmd)
	cmd.Cancel = func() error {
		// Kill the group first so descendants (office suites fork helpers)
		// do not outlive the direct child.
		process.KillProcessGroup(cmd.Process.Pid)
		return cmd.Process.Kill()
	}
	cmd.WaitDelay = killGracePeriod

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// invoker runs exactly one backend against one conversion request with
// full isolation and returns the attempt record.
type invoker interface {
	Invoke(ctx context.Context, d Descriptor, req Request, timeout time.Duration) Attempt
}

// processInvoker is the production invoker. Each invocation gets a
// private scratch workspace so concurrent invocations of the same
// backend never collide on lock files or caches, and the workspace is
// removed on every exit path.
type processInvoker struct {
	runner commandRunner
}

// newProcessInvoker returns an invoker backed by real subprocesses.
func newProcessInvoker() *processInvoker {
	return &processInvoker{runner: execRunner{}}
}

// Compile-time interface check.
var _ invoker = (*processInvoker)(nil)

func (p *processInvoker) Invoke(ctx context.Context, d Descriptor, req Request, timeout time.Duration) Attempt {
	start := time.Now()
	attempt := Attempt{Backend: d.Name}

	workspace, cleanup, err := fileutil.TempDir("docconv-" + d.Name + "-")
	if err != nil {
		attempt.Err = fmt.Errorf("%w: allocating workspace: %v", ErrConversionFailed, err)
		attempt.Elapsed = time.Since(start)
		return attempt
	}
	defer cleanup()

	job := Job{
		InputPath:  req.InputPath,
		OutputPath: req.OutputPath,
		Workspace:  workspace,
	}

	ictx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	runErr := p.run(ictx, d, job, &attempt)

	switch {
	case runErr == nil && !fileutil.NonEmptyFile(job.OutputPath):
		// Exit status zero is not enough: the declared output must exist
		// and be non-empty.
		attempt.Err = fmt.Errorf("%w: %s", ErrEmptyOutput, job.OutputPath)
	case runErr != nil:
		attempt.Err = classifyRunError(ctx, ictx, runErr, timeout)
	}

	if attempt.Err != nil {
		removePartialOutput(job.OutputPath)
	}

	attempt.Elapsed = time.Since(start)
	return attempt
}

// run executes the backend, external or in-process, inside the job's
// workspace.
func (p *processInvoker) run(ctx context.Context, d Descriptor, job Job, attempt *Attempt) error {
	if d.Run != nil {
		return d.Run(ctx, job)
	}

	name, args := d.Command(job)
	_, stderr, err := p.runner.Run(ctx, job.Workspace, name, args...)
	attempt.Stderr = tail(stderr, maxStderrCapture)
	if err != nil {
		return err
	}
	if d.Collect != nil {
		return d.Collect(job)
	}
	return nil
}

// classifyRunError maps a raw run error to the attempt taxonomy:
// timeout, cooperative cancellation, or plain conversion failure.
func classifyRunError(ctx, ictx context.Context, runErr error, timeout time.Duration) error {
	switch {
	case errors.Is(ictx.Err(), context.DeadlineExceeded) && ctx.Err() == nil:
		return fmt.Errorf("%w after %s", ErrConversionTimeout, timeout)
	case ctx.Err() != nil:
		return ctx.Err()
	default:
		return fmt.Errorf("%w: %v", ErrConversionFailed, runErr)
	}
}

// removePartialOutput deletes any partially-written output so a later
// attempt's success is never contaminated by this attempt's artifact.
func removePartialOutput(path string) {
	if fileutil.FileExists(path) {
		_ = os.Remove(path)
	}
}

// tail returns at most max bytes from the end of s.
func tail(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[len(s)-max:]
}
