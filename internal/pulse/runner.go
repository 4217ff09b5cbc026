package pulse

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
)

// Runner executes sound server collaborator commands.
type Runner interface {
	// Output runs a query and returns its standard output.
	Output(ctx context.Context, argv []string) ([]byte, error)

	// Run runs a mutating command whose output is not inspected.
	Run(ctx context.Context, argv []string) error

	// Stream starts a long-lived command and returns its output stream.
	Stream(ctx context.Context, argv []string) (Stream, error)
}

// Stream is the standard output of a running command.
type Stream interface {
	io.Reader

	// Wait blocks until the command exits. It must only be called after
	// the output has been read to EOF or the command's context was cancelled.
	Wait() error
}

// ExecRunner runs commands as child processes.
type ExecRunner struct{}

// NewExecRunner creates a new ExecRunner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Output runs argv and returns its standard output.
// Failing to start or a non-zero exit yields a *SubprocessError.
func (r *ExecRunner) Output(ctx context.Context, argv []string) ([]byte, error) {
	if len(argv) == 0 {
		return nil, &SubprocessError{Err: errors.New("empty command")}
	}

	//nolint:gosec // G204: argv comes from the daemon's own command table
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return nil, &SubprocessError{Argv: argv, Stderr: stderr.String(), Err: err}
	}
	return out, nil
}

// Run runs argv to completion.
func (r *ExecRunner) Run(ctx context.Context, argv []string) error {
	if len(argv) == 0 {
		return &SubprocessError{Err: errors.New("empty command")}
	}

	//nolint:gosec // G204: argv comes from the daemon's own command table
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return &SubprocessError{Argv: argv, Stderr: stderr.String(), Err: err}
	}
	return nil
}

// Stream starts argv and returns a reader over its standard output.
// The process is killed when ctx is cancelled.
func (r *ExecRunner) Stream(ctx context.Context, argv []string) (Stream, error) {
	if len(argv) == 0 {
		return nil, &SubprocessError{Err: errors.New("empty command")}
	}

	//nolint:gosec // G204: argv comes from the daemon's own command table
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &SubprocessError{Argv: argv, Err: err}
	}
	s := &execStream{argv: argv, cmd: cmd, stdout: stdout}
	cmd.Stderr = &s.stderr

	if err := cmd.Start(); err != nil {
		return nil, &SubprocessError{Argv: argv, Err: err}
	}
	return s, nil
}

type execStream struct {
	argv   []string
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr bytes.Buffer

	waitOnce sync.Once
	waitErr  error
}

func (s *execStream) Read(p []byte) (int, error) {
	return s.stdout.Read(p)
}

func (s *execStream) Wait() error {
	s.waitOnce.Do(func() {
		if err := s.cmd.Wait(); err != nil {
			s.waitErr = &SubprocessError{Argv: s.argv, Stderr: s.stderr.String(), Err: err}
		}
	})
	return s.waitErr
}

// DryRunRunner passes queries through to another Runner but only logs
// mutating commands.
type DryRunRunner struct {
	next   Runner
	logger *slog.Logger
}

// NewDryRunRunner wraps next so that Run never executes anything.
func NewDryRunRunner(next Runner, logger *slog.Logger) *DryRunRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return &DryRunRunner{next: next, logger: logger}
}

// Output delegates to the wrapped runner.
func (r *DryRunRunner) Output(ctx context.Context, argv []string) ([]byte, error) {
	return r.next.Output(ctx, argv)
}

// Run logs argv and returns nil.
func (r *DryRunRunner) Run(_ context.Context, argv []string) error {
	r.logger.Info("dry run, not executing", "command", strings.Join(argv, " "))
	return nil
}

// Stream delegates to the wrapped runner.
func (r *DryRunRunner) Stream(ctx context.Context, argv []string) (Stream, error) {
	return r.next.Stream(ctx, argv)
}
