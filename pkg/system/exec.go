package system

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/forumone/f1-ext-install/pkg/errors"
	"github.com/forumone/f1-ext-install/pkg/observability"
)

// ExecRunner runs commands as child processes.
type ExecRunner struct {
	Stdout io.Writer // nil means os.Stdout
	Stderr io.Writer // nil means os.Stderr
	Logger *log.Logger
}

// NewExecRunner creates a runner attached to the process's standard streams.
// If logger is nil, log.Default() is used.
func NewExecRunner(logger *log.Logger) *ExecRunner {
	if logger == nil {
		logger = log.Default()
	}
	return &ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr, Logger: logger}
}

// Run executes cmd with stdin inherited and waits for it to exit
// successfully. pecl may prompt for configure options on stdin.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) error {
	c := r.command(ctx, cmd)
	c.Stdin = os.Stdin
	c.Stdout = r.stdout()
	return r.exec(ctx, cmd, c.Run)
}

// Output executes cmd with stdin closed and returns its standard output.
func (r *ExecRunner) Output(ctx context.Context, cmd Command) (string, error) {
	var buf bytes.Buffer
	c := r.command(ctx, cmd)
	c.Stdout = &buf
	if err := r.exec(ctx, cmd, c.Run); err != nil {
		return "", err
	}
	if !utf8.Valid(buf.Bytes()) {
		return "", errors.New(errors.ErrCodeCommandOutput, "%s: output is not valid UTF-8", cmd)
	}
	return buf.String(), nil
}

func (r *ExecRunner) command(ctx context.Context, cmd Command) *exec.Cmd {
	c := exec.CommandContext(ctx, cmd.Program, cmd.Args...)
	c.Stderr = r.stderr()
	return c
}

func (r *ExecRunner) exec(ctx context.Context, cmd Command, run func() error) error {
	logger := r.logger()
	logger.Info("running", "cmd", cmd.String())
	observability.Command().OnCommandStart(ctx, cmd.Program, cmd.Args)

	start := time.Now()
	err := classify(ctx, cmd, run())
	elapsed := time.Since(start)

	observability.Command().OnCommandComplete(ctx, cmd.Program, cmd.Args, elapsed, err)
	logger.Debug("finished", "program", cmd.Program, "elapsed", elapsed.Round(time.Millisecond), "ok", err == nil)
	return err
}

func (r *ExecRunner) stdout() io.Writer {
	if r.Stdout == nil {
		return os.Stdout
	}
	return r.Stdout
}

func (r *ExecRunner) stderr() io.Writer {
	if r.Stderr == nil {
		return os.Stderr
	}
	return r.Stderr
}

func (r *ExecRunner) logger() *log.Logger {
	if r.Logger == nil {
		return log.Default()
	}
	return r.Logger
}

// classify maps an os/exec error onto the command error codes.
func classify(ctx context.Context, cmd Command, err error) error {
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return errors.Wrap(errors.ErrCodeCommandExit, ctxErr, "%s: interrupted", cmd)
	}

	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		return errors.New(errors.ErrCodeCommandExit, "%s: process exited unsuccessfully: %s",
			cmd, exitReason(exitErr.ProcessState))
	}
	return errors.Wrap(errors.ErrCodeCommandIO, err, "%s: failed to start", cmd)
}

// exitReason describes why a process did not exit successfully.
func exitReason(state *os.ProcessState) string {
	if state == nil {
		return "unknown reason"
	}
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return fmt.Sprintf("killed by signal %d (%s)", int(ws.Signal()), ws.Signal())
	}
	if code := state.ExitCode(); code >= 0 {
		return fmt.Sprintf("non-zero exit code %d", code)
	}
	return "unknown reason"
}
