package pipeline

import (
	"context"
	"errors"
	"os/exec"
	"strings"
)

// maxDiagnosticBytes bounds the captured tail of a stage's combined
// output; anything older is dropped.
const maxDiagnosticBytes = 16 << 10

// CommandResult is one external process execution outcome. Tail holds the
// last maxDiagnosticBytes of combined stdout+stderr.
type CommandResult struct {
	ExitCode int
	Tail     string
}

// CommandRunner abstracts process execution for testability.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (CommandResult, error)
}

// execRunner executes commands via os/exec.
type execRunner struct{}

// Run executes one command, draining its output concurrently with waiting
// for exit (os/exec pumps non-file writers on its own goroutines, so a
// chatty child can't deadlock on a full pipe).
func (r *execRunner) Run(ctx context.Context, name string, args ...string) (CommandResult, error) {
	log.Infoln(name, strings.Join(args, " "))
	cmd := exec.CommandContext(ctx, name, args...)
	tail := newTailBuffer(maxDiagnosticBytes)
	cmd.Stdout = tail
	cmd.Stderr = tail

	err := cmd.Run()
	result := CommandResult{
		ExitCode: 0,
		Tail:     tail.String(),
	}
	if err != nil {
		result.ExitCode = -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		}
		return result, err
	}
	return result, nil
}

// tailBuffer is a writer that retains only the last cap bytes written.
type tailBuffer struct {
	cap int
	buf []byte
}

func newTailBuffer(capacity int) *tailBuffer {
	return &tailBuffer{cap: capacity}
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	n := len(p)
	if n >= t.cap {
		t.buf = append(t.buf[:0], p[n-t.cap:]...)
		return n, nil
	}
	if over := len(t.buf) + n - t.cap; over > 0 {
		t.buf = t.buf[:copy(t.buf, t.buf[over:])]
	}
	t.buf = append(t.buf, p...)
	return n, nil
}

func (t *tailBuffer) String() string {
	return string(t.buf)
}
