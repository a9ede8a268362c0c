// SPDX-License-Identifier: Apache-2.0

// Package exc is the single seam through which the rest of the code base
// invokes external programs. Components receive a Runner instead of reaching
// for os/exec directly, so tests can script command outcomes.
package exc

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"syscall"

	"github.com/rs/zerolog"
)

var nolog = zerolog.Nop()

// Result captures the outcome of a finished command invocation.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner executes external programs.
//
// Run waits for the program to finish and returns its captured output. A
// non-zero exit status is not an error; it is reported through
// Result.ExitCode so that callers decide what a failure means for them. Run
// returns an error only when the program could not be started at all.
//
// Spawn starts the program detached from the current process and returns its
// PID without waiting for it to finish.
type Runner interface {
	Run(ctx context.Context, program string, args ...string) (Result, error)
	Spawn(program string, args ...string) (int, error)
}

type execRunner struct {
	logger *zerolog.Logger
}

// Option allows injecting parameters for the Runner.
type Option = func(r *execRunner)

// WithLogger allows injecting a logger for the Runner.
func WithLogger(logger *zerolog.Logger) Option {
	return func(r *execRunner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner returns a Runner backed by os/exec.
func NewRunner(opts ...Option) Runner {
	r := &execRunner{
		logger: &nolog,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *execRunner) Run(ctx context.Context, program string, args ...string) (Result, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, program, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// run the child in its own process group so that signals delivered to the
	// CLI do not reach it mid-invocation
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	r.logger.Debug().
		Str("program", program).
		Strs("args", args).
		Msg("Executing command")

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			// the program never ran; there is no exit status to report
			return Result{ExitCode: -1}, NewCommandStartError(err, program)
		}
	}

	result := Result{
		ExitCode: cmd.ProcessState.ExitCode(),
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}

	r.logger.Debug().
		Str("program", program).
		Int("exitCode", result.ExitCode).
		Msg("Command finished")

	return result, nil
}

func (r *execRunner) Spawn(program string, args ...string) (int, error) {
	cmd := exec.Command(program, args...)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil

	// detach into a new session so the child survives the CLI exiting and has
	// no controlling terminal
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return 0, NewCommandStartError(err, program)
	}

	pid := cmd.Process.Pid
	if err := cmd.Process.Release(); err != nil {
		return pid, NewCommandStartError(err, program)
	}

	r.logger.Debug().
		Str("program", program).
		Int("pid", pid).
		Msg("Spawned detached process")

	return pid, nil
}
