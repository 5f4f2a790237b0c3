package runner

import (
	"context"
	"time"
)

// Command describes one external tool invocation.
type Command struct {
	// Name is the binary to invoke, resolved against PATH.
	Name string

	// Args are the command arguments (not including the binary name).
	Args []string

	// Dir is the working directory. Empty means the caller's directory.
	Dir string

	// Env is the environment for the command. Nil inherits the process
	// environment; non-nil entries are appended to it, so later entries
	// override inherited variables.
	Env []string

	// Stdin is written to the command's standard input when non-empty.
	// Used for passphrase supply, which must never appear in argv.
	Stdin string

	// Timeout bounds the command's execution when positive.
	Timeout time.Duration
}

// Result holds the outcome of a completed command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Ok reports whether the command exited zero.
func (r *Result) Ok() bool {
	return r != nil && r.ExitCode == 0
}

// CommandRunner executes external commands. The exec implementation shells
// out; the mock implementation replays scripted results for tests.
//
// Run returns an error only when the command could not be executed at all
// (binary not found, context cancelled, timeout). A command that ran and
// exited nonzero returns a Result with the exit code and a nil error;
// callers decide whether nonzero is a failure for their operation.
type CommandRunner interface {
	Run(ctx context.Context, cmd Command) (*Result, error)
}
