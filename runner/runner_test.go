package runner

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestExecRunner(t *testing.T) {
	r := NewExecRunner()
	ctx := context.Background()

	t.Run("captures stdout", func(t *testing.T) {
		res, err := r.Run(ctx, Command{Name: "echo", Args: []string{"hello"}})
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if res.Stdout != "hello\n" {
			t.Errorf("Stdout = %q, want %q", res.Stdout, "hello\n")
		}
		if !res.Ok() {
			t.Errorf("ExitCode = %d, want 0", res.ExitCode)
		}
	})

	t.Run("nonzero exit is a result, not an error", func(t *testing.T) {
		res, err := r.Run(ctx, Command{Name: "sh", Args: []string{"-c", "exit 3"}})
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if res.ExitCode != 3 {
			t.Errorf("ExitCode = %d, want 3", res.ExitCode)
		}
		if res.Ok() {
			t.Error("Ok() = true for nonzero exit")
		}
	})

	t.Run("missing binary", func(t *testing.T) {
		_, err := r.Run(ctx, Command{Name: "definitely-not-a-real-binary-xyz"})
		if !errors.Is(err, ErrBinaryNotFound) {
			t.Errorf("error = %v, want ErrBinaryNotFound", err)
		}
	})

	t.Run("timeout", func(t *testing.T) {
		_, err := r.Run(ctx, Command{
			Name:    "sleep",
			Args:    []string{"10"},
			Timeout: 50 * time.Millisecond,
		})
		if !errors.Is(err, ErrTimeout) {
			t.Errorf("error = %v, want ErrTimeout", err)
		}
	})

	t.Run("cancellation is an error, not an exit code", func(t *testing.T) {
		cancelCtx, cancel := context.WithCancel(ctx)
		go func() {
			time.Sleep(50 * time.Millisecond)
			cancel()
		}()

		res, err := r.Run(cancelCtx, Command{Name: "sleep", Args: []string{"10"}})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
		if res != nil {
			t.Errorf("result = %+v, want nil on cancellation", res)
		}
	})

	t.Run("stdin is delivered", func(t *testing.T) {
		res, err := r.Run(ctx, Command{Name: "cat", Stdin: "secret\n"})
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if res.Stdout != "secret\n" {
			t.Errorf("Stdout = %q, want %q", res.Stdout, "secret\n")
		}
	})

	t.Run("env is appended", func(t *testing.T) {
		res, err := r.Run(ctx, Command{
			Name: "sh",
			Args: []string{"-c", "echo $PERSISTSSH_TEST_VAR"},
			Env:  []string{"PERSISTSSH_TEST_VAR=set"},
		})
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if res.Stdout != "set\n" {
			t.Errorf("Stdout = %q, want %q", res.Stdout, "set\n")
		}
	})
}

func TestMockRunner(t *testing.T) {
	ctx := context.Background()

	t.Run("longest prefix wins", func(t *testing.T) {
		m := NewMockRunner()
		m.Script("ssh-add", nil, &Result{Stdout: "generic"})
		m.Script("ssh-add", []string{"-l"}, &Result{Stdout: "list"})

		res, err := m.Run(ctx, Command{Name: "ssh-add", Args: []string{"-l"}})
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if res.Stdout != "list" {
			t.Errorf("Stdout = %q, want %q", res.Stdout, "list")
		}
	})

	t.Run("unscripted command fails", func(t *testing.T) {
		m := NewMockRunner()
		if _, err := m.Run(ctx, Command{Name: "ssh-agent"}); err == nil {
			t.Error("expected error for unscripted command")
		}
	})

	t.Run("records calls", func(t *testing.T) {
		m := NewMockRunner()
		m.Script("ssh-agent", nil, &Result{})
		m.Run(ctx, Command{Name: "ssh-agent", Args: []string{"-s"}})
		m.Run(ctx, Command{Name: "ssh-agent", Args: []string{"-s"}})

		if got := m.CallCount("ssh-agent"); got != 2 {
			t.Errorf("CallCount = %d, want 2", got)
		}
		calls := m.Calls()
		if len(calls) != 2 || calls[0].Args[0] != "-s" {
			t.Errorf("Calls() = %+v", calls)
		}
	})

	t.Run("scripted error", func(t *testing.T) {
		m := NewMockRunner()
		m.ScriptError("ssh-agent", nil, ErrBinaryNotFound)
		if _, err := m.Run(ctx, Command{Name: "ssh-agent"}); !errors.Is(err, ErrBinaryNotFound) {
			t.Errorf("error = %v, want ErrBinaryNotFound", err)
		}
	})
}
