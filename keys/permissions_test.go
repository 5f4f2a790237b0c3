//go:build !windows

package keys

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/randalmurphal/persistssh/runner"
	"github.com/randalmurphal/persistssh/testutil"
)

func TestCheckPermissions(t *testing.T) {
	t.Run("strict mode rejects loose modes", func(t *testing.T) {
		addr, _ := testutil.StartAgent(t)
		key := testutil.GenerateKey(t, t.TempDir(), "id_ed25519")
		if err := os.Chmod(key.PrivatePath, 0o644); err != nil {
			t.Fatal(err)
		}

		l := NewLoader(WithStrict(true), WithLogger(discardLogger()))
		_, err := l.EnsureLoaded(context.Background(), addr, []Candidate{{Path: key.PrivatePath}})
		if !errors.Is(err, ErrKeyPermissions) {
			t.Errorf("error = %v, want ErrKeyPermissions", err)
		}
	})

	t.Run("strict skips to a candidate with a tight mode", func(t *testing.T) {
		addr, _ := testutil.StartAgent(t)
		dir := t.TempDir()
		loose := testutil.GenerateKey(t, dir, "id_rsa")
		if err := os.Chmod(loose.PrivatePath, 0o644); err != nil {
			t.Fatal(err)
		}
		tight := testutil.GenerateKey(t, dir, "id_ed25519")

		mock := runner.NewMockRunner()
		mock.Script("ssh-add", nil, &runner.Result{})
		l := NewLoader(WithRunner(mock), WithStrict(true), WithLogger(discardLogger()))

		loaded, err := l.EnsureLoaded(context.Background(), addr, []Candidate{
			{Path: loose.PrivatePath},
			{Path: tight.PrivatePath},
		})
		if err != nil {
			t.Fatalf("EnsureLoaded() error = %v", err)
		}
		if loaded.Path != tight.PrivatePath {
			t.Errorf("Path = %q, want the tight-mode candidate", loaded.Path)
		}
		calls := mock.Calls()
		if len(calls) != 1 || calls[0].Args[0] != tight.PrivatePath {
			t.Errorf("ssh-add calls = %+v, want only the tight-mode key", calls)
		}
	})

	t.Run("default mode only warns", func(t *testing.T) {
		addr, _ := testutil.StartAgent(t)
		key := testutil.GenerateKey(t, t.TempDir(), "id_ed25519")
		if err := os.Chmod(key.PrivatePath, 0o644); err != nil {
			t.Fatal(err)
		}

		mock := runner.NewMockRunner()
		mock.Script("ssh-add", nil, &runner.Result{})
		l := NewLoader(WithRunner(mock), WithLogger(discardLogger()))

		if _, err := l.EnsureLoaded(context.Background(), addr, []Candidate{{Path: key.PrivatePath}}); err != nil {
			t.Errorf("EnsureLoaded() error = %v", err)
		}
	})

	t.Run("tight mode passes strict", func(t *testing.T) {
		l := NewLoader(WithStrict(true), WithLogger(discardLogger()))
		key := testutil.GenerateKey(t, t.TempDir(), "id_ed25519")
		if err := l.checkPermissions(key.PrivatePath); err != nil {
			t.Errorf("checkPermissions() error = %v", err)
		}
	})
}
