package agent

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/randalmurphal/persistssh/testutil"
)

func TestProbe(t *testing.T) {
	ctx := context.Background()

	t.Run("live agent", func(t *testing.T) {
		addr, _ := testutil.StartAgent(t)
		if !Probe(ctx, addr, time.Second) {
			t.Error("Probe() = false for a live agent")
		}
	})

	t.Run("live agent with keys", func(t *testing.T) {
		addr, keyring := testutil.StartAgent(t)
		testutil.GenerateKey(t, t.TempDir(), "id_ed25519").AddToAgent(t, keyring)
		if !Probe(ctx, addr, time.Second) {
			t.Error("Probe() = false for a live agent holding keys")
		}
	})

	t.Run("no socket", func(t *testing.T) {
		addr := filepath.Join(t.TempDir(), "absent.sock")
		if Probe(ctx, addr, 500*time.Millisecond) {
			t.Error("Probe() = true for missing socket")
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		addr, _ := testutil.StartAgent(t)
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		if Probe(cancelled, addr, time.Second) {
			t.Error("Probe() = true with cancelled context")
		}
	})
}
