package keys

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/ssh"

	"github.com/randalmurphal/persistssh/testutil"
)

// writeEncryptedKey writes a passphrase-protected Ed25519 key and returns
// its path and SHA256 fingerprint.
func writeEncryptedKey(t *testing.T, dir, name, passphrase string) (path, fingerprint string) {
	t.Helper()

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	block, err := ssh.MarshalPrivateKeyWithPassphrase(priv, "", []byte(passphrase))
	if err != nil {
		t.Fatal(err)
	}
	path = filepath.Join(dir, name)
	if err := os.WriteFile(path, pem.EncodeToMemory(block), 0o600); err != nil {
		t.Fatal(err)
	}
	sshPub, err := ssh.NewPublicKey(pub)
	if err != nil {
		t.Fatal(err)
	}
	return path, ssh.FingerprintSHA256(sshPub)
}

func TestInspect(t *testing.T) {
	t.Run("unencrypted key", func(t *testing.T) {
		key := testutil.GenerateKey(t, t.TempDir(), "id_ed25519")

		info, err := inspect(key.PrivatePath, "")
		if err != nil {
			t.Fatalf("inspect() error = %v", err)
		}
		if info.encrypted {
			t.Error("unencrypted key reported as encrypted")
		}
		if info.fingerprint != key.Fingerprint {
			t.Errorf("fingerprint = %q, want %q", info.fingerprint, key.Fingerprint)
		}
	})

	t.Run("encrypted key without passphrase", func(t *testing.T) {
		path, want := writeEncryptedKey(t, t.TempDir(), "id_ed25519", "secret")

		// The modern key format keeps the public half in plaintext, so
		// the fingerprint is known even before decryption.
		info, err := inspect(path, "")
		if err != nil {
			t.Fatalf("inspect() error = %v", err)
		}
		if !info.encrypted {
			t.Error("encrypted key not reported as encrypted")
		}
		if info.fingerprint != want {
			t.Errorf("fingerprint = %q, want %q", info.fingerprint, want)
		}
	})

	t.Run("encrypted key with passphrase", func(t *testing.T) {
		path, want := writeEncryptedKey(t, t.TempDir(), "id_ed25519", "secret")

		info, err := inspect(path, "secret")
		if err != nil {
			t.Fatalf("inspect() error = %v", err)
		}
		if info.fingerprint != want {
			t.Errorf("fingerprint = %q, want %q", info.fingerprint, want)
		}
	})

	t.Run("garbage file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "key")
		if err := os.WriteFile(path, []byte("not a key"), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := inspect(path, ""); err == nil {
			t.Error("expected parse error")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := inspect(filepath.Join(t.TempDir(), "nope"), ""); err == nil {
			t.Error("expected read error")
		}
	})
}
