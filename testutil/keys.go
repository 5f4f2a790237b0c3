package testutil

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
)

// TestKey is a generated throwaway SSH key pair on disk.
type TestKey struct {
	// PrivatePath is the private key file (mode 0600).
	PrivatePath string

	// PublicPath is the ".pub" sibling in authorized_keys format.
	PublicPath string

	// Fingerprint is the key's SHA256 fingerprint.
	Fingerprint string

	// Signer is the parsed private key.
	Signer ssh.Signer

	private ed25519.PrivateKey
}

// GenerateKey writes a fresh unencrypted Ed25519 key pair named name
// into dir and returns its details.
func GenerateKey(t *testing.T, dir, name string) *TestKey {
	t.Helper()

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate ed25519 key: %v", err)
	}

	block, err := ssh.MarshalPrivateKey(priv, "")
	if err != nil {
		t.Fatalf("marshal private key: %v", err)
	}
	privPath := filepath.Join(dir, name)
	if err := os.WriteFile(privPath, pem.EncodeToMemory(block), 0o600); err != nil {
		t.Fatalf("write private key: %v", err)
	}

	sshPub, err := ssh.NewPublicKey(pub)
	if err != nil {
		t.Fatalf("convert public key: %v", err)
	}
	pubPath := privPath + ".pub"
	if err := os.WriteFile(pubPath, ssh.MarshalAuthorizedKey(sshPub), 0o644); err != nil {
		t.Fatalf("write public key: %v", err)
	}

	signer, err := ssh.NewSignerFromKey(priv)
	if err != nil {
		t.Fatalf("create signer: %v", err)
	}

	return &TestKey{
		PrivatePath: privPath,
		PublicPath:  pubPath,
		Fingerprint: ssh.FingerprintSHA256(sshPub),
		Signer:      signer,
		private:     priv,
	}
}

// PrivatePEM returns the private key in PEM form, for inline-content
// candidates.
func (k *TestKey) PrivatePEM(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(k.PrivatePath)
	if err != nil {
		t.Fatalf("read private key: %v", err)
	}
	return string(data)
}

// AddToAgent loads the key into an agent keyring, as a real ssh-add
// would.
func (k *TestKey) AddToAgent(t *testing.T, keyring agent.Agent) {
	t.Helper()
	if err := keyring.Add(agent.AddedKey{PrivateKey: k.private}); err != nil {
		t.Fatalf("add key to agent: %v", err)
	}
}
