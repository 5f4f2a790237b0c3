package keys

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Candidate sources, for diagnostics.
const (
	SourceConfig  = "config"
	SourceEnv     = "env"
	SourceDefault = "default"
)

// Candidate is one potential identity: an explicit private key file, or
// inline key content (e.g. injected through the environment in CI). A
// candidate is never persisted beyond the process; only its fingerprint
// is used to detect "already loaded".
type Candidate struct {
	// Path is the private key file. Empty for inline content.
	Path string

	// Content is inline private key material. Materialized to a 0600
	// temp file for loading and removed immediately afterwards.
	Content string

	// Passphrase decrypts the key if it is encrypted. Supplied to the
	// key tool over stdin, never via arguments.
	Passphrase string

	// Source records where the candidate came from (config, env,
	// default discovery).
	Source string
}

// DefaultKeyNames is the discovery preference order, strongest key type
// first: Ed25519, ECDSA, the security-key variants, then RSA, with DSA as
// a last resort.
var DefaultKeyNames = []string{
	"id_ed25519",
	"id_ecdsa",
	"id_ecdsa_sk",
	"id_ed25519_sk",
	"id_rsa",
	"id_dsa",
}

// DiscoverDefaults returns candidates for the default key files present
// in sshDir, in preference order. A missing directory yields no
// candidates and no error.
func DiscoverDefaults(sshDir string) []Candidate {
	var candidates []Candidate
	for _, name := range DefaultKeyNames {
		path := filepath.Join(sshDir, name)
		if _, err := os.Stat(path); err == nil {
			candidates = append(candidates, Candidate{Path: path, Source: SourceDefault})
		}
	}
	return candidates
}

// materialize returns a loadable file path for the candidate. Inline
// content is written to a 0600 temp file with CRLF endings normalized;
// the returned cleanup removes it. File candidates return their path and
// a no-op cleanup.
func (c *Candidate) materialize() (path string, cleanup func(), err error) {
	if c.Path != "" {
		return c.Path, func() {}, nil
	}
	if c.Content == "" {
		return "", nil, fmt.Errorf("candidate has neither path nor content")
	}

	content := strings.ReplaceAll(c.Content, "\r\n", "\n")
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}

	f, err := os.CreateTemp("", "persistssh-key-*")
	if err != nil {
		return "", nil, fmt.Errorf("create temporary key file: %w", err)
	}
	tmp := f.Name()
	remove := func() { os.Remove(tmp) }

	if err := f.Chmod(0o600); err != nil {
		f.Close()
		remove()
		return "", nil, fmt.Errorf("restrict temporary key file: %w", err)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		remove()
		return "", nil, fmt.Errorf("write temporary key file: %w", err)
	}
	if err := f.Close(); err != nil {
		remove()
		return "", nil, fmt.Errorf("close temporary key file: %w", err)
	}
	return tmp, remove, nil
}

// describe names the candidate for diagnostics without exposing content.
func (c *Candidate) describe() string {
	if c.Path != "" {
		return c.Path
	}
	return fmt.Sprintf("inline key (%s)", c.Source)
}
