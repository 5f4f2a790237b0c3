package keys

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/ssh"
)

// Fingerprint computes the SHA256 fingerprint of a public key.
func Fingerprint(pub ssh.PublicKey) string {
	return ssh.FingerprintSHA256(pub)
}

// keyInfo is what inspection learns about a private key file without
// loading it into the agent.
type keyInfo struct {
	// fingerprint is the public SHA256 fingerprint. Empty when it
	// cannot be determined pre-load (encrypted key in a format that
	// hides the public half, with no .pub sibling and no passphrase).
	fingerprint string

	// encrypted reports that loading the key will need a passphrase.
	encrypted bool
}

// inspect determines a private key file's fingerprint and encryption
// state. The fingerprint comes from the ".pub" sibling when present;
// otherwise from parsing the private key, decrypting with passphrase if
// needed. The modern key format stores the public half in plaintext, so
// even encrypted keys usually yield a fingerprint without a passphrase.
func inspect(path, passphrase string) (*keyInfo, error) {
	info := &keyInfo{}

	keyData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}

	signer, parseErr := ssh.ParsePrivateKey(keyData)
	if parseErr == nil {
		info.fingerprint = Fingerprint(signer.PublicKey())
		return info, nil
	}

	var missing *ssh.PassphraseMissingError
	if !errors.As(parseErr, &missing) {
		return nil, fmt.Errorf("parse private key: %w", parseErr)
	}
	info.encrypted = true

	if missing.PublicKey != nil {
		info.fingerprint = Fingerprint(missing.PublicKey)
		return info, nil
	}
	if pubData, err := os.ReadFile(path + ".pub"); err == nil {
		if pub, _, _, _, err := ssh.ParseAuthorizedKey(pubData); err == nil {
			info.fingerprint = Fingerprint(pub)
			return info, nil
		}
	}
	if passphrase == "" {
		// Encrypted, public half unknowable: the caller can still load
		// it if it has a passphrase, but cannot dedupe beforehand.
		return info, nil
	}

	signer, err = ssh.ParsePrivateKeyWithPassphrase(keyData, []byte(passphrase))
	if err != nil {
		return nil, fmt.Errorf("decrypt private key: %w", err)
	}
	info.fingerprint = Fingerprint(signer.PublicKey())
	return info, nil
}
