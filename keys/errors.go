package keys

import "errors"

// Key loading errors.
var (
	// ErrNoUsableKey is returned when no identity candidate could be
	// loaded into the agent.
	ErrNoUsableKey = errors.New("no usable SSH key")

	// ErrPassphraseRequired is returned when a candidate is encrypted
	// and no passphrase was supplied for it.
	ErrPassphraseRequired = errors.New("SSH key requires a passphrase")

	// ErrKeyPermissions is returned in strict mode when a private key
	// file is accessible by group or others.
	ErrKeyPermissions = errors.New("SSH key file permissions too open")
)
