package persistssh

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/randalmurphal/persistssh/keys"
)

// EnvConfig is the environment-sourced configuration, the usual channel
// for CI systems that inject credentials rather than mounting key files.
type EnvConfig struct {
	// IdentityFile is an explicit private key path (SSH_IDENTITY_FILE).
	IdentityFile string `envconfig:"SSH_IDENTITY_FILE"`

	// IdentityContent is inline private key material
	// (SSH_IDENTITY_CONTENT).
	IdentityContent string `envconfig:"SSH_IDENTITY_CONTENT"`

	// Passphrase decrypts the identity (SSH_KEY_PASSPHRASE).
	Passphrase string `envconfig:"SSH_KEY_PASSPHRASE"`

	// Expiration is the agent reuse window (SSH_AGENT_EXPIRATION),
	// in Go duration syntax. Zero means the default.
	Expiration time.Duration `envconfig:"SSH_AGENT_EXPIRATION"`
}

// ReadEnv reads the environment-sourced configuration.
func ReadEnv() (*EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("read environment config: %w", err)
	}
	return &cfg, nil
}

// FromEnv applies environment-sourced settings to a Manager. Explicit
// options given after FromEnv override it. A malformed environment
// (e.g. an unparsable SSH_AGENT_EXPIRATION) fails the NewManager call
// rather than falling back to defaults.
func FromEnv() Option {
	return func(m *Manager) {
		cfg, err := ReadEnv()
		if err != nil {
			m.envErr = err
			return
		}
		if cfg.IdentityFile != "" {
			WithIdentityFile(cfg.IdentityFile)(m)
			m.identity.Source = keys.SourceEnv
		}
		if cfg.IdentityContent != "" {
			WithIdentityContent(cfg.IdentityContent)(m)
			m.identity.Source = keys.SourceEnv
		}
		if cfg.Passphrase != "" {
			WithPassphrase(cfg.Passphrase)(m)
		}
		if cfg.Expiration > 0 {
			WithTTL(cfg.Expiration)(m)
		}
	}
}
