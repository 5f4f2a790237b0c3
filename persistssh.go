package persistssh

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/randalmurphal/persistssh/agent"
	"github.com/randalmurphal/persistssh/keys"
	"github.com/randalmurphal/persistssh/runner"
	"github.com/randalmurphal/persistssh/session"
	"github.com/randalmurphal/persistssh/sshconfig"
)

// Manager wires the session store, agent lifecycle, host configuration,
// and key loading into per-host setup operations. One Manager serves any
// number of hosts, concurrently if the caller wants; all agent decisions
// funnel through the session store's cross-process lock.
type Manager struct {
	cfg    *sshconfig.Config
	store  *session.Store
	agents *agent.Manager
	loader *keys.Loader
	runner runner.CommandRunner
	logger *slog.Logger

	sshDir      string
	sessionPath string
	ttl         time.Duration
	strict      bool
	checkConn   bool

	identity keys.Candidate // explicit identity; zero when unset

	envErr error // deferred FromEnv failure, surfaced by NewManager
}

// Option configures a Manager.
type Option func(*Manager)

// WithTTL sets how long a spawned agent is reused before expiring.
// Default is 24 hours.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) { m.ttl = ttl }
}

// WithConfig sets the host configuration model. Default is an empty
// configuration.
func WithConfig(cfg *sshconfig.Config) Option {
	return func(m *Manager) { m.cfg = cfg }
}

// WithSessionPath overrides the persisted session record's location.
func WithSessionPath(path string) Option {
	return func(m *Manager) { m.sessionPath = path }
}

// WithSSHDir overrides the SSH directory used for default key discovery
// and identity path resolution. Default is ~/.ssh.
func WithSSHDir(dir string) Option {
	return func(m *Manager) { m.sshDir = dir }
}

// WithRunner sets a custom command runner for external tool invocations.
// This is primarily used for testing to inject mock command execution.
func WithRunner(r runner.CommandRunner) Option {
	return func(m *Manager) { m.runner = r }
}

// WithLogger sets the manager's logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// WithStrict makes overly permissive private key file modes fatal
// instead of a warning.
func WithStrict(strict bool) Option {
	return func(m *Manager) { m.strict = strict }
}

// WithConnectionCheck enables a post-setup authentication probe against
// the host (ssh -T), matching what git servers expect. Off by default:
// it touches the network.
func WithConnectionCheck(check bool) Option {
	return func(m *Manager) { m.checkConn = check }
}

// WithIdentityFile sets an explicit private key file used for every
// host, ahead of per-host configuration and default discovery.
func WithIdentityFile(path string) Option {
	return func(m *Manager) {
		m.identity.Path = path
		m.identity.Source = keys.SourceConfig
	}
}

// WithIdentityContent sets inline private key material (e.g. injected
// via CI secrets) used for every host. The content is materialized to a
// temp file only for the duration of the load.
func WithIdentityContent(content string) Option {
	return func(m *Manager) {
		m.identity.Content = content
		m.identity.Source = keys.SourceConfig
	}
}

// WithPassphrase sets the passphrase for the explicit identity.
func WithPassphrase(passphrase string) Option {
	return func(m *Manager) { m.identity.Passphrase = passphrase }
}

// NewManager creates a Manager with the given options.
func NewManager(opts ...Option) (*Manager, error) {
	m := &Manager{
		cfg:    sshconfig.New(),
		runner: runner.NewExecRunner(),
		logger: slog.Default(),
		ttl:    agent.DefaultTTL,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.envErr != nil {
		return nil, m.envErr
	}

	if m.sshDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		m.sshDir = filepath.Join(home, ".ssh")
	}
	if m.sessionPath == "" {
		m.sessionPath = filepath.Join(m.sshDir, session.DefaultFileName)
	}

	store, err := session.NewStore(m.sessionPath, m.logger)
	if err != nil {
		return nil, err
	}
	m.store = store
	m.agents = agent.NewManager(store,
		agent.WithTTL(m.ttl),
		agent.WithRunner(m.runner),
		agent.WithLogger(m.logger),
	)
	m.loader = keys.NewLoader(
		keys.WithRunner(m.runner),
		keys.WithLogger(m.logger),
		keys.WithStrict(m.strict),
	)
	return m, nil
}

// Config returns the manager's host configuration model for direct
// option registration.
func (m *Manager) Config() *sshconfig.Config {
	return m.cfg
}

// candidatesFor assembles the identity candidates for a host in
// preference order: the explicit identity, then the host's resolved
// IdentityFile, then default discovery under the SSH directory.
func (m *Manager) candidatesFor(hostname string, resolved *sshconfig.Resolved) []keys.Candidate {
	var candidates []keys.Candidate

	if m.identity.Path != "" || m.identity.Content != "" {
		c := m.identity
		if c.Path != "" {
			c.Path = m.resolveIdentityPath(c.Path)
		}
		candidates = append(candidates, c)
	}

	if path := resolved.Get("IdentityFile"); path != "" {
		resolvedPath := m.resolveIdentityPath(path)
		if _, err := os.Stat(resolvedPath); err == nil {
			candidates = append(candidates, keys.Candidate{
				Path:       resolvedPath,
				Passphrase: m.identity.Passphrase,
				Source:     keys.SourceConfig,
			})
		} else {
			m.logger.Warn("configured identity file not found",
				"host", hostname, "path", path)
		}
	}

	return append(candidates, keys.DiscoverDefaults(m.sshDir)...)
}

// resolveIdentityPath handles the path shapes seen in ssh configs:
// absolute paths, ~-prefixed paths, and bare names relative to the SSH
// directory.
func (m *Manager) resolveIdentityPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			expanded := filepath.Join(home, path[2:])
			if _, err := os.Stat(expanded); err == nil {
				return expanded
			}
		}
	}
	if _, err := os.Stat(path); err == nil {
		return path
	}
	// Bare key names resolve under the SSH directory.
	inSSHDir := filepath.Join(m.sshDir, filepath.Base(path))
	if _, err := os.Stat(inSSHDir); err == nil {
		return inSSHDir
	}
	return path
}
