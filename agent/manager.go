package agent

import (
	"context"
	"fmt"
	"log/slog"
	"os/user"
	"time"

	"github.com/randalmurphal/persistssh/runner"
	"github.com/randalmurphal/persistssh/session"
)

// DefaultTTL is how long a spawned agent is reused before it must be
// replaced.
const DefaultTTL = 24 * time.Hour

// Manager decides between reusing a persisted agent and spawning a fresh
// one. All decisions happen inside the session store's cross-process lock
// scope, so concurrent callers across processes converge on one agent.
type Manager struct {
	store        *session.Store
	runner       runner.CommandRunner
	logger       *slog.Logger
	ttl          time.Duration
	probeTimeout time.Duration
	owner        string

	// Seams for tests; production uses the platform implementations.
	spawn     func(ctx context.Context, r runner.CommandRunner) (*SpawnResult, error)
	probe     func(ctx context.Context, addr string, timeout time.Duration) bool
	alive     func(pid int) bool
	terminate func(pid int) error
	now       func() time.Time
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithTTL sets the expiration duration for spawned agents.
func WithTTL(ttl time.Duration) ManagerOption {
	return func(m *Manager) { m.ttl = ttl }
}

// WithRunner sets the command runner used to start the agent binary.
// This is primarily used for testing to inject mock command execution.
func WithRunner(r runner.CommandRunner) ManagerOption {
	return func(m *Manager) { m.runner = r }
}

// WithLogger sets the manager's logger.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) { m.logger = logger }
}

// WithProbeTimeout bounds the endpoint liveness probe.
func WithProbeTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) { m.probeTimeout = d }
}

// NewManager creates a lifecycle manager over the given session store.
func NewManager(store *session.Store, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:        store,
		runner:       runner.NewExecRunner(),
		logger:       slog.Default(),
		ttl:          DefaultTTL,
		probeTimeout: DefaultProbeTimeout,
		spawn:        Spawn,
		probe:        Probe,
		alive:        isProcessAlive,
		terminate:    terminateProcess,
		now:          time.Now,
	}
	if u, err := user.Current(); err == nil {
		m.owner = u.Username
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Ensure returns the endpoint of a live agent, reusing the persisted
// session when it is unexpired and its process and endpoint both answer,
// and spawning a replacement otherwise. Stale sessions are terminated
// best-effort and invalidated before anything new is written; the caller
// never sees the staleness, only an endpoint or an error.
//
// Spawning is retried once; persistent failure surfaces as
// ErrAgentUnavailable. Lock acquisition is bounded by ctx and fails with
// session.ErrLockTimeout rather than blocking indefinitely.
func (m *Manager) Ensure(ctx context.Context) (string, error) {
	var endpointAddr string
	err := m.store.WithLock(ctx, func() error {
		addr, err := m.ensureLocked(ctx)
		if err != nil {
			return err
		}
		endpointAddr = addr
		return nil
	})
	if err != nil {
		return "", err
	}
	return endpointAddr, nil
}

func (m *Manager) ensureLocked(ctx context.Context) (string, error) {
	sess, err := m.store.Load()
	if err != nil {
		return "", err
	}

	if sess != nil {
		if m.reusable(ctx, sess) {
			m.logger.Debug("reusing ssh-agent",
				"session", sess.ID, "endpoint", sess.Endpoint, "pid", sess.PID)
			return sess.Endpoint, nil
		}
		m.retire(sess)
	}

	spawned, err := m.spawnWithRetry(ctx)
	if err != nil {
		return "", err
	}

	newSess, err := session.New(spawned.Endpoint, spawned.PID, m.owner, m.ttl)
	if err != nil {
		return "", err
	}
	if err := m.store.Save(newSess); err != nil {
		return "", fmt.Errorf("persist agent session: %w", err)
	}
	m.logger.Info("spawned ssh-agent",
		"session", newSess.ID, "endpoint", newSess.Endpoint,
		"pid", newSess.PID, "expires_at", newSess.ExpiresAt)
	return newSess.Endpoint, nil
}

// reusable checks the three reuse conditions: unexpired, process alive,
// endpoint answering.
func (m *Manager) reusable(ctx context.Context, sess *session.Session) bool {
	if sess.Expired(m.now()) {
		m.logger.Debug("agent session expired", "session", sess.ID)
		return false
	}
	if !m.alive(sess.PID) {
		m.logger.Debug("agent process gone", "session", sess.ID, "pid", sess.PID)
		return false
	}
	if !m.probe(ctx, sess.Endpoint, m.probeTimeout) {
		m.logger.Debug("agent endpoint unreachable",
			"session", sess.ID, "endpoint", sess.Endpoint)
		return false
	}
	return true
}

// retire terminates a stale session's process best-effort and removes the
// record. Termination failure is logged, not fatal: the replacement agent
// does not depend on the old one dying.
func (m *Manager) retire(sess *session.Session) {
	if m.alive(sess.PID) {
		if err := m.terminate(sess.PID); err != nil {
			m.logger.Warn("failed to terminate stale ssh-agent",
				"session", sess.ID, "pid", sess.PID, "error", err)
		}
	}
	if err := m.store.Invalidate(); err != nil {
		m.logger.Warn("failed to invalidate stale session", "session", sess.ID, "error", err)
	}
}

func (m *Manager) spawnWithRetry(ctx context.Context) (*SpawnResult, error) {
	spawned, err := m.spawn(ctx, m.runner)
	if err == nil {
		return spawned, nil
	}
	m.logger.Warn("ssh-agent spawn failed, retrying once", "error", err)

	spawned, err = m.spawn(ctx, m.runner)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAgentUnavailable, err)
	}
	return spawned, nil
}

// Reset terminates any persisted agent and removes the session record,
// regardless of expiry. The next Ensure spawns fresh.
func (m *Manager) Reset(ctx context.Context) error {
	return m.store.WithLock(ctx, func() error {
		sess, err := m.store.Load()
		if err != nil {
			return err
		}
		if sess != nil {
			m.retire(sess)
		}
		return nil
	})
}
