package keys

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"golang.org/x/crypto/ssh/agent"

	"github.com/randalmurphal/persistssh/endpoint"
	"github.com/randalmurphal/persistssh/runner"
)

// DefaultTimeout bounds each external key-tool invocation and agent query.
const DefaultTimeout = 10 * time.Second

// DialFunc connects to an agent endpoint. Overridable for tests.
type DialFunc func(ctx context.Context, addr string) (net.Conn, error)

// LoadedKey describes the identity that satisfied an EnsureLoaded call.
type LoadedKey struct {
	// Path is the private key file, empty when only inline content was
	// used (the temp file is gone by the time the caller sees this).
	Path string

	// Fingerprint is the key's SHA256 public fingerprint, when known.
	Fingerprint string

	// AlreadyLoaded reports that the agent held the key before the call.
	AlreadyLoaded bool
}

// Loader loads identity candidates into a running agent, skipping keys
// the agent already holds.
type Loader struct {
	runner  runner.CommandRunner
	dial    DialFunc
	logger  *slog.Logger
	timeout time.Duration
	strict  bool
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithRunner sets the command runner used to invoke ssh-add.
func WithRunner(r runner.CommandRunner) LoaderOption {
	return func(l *Loader) { l.runner = r }
}

// WithDialer sets how the loader reaches the agent endpoint.
func WithDialer(d DialFunc) LoaderOption {
	return func(l *Loader) { l.dial = d }
}

// WithLogger sets the loader's logger.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) { l.logger = logger }
}

// WithTimeout bounds each agent query and ssh-add invocation.
func WithTimeout(d time.Duration) LoaderOption {
	return func(l *Loader) { l.timeout = d }
}

// WithStrict makes overly permissive key file modes fatal instead of a
// warning.
func WithStrict(strict bool) LoaderOption {
	return func(l *Loader) { l.strict = strict }
}

// NewLoader creates a key loader with the given options.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		runner:  runner.NewExecRunner(),
		dial:    endpoint.Dial,
		logger:  slog.Default(),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadedFingerprints queries the agent for the SHA256 fingerprints of
// every key it currently holds.
func (l *Loader) LoadedFingerprints(ctx context.Context, agentEndpoint string) (map[string]bool, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	conn, err := l.dial(ctx, agentEndpoint)
	if err != nil {
		return nil, fmt.Errorf("connect to agent: %w", err)
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	akeys, err := agent.NewClient(conn).List()
	if err != nil {
		return nil, fmt.Errorf("list agent keys: %w", err)
	}

	fps := make(map[string]bool, len(akeys))
	for _, k := range akeys {
		fps[Fingerprint(k)] = true
	}
	return fps, nil
}

// EnsureLoaded walks candidates in preference order and makes sure the
// agent at agentEndpoint holds one of them. Candidates whose fingerprint
// the agent already has are reported as loaded without touching the key
// tool, so repeated calls are no-ops. The first unloaded usable candidate
// is loaded via ssh-add, with any passphrase supplied over stdin.
//
// Returns ErrPassphraseRequired when the only loadable candidates were
// encrypted without a passphrase, ErrKeyPermissions when strict mode
// rejected every remaining candidate's file mode, and ErrNoUsableKey
// when no candidate could be loaded at all. A candidate rejected for
// its file mode never blocks a later candidate with a tight mode.
func (l *Loader) EnsureLoaded(ctx context.Context, agentEndpoint string, candidates []Candidate) (*LoadedKey, error) {
	if len(candidates) == 0 {
		return nil, ErrNoUsableKey
	}

	loaded, err := l.LoadedFingerprints(ctx, agentEndpoint)
	if err != nil {
		return nil, err
	}

	var (
		passphraseNeeded bool
		permissionErr    error
	)
	for i := range candidates {
		cand := &candidates[i]

		key, err := l.tryCandidate(ctx, agentEndpoint, cand, loaded)
		if err == nil {
			return key, nil
		}
		if errors.Is(err, ErrPassphraseRequired) {
			passphraseNeeded = true
		}
		if errors.Is(err, ErrKeyPermissions) && permissionErr == nil {
			permissionErr = err
		}
		l.logger.Debug("identity candidate not usable",
			"candidate", cand.describe(), "error", err)
	}

	if passphraseNeeded {
		return nil, ErrPassphraseRequired
	}
	if permissionErr != nil {
		return nil, permissionErr
	}
	return nil, ErrNoUsableKey
}

func (l *Loader) tryCandidate(ctx context.Context, agentEndpoint string, cand *Candidate, loaded map[string]bool) (*LoadedKey, error) {
	path, cleanup, err := cand.materialize()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	// "Path" in the result must survive cleanup: inline keys have none.
	resultPath := cand.Path

	info, err := inspect(path, cand.Passphrase)
	if err != nil {
		return nil, err
	}
	if info.fingerprint != "" && loaded[info.fingerprint] {
		return &LoadedKey{Path: resultPath, Fingerprint: info.fingerprint, AlreadyLoaded: true}, nil
	}

	if err := l.checkPermissions(path); err != nil {
		return nil, err
	}
	if info.encrypted && cand.Passphrase == "" {
		// The key tool would prompt interactively, which we never allow.
		return nil, ErrPassphraseRequired
	}

	if err := l.sshAdd(ctx, agentEndpoint, path, cand.Passphrase); err != nil {
		return nil, err
	}
	return &LoadedKey{Path: resultPath, Fingerprint: info.fingerprint}, nil
}

// sshAdd loads one key file via the external key tool. The passphrase, if
// any, goes over stdin so it never shows up in a process listing.
func (l *Loader) sshAdd(ctx context.Context, agentEndpoint, path, passphrase string) error {
	cmd := runner.Command{
		Name:    "ssh-add",
		Args:    []string{path},
		Env:     []string{endpoint.EnvVar + "=" + agentEndpoint},
		Timeout: l.timeout,
	}
	if passphrase != "" {
		cmd.Stdin = passphrase + "\n"
	}

	res, err := l.runner.Run(ctx, cmd)
	if err != nil {
		return fmt.Errorf("ssh-add: %w", err)
	}
	if !res.Ok() {
		stderr := strings.ToLower(res.Stderr)
		if strings.Contains(stderr, "passphrase") || strings.Contains(stderr, "incorrect") {
			return ErrPassphraseRequired
		}
		return fmt.Errorf("ssh-add exited %d: %s", res.ExitCode, strings.TrimSpace(res.Stderr))
	}
	return nil
}
