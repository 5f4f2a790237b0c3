package persistssh

import (
	"context"
	"fmt"
	"sync"

	"github.com/randalmurphal/persistssh/gitcmd"
	"github.com/randalmurphal/persistssh/keys"
)

// HostResult is the outcome of setting up one host: a boolean success
// plus a retrievable diagnostic. A failed host never aborts sibling
// setups in a fan-out.
type HostResult struct {
	// Host is the hostname the setup was for.
	Host string

	// Endpoint is the live agent endpoint, set on success.
	Endpoint string

	// Key is the identity satisfying the setup, set on success.
	Key *keys.LoadedKey

	// Err is the diagnostic reason when the setup failed.
	Err error
}

// OK reports whether the setup succeeded.
func (r *HostResult) OK() bool {
	return r.Err == nil
}

// Reason returns the failure diagnostic, or "" on success.
func (r *HostResult) Reason() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// SetupHost performs the full setup sequence for one host: obtain a live
// agent endpoint (reusing or spawning under the session lock), then make
// sure a suitable identity is loaded. Staleness is recovered internally;
// configuration and credential problems surface in the result.
func (m *Manager) SetupHost(ctx context.Context, hostname string) *HostResult {
	result := &HostResult{Host: hostname}
	if hostname == "" {
		result.Err = fmt.Errorf("no hostname provided")
		return result
	}

	endpointAddr, err := m.agents.Ensure(ctx)
	if err != nil {
		result.Err = fmt.Errorf("ensure agent: %w", err)
		return result
	}
	result.Endpoint = endpointAddr

	resolved := m.cfg.Resolve(hostname)
	key, err := m.loader.EnsureLoaded(ctx, endpointAddr, m.candidatesFor(hostname, resolved))
	if err != nil {
		result.Err = fmt.Errorf("load identity for %s: %w", hostname, err)
		return result
	}
	result.Key = key

	if m.checkConn {
		if err := m.testConnection(ctx, hostname, endpointAddr); err != nil {
			result.Err = err
			return result
		}
	}
	return result
}

// SetupHosts sets up multiple hosts concurrently, one goroutine per
// host. Each host runs the full sequence independently; the only shared
// coordination is the session store lock. Results are returned in input
// order.
func (m *Manager) SetupHosts(ctx context.Context, hostnames ...string) []*HostResult {
	results := make([]*HostResult, len(hostnames))
	var wg sync.WaitGroup
	for i, hostname := range hostnames {
		wg.Add(1)
		go func(i int, hostname string) {
			defer wg.Done()
			results[i] = m.SetupHost(ctx, hostname)
		}(i, hostname)
	}
	wg.Wait()
	return results
}

// GitSSHCommand sets up the host and renders the ssh invocation string
// for it, suitable for GIT_SSH_COMMAND.
func (m *Manager) GitSSHCommand(ctx context.Context, hostname string) (string, error) {
	result := m.SetupHost(ctx, hostname)
	if !result.OK() {
		return "", result.Err
	}
	return gitcmd.Build(m.cfg.Resolve(hostname), result.Key), nil
}

// GitSSHEnv is like GitSSHCommand but renders the full environment-style
// assignment (GIT_SSH_COMMAND=...).
func (m *Manager) GitSSHEnv(ctx context.Context, hostname string) (string, error) {
	cmd, err := m.GitSSHCommand(ctx, hostname)
	if err != nil {
		return "", err
	}
	return gitcmd.EnvVar + "=" + cmd, nil
}
