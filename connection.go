package persistssh

import (
	"context"
	"fmt"
	"time"

	"github.com/randalmurphal/persistssh/endpoint"
	"github.com/randalmurphal/persistssh/runner"
)

// connectionTestTimeout bounds the authentication probe.
const connectionTestTimeout = 15 * time.Second

// testConnection verifies the host accepts the loaded identity by
// attempting a no-shell authentication as the git user. Most git servers
// refuse the shell after successful auth, so exit codes 0 and 1 both
// mean the credentials worked.
func (m *Manager) testConnection(ctx context.Context, hostname, agentEndpoint string) error {
	res, err := m.runner.Run(ctx, runner.Command{
		Name: "ssh",
		Args: []string{
			"-T",
			"-o", "StrictHostKeyChecking=no",
			"-o", "BatchMode=yes",
			"git@" + hostname,
		},
		Env:     []string{endpoint.EnvVar + "=" + agentEndpoint},
		Timeout: connectionTestTimeout,
	})
	if err != nil {
		return fmt.Errorf("test connection to %s: %w", hostname, err)
	}
	if res.ExitCode != 0 && res.ExitCode != 1 {
		return fmt.Errorf("authentication to %s failed (ssh exited %d)", hostname, res.ExitCode)
	}
	return nil
}
