package agent

import (
	"context"
	"time"

	sshagent "golang.org/x/crypto/ssh/agent"

	"github.com/randalmurphal/persistssh/endpoint"
)

// DefaultProbeTimeout bounds the liveness probe. A probe that does not
// answer in time is treated as dead.
const DefaultProbeTimeout = 3 * time.Second

// Probe reports whether a live agent answers at addr. It dials the
// endpoint and issues a key-list request, the agent protocol's cheapest
// no-op query. Any dial error, protocol error, or timeout means dead.
func Probe(ctx context.Context, addr string, timeout time.Duration) bool {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conn, err := endpoint.Dial(ctx, addr)
	if err != nil {
		return false
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	_, err = sshagent.NewClient(conn).List()
	return err == nil
}
