// Package testutil provides utilities for testing against SSH agents
// without external binaries.
package testutil

import (
	"net"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/ssh/agent"
)

// StartAgent serves an in-process SSH agent on a unix socket under the
// test's temp directory and returns its endpoint plus the backing
// keyring for direct inspection. The agent speaks the real agent
// protocol, so production probe and list code paths exercise it
// unchanged. Everything shuts down when the test ends.
func StartAgent(t *testing.T) (endpoint string, keyring agent.Agent) {
	t.Helper()

	keyring = agent.NewKeyring()
	// Socket paths have a tight length limit; keep the name short.
	endpoint = filepath.Join(t.TempDir(), "agent.sock")

	listener, err := net.Listen("unix", endpoint)
	if err != nil {
		t.Fatalf("listen on agent socket: %v", err)
	}
	t.Cleanup(func() { listener.Close() })

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			go func(conn net.Conn) {
				defer conn.Close()
				agent.ServeAgent(keyring, conn)
			}(conn)
		}
	}()

	return endpoint, keyring
}
