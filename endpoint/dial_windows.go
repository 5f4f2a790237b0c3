//go:build windows

package endpoint

import (
	"context"
	"net"

	"github.com/Microsoft/go-winio"
)

// Dial connects to the agent's named pipe (for example
// \\.\pipe\openssh-ssh-agent).
func Dial(ctx context.Context, addr string) (net.Conn, error) {
	return winio.DialPipeContext(ctx, addr)
}
