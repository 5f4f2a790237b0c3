//go:build !windows

package endpoint

import (
	"context"
	"net"
)

// Dial connects to the agent's unix domain socket.
func Dial(ctx context.Context, addr string) (net.Conn, error) {
	var d net.Dialer
	return d.DialContext(ctx, "unix", addr)
}
