package agent

import "errors"

// Agent lifecycle errors.
var (
	// ErrAgentSpawn is returned when the external agent binary is
	// missing or its startup output cannot be parsed.
	ErrAgentSpawn = errors.New("failed to spawn ssh-agent")

	// ErrAgentUnavailable is returned when spawning failed even after a
	// retry; no agent endpoint could be produced.
	ErrAgentUnavailable = errors.New("ssh-agent unavailable")
)
