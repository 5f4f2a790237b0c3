package agent

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/randalmurphal/persistssh/endpoint"
	"github.com/randalmurphal/persistssh/runner"
)

// SpawnTimeout bounds the agent startup invocation.
const SpawnTimeout = 10 * time.Second

// SpawnResult is a freshly started agent.
type SpawnResult struct {
	Endpoint string
	PID      int
}

// Spawn starts the external ssh-agent binary and parses its documented
// Bourne-shell startup output:
//
//	SSH_AUTH_SOCK=/tmp/ssh-XXXX/agent.123; export SSH_AUTH_SOCK;
//	SSH_AGENT_PID=124; export SSH_AGENT_PID;
//
// A missing binary or unparsable output fails with an ErrAgentSpawn-
// wrapped error.
func Spawn(ctx context.Context, r runner.CommandRunner) (*SpawnResult, error) {
	res, err := r.Run(ctx, runner.Command{
		Name:    "ssh-agent",
		Args:    []string{"-s"},
		Timeout: SpawnTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAgentSpawn, err)
	}
	if !res.Ok() {
		return nil, fmt.Errorf("%w: ssh-agent exited %d: %s",
			ErrAgentSpawn, res.ExitCode, strings.TrimSpace(res.Stderr))
	}
	return parseStartupOutput(res.Stdout)
}

// parseStartupOutput extracts the endpoint and process id from the
// agent's startup text.
func parseStartupOutput(output string) (*SpawnResult, error) {
	vars := make(map[string]string)
	for _, line := range strings.Split(output, "\n") {
		eq := strings.Index(line, "=")
		semi := strings.Index(line, ";")
		if eq < 0 || semi < eq {
			continue
		}
		name := strings.TrimSpace(line[:eq])
		value := strings.TrimSpace(line[eq+1 : semi])
		value = strings.Trim(value, `"`)
		vars[name] = value
	}

	sock := vars[endpoint.EnvVar]
	pidStr := vars["SSH_AGENT_PID"]
	if sock == "" || pidStr == "" {
		return nil, fmt.Errorf("%w: startup output missing %s or SSH_AGENT_PID",
			ErrAgentSpawn, endpoint.EnvVar)
	}
	pid, err := strconv.Atoi(pidStr)
	if err != nil || pid <= 0 {
		return nil, fmt.Errorf("%w: bad agent pid %q", ErrAgentSpawn, pidStr)
	}
	return &SpawnResult{Endpoint: sock, PID: pid}, nil
}
