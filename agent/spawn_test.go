package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/randalmurphal/persistssh/runner"
)

const agentStartupOutput = "SSH_AUTH_SOCK=/tmp/ssh-abc123/agent.42; export SSH_AUTH_SOCK;\n" +
	"SSH_AGENT_PID=43; export SSH_AGENT_PID;\n" +
	"echo Agent pid 43;\n"

func TestSpawn(t *testing.T) {
	ctx := context.Background()

	t.Run("parses startup output", func(t *testing.T) {
		mock := runner.NewMockRunner()
		mock.Script("ssh-agent", []string{"-s"}, &runner.Result{Stdout: agentStartupOutput})

		res, err := Spawn(ctx, mock)
		if err != nil {
			t.Fatalf("Spawn() error = %v", err)
		}
		if res.Endpoint != "/tmp/ssh-abc123/agent.42" {
			t.Errorf("Endpoint = %q", res.Endpoint)
		}
		if res.PID != 43 {
			t.Errorf("PID = %d, want 43", res.PID)
		}
	})

	t.Run("binary not found", func(t *testing.T) {
		mock := runner.NewMockRunner()
		mock.ScriptError("ssh-agent", nil, runner.ErrBinaryNotFound)

		_, err := Spawn(ctx, mock)
		if !errors.Is(err, ErrAgentSpawn) {
			t.Errorf("error = %v, want ErrAgentSpawn", err)
		}
	})

	t.Run("nonzero exit", func(t *testing.T) {
		mock := runner.NewMockRunner()
		mock.Script("ssh-agent", nil, &runner.Result{ExitCode: 1, Stderr: "boom"})

		_, err := Spawn(ctx, mock)
		if !errors.Is(err, ErrAgentSpawn) {
			t.Errorf("error = %v, want ErrAgentSpawn", err)
		}
	})
}

func TestParseStartupOutput(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		endpoint string
		pid      int
		wantErr  bool
	}{
		{
			name:     "standard output",
			output:   agentStartupOutput,
			endpoint: "/tmp/ssh-abc123/agent.42",
			pid:      43,
		},
		{
			name:     "quoted values",
			output:   "SSH_AUTH_SOCK=\"/tmp/agent.sock\"; export SSH_AUTH_SOCK;\nSSH_AGENT_PID=7; export SSH_AGENT_PID;\n",
			endpoint: "/tmp/agent.sock",
			pid:      7,
		},
		{
			name:    "garbage",
			output:  "something went wrong\n",
			wantErr: true,
		},
		{
			name:    "missing pid",
			output:  "SSH_AUTH_SOCK=/tmp/agent.sock; export SSH_AUTH_SOCK;\n",
			wantErr: true,
		},
		{
			name:    "non-numeric pid",
			output:  "SSH_AUTH_SOCK=/tmp/agent.sock; export SSH_AUTH_SOCK;\nSSH_AGENT_PID=abc; export SSH_AGENT_PID;\n",
			wantErr: true,
		},
		{
			name:    "negative pid",
			output:  "SSH_AUTH_SOCK=/tmp/agent.sock; export SSH_AUTH_SOCK;\nSSH_AGENT_PID=-4; export SSH_AGENT_PID;\n",
			wantErr: true,
		},
		{
			name:    "empty output",
			output:  "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := parseStartupOutput(tt.output)
			if tt.wantErr {
				if !errors.Is(err, ErrAgentSpawn) {
					t.Errorf("error = %v, want ErrAgentSpawn", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseStartupOutput() error = %v", err)
			}
			if res.Endpoint != tt.endpoint {
				t.Errorf("Endpoint = %q, want %q", res.Endpoint, tt.endpoint)
			}
			if res.PID != tt.pid {
				t.Errorf("PID = %d, want %d", res.PID, tt.pid)
			}
		})
	}
}
