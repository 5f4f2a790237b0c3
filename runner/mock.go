package runner

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Call records one invocation seen by a MockRunner.
type Call struct {
	Name  string
	Args  []string
	Stdin string
	Env   []string
}

// MockRunner replays scripted results instead of executing commands.
// Responses are matched by binary name plus leading arguments; the most
// specific (longest) matching script wins. Safe for concurrent use.
type MockRunner struct {
	mu      sync.Mutex
	scripts []script
	calls   []Call
}

type script struct {
	name   string
	prefix []string
	result *Result
	err    error
}

// NewMockRunner creates an empty mock. Unscripted commands fail.
func NewMockRunner() *MockRunner {
	return &MockRunner{}
}

// Script registers a canned result for commands whose name and leading
// arguments match.
func (m *MockRunner) Script(name string, argPrefix []string, result *Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scripts = append(m.scripts, script{name: name, prefix: argPrefix, result: result})
}

// ScriptError registers an execution error (e.g. ErrBinaryNotFound) for
// matching commands.
func (m *MockRunner) ScriptError(name string, argPrefix []string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scripts = append(m.scripts, script{name: name, prefix: argPrefix, err: err})
}

// Calls returns a copy of all recorded invocations.
func (m *MockRunner) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns the number of invocations of the named binary.
func (m *MockRunner) CallCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

// Run implements CommandRunner.
func (m *MockRunner) Run(_ context.Context, cmd Command) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, Call{Name: cmd.Name, Args: cmd.Args, Stdin: cmd.Stdin, Env: cmd.Env})

	var best *script
	for i := range m.scripts {
		s := &m.scripts[i]
		if s.name != cmd.Name || !hasPrefix(cmd.Args, s.prefix) {
			continue
		}
		if best == nil || len(s.prefix) > len(best.prefix) {
			best = s
		}
	}
	if best == nil {
		return nil, fmt.Errorf("mock runner: no script for %s %s", cmd.Name, strings.Join(cmd.Args, " "))
	}
	if best.err != nil {
		return nil, best.err
	}
	// Copy so callers can't mutate the script.
	r := *best.result
	return &r, nil
}

func hasPrefix(args, prefix []string) bool {
	if len(prefix) > len(args) {
		return false
	}
	for i, p := range prefix {
		if args[i] != p {
			return false
		}
	}
	return true
}
