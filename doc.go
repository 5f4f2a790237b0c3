// Package persistssh manages a persistent SSH agent across otherwise
// independent program invocations, so key material is unlocked once and
// reused safely until an explicit expiration boundary.
//
// The package is organized into subpackages by concern:
//
//   - session: persisted agent record, cross-process locking, atomic writes
//   - agent: agent process lifecycle (reuse, spawn, terminate, probe)
//   - sshconfig: typed SSH client configuration with host-pattern resolution
//   - keys: identity candidates, fingerprint dedupe, key loading
//   - gitcmd: rendering resolved configuration into a GIT_SSH_COMMAND string
//   - runner: the subprocess boundary to ssh-agent, ssh-add, and ssh
//   - endpoint: platform-specific agent addressing (socket vs. named pipe)
//   - testutil: in-process agents and key fixtures for tests
//
// # Quick Start
//
//	mgr, err := persistssh.NewManager(
//	    persistssh.FromEnv(),
//	    persistssh.WithTTL(12*time.Hour),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result := mgr.SetupHost(ctx, "github.com")
//	if !result.OK() {
//	    log.Fatal(result.Reason())
//	}
//
//	env, _ := mgr.GitSSHEnv(ctx, "github.com") // GIT_SSH_COMMAND=ssh -i ...
//
// Multiple hosts can be set up concurrently with SetupHosts; each host
// runs the full sequence independently and a failing host never aborts
// its siblings. Across processes, agent reuse is coordinated solely
// through a file lock on the persisted session record.
package persistssh
