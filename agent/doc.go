// Package agent manages the external ssh-agent process across program
// invocations.
//
// The Manager consults the persisted session record (package session)
// under its cross-process lock: an unexpired session whose process is
// alive and whose endpoint answers a liveness probe is reused; anything
// stale is terminated best-effort, invalidated, and replaced by a fresh
// spawn. A session moves absent -> active -> {expired, unreachable} ->
// absent, and no new active record is written without invalidating the
// old one first.
//
//	store, _ := session.NewStore("", nil)
//	mgr := agent.NewManager(store, agent.WithTTL(12*time.Hour))
//	sock, err := mgr.Ensure(ctx)
//
// Platform specifics (unix sockets vs. named pipes, signal 0 vs. process
// handles) live in build-tagged files; everything above sees an opaque
// endpoint string.
package agent
