// Package session persists SSH agent endpoint metadata across process
// boundaries.
//
// One record lives at a fixed per-user path (~/.ssh/agent-session.json by
// default). The record is the single source of truth for agent reuse: no
// in-memory copy may be trusted across processes. Writes are atomic
// (temp file + rename) and all mutation is serialized through a
// cross-process advisory lock with a bounded wait:
//
//	store, _ := session.NewStore("", nil)
//	err := store.WithLock(ctx, func() error {
//	    sess, err := store.Load()
//	    ...
//	    return store.Save(sess)
//	})
//
// A record that fails to parse is equivalent to an absent record; callers
// recover by spawning a fresh agent, never by surfacing the corruption.
package session
