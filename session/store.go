package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// DefaultFileName is the session record's file name under the SSH directory.
const DefaultFileName = "agent-session.json"

// lockPollInterval is how often a blocked Lock retries the advisory lock.
const lockPollInterval = 25 * time.Millisecond

// Store persists the agent session record at a single well-known per-user
// path. All mutation must happen inside a Lock scope; Load outside the
// lock is permitted only for diagnostics.
type Store struct {
	path   string
	logger *slog.Logger
}

// NewStore creates a store for the record at path. If path is empty the
// record lives at ~/.ssh/agent-session.json.
func NewStore(path string, logger *slog.Logger) (*Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		path = filepath.Join(home, ".ssh", DefaultFileName)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{path: path, logger: logger}, nil
}

// Path returns the record's location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the persisted session. A missing file, an unparsable record,
// or a record violating its invariants all return (nil, nil): corrupt is
// equivalent to absent, and the caller recovers by spawning a new agent.
func (s *Store) Load() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session record: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		s.logger.Warn("session record unparsable, treating as absent",
			"path", s.path, "error", err)
		return nil, nil
	}
	if !sess.Valid() {
		s.logger.Warn("session record invalid, treating as absent", "path", s.path)
		return nil, nil
	}
	return &sess, nil
}

// Save atomically persists the session: write to a temp file in the same
// directory, sync, then rename over the record so a concurrent reader
// never observes a partial write.
func (s *Store) Save(sess *Session) error {
	if sess == nil || !sess.Valid() {
		return errors.New("refusing to save invalid session")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session record: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}

	tmp := s.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("create temporary session file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write temporary session file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("sync temporary session file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close temporary session file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename session file into place: %w", err)
	}
	return nil
}

// Invalidate removes the persisted record. A record that is already
// absent is success.
func (s *Store) Invalidate() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session record: %w", err)
	}
	return nil
}

// Lock acquires the cross-process advisory lock guarding the record.
// The lock lives on a sibling ".lock" file so Save's rename never
// replaces the locked inode. Acquisition polls a non-blocking attempt
// until ctx expires, then fails with ErrLockTimeout instead of blocking
// indefinitely. The returned function releases the lock and must be
// called on every exit path.
func (s *Store) Lock(ctx context.Context) (func(), error) {
	lockPath := s.path + ".lock"
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o700); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	for {
		err := tryLock(f)
		if err == nil {
			break
		}
		if !isWouldBlock(err) {
			f.Close()
			return nil, fmt.Errorf("acquire session lock: %w", err)
		}
		select {
		case <-ctx.Done():
			f.Close()
			return nil, ErrLockTimeout
		case <-time.After(lockPollInterval):
		}
	}

	return func() {
		if err := unlock(f); err != nil {
			s.logger.Warn("release session lock", "error", err)
		}
		f.Close()
	}, nil
}

// WithLock runs fn while holding the store lock.
func (s *Store) WithLock(ctx context.Context, fn func() error) error {
	unlock, err := s.Lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()
	return fn()
}
