package session

import (
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Session is one persisted agent record. It is written by the lifecycle
// manager when an agent is spawned and is read-only everywhere else.
//
// Unknown JSON fields are ignored on read so older binaries can load
// records written by newer ones.
type Session struct {
	// ID identifies the record in logs. Not used for lifecycle decisions.
	ID string `json:"id"`

	// Endpoint is the platform-specific agent address: a unix socket
	// path on POSIX systems, a named-pipe identifier on Windows.
	Endpoint string `json:"endpoint"`

	// PID is the agent process id.
	PID int `json:"pid"`

	// Owner is the user the agent was started for.
	Owner string `json:"owner,omitempty"`

	// CreatedAt is when the agent was spawned.
	CreatedAt time.Time `json:"created_at"`

	// ExpiresAt is the reuse boundary. A session is never reused at or
	// after this instant.
	ExpiresAt time.Time `json:"expires_at"`
}

// New creates a session for a freshly spawned agent, valid for ttl.
func New(endpoint string, pid int, owner string, ttl time.Duration) (*Session, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive, got %v", ttl)
	}
	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}
	now := time.Now()
	return &Session{
		ID:        id,
		Endpoint:  endpoint,
		PID:       pid,
		Owner:     owner,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}, nil
}

// Expired reports whether the session has passed its reuse boundary.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Valid reports whether the record satisfies its structural invariants.
// Invalid records loaded from disk are treated as absent.
func (s *Session) Valid() bool {
	return s.Endpoint != "" && s.PID > 0 && s.ExpiresAt.After(s.CreatedAt)
}
