// Package session stores the layouts that highlight clients work against.
//
// A client posts a term to the API server, receives its layout together
// with a session id, and then opens the highlight websocket for that id.
// The session keeps the layout so that the server can resolve redex ids to
// element ids for the lifetime of the connection, on whichever instance
// the websocket lands.
//
// Backends:
//   - [MemoryStore]: single process, the default of termmap serve
//   - [FileStore]: expiring entries of a file cache, survives restarts
//   - [RedisStore]: shared by several server instances
//
// # Usage
//
//	sess, err := session.New(layout, session.DefaultTTL)
//	if err != nil {
//	    return err
//	}
//	store.Set(ctx, sess)
//
//	sess, err = store.Get(ctx, id)
//	if err != nil {
//	    return err
//	}
//	if sess == nil {
//	    // Session not found or expired
//	}
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/termmap/pkg/graph"
)

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown session backend")

// Session stores one highlight client's layout.
type Session struct {
	ID        string       `json:"id"`
	Layout    graph.Layout `json:"layout"`
	ExpiresAt time.Time    `json:"expires_at"`
	CreatedAt time.Time    `json:"created_at"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// ElementsOf implements highlight.Source over the session's layout.
func (s *Session) ElementsOf(redex string) []string {
	return s.Layout.ElementsOf(redex)
}

// HasRedex reports whether the layout defines redex.
func (s *Session) HasRedex(redex string) bool {
	for _, r := range s.Layout.Redexes {
		if r.ID == redex {
			return true
		}
	}
	return false
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, s *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions (may be a no-op for Redis).
	Cleanup(ctx context.Context) error

	Close() error
}

// DefaultTTL is the default session duration.
const DefaultTTL = time.Hour

// New creates a session for layout with a random id.
func New(layout graph.Layout, ttl time.Duration) (*Session, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := time.Now()
	return &Session{
		ID:        id.String(),
		Layout:    layout,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}, nil
}

// Config selects a backend for [Open].
type Config struct {
	Backend string `toml:"backend"` // memory (default), file or redis
	Path    string `toml:"path"`    // file backend directory
	URL     string `toml:"url"`     // redis backend
}

// Open returns the store described by cfg.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemoryStore(), nil
	case "file":
		return NewFileStore(cfg.Path)
	case "redis":
		return NewRedisStore(ctx, cfg.URL, "")
	default:
		return nil, ErrUnknownBackend
	}
}
