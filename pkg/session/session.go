// Package session tracks the render sessions of HTTP clients.
//
// Each session owns one [render.Session], so a client's renders replace
// only its own chart. Sessions expire after a period of inactivity;
// [Registry.Cleanup] releases expired sessions and their charts.
//
//	reg := session.NewRegistry(time.Hour, logger)
//	s := reg.Create()
//	chart, err := s.Render.Render(ctx, req)
//	...
//	reg.Delete(ctx, s.ID)
package session

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/c112110130-dot/waste-system-django-sub002/pkg/cache"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/render"
)

var (
	// ErrNotFound is returned for an unknown session ID.
	ErrNotFound = errors.New("session not found")

	// ErrExpired is returned when a session outlived its TTL. The session
	// is removed.
	ErrExpired = errors.New("session expired")
)

// DefaultTTL is the idle time after which a session expires.
const DefaultTTL = time.Hour

// Session is one client's render state.
type Session struct {
	ID        string
	Render    *render.Session
	Keyer     cache.Keyer // namespaces this session's cached artifacts
	CreatedAt time.Time

	mu        sync.Mutex
	expiresAt time.Time
}

// ExpiresAt returns when the session expires unless it is used again.
func (s *Session) ExpiresAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expiresAt
}

func (s *Session) expired(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.After(s.expiresAt)
}

func (s *Session) touch(now time.Time, ttl time.Duration) {
	s.mu.Lock()
	s.expiresAt = now.Add(ttl)
	s.mu.Unlock()
}

// Registry holds live sessions. It is safe for concurrent use.
type Registry struct {
	Logger *log.Logger

	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry returns an empty registry. A non-positive ttl uses
// DefaultTTL; a nil logger discards output.
func NewRegistry(ttl time.Duration, logger *log.Logger) *Registry {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Registry{
		Logger:   logger,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Create starts a new empty session.
func (r *Registry) Create() *Session {
	now := r.now()
	id := uuid.NewString()
	s := &Session{
		ID:        id,
		Render:    render.NewSession(r.Logger),
		Keyer:     cache.NewScopedKeyer(nil, "session:"+id+":"),
		CreatedAt: now,
		expiresAt: now.Add(r.ttl),
	}
	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()
	r.Logger.Debug("created session", "id", id)
	return s
}

// Get returns the session and extends its lifetime.
func (r *Registry) Get(ctx context.Context, id string) (*Session, error) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	r.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}
	now := r.now()
	if s.expired(now) {
		r.remove(ctx, id)
		return nil, ErrExpired
	}
	s.touch(now, r.ttl)
	return s, nil
}

// Delete releases the session's chart and forgets it.
func (r *Registry) Delete(ctx context.Context, id string) error {
	if !r.remove(ctx, id) {
		return ErrNotFound
	}
	return nil
}

// Cleanup removes every expired session and returns how many it removed.
func (r *Registry) Cleanup(ctx context.Context) int {
	now := r.now()
	r.mu.Lock()
	var ids []string
	for id, s := range r.sessions {
		if s.expired(now) {
			ids = append(ids, id)
		}
	}
	r.mu.Unlock()

	n := 0
	for _, id := range ids {
		if r.remove(ctx, id) {
			n++
		}
	}
	if n > 0 {
		r.Logger.Info("expired sessions", "count", n)
	}
	return n
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Close releases every session.
func (r *Registry) Close(ctx context.Context) {
	r.mu.Lock()
	all := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()
	for _, s := range all {
		s.Render.Close(ctx)
	}
}

// Run calls Cleanup every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.Cleanup(ctx)
		}
	}
}

func (r *Registry) remove(ctx context.Context, id string) bool {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return false
	}
	s.Render.Close(ctx)
	r.Logger.Debug("removed session", "id", id)
	return true
}
