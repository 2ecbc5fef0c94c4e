package session

import (
	"context"
	"sync"
	"time"

	cverrors "github.com/matzehuels/cubicleview/pkg/errors"
)

// DefaultTTL is how long an idle session is kept by a [Manager].
const DefaultTTL = time.Hour

// Manager keeps the sessions of a server. Each added session runs its
// event loop until it is deleted, expires or the manager is closed.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewManager creates a manager expiring sessions idle for ttl.
// A non-positive ttl uses DefaultTTL.
func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Add starts sess and makes it retrievable by its ID.
func (m *Manager) Add(sess *Session) {
	m.mu.Lock()
	m.sessions[sess.ID()] = sess
	m.mu.Unlock()
	go sess.Run(m.ctx)
}

// Get returns a live session.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	sess, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, cverrors.New(cverrors.ErrCodeSessionNotFound, "session %s not found", id)
	}
	if sess.IsExpired(m.ttl) {
		m.Delete(id)
		return nil, cverrors.New(cverrors.ErrCodeSessionNotFound, "session %s expired", id)
	}
	return sess, nil
}

// Delete closes and forgets a session. Unknown IDs are ignored.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	sess, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		sess.Close()
	}
}

// Len returns the number of sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Cleanup removes expired sessions and returns how many were removed.
func (m *Manager) Cleanup() int {
	m.mu.Lock()
	var expired []*Session
	for id, sess := range m.sessions {
		if sess.IsExpired(m.ttl) {
			expired = append(expired, sess)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()
	for _, sess := range expired {
		sess.Close()
	}
	return len(expired)
}

// Janitor runs Cleanup every interval until ctx is done.
func (m *Manager) Janitor(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.Cleanup()
		}
	}
}

// Close closes every session.
func (m *Manager) Close() {
	m.cancel()
	m.mu.Lock()
	clear(m.sessions)
	m.mu.Unlock()
}
