package conversationstore

import (
	"context"
	"sync"
	"time"

	apperrors "jira-assistant/internal/common/errors"
	"jira-assistant/internal/common/logger"
	"jira-assistant/internal/common/metrics"
	"jira-assistant/internal/models"
)

// Session owns one conversation log. It is handed to the query router by reference.
type Session struct {
	ID        string
	Store     *Store
	CreatedAt time.Time

	mu           sync.Mutex
	lastActivity time.Time
}

func (s *Session) Touch(at time.Time) {
	s.mu.Lock()
	s.lastActivity = at
	s.mu.Unlock()
}

func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

func (s *Session) Snapshot() models.SessionSnapshot {
	return models.SessionSnapshot{
		ID:           s.ID,
		Turns:        s.Store.Turns(),
		CreatedAt:    s.CreatedAt,
		LastActivity: s.LastActivity(),
	}
}

// SessionManager hands out one Session per id. Sessions are kept in memory and
// optionally mirrored to a Snapshotter so they survive restarts.
type SessionManager struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	config      *Config
	tagger      Tagger
	snapshotter Snapshotter
	logger      logger.Logger
	now         func() time.Time
}

// NewSessionManager builds a manager. snapshotter may be nil.
func NewSessionManager(config *Config, tagger Tagger, snapshotter Snapshotter, log logger.Logger) *SessionManager {
	return &SessionManager{
		sessions:    make(map[string]*Session),
		config:      config,
		tagger:      tagger,
		snapshotter: snapshotter,
		logger:      logger.ForComponent(log, "conversation-store"),
		now:         time.Now,
	}
}

// Get returns a live session, restoring it from the snapshotter when needed.
func (m *SessionManager) Get(ctx context.Context, id string) (*Session, bool) {
	m.mu.RLock()
	session, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		return session, true
	}

	snapshot := m.load(ctx, id)
	if snapshot == nil {
		return nil, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sessions[id]; ok {
		return existing, true
	}
	session = m.newSession(id, snapshot.CreatedAt)
	session.Store.Restore(snapshot.Turns)
	session.Touch(snapshot.LastActivity)
	m.sessions[id] = session
	metrics.ActiveSessions.Set(float64(len(m.sessions)))
	return session, true
}

func (m *SessionManager) GetOrCreate(ctx context.Context, id string) *Session {
	if session, ok := m.Get(ctx, id); ok {
		return session
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sessions[id]; ok {
		return existing
	}
	session := m.newSession(id, m.now().UTC())
	m.sessions[id] = session
	metrics.ActiveSessions.Set(float64(len(m.sessions)))

	m.logger.Debug("session created", map[string]interface{}{"sessionId": id})
	return session
}

// Reset empties a session's log.
func (m *SessionManager) Reset(ctx context.Context, id string) error {
	session, ok := m.Get(ctx, id)
	if !ok {
		return apperrors.NewSessionNotFoundError(id)
	}
	session.Store.Reset()
	session.Touch(m.now().UTC())
	return m.Save(ctx, session)
}

// Remove forgets a session in memory and in the snapshotter. A session known to
// neither is reported as not found.
func (m *SessionManager) Remove(ctx context.Context, id string) error {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	metrics.ActiveSessions.Set(float64(len(m.sessions)))
	m.mu.Unlock()

	known := ok || m.load(ctx, id) != nil
	if m.snapshotter != nil {
		if err := m.snapshotter.Delete(ctx, id); err != nil {
			return err
		}
	}
	if !known {
		return apperrors.NewSessionNotFoundError(id)
	}
	return nil
}

// Save mirrors the session to the snapshotter. Without one it is a no-op.
func (m *SessionManager) Save(ctx context.Context, session *Session) error {
	if m.snapshotter == nil {
		return nil
	}
	if err := m.snapshotter.Save(ctx, session.Snapshot()); err != nil {
		m.logger.Warn("failed to persist session", map[string]interface{}{
			"sessionId": session.ID,
			"error":     err.Error(),
		})
		return err
	}
	return nil
}

// Evict drops in-memory sessions idle longer than the configured TTL.
func (m *SessionManager) Evict(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for id, session := range m.sessions {
		snap := models.SessionSnapshot{LastActivity: session.LastActivity()}
		if snap.IsExpired(now, m.config.SessionTTL) {
			delete(m.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		metrics.ActiveSessions.Set(float64(len(m.sessions)))
		m.logger.Info("evicted idle sessions", map[string]interface{}{"count": evicted})
	}
	return evicted
}

func (m *SessionManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *SessionManager) newSession(id string, createdAt time.Time) *Session {
	session := &Session{
		ID:        id,
		Store:     NewStore(m.config, m.tagger),
		CreatedAt: createdAt,
	}
	session.Touch(createdAt)
	return session
}

func (m *SessionManager) load(ctx context.Context, id string) *models.SessionSnapshot {
	if m.snapshotter == nil {
		return nil
	}
	snapshot, err := m.snapshotter.Load(ctx, id)
	if err != nil {
		m.logger.Warn("failed to load session snapshot", map[string]interface{}{
			"sessionId": id,
			"error":     err.Error(),
		})
		return nil
	}
	if snapshot != nil && snapshot.IsExpired(m.now(), m.config.SessionTTL) {
		return nil
	}
	return snapshot
}
