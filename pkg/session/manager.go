package session

import (
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
	"github.com/voyago/voyago/internal/metrics"
)

const sessionIDLength = 12

// Manager tracks the live sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	hotelBatchSize int
	metrics        *metrics.Metrics
	logger         zerolog.Logger
}

// ManagerConfig configures a Manager.
type ManagerConfig struct {
	// HotelBatchSize is the pagination batch size for new session caches.
	// Zero selects the cache default.
	HotelBatchSize int
	Metrics        *metrics.Metrics
	Logger         zerolog.Logger
}

// NewManager creates an empty session manager.
func NewManager(cfg ManagerConfig) *Manager {
	return &Manager{
		sessions:       make(map[string]*Session),
		hotelBatchSize: cfg.HotelBatchSize,
		metrics:        cfg.Metrics,
		logger:         cfg.Logger,
	}
}

// Create registers a new session with a fresh id and an empty cache.
func (m *Manager) Create() *Session {
	id, err := gonanoid.New(sessionIDLength)
	if err != nil {
		// Only fails if the OS entropy source does; fall back to a
		// timestamp id rather than refusing the connection.
		id = time.Now().UTC().Format("20060102150405.000000000")
	}

	s := newSession(id, m.hotelBatchSize)

	m.mu.Lock()
	m.sessions[id] = s
	active := len(m.sessions)
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.SessionsTotal.Inc()
		m.metrics.SessionsActive.Set(float64(active))
	}
	m.logger.Info().Str("session_id", id).Int("active", active).Msg("Session created")

	return s
}

// Get resolves a session by id.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Count reports the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Remove drops a session and its cache.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	active := len(m.sessions)
	m.mu.Unlock()

	if !ok {
		return
	}
	if m.metrics != nil {
		m.metrics.SessionsActive.Set(float64(active))
	}
	m.logger.Info().Str("session_id", id).Int("active", active).Msg("Session removed")
}

// ReapIdle removes sessions idle longer than maxIdle and returns how many
// were dropped.
func (m *Manager) ReapIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	m.mu.Lock()
	var reaped []string
	for id, s := range m.sessions {
		if s.LastActive().Before(cutoff) {
			reaped = append(reaped, id)
		}
	}
	for _, id := range reaped {
		delete(m.sessions, id)
	}
	active := len(m.sessions)
	m.mu.Unlock()

	if len(reaped) == 0 {
		return 0
	}

	if m.metrics != nil {
		m.metrics.SessionsActive.Set(float64(active))
		m.metrics.SessionsReaped.Add(float64(len(reaped)))
	}
	m.logger.Info().Int("reaped", len(reaped)).Int("active", active).Msg("Idle sessions reaped")

	return len(reaped)
}
