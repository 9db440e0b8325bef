package game

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/playsnooker/backend/internal/config"
)

// Manager is the process-wide session manager, set once at startup.
var Manager *SessionManager

// PhysicsFactory builds a physics engine for a freshly derived table.
type PhysicsFactory func(geom *Geometry) Physics

// SessionManager owns every live session. Sessions are purely in-memory and
// disappear when closed or expired; there is no store behind them.
type SessionManager struct {
	cfg        *config.Config
	newPhysics PhysicsFactory
	sessions   map[string]*Session
	mu         sync.RWMutex
}

// InitializeManager creates the global manager.
func InitializeManager(cfg *config.Config, factory PhysicsFactory) {
	Manager = &SessionManager{
		cfg:        cfg,
		newPhysics: factory,
		sessions:   make(map[string]*Session),
	}
}

// Config exposes the manager's configuration.
func (m *SessionManager) Config() *config.Config { return m.cfg }

// CreateSession racks a new table and registers it under a fresh token.
func (m *SessionManager) CreateSession() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.sessions) >= m.cfg.MaxSessions {
		return nil, errors.New("session limit reached")
	}

	dims := DefaultDimensions()
	if m.cfg.TableLength > 0 {
		dims = Dimensions{
			TableLength:      m.cfg.TableLength,
			CushionThickness: m.cfg.TableLength * 0.014,
			RailWidth:        m.cfg.TableLength * 0.02,
		}
	}

	id := uuid.New().String()
	token := uuid.New().String()
	geom := NewGeometry(dims)
	s := NewSession(id, token, geom, m.newPhysics(geom))
	m.sessions[token] = s

	log.Printf("[SESSION] created %s (%d live)", s.ID, len(m.sessions))
	return s, nil
}

// GetByToken looks up a live session.
func (m *SessionManager) GetByToken(token string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[token]
	if !ok {
		return nil, errors.New("session not found")
	}
	return s, nil
}

// Close removes a session.
func (m *SessionManager) Close(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[token]; ok {
		delete(m.sessions, token)
		log.Printf("[SESSION] closed %s (%d live)", s.ID, len(m.sessions))
	}
}

// Count returns the number of live sessions.
func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// StartJanitor sweeps idle sessions until the context is cancelled.
func (m *SessionManager) StartJanitor(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		idleLimit := time.Duration(m.cfg.SessionExpiryMinutes) * time.Minute

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.sweepExpired(idleLimit)
			}
		}
	}()
}

func (m *SessionManager) sweepExpired(idleLimit time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for token, s := range m.sessions {
		if s.Expired(idleLimit) {
			delete(m.sessions, token)
			log.Printf("[JANITOR] expired idle session %s", s.ID)
		}
	}
}
