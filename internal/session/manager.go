package session

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dkoval/chatik/internal/bus"
	"github.com/dkoval/chatik/internal/remote"
	"github.com/dkoval/chatik/internal/store"
)

// Manager owns the persisted identity. The identity is written through
// to the store so a restart lands back in the same session state.
type Manager struct {
	db     *store.DB
	bus    *bus.Bus
	logger *zap.Logger

	mu      sync.Mutex
	current *remote.Identity
}

func NewManager(db *store.DB, b *bus.Bus, logger *zap.Logger) *Manager {
	return &Manager{db: db, bus: b, logger: logger}
}

// Load reads the stored identity, if any. Called once at startup.
func (m *Manager) Load() error {
	raw, ok, err := m.db.LoadSession()
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}
	if !ok {
		return nil
	}
	var id remote.Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		return fmt.Errorf("decoding stored session: %w", err)
	}
	m.mu.Lock()
	m.current = &id
	m.mu.Unlock()
	m.logger.Info("session restored", zap.String("username", id.Username))
	return nil
}

// Current returns the identity, or nil when logged out.
func (m *Manager) Current() *remote.Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Save stores the identity and publishes bus.KindIdentitySaved. It is
// called on login and after every profile update.
func (m *Manager) Save(id *remote.Identity) error {
	raw, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := m.db.SaveSession(string(raw)); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	m.mu.Lock()
	m.current = id
	m.mu.Unlock()

	if m.bus != nil {
		m.bus.Publish(bus.Event{
			Kind:      bus.KindIdentitySaved,
			Timestamp: time.Now(),
			Payload:   id,
		})
	}
	return nil
}

// Clear drops the stored identity and publishes bus.KindSessionCleared.
func (m *Manager) Clear() error {
	if err := m.db.ClearSession(); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()

	if m.bus != nil {
		m.bus.Publish(bus.Event{
			Kind:      bus.KindSessionCleared,
			Timestamp: time.Now(),
		})
	}
	return nil
}
