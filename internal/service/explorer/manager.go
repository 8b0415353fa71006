package explorer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"softfocus/internal/domain"
)

// Manager holds the workspaces of all connected user sessions, keyed by
// owner-session identifier. Workspaces are created on first use and reaped
// after the idle TTL; the catalog index is shared read-only across them.
type Manager struct {
	mu         sync.RWMutex
	workspaces map[string]*Workspace

	index  []domain.DatasetDescriptor
	loader domain.DatasetLoader
	logger *slog.Logger
	ttl    time.Duration
}

// NewManager creates a workspace manager over the loaded catalog index.
func NewManager(index []domain.DatasetDescriptor, loader domain.DatasetLoader, logger *slog.Logger, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Manager{
		workspaces: make(map[string]*Workspace),
		index:      index,
		loader:     loader,
		logger:     logger,
		ttl:        ttl,
	}
}

// Index returns the full catalog index in original order.
func (m *Manager) Index() []domain.DatasetDescriptor {
	return m.index
}

// Get returns the owner's workspace, creating it on first use.
func (m *Manager) Get(ownerID string) *Workspace {
	m.mu.RLock()
	w, ok := m.workspaces[ownerID]
	m.mu.RUnlock()
	if ok {
		return w
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if w, ok := m.workspaces[ownerID]; ok {
		return w
	}
	w = newWorkspace(ownerID, m.index, m.loader, m.logger.With("component", "workspace"))
	m.workspaces[ownerID] = w
	m.logger.Info("workspace created", "workspace", ownerID)
	return w
}

// Lookup returns the owner's workspace without creating one.
func (m *Manager) Lookup(ownerID string) (*Workspace, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.workspaces[ownerID]
	return w, ok
}

// Count returns the number of live workspaces.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.workspaces)
}

// ReapIdle frees workspaces idle longer than the TTL. Runs until the
// context is cancelled; call in a background goroutine.
func (m *Manager) ReapIdle(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.reapOnce()
		}
	}
}

func (m *Manager) reapOnce() {
	m.mu.Lock()
	cutoff := time.Now().Add(-m.ttl)
	var stale []*Workspace
	for id, w := range m.workspaces {
		if w.getLastUsed().Before(cutoff) {
			w.closing.Store(true)
			stale = append(stale, w)
			delete(m.workspaces, id)
		}
	}
	m.mu.Unlock()

	for _, w := range stale {
		m.logger.Info("workspace reaped", "workspace", w.ID, "sessions", len(w.Sessions()))
	}
}

// CloseAll drops every workspace. Called on server shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, w := range m.workspaces {
		w.closing.Store(true)
		delete(m.workspaces, id)
	}
}
