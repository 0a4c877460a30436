package connectivity

import (
	"sync"

	"tarjetajoven/internal/core/ports"
)

// Manual is a connectivity signal driven by explicit Set calls. The
// browser build would wire real online/offline events here; the dev
// tooling and tests flip the switch themselves.
type Manual struct {
	mu       sync.RWMutex
	online   bool
	handlers []ports.ConnectivityHandler
}

var _ ports.Connectivity = (*Manual)(nil) // Ensure compliance

// NewManual creates a manual connectivity switch in the given state.
func NewManual(online bool) *Manual {
	return &Manual{online: online}
}

func (m *Manual) Online() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.online
}

func (m *Manual) Subscribe(handler ports.ConnectivityHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = append(m.handlers, handler)
}

// Set flips the state and notifies handlers on an actual transition.
func (m *Manual) Set(online bool) {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return
	}
	m.online = online
	handlers := make([]ports.ConnectivityHandler, len(m.handlers))
	copy(handlers, m.handlers)
	m.mu.Unlock()

	for _, handler := range handlers {
		handler(online)
	}
}
