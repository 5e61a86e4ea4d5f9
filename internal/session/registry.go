package session

import (
	"context"
	"sync"
)

// Registry hands out one Manager per kiosk. Managers are created lazily
// and live for the life of the process; each one is an independent state
// machine, so kiosks never share timers or activity logs.
type Registry struct {
	mu         sync.Mutex
	managers   map[string]*Manager
	newManager func() *Manager
}

func NewRegistry(newManager func() *Manager) *Registry {
	return &Registry{
		managers:   make(map[string]*Manager),
		newManager: newManager,
	}
}

func (r *Registry) Manager(kioskID string) *Manager {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.managers[kioskID]
	if !ok {
		m = r.newManager()
		r.managers[kioskID] = m
	}
	return m
}

// EndAll finalizes every running session. Used on shutdown so activity
// logs reach the store instead of dying with the process.
func (r *Registry) EndAll(ctx context.Context) {
	r.mu.Lock()
	managers := make([]*Manager, 0, len(r.managers))
	for _, m := range r.managers {
		managers = append(managers, m)
	}
	r.mu.Unlock()

	for _, m := range managers {
		m.End(ctx)
	}
}
