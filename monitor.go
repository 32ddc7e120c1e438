package foundations

import "sync"

// Monitor tracks connectivity and raises a signal exactly once per
// online/offline transition. It does not poll: the environment (CLI
// command, OS hook, failed request) reports state changes through
// SetOnline, and handlers fire only when the state actually flips.
type Monitor struct {
	mu       sync.Mutex
	online   bool
	handlers []func(online bool)
}

// NewMonitor creates a monitor with the given initial state, without
// firing handlers.
func NewMonitor(online bool) *Monitor {
	return &Monitor{online: online}
}

// Online returns the current connectivity state.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// OnTransition registers a handler invoked on every state change with
// the new state. Handlers run synchronously in SetOnline's caller.
func (m *Monitor) OnTransition(fn func(online bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = append(m.handlers, fn)
}

// SetOnline reports the current connectivity. Handlers fire only when
// the state differs from the previous one.
func (m *Monitor) SetOnline(online bool) {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return
	}
	m.online = online
	handlers := make([]func(bool), len(m.handlers))
	copy(handlers, m.handlers)
	m.mu.Unlock()

	for _, fn := range handlers {
		fn(online)
	}
}
