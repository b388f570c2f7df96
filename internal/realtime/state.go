package realtime

import (
	"fmt"
	"slices"
	"sync"

	"github.com/matheus3301/mchat/internal/bus"
	"github.com/matheus3301/mchat/internal/metrics"
)

// State is the realtime connection state.
type State string

const (
	Disconnected State = "DISCONNECTED"
	Connecting   State = "CONNECTING"
	Connected    State = "CONNECTED"
)

var validTransitions = map[State][]State{
	Disconnected: {Connecting},
	Connecting:   {Connected, Disconnected},
	Connected:    {Disconnected},
}

// Machine tracks and enforces connection state transitions.
type Machine struct {
	mu      sync.RWMutex
	current State
	bus     *bus.Bus
}

// NewMachine creates a machine in the Disconnected state.
func NewMachine(b *bus.Bus) *Machine {
	return &Machine{current: Disconnected, bus: b}
}

// Current returns the current state.
func (m *Machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Transition moves to a new state, failing on transitions outside the table.
func (m *Machine) Transition(to State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !slices.Contains(validTransitions[m.current], to) {
		return fmt.Errorf("invalid transition from %s to %s", m.current, to)
	}
	from := m.current
	m.current = to
	metrics.SetConnected(to == Connected)
	if m.bus != nil {
		m.bus.Publish(bus.NewEvent(bus.KindStateChanged, StateChange{From: from, To: to}))
	}
	return nil
}

// StateChange is the payload for state change events.
type StateChange struct {
	From State
	To   State
}
