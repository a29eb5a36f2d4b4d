package session

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dkoval/chatik/internal/bus"
	"github.com/dkoval/chatik/internal/remote"
)

// State is the session lifecycle state driving which screen is shown.
type State string

const (
	// LoggedOut means no identity is stored; the login screen is shown.
	LoggedOut State = "LOGGED_OUT"
	// ProfileIncomplete means the user is authenticated but has not
	// finished profile setup; the profile screen is shown.
	ProfileIncomplete State = "PROFILE_INCOMPLETE"
	// Active means the user is authenticated with a complete profile;
	// the main shell is shown.
	Active State = "ACTIVE"
)

var validTransitions = map[State][]State{
	LoggedOut:         {ProfileIncomplete, Active},
	ProfileIncomplete: {Active, LoggedOut},
	Active:            {LoggedOut},
}

// StateFor classifies an identity into the session state it implies.
// A profile counts as complete once both display name and first name
// are set.
func StateFor(id *remote.Identity) State {
	if id == nil {
		return LoggedOut
	}
	if id.DisplayName == "" || id.FirstName == "" {
		return ProfileIncomplete
	}
	return Active
}

// StateChange is the payload published on bus.KindStateChanged.
type StateChange struct {
	From State
	To   State
}

// Machine tracks the current session state and enforces legal
// transitions. It starts in LoggedOut.
type Machine struct {
	mu      sync.Mutex
	current State
	bus     *bus.Bus
}

func NewMachine(b *bus.Bus) *Machine {
	return &Machine{current: LoggedOut, bus: b}
}

// Current returns the current state.
func (m *Machine) Current() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Transition moves the machine to the given state and publishes a
// state change. Transitioning to the current state is a no-op; an
// illegal transition is an error.
func (m *Machine) Transition(to State) error {
	m.mu.Lock()
	from := m.current
	if from == to {
		m.mu.Unlock()
		return nil
	}
	if !slices.Contains(validTransitions[from], to) {
		m.mu.Unlock()
		return fmt.Errorf("invalid session transition %s -> %s", from, to)
	}
	m.current = to
	m.mu.Unlock()

	if m.bus != nil {
		m.bus.Publish(bus.Event{
			Kind:      bus.KindStateChanged,
			Timestamp: time.Now(),
			Payload:   StateChange{From: from, To: to},
		})
	}
	return nil
}
