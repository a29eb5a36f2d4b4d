package session

import (
	"testing"

	"github.com/dkoval/chatik/internal/bus"
	"github.com/dkoval/chatik/internal/remote"
)

func walkTo(t *testing.T, m *Machine, states ...State) {
	t.Helper()
	for _, s := range states {
		if err := m.Transition(s); err != nil {
			t.Fatalf("transition to %s: %v", s, err)
		}
	}
}

func TestTransitions(t *testing.T) {
	tests := []struct {
		name    string
		path    []State
		to      State
		wantErr bool
	}{
		{"login needs profile", nil, ProfileIncomplete, false},
		{"login complete profile", nil, Active, false},
		{"profile finished", []State{ProfileIncomplete}, Active, false},
		{"logout from profile", []State{ProfileIncomplete}, LoggedOut, false},
		{"logout from active", []State{Active}, LoggedOut, false},
		{"active back to profile", []State{Active}, ProfileIncomplete, true},
		{"self transition is noop", []State{Active}, Active, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMachine(nil)
			walkTo(t, m, tt.path...)
			err := m.Transition(tt.to)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Transition(%s) err = %v, wantErr %v", tt.to, err, tt.wantErr)
			}
			if !tt.wantErr && m.Current() != tt.to {
				t.Errorf("Current() = %s, want %s", m.Current(), tt.to)
			}
		})
	}
}

func TestTransitionPublishes(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe(4)
	defer unsub()

	m := NewMachine(b)
	walkTo(t, m, ProfileIncomplete)

	ev := <-ch
	if ev.Kind != bus.KindStateChanged {
		t.Fatalf("event kind = %s, want %s", ev.Kind, bus.KindStateChanged)
	}
	change, ok := ev.Payload.(StateChange)
	if !ok {
		t.Fatalf("payload type = %T, want StateChange", ev.Payload)
	}
	if change.From != LoggedOut || change.To != ProfileIncomplete {
		t.Errorf("change = %+v", change)
	}
}

func TestSelfTransitionDoesNotPublish(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe(4)
	defer unsub()

	m := NewMachine(b)
	if err := m.Transition(LoggedOut); err != nil {
		t.Fatalf("Transition: %v", err)
	}
	select {
	case ev := <-ch:
		t.Fatalf("unexpected event %s", ev.Kind)
	default:
	}
}

func TestStateFor(t *testing.T) {
	tests := []struct {
		name string
		id   *remote.Identity
		want State
	}{
		{"nil identity", nil, LoggedOut},
		{"no profile", &remote.Identity{Username: "kira"}, ProfileIncomplete},
		{"missing first name", &remote.Identity{Username: "kira", DisplayName: "Kira"}, ProfileIncomplete},
		{"missing display name", &remote.Identity{Username: "kira", FirstName: "Kira"}, ProfileIncomplete},
		{"complete", &remote.Identity{Username: "kira", DisplayName: "Kira", FirstName: "Kira"}, Active},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StateFor(tt.id); got != tt.want {
				t.Errorf("StateFor() = %s, want %s", got, tt.want)
			}
		})
	}
}
