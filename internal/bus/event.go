package bus

import "time"

// Event kinds published on the bus. The bus carries session lifecycle
// notifications only; screens never share fetched data through it, each
// one re-fetches its own slice on its own poller.
const (
	KindStateChanged   = "session.state_changed"
	KindIdentitySaved  = "session.identity_saved"
	KindSessionCleared = "session.cleared"
)

// Event represents a client-side event published on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}
