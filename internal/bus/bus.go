package bus

import "sync"

// Bus fans session lifecycle events out to every subscriber. It carries
// nothing else: data screens re-fetch their own slice on their own
// pollers, so there is no per-topic routing here.
//
// Delivery is non-blocking. A subscriber that stops draining its channel
// loses events rather than stalling the publisher.
type Bus struct {
	mu   sync.Mutex
	subs map[uint64]chan Event
	next uint64
}

func New() *Bus {
	return &Bus{subs: make(map[uint64]chan Event)}
}

// Publish hands evt to all current subscribers, dropping it for any
// whose buffer is full.
func (b *Bus) Publish(evt Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- evt:
		default:
		}
	}
}

// Subscribe registers a listener with the given channel buffer and
// returns the channel together with a cancel func. Cancelling stops
// future deliveries; events already buffered stay readable.
func (b *Bus) Subscribe(buf int) (<-chan Event, func()) {
	ch := make(chan Event, buf)
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = ch
	b.mu.Unlock()

	return ch, func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}
