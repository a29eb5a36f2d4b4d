package bus

import (
	"testing"
	"time"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	b := New()
	first, cancelFirst := b.Subscribe(4)
	defer cancelFirst()
	second, cancelSecond := b.Subscribe(4)
	defer cancelSecond()

	b.Publish(Event{Kind: KindStateChanged, Timestamp: time.Now()})

	for _, ch := range []<-chan Event{first, second} {
		select {
		case evt := <-ch:
			if evt.Kind != KindStateChanged {
				t.Errorf("got kind %q, want %q", evt.Kind, KindStateChanged)
			}
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for event")
		}
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	b := New()
	ch, cancel := b.Subscribe(4)
	cancel()
	// Cancelling again must not panic or affect other subscribers.
	cancel()

	b.Publish(Event{Kind: KindSessionCleared})

	select {
	case evt := <-ch:
		t.Errorf("received event after cancel: %v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestFullBufferDropsInsteadOfBlocking(t *testing.T) {
	b := New()
	ch, cancel := b.Subscribe(1)
	defer cancel()

	b.Publish(Event{Kind: KindIdentitySaved})
	// Buffer is full now; this one is dropped rather than blocking.
	b.Publish(Event{Kind: KindSessionCleared})

	evt := <-ch
	if evt.Kind != KindIdentitySaved {
		t.Errorf("got %q, want %q", evt.Kind, KindIdentitySaved)
	}
	select {
	case evt := <-ch:
		t.Errorf("dropped event was delivered: %v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}
