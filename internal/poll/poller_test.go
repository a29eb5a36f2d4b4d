package poll

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestFiresImmediately(t *testing.T) {
	var calls atomic.Int64
	p := New("test", time.Hour, func(context.Context) error {
		calls.Add(1)
		return nil
	}, nil)

	p.Start(context.Background())
	defer p.Stop()

	deadline := time.Now().Add(time.Second)
	for calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1 immediate invocation", calls.Load())
	}
}

func TestRepeatsOnInterval(t *testing.T) {
	var calls atomic.Int64
	p := New("test", 20*time.Millisecond, func(context.Context) error {
		calls.Add(1)
		return nil
	}, nil)

	p.Start(context.Background())
	time.Sleep(110 * time.Millisecond)
	p.Stop()

	if got := calls.Load(); got < 3 {
		t.Errorf("calls = %d, want at least 3 over five intervals", got)
	}
}

func TestStopPreventsFurtherFetches(t *testing.T) {
	var calls atomic.Int64
	p := New("test", 10*time.Millisecond, func(context.Context) error {
		calls.Add(1)
		return nil
	}, nil)

	p.Start(context.Background())
	time.Sleep(35 * time.Millisecond)
	p.Stop()

	// Let any in-flight tick drain, then watch for several intervals.
	time.Sleep(20 * time.Millisecond)
	before := calls.Load()
	time.Sleep(60 * time.Millisecond)
	after := calls.Load()

	if after != before {
		t.Errorf("calls advanced from %d to %d after Stop", before, after)
	}
	if p.Running() {
		t.Error("Running() = true after Stop")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	p := New("test", time.Hour, func(context.Context) error { return nil }, nil)
	p.Start(context.Background())
	p.Stop()
	p.Stop()
	p.Stop()
}

func TestErrorDoesNotStopPolling(t *testing.T) {
	var calls atomic.Int64
	p := New("test", 15*time.Millisecond, func(context.Context) error {
		calls.Add(1)
		return errors.New("backend unreachable")
	}, nil)

	p.Start(context.Background())
	time.Sleep(80 * time.Millisecond)
	p.Stop()

	if got := calls.Load(); got < 3 {
		t.Errorf("calls = %d, want retries to continue past failures", got)
	}
}

// A fetch completing after Stop sees a cancelled context and must not
// apply its result.
func TestStaleResultGuard(t *testing.T) {
	release := make(chan struct{})
	var applied atomic.Int64

	p := New("test", time.Hour, func(ctx context.Context) error {
		<-release
		if ctx.Err() == nil {
			applied.Add(1)
		}
		return nil
	}, nil)

	p.Start(context.Background())
	time.Sleep(10 * time.Millisecond)
	p.Stop()
	close(release)
	time.Sleep(20 * time.Millisecond)

	if applied.Load() != 0 {
		t.Errorf("applied = %d, want 0: result delivered after Stop", applied.Load())
	}
}

// Start on a running poller replaces the old run: each Start fires one
// immediate fetch, and a single Stop is enough to silence the poller.
func TestRestartReplacesRun(t *testing.T) {
	var calls atomic.Int64
	p := New("test", time.Hour, func(context.Context) error {
		calls.Add(1)
		return nil
	}, nil)

	p.Start(context.Background())
	time.Sleep(20 * time.Millisecond)
	p.Start(context.Background())
	time.Sleep(20 * time.Millisecond)
	p.Stop()

	if got := calls.Load(); got != 2 {
		t.Errorf("calls = %d, want 2 (one immediate fire per Start)", got)
	}
	if p.Running() {
		t.Error("Running() = true after single Stop following restart")
	}
}
