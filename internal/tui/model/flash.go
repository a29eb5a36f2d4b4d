package model

import (
	"sync"
	"time"
)

// Flash holds a transient notification shown in the status bar.
type Flash struct {
	mu      sync.RWMutex
	message string
	isError bool
	expires time.Time
}

// Set stores an informational flash that expires after d.
func (f *Flash) Set(msg string, d time.Duration) {
	f.set(msg, false, d)
}

// SetError stores an error flash that expires after d.
func (f *Flash) SetError(msg string, d time.Duration) {
	f.set(msg, true, d)
}

func (f *Flash) set(msg string, isError bool, d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.message = msg
	f.isError = isError
	f.expires = time.Now().Add(d)
}

// Get returns the current message and whether it is an error. The
// message is empty once expired.
func (f *Flash) Get() (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if time.Now().After(f.expires) {
		return "", false
	}
	return f.message, f.isError
}
