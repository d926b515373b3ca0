package data

import (
	"sync"
	"time"
)

// ReadThrottle collapses bursts of duplicate mark-as-read calls into a
// single persistence write. Entries are keyed by (recipient, sender) and
// hold the time of the last processed request; entries older than the
// cleanup horizon are evicted by a background loop.
type ReadThrottle struct {
	mu      sync.Mutex
	entries map[pairKey]time.Time
	window  time.Duration
	horizon time.Duration
	stopCh  chan struct{}
}

type pairKey struct {
	recipient string
	sender    string
}

// NewReadThrottle creates a throttle with the given suppression window and
// starts its cleanup loop. Call Stop when done.
func NewReadThrottle(window, horizon time.Duration, cleanupInterval time.Duration) *ReadThrottle {
	t := &ReadThrottle{
		entries: map[pairKey]time.Time{},
		window:  window,
		horizon: horizon,
		stopCh:  make(chan struct{}),
	}
	go t.cleanupLoop(cleanupInterval)
	return t
}

func (t *ReadThrottle) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-t.horizon)
			t.mu.Lock()
			for k, last := range t.entries {
				if last.Before(cutoff) {
					delete(t.entries, k)
				}
			}
			t.mu.Unlock()
		case <-t.stopCh:
			return
		}
	}
}

// Stop terminates the cleanup loop (useful for tests).
func (t *ReadThrottle) Stop() {
	close(t.stopCh)
}

// Allow reports whether a mark-as-read request for the pair should hit the
// database. The first call for a pair is allowed and refreshes the entry;
// subsequent calls within the window are suppressed.
func (t *ReadThrottle) Allow(recipientID, senderID string) bool {
	key := pairKey{recipient: recipientID, sender: senderID}
	now := time.Now()

	t.mu.Lock()
	defer t.mu.Unlock()

	if last, ok := t.entries[key]; ok && now.Sub(last) < t.window {
		return false
	}
	t.entries[key] = now
	return true
}
