package reminder

import "sync"

// Ledger is the process-lifetime set of already-notified occurrence keys.
// Membership is monotonic: keys are never removed, so an occurrence fires at
// most once per process. The set is intentionally not persisted; a restart
// inside a notification window may re-notify or silently miss an occurrence.
type Ledger struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewLedger() *Ledger {
	return &Ledger{seen: make(map[string]struct{})}
}

// Seen reports whether a notification for key has already fired.
func (l *Ledger) Seen(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.seen[key]
	return ok
}

// Mark records key as notified.
func (l *Ledger) Mark(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seen[key] = struct{}{}
}

// Size returns the number of recorded keys.
func (l *Ledger) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.seen)
}
