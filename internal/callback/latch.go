package callback

import "sync"

// Latch is a one-way completion flag shared between the listener's request
// handler and the foreground waiter. Once signaled it stays signaled for the
// lifetime of the authorization attempt; a new attempt must construct a new
// Latch.
type Latch struct {
	mu       sync.Mutex
	signaled bool
}

// NewLatch creates an unsignaled latch.
func NewLatch() *Latch {
	return &Latch{}
}

// Signal marks the latch as signaled. Safe to call from any goroutine and
// safe to call more than once.
func (l *Latch) Signal() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.signaled = true
}

// Signaled reports whether the latch has been signaled.
func (l *Latch) Signaled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.signaled
}
