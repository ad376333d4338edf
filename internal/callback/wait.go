package callback

import "time"

// PollInterval is the cadence at which WaitForSignal checks the latch. It
// bounds the worst-case latency between the redirect arriving and the waiter
// waking up.
const PollInterval = 500 * time.Millisecond

// DefaultWaitTimeout is how long to wait for the hosted link redirect before
// giving up.
const DefaultWaitTimeout = 300 * time.Second

// WaitForSignal blocks the calling goroutine, polling the latch at
// PollInterval, and returns true as soon as the latch is signaled or false
// once the timeout elapses. The only way out is the signal or the timeout.
func WaitForSignal(latch *Latch, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)

	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()

	for {
		if latch.Signaled() {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		<-ticker.C
	}
}
