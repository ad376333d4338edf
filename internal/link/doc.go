// Package link orchestrates the hosted link authorization exchange.
//
// One attempt moves through a strict forward progression:
//
//	Idle → ProfileReady → LinkCreated → ListenerActive → AwaitingCallback
//	     → CallbackReceived → TokenExchanged → Persisted → Done
//
// with Failed reachable from any non-terminal state. Two goroutines exist per
// attempt: the orchestrator, which blocks in the callback wait, and the
// listener's accept loop, which signals the completion latch. The listener is
// torn down on every exit path once it has been started, so the bound port is
// released deterministically whether the attempt succeeds, times out, or
// fails partway.
//
// Persistence ordering is asymmetric on purpose: the access credential is
// written to the secret store before the connection record is appended. An
// interruption between the two leaves an orphaned secret, which is
// recoverable, rather than a connection record pointing at a missing secret,
// which is not.
package link
