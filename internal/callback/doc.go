// Package callback implements the local HTTP endpoint that receives the
// hosted link redirect, and the synchronization between the listener's accept
// loop and the foreground command waiting for that redirect.
//
// Three pieces cooperate per authorization attempt:
//
//   - Latch: a lock-guarded, one-way completion flag. Written only by the
//     server's request handler, read only by the waiter.
//   - Server: binds host:port, serves exactly one recognized path
//     (/oauth-callback) with a static confirmation page, 404s everything
//     else, and signals the Latch on the first matching request.
//   - WaitForSignal: blocks the foreground goroutine, polling the Latch at a
//     fixed sub-second cadence until it is signaled or the timeout elapses.
//
// The Latch is the only state shared between the two goroutines. A new
// attempt always constructs a fresh Latch and Server pair.
package callback
