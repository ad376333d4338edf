package link

import "errors"

// ErrAuthorizationTimeout indicates the hosted link callback never arrived
// within the configured wait bound. The listener is still torn down before
// this error surfaces.
var ErrAuthorizationTimeout = errors.New("authorization timed out waiting for the hosted link callback")
