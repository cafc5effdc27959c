package link

import (
	"errors"
	"fmt"
)

var (
	// ErrSyncFailed is returned by callers that give up after Sync reported
	// false. The session itself reports sync failures as a false result.
	ErrSyncFailed = errors.New("link: could not sync with controller")
	ErrClosed     = errors.New("link: session closed")
)

// TransportError wraps a platform I/O failure. Nothing in the session
// retries after one.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("link: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
