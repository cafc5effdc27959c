package link

import "time"

// Transport is the byte channel to the firmware. Implementations must not
// buffer writes beyond what the platform does: every Write is expected to be
// on the wire when it returns.
type Transport interface {
	Write(p []byte) (int, error)
	// ReadTimeout blocks until up to n bytes are read or timeout elapses.
	// A timeout is not an error: it yields an empty slice.
	ReadTimeout(n int, timeout time.Duration) ([]byte, error)
	// Available returns the number of bytes that can be read without
	// blocking.
	Available() (int, error)
	Close() error
}

// RawLogger receives every byte exchanged with the transport; out is true
// for host to firmware traffic. A timed out read is logged with nil data.
type RawLogger interface {
	Log(out bool, data []byte)
}

type nopRaw struct{}

func (nopRaw) Log(bool, []byte) {}
