package log

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// RawLogger records every byte exchanged with the firmware. Its method set
// matches link.RawLogger.
type RawLogger interface {
	// Log records data; out is true for host-to-device traffic.
	Log(out bool, data []byte)
}

type rawLogger struct {
	mu sync.Mutex
	w  io.Writer
}

// NewRaw returns a RawLogger writing hex dumps to w. A nil writer discards
// everything.
func NewRaw(w io.Writer) RawLogger {
	if w == nil {
		return nopRaw{}
	}
	return &rawLogger{w: w}
}

func (l *rawLogger) Log(out bool, data []byte) {
	dir := "<-"
	if out {
		dir = "->"
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = fmt.Fprintf(l.w, "%s %s [%d] % X\n", time.Now().Format("15:04:05.000000"), dir, len(data), data)
}

type nopRaw struct{}

func (nopRaw) Log(bool, []byte) {}
