// Package link implements the host side of the controller emulator protocol:
// the sync handshake and the strict send-packet/await-ack cycle.
//
// A Session owns its Transport. It is not safe for concurrent use; the
// protocol allows one packet in flight and every operation blocks until the
// firmware answered or the read timed out.
package link

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/Alia5/padlink/internal/log"
	"github.com/Alia5/padlink/pad"
	"github.com/Alia5/padlink/timing"
	"github.com/Alia5/padlink/wire"
)

// Status is the synchronization state of a session.
type Status int

const (
	StatusOutOfSync Status = iota
	StatusSyncing
	StatusSynced
)

func (s Status) String() string {
	switch s {
	case StatusOutOfSync:
		return "out-of-sync"
	case StatusSyncing:
		return "syncing"
	case StatusSynced:
		return "synced"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Stats counts packet round trips.
type Stats struct {
	Packets  int
	Acks     int
	Failures int
	// LastResponse is the last byte read after a packet, wire.RespNone on
	// timeout.
	LastResponse byte
}

// Session is one open link to the firmware.
type Session struct {
	t      Transport
	cfg    Config
	logger *slog.Logger
	raw    RawLogger

	status Status
	stats  Stats
	closed bool

	closeOnce sync.Once
	closeErr  error

	wait func(time.Duration)
}

// New creates a session over t with default timings.
func New(t Transport, logger *slog.Logger, raw RawLogger) *Session {
	return NewWithConfig(t, nil, logger, raw)
}

// NewWithConfig creates a session with optional timings; zero fields keep
// their defaults.
func NewWithConfig(t Transport, cfg *Config, logger *slog.Logger, raw RawLogger) *Session {
	c := defaultConfig()
	if cfg != nil {
		c = cfg.withDefaults()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if raw == nil {
		raw = nopRaw{}
	}
	return &Session{
		t:      t,
		cfg:    c,
		logger: logger,
		raw:    raw,
		wait:   timing.Wait,
	}
}

// Status returns the current synchronization state.
func (s *Session) Status() Status { return s.status }

// Stats returns packet counters.
func (s *Session) Stats() Stats { return s.stats }

// Config returns the effective timings.
func (s *Session) Config() Config { return s.cfg }

// SendPacket frames p, writes it and waits for one response byte. It
// reports whether the firmware acknowledged the packet. A missing or wrong
// response is not an error and is never retried here.
func (s *Session) SendPacket(p wire.Payload) (bool, error) {
	if s.closed {
		return false, ErrClosed
	}
	pkt := wire.BuildPacket(p)
	if err := s.write(pkt.Bytes()); err != nil {
		return false, err
	}
	resp, err := s.readByte()
	if err != nil {
		return false, err
	}

	s.stats.Packets++
	s.stats.LastResponse = resp
	if wire.ParseAck(resp) {
		s.stats.Acks++
		s.status = StatusSynced
		return true, nil
	}
	s.stats.Failures++
	if s.status == StatusSynced {
		s.status = StatusOutOfSync
	}
	s.logger.Debug("packet not acknowledged", "response", wire.ResponseName(resp))
	return false, nil
}

// SendCommand encodes state and sends it.
func (s *Session) SendCommand(state pad.State) (bool, error) {
	s.logger.Log(context.Background(), log.LevelTrace, "send", "state", state)
	return s.SendPacket(state.Payload())
}

// TapCommand presses state for the configured release delay, releases all
// inputs and then waits hold. Both packets are always sent; the result is
// true only if both were acknowledged.
func (s *Session) TapCommand(state pad.State, hold time.Duration) (bool, error) {
	pressed, err := s.SendCommand(state)
	if err != nil {
		return false, err
	}
	s.wait(s.cfg.TapRelease)
	released, err := s.SendCommand(pad.Neutral)
	if err != nil {
		return false, err
	}
	s.wait(hold)
	return pressed && released, nil
}

// Close releases all inputs and closes the transport. Only the first call
// does anything; a failed release packet does not prevent closing.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		if _, err := s.SendPacket(wire.NeutralPayload); err != nil {
			s.logger.Warn("failed to release inputs", "error", err)
		}
		s.wait(s.cfg.TapRelease)
		s.closed = true
		s.closeErr = s.t.Close()
	})
	return s.closeErr
}

func (s *Session) write(p []byte) error {
	s.raw.Log(true, p)
	n, err := s.t.Write(p)
	if err != nil {
		return &TransportError{Op: "write", Err: err}
	}
	if n != len(p) {
		return &TransportError{Op: "write", Err: io.ErrShortWrite}
	}
	return nil
}

func (s *Session) writeByte(b byte) error {
	return s.write([]byte{b})
}

// readByte reads one response byte, wire.RespNone on timeout.
func (s *Session) readByte() (byte, error) {
	data, err := s.t.ReadTimeout(1, s.cfg.ReadTimeout)
	if err != nil {
		return wire.RespNone, &TransportError{Op: "read", Err: err}
	}
	if len(data) == 0 {
		s.raw.Log(false, nil)
		return wire.RespNone, nil
	}
	s.raw.Log(false, data[:1])
	return data[0], nil
}

// readByteLatest drains everything buffered and returns the newest byte.
func (s *Session) readByteLatest() (byte, error) {
	n, err := s.t.Available()
	if err != nil {
		return wire.RespNone, &TransportError{Op: "available", Err: err}
	}
	n = max(n, 1)
	data, err := s.t.ReadTimeout(n, s.cfg.ReadTimeout)
	if err != nil {
		return wire.RespNone, &TransportError{Op: "read", Err: err}
	}
	s.raw.Log(false, data)
	if len(data) == 0 {
		return wire.RespNone, nil
	}
	return data[len(data)-1], nil
}

func flushBytes() []byte {
	return bytes.Repeat([]byte{wire.CommandSyncStart}, wire.SyncFlushLength)
}
