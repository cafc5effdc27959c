package link

import (
	"context"
	"errors"
	"time"

	"github.com/Alia5/padlink/wire"
)

// ForceSync runs the full handshake: flush with 0xFF bytes, wait for the
// firmware to answer, then SYNC_1 and SYNC_2. The firmware answers each
// command byte with the other one (0x33 -> 0xCC, 0xCC -> 0x33).
//
// ctx bounds the wait for the flush response; running out of time there is
// a sync failure, not an error. Any mismatch aborts without further steps.
func (s *Session) ForceSync(ctx context.Context) (bool, error) {
	if s.closed {
		return false, ErrClosed
	}
	s.status = StatusSyncing
	ok, err := s.forceSync(ctx)
	s.settle(ok)
	return ok, err
}

// Sync first tries a neutral packet in case the firmware is already in
// sync and only falls back to ForceSync when that is not acknowledged. A
// successful handshake is confirmed with one more neutral packet.
func (s *Session) Sync(ctx context.Context) (bool, error) {
	if s.closed {
		return false, ErrClosed
	}
	s.status = StatusSyncing

	ok, err := s.SendPacket(wire.NeutralPayload)
	if err != nil || ok {
		if ok {
			s.logger.Debug("controller already in sync")
		}
		s.settle(ok)
		return ok, err
	}

	s.logger.Info("forcing controller sync")
	ok, err = s.forceSync(ctx)
	if err != nil || !ok {
		s.settle(false)
		return false, err
	}

	ok, err = s.SendPacket(wire.NeutralPayload)
	if err == nil && !ok {
		s.logger.Warn("handshake completed but first packet was not acknowledged")
	}
	s.settle(ok)
	return ok, err
}

func (s *Session) settle(ok bool) {
	if ok {
		s.status = StatusSynced
	} else {
		s.status = StatusOutOfSync
	}
}

func (s *Session) forceSync(ctx context.Context) (bool, error) {
	if err := s.write(flushBytes()); err != nil {
		return false, err
	}

	if err := s.waitForData(ctx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			s.logger.Warn("no response to sync flush")
			return false, nil
		}
		return false, err
	}

	resp, err := s.readByteLatest()
	if err != nil {
		return false, err
	}
	if resp != wire.RespSyncStart {
		s.logger.Debug("unexpected sync start response", "response", wire.ResponseName(resp))
		return false, nil
	}

	if ok, err := s.exchange(wire.CommandSync1, wire.RespSync1); err != nil || !ok {
		return false, err
	}
	return s.exchange(wire.CommandSync2, wire.RespSyncOK)
}

// exchange writes one command byte and checks the single response byte.
func (s *Session) exchange(cmd, want byte) (bool, error) {
	if err := s.writeByte(cmd); err != nil {
		return false, err
	}
	resp, err := s.readByte()
	if err != nil {
		return false, err
	}
	if resp != want {
		s.logger.Debug("sync step failed",
			"sent", cmd, "want", wire.ResponseName(want), "got", wire.ResponseName(resp))
		return false, nil
	}
	return true, nil
}

// waitForData sleeps at least one poll interval and until the transport
// has something to read.
func (s *Session) waitForData(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		n, err := s.t.Available()
		if err != nil {
			return &TransportError{Op: "available", Err: err}
		}
		if n > 0 {
			return nil
		}
	}
}
