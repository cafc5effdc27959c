package link_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	padTesting "github.com/Alia5/padlink/internal/testing"
	"github.com/Alia5/padlink/link"
	"github.com/Alia5/padlink/pad"
	"github.com/Alia5/padlink/wire"
)

var fastConfig = link.Config{
	ReadTimeout:  10 * time.Millisecond,
	PollInterval: time.Millisecond,
	TapRelease:   time.Millisecond,
}

func newSession(t *testing.T, respond padTesting.Responder) (*link.Session, *padTesting.FakeTransport) {
	t.Helper()
	ft := padTesting.NewFakeTransport(respond)
	cfg := fastConfig
	return link.NewWithConfig(ft, &cfg, nil, nil), ft
}

func syncCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	t.Cleanup(cancel)
	return ctx
}

func flush() []byte { return bytes.Repeat([]byte{0xFF}, 9) }

func TestSendPacket(t *testing.T) {
	type testCase struct {
		name   string
		reply  []byte
		wantOK bool
	}

	cases := []testCase{
		{name: "usb ack", reply: []byte{0x90}, wantOK: true},
		{name: "update nack", reply: []byte{0x92}, wantOK: false},
		{name: "update ack is not usb ack", reply: []byte{0x91}, wantOK: false},
		{name: "timeout", reply: nil, wantOK: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, ft := newSession(t, padTesting.Sequence(tc.reply))

			ok, err := s.SendPacket(wire.NeutralPayload)
			require.NoError(t, err)
			assert.Equal(t, tc.wantOK, ok)

			require.Len(t, ft.Writes, 1)
			assert.Equal(t, []byte{0x00, 0x00, 0x08, 0x80, 0x80, 0x80, 0x80, 0x00, 0x54}, ft.Writes[0])

			st := s.Stats()
			assert.Equal(t, 1, st.Packets)
			if tc.wantOK {
				assert.Equal(t, link.StatusSynced, s.Status())
				assert.Equal(t, 1, st.Acks)
			} else {
				assert.Equal(t, link.StatusOutOfSync, s.Status())
				assert.Equal(t, 1, st.Failures)
			}
		})
	}
}

// traffic is a RawLogger implemented outside the link package.
type traffic struct {
	out  []bool
	data [][]byte
}

var _ link.RawLogger = (*traffic)(nil)

func (tr *traffic) Log(out bool, data []byte) {
	tr.out = append(tr.out, out)
	tr.data = append(tr.data, append([]byte(nil), data...))
}

func TestRawLogger(t *testing.T) {
	var tr traffic
	ft := padTesting.NewFakeTransport(padTesting.Sequence([]byte{0x90}, nil))
	cfg := fastConfig
	s := link.NewWithConfig(ft, &cfg, nil, &tr)

	pkt := wire.BuildPacket(pad.ButtonA.Payload())
	ok, err := s.SendPacket(pad.ButtonA.Payload())
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.SendPacket(wire.NeutralPayload)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, []bool{true, false, true, false}, tr.out)
	assert.Equal(t, pkt.Bytes(), tr.data[0])
	assert.Equal(t, []byte{0x90}, tr.data[1])
	assert.Empty(t, tr.data[3], "timeouts are logged without data")
}

func TestSendPacketFailureDropsSync(t *testing.T) {
	s, _ := newSession(t, padTesting.Sequence([]byte{0x90}, nil))

	ok, err := s.SendPacket(wire.NeutralPayload)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, link.StatusSynced, s.Status())

	ok, err = s.SendPacket(wire.NeutralPayload)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, link.StatusOutOfSync, s.Status())
	assert.Equal(t, wire.RespNone, s.Stats().LastResponse)
}

func TestSendPacketTransportError(t *testing.T) {
	boom := errors.New("device unplugged")

	s, ft := newSession(t, padTesting.AckAll)
	ft.WriteErr = boom
	_, err := s.SendPacket(wire.NeutralPayload)
	var te *link.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "write", te.Op)
	assert.ErrorIs(t, err, boom)

	s, ft = newSession(t, padTesting.AckAll)
	ft.ReadErr = boom
	_, err = s.SendPacket(wire.NeutralPayload)
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "read", te.Op)
}

func TestSendCommand(t *testing.T) {
	fw := padTesting.NewSyncedFirmware()
	s, _ := newSession(t, fw.Respond)

	ok, err := s.SendCommand(pad.ButtonA | pad.LStickUp)
	require.NoError(t, err)
	assert.True(t, ok)

	require.Len(t, fw.Reports, 1)
	assert.Equal(t, wire.Payload{0x00, 0x04, 0x08, 0x80, 0x01, 0x80, 0x80, 0x00}, fw.Reports[0])
}

func TestForceSyncSuccess(t *testing.T) {
	s, ft := newSession(t, padTesting.Sequence([]byte{0xFF}, []byte{0xCC}, []byte{0x33}))

	ok, err := s.ForceSync(syncCtx(t))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, link.StatusSynced, s.Status())

	assert.Equal(t, [][]byte{flush(), {0x33}, {0xCC}}, ft.Writes)
}

func TestForceSyncUsesLatestByte(t *testing.T) {
	s, _ := newSession(t, padTesting.Sequence([]byte{0x92, 0x00, 0xFF}, []byte{0xCC}, []byte{0x33}))

	ok, err := s.ForceSync(syncCtx(t))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestForceSyncFailures(t *testing.T) {
	type testCase struct {
		name       string
		replies    [][]byte
		wantWrites [][]byte
	}

	cases := []testCase{
		{
			name:       "flush answered with garbage",
			replies:    [][]byte{{0xFF, 0x92}},
			wantWrites: [][]byte{flush()},
		},
		{
			name:       "wrong sync 1 response",
			replies:    [][]byte{{0xFF}, {0x92}},
			wantWrites: [][]byte{flush(), {0x33}},
		},
		{
			name:       "sync 1 response missing",
			replies:    [][]byte{{0xFF}, nil},
			wantWrites: [][]byte{flush(), {0x33}},
		},
		{
			name:       "wrong sync ok response",
			replies:    [][]byte{{0xFF}, {0xCC}, {0xCC}},
			wantWrites: [][]byte{flush(), {0x33}, {0xCC}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, ft := newSession(t, padTesting.Sequence(tc.replies...))

			ok, err := s.ForceSync(syncCtx(t))
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Equal(t, link.StatusOutOfSync, s.Status())
			assert.Equal(t, tc.wantWrites, ft.Writes)
		})
	}
}

func TestForceSyncNoResponse(t *testing.T) {
	s, _ := newSession(t, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	ok, err := s.ForceSync(ctx)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestForceSyncCancelled(t *testing.T) {
	s, _ := newSession(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ok, err := s.ForceSync(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ok)
}

func TestForceSyncRecoversPartialFrame(t *testing.T) {
	fw := padTesting.NewSyncedFirmware()
	s, ft := newSession(t, fw.Respond)

	// A stray partial frame left in the firmware buffer.
	_, err := ft.Write([]byte{0x01, 0x02, 0x03})
	require.NoError(t, err)

	ok, err := s.ForceSync(syncCtx(t))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, fw.Synced())

	ok, err = s.SendCommand(pad.ButtonB)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSyncOptimisticPath(t *testing.T) {
	s, ft := newSession(t, padTesting.AckAll)

	ok, err := s.Sync(syncCtx(t))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, link.StatusSynced, s.Status())

	// Only the neutral probe was written; no flush, no handshake.
	require.Len(t, ft.Writes, 1)
	assert.Len(t, ft.Writes[0], wire.PacketSize)
}

func TestSyncForcesHandshake(t *testing.T) {
	fw := padTesting.NewFirmware()
	s, ft := newSession(t, fw.Respond)

	ok, err := s.Sync(syncCtx(t))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, fw.Synced())
	assert.Equal(t, link.StatusSynced, s.Status())

	require.Len(t, ft.Writes, 5)
	assert.Len(t, ft.Writes[0], wire.PacketSize)
	assert.Equal(t, flush(), ft.Writes[1])
	assert.Equal(t, []byte{0x33}, ft.Writes[2])
	assert.Equal(t, []byte{0xCC}, ft.Writes[3])
	assert.Equal(t, wire.BuildPacket(wire.NeutralPayload).Bytes(), ft.Writes[4])
	assert.Equal(t, []wire.Payload{wire.NeutralPayload}, fw.Reports)
}

func TestSyncFails(t *testing.T) {
	fw := padTesting.NewFirmware()
	fw.Mute = true
	s, _ := newSession(t, fw.Respond)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	ok, err := s.Sync(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, link.StatusOutOfSync, s.Status())
}

func TestSyncConfirmationRejected(t *testing.T) {
	fw := padTesting.NewFirmware()
	fw.NackAll = true
	s, _ := newSession(t, fw.Respond)

	ok, err := s.Sync(syncCtx(t))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, fw.Synced())
	assert.Equal(t, link.StatusOutOfSync, s.Status())
}

func TestTapCommand(t *testing.T) {
	fw := padTesting.NewSyncedFirmware()
	s, ft := newSession(t, fw.Respond)

	start := time.Now()
	ok, err := s.TapCommand(pad.ButtonA, 5*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.GreaterOrEqual(t, time.Since(start), 6*time.Millisecond)

	pkts := ft.Packets()
	require.Len(t, pkts, 2)
	assert.Equal(t, pad.ButtonA.Payload(), pkts[0].Payload())
	assert.Equal(t, wire.NeutralPayload, pkts[1].Payload())
}

func TestTapCommandSendsBothPacketsOnFailure(t *testing.T) {
	type testCase struct {
		name    string
		replies [][]byte
	}

	cases := []testCase{
		{name: "press rejected", replies: [][]byte{{0x92}, {0x90}}},
		{name: "release rejected", replies: [][]byte{{0x90}, {0x92}}},
		{name: "no responses", replies: nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, ft := newSession(t, padTesting.Sequence(tc.replies...))

			ok, err := s.TapCommand(pad.DPadUp, 0)
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Len(t, ft.Packets(), 2)
		})
	}
}

func TestClose(t *testing.T) {
	fw := padTesting.NewSyncedFirmware()
	s, ft := newSession(t, fw.Respond)

	ok, err := s.SendCommand(pad.ButtonX)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	assert.Equal(t, 1, ft.CloseCount)
	assert.Equal(t, []wire.Payload{pad.ButtonX.Payload(), wire.NeutralPayload}, fw.Reports)

	_, err = s.SendCommand(pad.ButtonA)
	assert.ErrorIs(t, err, link.ErrClosed)
	_, err = s.Sync(syncCtx(t))
	assert.ErrorIs(t, err, link.ErrClosed)
}

func TestCloseWithBrokenTransport(t *testing.T) {
	s, ft := newSession(t, nil)
	ft.WriteErr = errors.New("gone")

	assert.NoError(t, s.Close())
	assert.Equal(t, 1, ft.CloseCount)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "out-of-sync", link.StatusOutOfSync.String())
	assert.Equal(t, "syncing", link.StatusSyncing.String())
	assert.Equal(t, "synced", link.StatusSynced.String())
}

func TestDefaultConfig(t *testing.T) {
	cfg := link.DefaultConfig()
	assert.Equal(t, time.Second, cfg.ReadTimeout)
	assert.Equal(t, 100*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, 50*time.Millisecond, cfg.TapRelease)

	s := link.NewWithConfig(padTesting.NewFakeTransport(nil), &link.Config{ReadTimeout: time.Millisecond}, nil, nil)
	assert.Equal(t, time.Millisecond, s.Config().ReadTimeout)
	assert.Equal(t, 100*time.Millisecond, s.Config().PollInterval)
}
