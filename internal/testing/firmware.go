package testing

import (
	"bytes"

	"github.com/Alia5/padlink/wire"
)

type firmwareState int

const (
	fwOutOfSync firmwareState = iota
	fwSyncStart
	fwSync1
	fwSynced
)

// Firmware emulates the microcontroller side of the protocol closely enough
// to drive a session end to end. Use its Respond method as a FakeTransport
// responder.
type Firmware struct {
	state firmwareState
	buf   []byte

	// Reports holds every accepted payload in order.
	Reports []wire.Payload
	// Rejected counts packets with a bad checksum.
	Rejected int
	// Mute suppresses every response, emulating an unplugged device.
	Mute bool
	// NackAll rejects every packet even when the checksum is correct.
	NackAll bool
}

// NewFirmware returns firmware that has not been synced yet.
func NewFirmware() *Firmware {
	return &Firmware{}
}

// NewSyncedFirmware returns firmware that already completed the handshake.
func NewSyncedFirmware() *Firmware {
	return &Firmware{state: fwSynced}
}

// Synced reports whether the emulated device accepts packets.
func (f *Firmware) Synced() bool { return f.state == fwSynced }

// Respond consumes written bytes one by one and returns the replies.
func (f *Firmware) Respond(written []byte) []byte {
	var out []byte
	for _, b := range written {
		if r, ok := f.step(b); ok {
			out = append(out, r)
		}
	}
	if f.Mute {
		return nil
	}
	return out
}

func (f *Firmware) step(b byte) (byte, bool) {
	switch f.state {
	case fwOutOfSync:
		if b == wire.CommandSyncStart {
			f.state = fwSyncStart
			return wire.RespSyncStart, true
		}
		return 0, false
	case fwSyncStart:
		switch b {
		case wire.CommandSyncStart:
			return wire.RespSyncStart, true
		case wire.CommandSync1:
			f.state = fwSync1
			return wire.RespSync1, true
		}
		f.state = fwOutOfSync
		return 0, false
	case fwSync1:
		switch b {
		case wire.CommandSync2:
			f.state = fwSynced
			f.buf = f.buf[:0]
			return wire.RespSyncOK, true
		case wire.CommandSyncStart:
			f.state = fwSyncStart
			return wire.RespSyncStart, true
		}
		f.state = fwOutOfSync
		return 0, false
	default:
		f.buf = append(f.buf, b)
		if len(f.buf) < wire.PacketSize {
			return 0, false
		}
		var pkt wire.Packet
		copy(pkt[:], f.buf)
		f.buf = f.buf[:0]

		if bytes.Equal(pkt[:], bytes.Repeat([]byte{wire.CommandSyncStart}, wire.PacketSize)) {
			f.state = fwSyncStart
			return wire.RespSyncStart, true
		}
		if !pkt.Valid() {
			f.Rejected++
			f.state = fwOutOfSync
			return wire.RespUpdateNack, true
		}
		if f.NackAll {
			return wire.RespUpdateNack, true
		}
		f.Reports = append(f.Reports, pkt.Payload())
		return wire.RespUSBAck, true
	}
}
