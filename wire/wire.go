// Package wire implements the packet framing spoken with the controller
// emulator firmware: fixed 8-byte payloads followed by a CRC-8 byte, and the
// single-byte command/response vocabulary used for acknowledgements and the
// sync handshake.
package wire

import "fmt"

// Command bytes sent to the firmware outside of regular packets.
const (
	CommandNOP       byte = 0x00
	CommandSync1     byte = 0x33
	CommandSync2     byte = 0xCC
	CommandSyncStart byte = 0xFF
)

// Response bytes sent back by the firmware.
const (
	RespUSBAck     byte = 0x90
	RespUpdateAck  byte = 0x91
	RespUpdateNack byte = 0x92
	RespSyncStart  byte = 0xFF
	RespSync1      byte = 0xCC
	RespSyncOK     byte = 0x33
	RespNone       byte = 0x00 // read timed out
)

const (
	PayloadSize = 8
	PacketSize  = PayloadSize + 1

	// SyncFlushLength is the number of CommandSyncStart bytes written to
	// push any partially received frame out of the firmware.
	SyncFlushLength = 9
)

// Payload is the controller report as the firmware expects it:
//
//	0: buttons high byte
//	1: buttons low byte
//	2: hat (D-pad) code
//	3: left stick X
//	4: left stick Y
//	5: right stick X
//	6: right stick Y
//	7: reserved 0x00
type Payload [PayloadSize]byte

// NeutralPayload releases every input: no buttons, hat centered, sticks centered.
var NeutralPayload = Payload{0x00, 0x00, 0x08, 0x80, 0x80, 0x80, 0x80, 0x00}

// Packet is a payload followed by its CRC-8. It is written as one contiguous
// block with no length prefix and no escaping.
type Packet [PacketSize]byte

// BuildPacket appends the checksum to p.
func BuildPacket(p Payload) Packet {
	var pkt Packet
	copy(pkt[:PayloadSize], p[:])
	pkt[PayloadSize] = CRC8(p[:])
	return pkt
}

// Payload returns the first eight bytes of the packet.
func (p Packet) Payload() Payload {
	var out Payload
	copy(out[:], p[:PayloadSize])
	return out
}

// CRC returns the trailing checksum byte.
func (p Packet) CRC() byte { return p[PayloadSize] }

// Valid reports whether the trailing checksum matches the payload.
func (p Packet) Valid() bool { return CRC8(p[:PayloadSize]) == p[PayloadSize] }

// Bytes returns the packet as a slice ready to be written.
func (p Packet) Bytes() []byte { return p[:] }

// ParseAck reports whether b acknowledges a packet. Anything other than
// RespUSBAck, including RespNone for "nothing received", is a failure.
func ParseAck(b byte) bool {
	return b == RespUSBAck
}

// ResponseName returns a human readable name for a response byte.
// Bytes shared between handshake stages are named by the response meaning.
func ResponseName(b byte) string {
	switch b {
	case RespNone:
		return "NONE"
	case RespUSBAck:
		return "USB_ACK"
	case RespUpdateAck:
		return "UPDATE_ACK"
	case RespUpdateNack:
		return "UPDATE_NACK"
	case RespSyncStart:
		return "SYNC_START"
	case RespSync1:
		return "SYNC_1"
	case RespSyncOK:
		return "SYNC_OK"
	default:
		return fmt.Sprintf("0x%02X", b)
	}
}
