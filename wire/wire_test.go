package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCRC8KnownVectors(t *testing.T) {
	type testCase struct {
		name string
		data []byte
		want byte
	}

	cases := []testCase{
		{name: "empty", data: nil, want: 0x00},
		{name: "check string", data: []byte("123456789"), want: 0xF4},
		{name: "neutral payload", data: NeutralPayload[:], want: 0x54},
		{name: "button A payload", data: []byte{0x00, 0x04, 0x08, 0x80, 0x80, 0x80, 0x80, 0x00}, want: 0x21},
		{name: "flush bytes", data: []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, want: 0xD7},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CRC8(tc.data))
		})
	}
}

func TestCRC8UpdateMatchesCRC8(t *testing.T) {
	data := []byte{0x12, 0x34, 0x56, 0x78, 0x9A}
	var crc byte
	for _, b := range data {
		crc = CRC8Update(crc, b)
	}
	assert.Equal(t, CRC8(data), crc)
}

func TestBuildPacket(t *testing.T) {
	pkt := BuildPacket(NeutralPayload)

	assert.Equal(t, []byte{0x00, 0x00, 0x08, 0x80, 0x80, 0x80, 0x80, 0x00, 0x54}, pkt.Bytes())
	assert.Len(t, pkt.Bytes(), PacketSize)
	assert.Equal(t, NeutralPayload, pkt.Payload())
	assert.True(t, pkt.Valid())

	// Stripping the checksum and recomputing it reproduces the same byte.
	assert.Equal(t, pkt.CRC(), CRC8(pkt.Bytes()[:PayloadSize]))

	pkt[3] ^= 0x01
	assert.False(t, pkt.Valid())
}

func TestParseAck(t *testing.T) {
	assert.True(t, ParseAck(RespUSBAck))
	for _, b := range []byte{RespNone, RespUpdateAck, RespUpdateNack, RespSyncStart, RespSync1, RespSyncOK} {
		assert.False(t, ParseAck(b), "byte 0x%02X", b)
	}
}

func TestResponseName(t *testing.T) {
	assert.Equal(t, "USB_ACK", ResponseName(0x90))
	assert.Equal(t, "UPDATE_NACK", ResponseName(0x92))
	assert.Equal(t, "NONE", ResponseName(0x00))
	assert.Equal(t, "0x42", ResponseName(0x42))
}
