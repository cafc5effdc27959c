package testing

import (
	"errors"
	"time"

	"github.com/Alia5/padlink/wire"
)

// Responder computes the bytes the device sends back after a write.
type Responder func(written []byte) []byte

// FakeTransport is an in-memory link.Transport. Every write is recorded and
// handed to Respond; whatever it returns is readable immediately. Reads
// never block: a read with nothing buffered behaves like a timeout.
type FakeTransport struct {
	Respond Responder

	Writes     [][]byte
	WriteErr   error
	ReadErr    error
	CloseCount int

	rx []byte
}

var ErrFakeClosed = errors.New("fake transport closed")

// NewFakeTransport returns a transport answering with respond. A nil
// respond never answers.
func NewFakeTransport(respond Responder) *FakeTransport {
	return &FakeTransport{Respond: respond}
}

func (f *FakeTransport) Write(p []byte) (int, error) {
	if f.WriteErr != nil {
		return 0, f.WriteErr
	}
	if f.CloseCount > 0 {
		return 0, ErrFakeClosed
	}
	f.Writes = append(f.Writes, append([]byte(nil), p...))
	if f.Respond != nil {
		f.rx = append(f.rx, f.Respond(p)...)
	}
	return len(p), nil
}

func (f *FakeTransport) ReadTimeout(n int, _ time.Duration) ([]byte, error) {
	if f.ReadErr != nil {
		return nil, f.ReadErr
	}
	n = min(n, len(f.rx))
	out := append([]byte(nil), f.rx[:n]...)
	f.rx = f.rx[n:]
	return out, nil
}

func (f *FakeTransport) Available() (int, error) {
	if f.ReadErr != nil {
		return 0, f.ReadErr
	}
	return len(f.rx), nil
}

func (f *FakeTransport) Close() error {
	f.CloseCount++
	return nil
}

// Queue makes b readable without a preceding write.
func (f *FakeTransport) Queue(b ...byte) {
	f.rx = append(f.rx, b...)
}

// Packets returns the writes that were full packets.
func (f *FakeTransport) Packets() []wire.Packet {
	var out []wire.Packet
	for _, w := range f.Writes {
		if len(w) == wire.PacketSize {
			var p wire.Packet
			copy(p[:], w)
			out = append(out, p)
		}
	}
	return out
}

// Sequence answers the i-th write with replies[i]; later writes get nothing.
func Sequence(replies ...[]byte) Responder {
	i := 0
	return func([]byte) []byte {
		if i >= len(replies) {
			return nil
		}
		r := replies[i]
		i++
		return r
	}
}

// AckAll acknowledges every packet-sized write.
func AckAll(written []byte) []byte {
	if len(written) == wire.PacketSize {
		return []byte{wire.RespUSBAck}
	}
	return nil
}
