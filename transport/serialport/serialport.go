// Package serialport adapts a platform serial port to the link.Transport
// contract.
package serialport

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.bug.st/serial"
)

const (
	DefaultBaudRate    = 19200
	DefaultReadTimeout = time.Second
	readChunk          = 64
)

// Config describes the port to open.
type Config struct {
	Port        string
	BaudRate    int
	ReadTimeout time.Duration
}

// ErrClosed is returned by operations on a closed port.
var ErrClosed = errors.New("serialport: port closed")

type device interface {
	io.ReadWriteCloser
	SetReadTimeout(t time.Duration) error
}

// Port is a serial link.Transport. Bytes picked up by Available are kept in
// an internal buffer and served first by ReadTimeout.
type Port struct {
	name string
	dev  device

	mu      sync.Mutex
	pending []byte
	closed  bool
}

// Open opens cfg.Port as 8N1.
func Open(cfg Config) (*Port, error) {
	if cfg.Port == "" {
		return nil, errors.New("serialport: no port given")
	}
	if cfg.BaudRate <= 0 {
		cfg.BaudRate = DefaultBaudRate
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	mode := &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	p, err := serial.Open(cfg.Port, mode)
	if err != nil {
		return nil, fmt.Errorf("serialport: open %s: %w", cfg.Port, err)
	}
	if err := p.SetReadTimeout(cfg.ReadTimeout); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("serialport: set timeout on %s: %w", cfg.Port, err)
	}
	return newPort(cfg.Port, p), nil
}

func newPort(name string, dev device) *Port {
	return &Port{name: name, dev: dev}
}

// Name returns the device path the port was opened with.
func (p *Port) Name() string { return p.name }

func (p *Port) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0, ErrClosed
	}
	written := 0
	for written < len(b) {
		n, err := p.dev.Write(b[written:])
		written += n
		if err != nil {
			return written, err
		}
		if n == 0 {
			return written, io.ErrShortWrite
		}
	}
	return written, nil
}

// ReadTimeout returns up to n bytes, waiting at most timeout for them. An
// empty result means the timeout expired.
func (p *Port) ReadTimeout(n int, timeout time.Duration) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrClosed
	}
	if n <= 0 {
		return nil, nil
	}

	out := make([]byte, 0, n)
	take := min(n, len(p.pending))
	out = append(out, p.pending[:take]...)
	p.pending = p.pending[take:]

	deadline := time.Now().Add(timeout)
	buf := make([]byte, n)
	for len(out) < n {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}
		if err := p.dev.SetReadTimeout(remaining); err != nil {
			return out, err
		}
		m, err := p.dev.Read(buf[:n-len(out)])
		out = append(out, buf[:m]...)
		if err != nil {
			return out, err
		}
		if m == 0 {
			break
		}
	}
	return out, nil
}

// Available polls the device without blocking and reports how many bytes
// are ready.
func (p *Port) Available() (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0, ErrClosed
	}
	if err := p.dev.SetReadTimeout(0); err != nil {
		return len(p.pending), err
	}
	buf := make([]byte, readChunk)
	for {
		m, err := p.dev.Read(buf)
		p.pending = append(p.pending, buf[:m]...)
		if err != nil {
			return len(p.pending), err
		}
		if m < len(buf) {
			return len(p.pending), nil
		}
	}
}

func (p *Port) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	p.pending = nil
	return p.dev.Close()
}

// ListPorts returns the serial ports present on the system.
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("serialport: list ports: %w", err)
	}
	return ports, nil
}
