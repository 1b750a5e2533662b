package transport

import (
	"bytes"
	"errors"
	"sync"
	"time"
)

// FakePort is an in-memory SerialPort for tests: writes made by the
// caller accumulate in Written, and bytes queued with Feed are returned
// by Read in order. It supports injected latency and errors so protocol
// tests can exercise timeout and I/O failure paths without real
// hardware.
type FakePort struct {
	mu sync.Mutex

	readBuf  bytes.Buffer
	Written  bytes.Buffer
	readCond *sync.Cond

	ReadLatency time.Duration
	ReadError   error
	WriteError  error
	closed      bool
}

// NewFakePort returns a ready-to-use FakePort.
func NewFakePort() *FakePort {
	p := &FakePort{}
	p.readCond = sync.NewCond(&p.mu)
	return p
}

// Feed queues bytes to be returned by subsequent Read calls.
func (p *FakePort) Feed(data []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.readBuf.Write(data)
	p.readCond.Signal()
}

// Read implements io.Reader, blocking until at least one byte is queued,
// the port is closed, or a ReadError is injected.
func (p *FakePort) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ReadError != nil {
		err := p.ReadError
		p.ReadError = nil
		return 0, err
	}

	for p.readBuf.Len() == 0 && !p.closed {
		p.readCond.Wait()
	}
	if p.closed && p.readBuf.Len() == 0 {
		return 0, errors.New("transport: fake port closed")
	}

	if p.ReadLatency > 0 {
		p.mu.Unlock()
		time.Sleep(p.ReadLatency)
		p.mu.Lock()
	}

	return p.readBuf.Read(b)
}

// Write implements io.Writer, recording everything written.
func (p *FakePort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.WriteError != nil {
		err := p.WriteError
		p.WriteError = nil
		return 0, err
	}
	return p.Written.Write(b)
}

// Close marks the port closed and wakes any blocked reader.
func (p *FakePort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.readCond.Broadcast()
	return nil
}

// WrittenBytes returns everything written to the port so far.
func (p *FakePort) WrittenBytes() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]byte(nil), p.Written.Bytes()...)
}
