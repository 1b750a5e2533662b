// Package transport implements the framed request/response transport
// used to talk to the device: the 7-byte envelope, buffered polling
// reads, and the Flush/Poll primitives the protocol engine times its
// handshake against. The raw byte-level serial port (open/read/write)
// is an external collaborator, represented here only by the SerialPort
// interface.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// FrameStart and FrameEnd are the sentinel bytes bracketing every
// request frame: 0xAA, opcode, p0, p1, p2, p3, 0xBB.
const (
	FrameStart = 0xAA
	FrameEnd   = 0xBB
	FrameSize  = 7
)

// PollInterval is the polling granularity used by Poll while waiting for
// bytes to arrive, matching the device's loose timing.
const PollInterval = 10 * time.Millisecond

// SerialPort is the minimal external collaborator: a byte-level
// full-duplex stream plus Close. Opening it (baud rate, RTS/DTR, parity)
// is out of scope for this package; see OpenReal for one concrete
// binding.
type SerialPort interface {
	io.Reader
	io.Writer
	io.Closer
}

// Framer wraps a SerialPort with buffered, pollable reads and the
// framed-write helper the protocol engine uses for every request.
type Framer struct {
	port SerialPort

	mu   sync.Mutex
	buf  bytes.Buffer
	err  error
	done chan struct{}
}

// NewFramer starts a background pump that continuously drains port into
// an internal buffer, so Available/ReadByte/etc. never need to block
// inside the underlying driver themselves.
func NewFramer(port SerialPort) *Framer {
	f := &Framer{port: port, done: make(chan struct{})}
	go f.pump()
	return f
}

func (f *Framer) pump() {
	tmp := make([]byte, 256)
	for {
		n, err := f.port.Read(tmp)
		if n > 0 {
			f.mu.Lock()
			f.buf.Write(tmp[:n])
			f.mu.Unlock()
		}
		if err != nil {
			f.mu.Lock()
			f.err = err
			f.mu.Unlock()
			close(f.done)
			return
		}
	}
}

// Available returns the number of buffered, unread bytes.
func (f *Framer) Available() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.buf.Len()
}

// Poll blocks in PollInterval increments until at least count bytes are
// available, the port's read pump ends in error, or ctx is cancelled.
func (f *Framer) Poll(ctx context.Context, count int) error {
	for {
		if f.Available() >= count {
			return nil
		}
		f.mu.Lock()
		err := f.err
		f.mu.Unlock()
		if err != nil {
			return fmt.Errorf("transport: poll: %w", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(PollInterval):
		}
	}
}

// Flush sleeps for the given duration and then discards whatever bytes
// have accumulated, matching the device's "ignore the echo" settling
// behaviour between writes.
func (f *Framer) Flush(sleep time.Duration) {
	time.Sleep(sleep)
	f.mu.Lock()
	f.buf.Reset()
	f.mu.Unlock()
}

// ReadByte blocks (per ctx) until one byte is available and returns it.
func (f *Framer) ReadByte(ctx context.Context) (byte, error) {
	b, err := f.ReadExact(ctx, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadExact blocks (per ctx) until n bytes are available and returns
// exactly n of them, consuming them from the buffer.
func (f *Framer) ReadExact(ctx context.Context, n int) ([]byte, error) {
	if err := f.Poll(ctx, n); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]byte, n)
	if _, err := io.ReadFull(&f.buf, out); err != nil {
		return nil, fmt.Errorf("transport: ReadExact: %w", err)
	}
	return out, nil
}

// ReadLine blocks (per ctx) until a newline-terminated line is
// available and returns it without the trailing newline.
func (f *Framer) ReadLine(ctx context.Context) (string, error) {
	for {
		f.mu.Lock()
		data := f.buf.Bytes()
		idx := bytes.IndexByte(data, '\n')
		if idx >= 0 {
			line := make([]byte, idx)
			copy(line, data[:idx])
			f.buf.Next(idx + 1)
			f.mu.Unlock()
			return string(bytes.TrimRight(line, "\r")), nil
		}
		err := f.err
		f.mu.Unlock()
		if err != nil {
			return "", fmt.Errorf("transport: ReadLine: %w", err)
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(PollInterval):
		}
	}
}

// ReadAll drains and returns whatever bytes are currently buffered,
// without blocking for more to arrive.
func (f *Framer) ReadAll() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]byte, f.buf.Len())
	copy(out, f.buf.Bytes())
	f.buf.Reset()
	return out
}

// WriteByte writes a single byte to the port.
func (f *Framer) WriteByte(b byte) error {
	return f.WriteBytes([]byte{b})
}

// WriteBytes writes p to the port in a single call.
func (f *Framer) WriteBytes(p []byte) error {
	n, err := f.port.Write(p)
	if err != nil {
		return fmt.Errorf("transport: write: %w", err)
	}
	if n != len(p) {
		return fmt.Errorf("transport: short write: wrote %d of %d bytes", n, len(p))
	}
	return nil
}

// WriteFrame writes the 7-byte request envelope: 0xAA, opcode, payload[0..3], 0xBB.
func (f *Framer) WriteFrame(opcode byte, payload [4]byte) error {
	frame := [FrameSize]byte{FrameStart, opcode, payload[0], payload[1], payload[2], payload[3], FrameEnd}
	return f.WriteBytes(frame[:])
}

// Close closes the underlying port.
func (f *Framer) Close() error {
	return f.port.Close()
}
