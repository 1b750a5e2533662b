package protocol

import (
	"crypto/sha256"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/barncastle/SindenLib/internal/transport"
)

// waitForWritten blocks until port has written at least n bytes, or
// fails the test after a generous deadline.
func waitForWritten(t *testing.T, port *transport.FakePort, n int) []byte {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		b := port.WrittenBytes()
		if len(b) >= n {
			return b
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d written bytes, got %d", n, len(port.WrittenBytes()))
	return nil
}

// playConnectHandshake drives the device side of the connect sequence
// against port, mirroring the golden trace in spec.md §8 scenario 1:
// Connect frame, nonce, device key, Handshake frame, handshake value,
// ack, "true", two Authenticated frames.
func playConnectHandshake(t *testing.T, port *transport.FakePort) {
	t.Helper()

	// Step 2: Connect frame (7 bytes).
	waitForWritten(t, port, transport.FrameSize)

	// Step 3: client's 32-byte nonce follows the Connect frame.
	raw := waitForWritten(t, port, transport.FrameSize+32)
	nonce := [32]byte(raw[transport.FrameSize : transport.FrameSize+32])

	// Step 4: device echoes SHA-256(nonce || privateKey).
	deviceKey := sessionKeyFor(nonce)
	port.Feed(deviceKey[:])

	// Step 5: Handshake frame (7 bytes) follows.
	waitForWritten(t, port, transport.FrameSize+32+transport.FrameSize)
	var handshake [32]byte
	for i := range handshake {
		handshake[i] = byte(i + 1)
	}
	port.Feed(handshake[:])

	// Client replies with SHA-256(handshake || handshakeKey); verify it.
	expectLen := transport.FrameSize + 32 + transport.FrameSize + 32
	raw = waitForWritten(t, port, expectLen)
	ack := [32]byte(raw[expectLen-32 : expectLen])
	var buf [64]byte
	copy(buf[:32], handshake[:])
	copy(buf[32:], handshakeKey[:])
	require.Equal(t, sha256.Sum256(buf[:]), ack)

	port.Feed([]byte("true\n"))

	// Step 6: two Authenticated frames follow.
	waitForWritten(t, port, expectLen+2*transport.FrameSize)
}

func testOpener(port *transport.FakePort) Opener {
	return func(path string) (*transport.Framer, error) {
		return transport.NewFramer(port), nil
	}
}

func TestEngineConnectGoldenTrace(t *testing.T) {
	port := transport.NewFakePort()
	e := NewEngine(testOpener(port), FastTestTiming())

	errCh := make(chan error, 1)
	go func() { errCh <- e.Connect("fake") }()

	playConnectHandshake(t, port)

	require.NoError(t, <-errCh)
	require.Equal(t, Authenticated, e.State())
}

func TestEngineConnectTwiceFails(t *testing.T) {
	port := transport.NewFakePort()
	e := NewEngine(testOpener(port), FastTestTiming())

	errCh := make(chan error, 1)
	go func() { errCh <- e.Connect("fake") }()
	playConnectHandshake(t, port)
	require.NoError(t, <-errCh)

	require.ErrorIs(t, e.Connect("fake"), ErrAlreadyConnected)
}

func TestEngineConnectRejectsBadDeviceKey(t *testing.T) {
	port := transport.NewFakePort()
	e := NewEngine(testOpener(port), FastTestTiming())

	errCh := make(chan error, 1)
	go func() { errCh <- e.Connect("fake") }()

	waitForWritten(t, port, transport.FrameSize)
	waitForWritten(t, port, transport.FrameSize+32)
	var bogus [32]byte
	port.Feed(bogus[:])

	require.ErrorIs(t, <-errCh, ErrInvalidAuthentication)
	require.Equal(t, Disconnected, e.State())
}
