package transport

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWriteFrameEncodesEnvelope(t *testing.T) {
	port := NewFakePort()
	f := NewFramer(port)

	require.NoError(t, f.WriteFrame(0x05, [4]byte{1, 2, 3, 4}))
	want := []byte{FrameStart, 0x05, 1, 2, 3, 4, FrameEnd}
	require.Equal(t, want, port.WrittenBytes())
}

func TestReadExactBlocksUntilAvailable(t *testing.T) {
	port := NewFakePort()
	f := NewFramer(port)
	port.Feed([]byte{1, 2, 3})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	got, err := f.ReadExact(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, got)
}

func TestReadExactTimesOut(t *testing.T) {
	port := NewFakePort()
	f := NewFramer(port)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err := f.ReadExact(ctx, 1)
	require.Error(t, err)
}

func TestReadLineStripsTrailingCRLF(t *testing.T) {
	port := NewFakePort()
	f := NewFramer(port)
	port.Feed([]byte("hello\r\n"))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	line, err := f.ReadLine(ctx)
	require.NoError(t, err)
	require.Equal(t, "hello", line)
}

func TestReadAllDrainsWithoutBlocking(t *testing.T) {
	port := NewFakePort()
	f := NewFramer(port)
	port.Feed([]byte{9, 8, 7})

	require.Eventually(t, func() bool { return f.Available() >= 3 }, time.Second, time.Millisecond)
	require.Equal(t, []byte{9, 8, 7}, f.ReadAll())
	require.Equal(t, 0, f.Available())
}

func TestFlushDiscardsBufferedBytes(t *testing.T) {
	port := NewFakePort()
	f := NewFramer(port)
	port.Feed([]byte{1, 2, 3})

	require.Eventually(t, func() bool { return f.Available() >= 3 }, time.Second, time.Millisecond)
	f.Flush(0)
	require.Equal(t, 0, f.Available())
}
