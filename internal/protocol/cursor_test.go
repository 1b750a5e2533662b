package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/barncastle/SindenLib/internal/settings"
	"github.com/barncastle/SindenLib/internal/transport"
)

func newConnectedEngine(t *testing.T) (*Engine, *transport.FakePort) {
	t.Helper()
	port := transport.NewFakePort()
	e := NewEngine(testOpener(port), FastTestTiming())
	e.framer = transport.NewFramer(port)
	e.state = Authenticated
	e.buttons = settings.DefaultButtonMap()
	return e, port
}

func TestSendCursorOffsetNoStatusByte(t *testing.T) {
	e, port := newConnectedEngine(t)
	e.info.FirmwareVersion = settings.Version{Major: 1, Minor: 6}

	require.NoError(t, e.SendCursorOffset(10, -5))

	written := waitForWritten(t, port, transport.FrameSize)
	require.Equal(t, byte(transport.FrameStart), written[0])
	require.Equal(t, byte(OpCursorOffset), written[1])
}

func TestSendCursorOffsetUnassignStatus(t *testing.T) {
	e, port := newConnectedEngine(t)
	e.info.FirmwareVersion = settings.Version{Major: 1, Minor: 6}
	e.buttons.Set(settings.ButtonTrigger, settings.Key('1'))
	e.buttons.Set(settings.ButtonPumpAction, settings.Key('2'))

	port.Feed([]byte{statusUnassignTriggerPump})

	require.NoError(t, e.SendCursorOffset(0, 0))

	require.Equal(t, settings.KeyNone, e.buttons.Get(settings.ButtonTrigger))
	require.Equal(t, settings.KeyNone, e.buttons.Get(settings.ButtonPumpAction))
}

func TestSendCursorOffsetRequiresRecalibration(t *testing.T) {
	e, port := newConnectedEngine(t)
	e.info.FirmwareVersion = settings.Version{Major: 1, Minor: 6}

	port.Feed([]byte{statusRequiresRecalibration})

	require.NoError(t, e.SendCursorOffset(0, 0))

	require.True(t, e.info.RequiresRecalibrationPush)
}

func TestSendCursorOffsetLegacyFirmwareResendsSleepMode(t *testing.T) {
	e, port := newConnectedEngine(t)
	e.info.FirmwareVersion = settings.Version{Major: 1, Minor: 5}

	require.NoError(t, e.SendCursorOffset(1, 2))

	written := waitForWritten(t, port, 2*transport.FrameSize)
	require.Equal(t, byte(OpCursorOffset), written[1])
	require.Equal(t, byte(OpEnableSleepMode), written[transport.FrameSize+1])
	require.Equal(t, written[2:6], written[transport.FrameSize+2:transport.FrameSize+6])
}
