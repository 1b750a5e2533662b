package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/barncastle/SindenLib/internal/settings"
	"github.com/barncastle/SindenLib/internal/transport"
)

func TestRequestFirmwareDecodesAndCaches(t *testing.T) {
	e, port := newConnectedEngine(t)
	port.Feed([]byte{1, 7})

	v, err := e.RequestFirmware()
	require.NoError(t, err)
	require.Equal(t, settings.Version{Major: 1, Minor: 7}, v)
	require.Equal(t, v, e.info.FirmwareVersion)
}

func TestRequestColourCachesLine(t *testing.T) {
	e, port := newConnectedEngine(t)
	port.Feed([]byte("Blue\n"))

	c, err := e.RequestColour()
	require.NoError(t, err)
	require.Equal(t, "Blue", c)
	require.Equal(t, "Blue", e.info.Colour)
}

func TestRequestManufactureDateIsIndependentOfUniqueID(t *testing.T) {
	e, port := newConnectedEngine(t)
	port.Feed([]byte("2024-01-01\n"))

	d, err := e.RequestManufactureDate()
	require.NoError(t, err)
	require.Equal(t, "2024-01-01", d)
	require.Empty(t, e.info.UniqueID)
}

func TestRequestUniqueIDUsesDedicatedOpcode(t *testing.T) {
	e, port := newConnectedEngine(t)
	port.Feed([]byte("ABC123\n"))

	id, err := e.RequestUniqueID()
	require.NoError(t, err)
	require.Equal(t, "ABC123", id)

	written := port.WrittenBytes()
	require.Equal(t, byte(OpRequestUniqueID), written[1])
	require.NotEqual(t, byte(OpRequestColour), written[1])
}

func TestUpdateCameraPadsName(t *testing.T) {
	e, port := newConnectedEngine(t)
	require.NoError(t, e.UpdateCamera("cam1"))

	written := port.WrittenBytes()
	require.Len(t, written, settings.LinkedCameraNameLength*transport.FrameSize)
	require.Equal(t, byte(0), written[3]) // p1: frame index of first character
	require.Equal(t, byte('c'), written[5]) // p3: the character itself
	require.Equal(t, "cam1", e.info.LinkedCameraName)
}

func TestCalibrationRoundTrip(t *testing.T) {
	e, port := newConnectedEngine(t)

	require.NoError(t, e.UpdateCalibrationX(12.34))
	written := port.WrittenBytes()
	raw := uint16(written[2])<<8 | uint16(written[3])
	got := settings.DecodeCalibration(raw)
	require.InDelta(t, 12.34, got, 0.005)
	require.InDelta(t, 12.34, e.info.CalibrationX, 0.005)
}
