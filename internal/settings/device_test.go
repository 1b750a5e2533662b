package settings

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVersionEncodeDecodeRoundTrip(t *testing.T) {
	v := Version{Major: 1, Minor: 6}
	require.Equal(t, v, DecodeVersion(v.Encode()))
	require.Equal(t, "1.6", v.String())
}

func TestVersionAtLeast(t *testing.T) {
	v16 := Version{Major: 1, Minor: 6}
	v15 := Version{Major: 1, Minor: 5}
	v20 := Version{Major: 2, Minor: 0}

	require.True(t, v16.AtLeast(v15))
	require.False(t, v15.AtLeast(v16))
	require.True(t, v16.AtLeast(v16))
	require.True(t, v20.AtLeast(v16))
}

func TestCalibrationEncodeDecodeRoundTrip(t *testing.T) {
	for _, v := range []float64{0, 12.34, -50, 99.99} {
		raw := EncodeCalibration(v)
		got := DecodeCalibration(raw)
		require.InDelta(t, v, got, 0.01)
	}
}

func TestPadCameraNamePadsAndTruncates(t *testing.T) {
	padded := PadCameraName("cam1")
	require.Equal(t, LinkedCameraNameLength, len(padded))
	require.Equal(t, []byte("cam1"), padded[:4])
	for i := 4; i < LinkedCameraNameLength; i++ {
		require.Equal(t, byte(' '), padded[i])
	}

	long := PadCameraName("this-name-is-way-too-long-for-the-field")
	require.Equal(t, LinkedCameraNameLength, len(long))
}

func TestNewDeviceInfoIsZeroValue(t *testing.T) {
	info := NewDeviceInfo()
	require.Equal(t, Version{}, info.FirmwareVersion)
	require.Empty(t, info.UniqueID)
}
