package frame

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/barncastle/SindenLib/internal/geometry"
	"github.com/barncastle/SindenLib/internal/settings"
	"github.com/barncastle/SindenLib/internal/vision/blob"
)

// fakeDevice records every cursor offset and calibration update so
// tests can assert on the pipeline's output without a real engine.
type fakeDevice struct {
	info        settings.DeviceInfo
	cursorCalls [][2]int16
	calibXCalls []float64
	calibYCalls []float64
}

func newFakeDevice() *fakeDevice { return &fakeDevice{} }

func (d *fakeDevice) SendCursorOffset(x, y int16) error {
	d.cursorCalls = append(d.cursorCalls, [2]int16{x, y})
	return nil
}

func (d *fakeDevice) UpdateCalibrationX(v float64) error {
	d.calibXCalls = append(d.calibXCalls, v)
	d.info.CalibrationX = v
	return nil
}

func (d *fakeDevice) UpdateCalibrationY(v float64) error {
	d.calibYCalls = append(d.calibYCalls, v)
	d.info.CalibrationY = v
	return nil
}

func (d *fakeDevice) Info() *settings.DeviceInfo { return &d.info }

// solidWhiteSquareFrame returns a BGR camera frame with a white
// (foreground) axis-aligned square against a black background, large
// enough to clear the default blob-size filter after 2x downsampling.
func solidWhiteSquareFrame(w, h, squareMin, squareMax int) *blob.Image {
	data := make([]byte, w*h*3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := (y*w + x) * 3
			if x >= squareMin && x < squareMax && y >= squareMin && y < squareMax {
				data[off], data[off+1], data[off+2] = 255, 255, 255
			}
		}
	}
	return &blob.Image{Width: w, Height: h, Stride: w * 3, Format: blob.Format24bpp, Data: data}
}

func TestProcessFrameAcceptsCenteredSquare(t *testing.T) {
	vs := settings.DefaultVideoSettings()
	vs.UseAntiJitter = false
	device := newFakeDevice()
	p := NewProcessor(&vs, device)

	img := solidWhiteSquareFrame(800, 800, 100, 700)

	require.NoError(t, p.ProcessFrame(img))
	require.NotEmpty(t, device.calibXCalls, "a detected quad should update calibration")
}

func TestProcessFrameInvalidatesROIWhenNothingFound(t *testing.T) {
	vs := settings.DefaultVideoSettings()
	device := newFakeDevice()
	p := NewProcessor(&vs, device)
	p.roi = geometry.Rect{MinX: 0, MinY: 0, MaxX: 800, MaxY: 800}
	p.roiValid = true

	blank := &blob.Image{Width: 800, Height: 800, Stride: 800 * 3, Format: blob.Format24bpp, Data: make([]byte, 800*800*3)}
	require.NoError(t, p.ProcessFrame(blank))
	require.False(t, p.roiValid)
	require.Empty(t, device.cursorCalls)
}

func TestJitterRejectsSmallMove(t *testing.T) {
	vs := settings.DefaultVideoSettings()
	vs.UseAntiJitter = true
	vs.JitterMoveThreshold = 0.5
	device := newFakeDevice()
	p := NewProcessor(&vs, device)

	for i := 0; i < jitterRingSize; i++ {
		p.pushJitterRing(point2D{X: 50, Y: 50})
	}

	require.False(t, p.jitterAccepts(point2D{X: 50.3, Y: 50.2}))
	require.True(t, p.jitterAccepts(point2D{X: 50.6, Y: 50.0}))
}

func TestCornerShiftTopLeftKeepsWhenSelfForeground(t *testing.T) {
	dx, dy := cornerShift(0, true, false, false, false)
	require.Equal(t, 0, dx)
	require.Equal(t, 0, dy)
}

func TestCornerShiftBottomRightShiftsBothWhenDiagonalForeground(t *testing.T) {
	dx, dy := cornerShift(2, false, false, false, true)
	require.Equal(t, 1, dx)
	require.Equal(t, 1, dy)
}

