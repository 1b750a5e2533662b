package blob

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/barncastle/SindenLib/internal/geometry"
)

func solidRectImage(w, h, minX, minY, maxX, maxY int) *Image {
	data := make([]byte, w*h)
	for y := minY; y < maxY; y++ {
		for x := minX; x < maxX; x++ {
			data[y*w+x] = 255
		}
	}
	return &Image{Width: w, Height: h, Stride: w, Format: Format8bpp, Data: data}
}

func TestProcessImageFindsSingleBlob(t *testing.T) {
	img := solidRectImage(50, 50, 10, 10, 30, 40)
	c := NewCounter()
	require.NoError(t, c.ProcessImage(img, Threshold{R: 127}, FilterParams{}))

	blobs := c.Blobs()
	require.Len(t, blobs, 1)
	require.Equal(t, 20, blobs[0].Rect.Width())
	require.Equal(t, 30, blobs[0].Rect.Height())
	require.Equal(t, 600, blobs[0].Area)
	require.InDelta(t, 1.0, blobs[0].Fullness, 1e-9)
}

func TestProcessImageSeparatesDisjointBlobs(t *testing.T) {
	img := solidRectImage(50, 50, 0, 0, 5, 5)
	for y := 20; y < 25; y++ {
		for x := 20; x < 25; x++ {
			img.Data[y*50+x] = 255
		}
	}
	c := NewCounter()
	require.NoError(t, c.ProcessImage(img, Threshold{R: 127}, FilterParams{}))
	require.Len(t, c.Blobs(), 2)
}

func TestProcessImageFilterDropsUndersizedBlobs(t *testing.T) {
	img := solidRectImage(50, 50, 0, 0, 3, 3)
	c := NewCounter()
	filter := FilterParams{Enabled: true, MinW: 10, MinH: 10, MaxW: 50, MaxH: 50}
	require.NoError(t, c.ProcessImage(img, Threshold{R: 127}, filter))
	require.Empty(t, c.Blobs())
}

func TestProcessImageCoupledFilterKeepsLongThinBlob(t *testing.T) {
	img := solidRectImage(50, 50, 0, 0, 40, 2) // wide but short
	c := NewCounter()
	filter := FilterParams{Enabled: true, CoupledSizeFiltering: true, MinW: 15, MinH: 15, MaxW: 50, MaxH: 50}
	require.NoError(t, c.ProcessImage(img, Threshold{R: 127}, filter))
	// width 40 >= MinW so "tooSmall" is false even though height < MinH.
	require.Len(t, c.Blobs(), 1)
}

func TestEdgePointsBeforeProcessReturnsError(t *testing.T) {
	c := NewCounter()
	_, err := c.EdgePoints(Blob{})
	require.Error(t, err)
}

func TestEdgePointsTracesRectangleOutline(t *testing.T) {
	img := solidRectImage(20, 20, 5, 5, 15, 15)
	c := NewCounter()
	require.NoError(t, c.ProcessImage(img, Threshold{R: 127}, FilterParams{}))
	pts, err := c.EdgePoints(c.Blobs()[0])
	require.NoError(t, err)
	require.NotEmpty(t, pts)

	box, err := boundingBoxOf(pts)
	require.NoError(t, err)
	require.Equal(t, 5, box.minX)
	require.Equal(t, 5, box.minY)
	require.Equal(t, 14, box.maxX)
	require.Equal(t, 14, box.maxY)
}

type rectBounds struct{ minX, minY, maxX, maxY int }

func boundingBoxOf(pts []geometry.Point) (rectBounds, error) {
	if len(pts) == 0 {
		return rectBounds{}, fmt.Errorf("empty point set")
	}
	b := rectBounds{pts[0].X, pts[0].Y, pts[0].X, pts[0].Y}
	for _, p := range pts[1:] {
		if p.X < b.minX {
			b.minX = p.X
		}
		if p.Y < b.minY {
			b.minY = p.Y
		}
		if p.X > b.maxX {
			b.maxX = p.X
		}
		if p.Y > b.maxY {
			b.maxY = p.Y
		}
	}
	return b, nil
}
