// Package blob implements connected-component labeling ("blob
// counting") over a thresholded camera frame: an 8bpp mask or 24/32bpp
// colour image is scanned once with a union-find equivalence table,
// blobs are measured (rect, area, fullness, colour mean/stddev),
// optionally size-filtered, and their outline pixels can be extracted
// for downstream quadrilateral fitting.
package blob

import "fmt"

// PixelFormat tags the layout of an Image's backing buffer.
type PixelFormat int

const (
	// Format8bpp is a single-channel thresholded mask: one byte per pixel.
	Format8bpp PixelFormat = iota
	// Format24bpp is packed BGR, 3 bytes per pixel.
	Format24bpp
	// Format32bpp is packed BGRA, 4 bytes per pixel.
	Format32bpp
)

// bytesPerPixel returns the pixel stride in bytes for a format, or 0 (with
// ok=false) for an unsupported value.
func bytesPerPixel(f PixelFormat) (int, bool) {
	switch f {
	case Format8bpp:
		return 1, true
	case Format24bpp:
		return 3, true
	case Format32bpp:
		return 4, true
	default:
		return 0, false
	}
}

// Image is a read-only view over a camera/mask frame buffer. It does not
// copy or take ownership of Data; the caller must keep it alive and
// unmodified for the duration of any call that reads it.
type Image struct {
	Width, Height int
	Stride        int // bytes per row; must be >= Width*bytesPerPixel(Format)
	Format        PixelFormat
	Data          []byte
}

// validate checks the image dimensions and format are processable.
func (img *Image) validate() error {
	if img.Width <= 1 {
		return fmt.Errorf("blob: image width %d is too narrow to process", img.Width)
	}
	if _, ok := bytesPerPixel(img.Format); !ok {
		return fmt.Errorf("blob: unsupported pixel format %v", img.Format)
	}
	return nil
}

// RGBAt returns the (r, g, b) of the pixel at (x, y). For Format8bpp all
// three channels equal the single stored byte. Exported for callers
// (e.g. the frame processor) that need direct pixel access outside the
// labeling pass.
func (img *Image) RGBAt(x, y int) (r, g, b byte) {
	return img.rgbAt(x, y)
}

// rgbAt returns the (r, g, b) of the pixel at (x, y). For Format8bpp all
// three channels equal the single stored byte.
func (img *Image) rgbAt(x, y int) (r, g, b byte) {
	bpp, _ := bytesPerPixel(img.Format)
	off := y*img.Stride + x*bpp
	switch img.Format {
	case Format8bpp:
		v := img.Data[off]
		return v, v, v
	default:
		// BGR(A) in memory order.
		return img.Data[off+2], img.Data[off+1], img.Data[off]
	}
}

// Threshold holds the per-channel foreground thresholds. For Format8bpp
// only R is consulted.
type Threshold struct {
	R, G, B byte
}

// isForeground reports whether the pixel at (x, y) is foreground under t:
// for 8bpp, the byte must exceed t.R; for colour formats, any channel
// exceeding its threshold qualifies the pixel.
func (img *Image) isForeground(x, y int, t Threshold) bool {
	r, g, b := img.rgbAt(x, y)
	if img.Format == Format8bpp {
		return r > t.R
	}
	return r > t.R || g > t.G || b > t.B
}
