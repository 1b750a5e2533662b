package frame

import "github.com/barncastle/SindenLib/internal/vision/blob"

// CheckPixel reports whether the pixel at (x, y) in img is bright
// enough and close enough in colour to the configured border colour to
// count as foreground: at least one channel must reach p.minBrightness, and
// the squared RGB distance to BorderColour must be within
// FilterRadius^2. Out-of-bounds coordinates are never foreground.
func (p *Processor) CheckPixel(img *blob.Image, x, y int) bool {
	if x < 0 || y < 0 || x >= img.Width || y >= img.Height {
		return false
	}
	r, g, b := img.RGBAt(x, y)
	minB := byte(p.minBrightness)
	if r < minB && g < minB && b < minB {
		return false
	}

	bc := p.settings.BorderColour
	dr := float64(r) - float64(bc.R)
	dg := float64(g) - float64(bc.G)
	db := float64(b) - float64(bc.B)
	distSq := dr*dr + dg*dg + db*db
	radius := p.settings.FilterRadius
	return distSq <= radius*radius
}

// downsample allocates an 8bpp mask at half img's ROI dimensions: each
// output pixel is 255 if any of its four source pixels is foreground
// per CheckPixel, else 0.
func (p *Processor) downsample(img *blob.Image) *blob.Image {
	roiW, roiH := p.roi.Width(), p.roi.Height()
	outW, outH := roiW/2, roiH/2
	if outW < 1 {
		outW = 1
	}
	if outH < 1 {
		outH = 1
	}

	data := make([]byte, outW*outH)
	for oy := 0; oy < outH; oy++ {
		for ox := 0; ox < outW; ox++ {
			sx := p.roi.MinX + ox*2
			sy := p.roi.MinY + oy*2
			fg := p.CheckPixel(img, sx, sy) ||
				p.CheckPixel(img, sx+1, sy) ||
				p.CheckPixel(img, sx, sy+1) ||
				p.CheckPixel(img, sx+1, sy+1)
			if fg {
				data[oy*outW+ox] = 255
			}
		}
	}

	return &blob.Image{
		Width:  outW,
		Height: outH,
		Stride: outW,
		Format: blob.Format8bpp,
		Data:   data,
	}
}
