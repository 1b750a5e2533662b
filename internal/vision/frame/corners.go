package frame

import (
	"math"

	"github.com/barncastle/SindenLib/internal/geometry"
	"github.com/barncastle/SindenLib/internal/settings"
	"github.com/barncastle/SindenLib/internal/transform"
	"github.com/barncastle/SindenLib/internal/vision/blob"
)

// refineCorners nudges each of full's four ordered corners (top-left,
// top-right, bottom-right, bottom-left) by 0 or 1 pixel on each axis,
// based on which of its 2x2 neighbourhood subpixels are foreground, per
// the per-corner policy table.
func (p *Processor) refineCorners(img *blob.Image, full [4]geometry.Point) [4]geometry.Point {
	for i, c := range full {
		p00 := p.CheckPixel(img, c.X, c.Y)
		p10 := p.CheckPixel(img, c.X+1, c.Y)
		p01 := p.CheckPixel(img, c.X, c.Y+1)
		p11 := p.CheckPixel(img, c.X+1, c.Y+1)
		dx, dy := cornerShift(i, p00, p10, p01, p11)
		full[i] = geometry.Point{X: c.X + dx, Y: c.Y + dy}
	}
	return full
}

// cornerShift implements the spec's corner-refinement policy table.
// idx is 0=TL, 1=TR, 2=BR, 3=BL; p00/p10/p01/p11 are CheckPixel at
// (corner), (corner+x), (corner+y), (corner+x+y) respectively.
func cornerShift(idx int, p00, p10, p01, p11 bool) (dx, dy int) {
	switch idx {
	case 0: // TL
		switch {
		case p00 || (p10 && p01):
			return 0, 0
		case p10:
			return 1, 0
		case p01:
			return 0, 1
		default:
			return 1, 1
		}
	case 1: // TR
		switch {
		case p10:
			return 1, 0
		case p00 && p11:
			return 1, 0
		case p11 && (p00 || p11):
			return 1, 1
		case !p11:
			return 0, 1
		default:
			return 0, 0
		}
	case 2: // BR
		switch {
		case p11:
			return 1, 1
		case p10 && p01:
			return 1, 1
		case p10:
			return 1, 0
		case p01:
			return 0, 1
		default:
			return 0, 0
		}
	default: // 3, BL
		switch {
		case p01:
			return 0, 1
		case p00 && p11:
			return 0, 1
		case p00:
			return 0, 0
		case p11:
			return 1, 1
		default:
			return 1, 0
		}
	}
}

// calibPoint returns the calibration-offset camera point used both to
// disambiguate handedness and (in finishFrame) to compute the aim
// percentage: the frame centre, shifted by the stored calibration
// percentage of the frame's full width and height.
func calibPoint(img *blob.Image, info *settings.DeviceInfo) (float64, float64) {
	w, h := float64(img.Width)/2, float64(img.Height)/2
	return w + info.CalibrationX/100*2*w, h + info.CalibrationY/100*2*h
}

// resolveHandedness classifies full per spec.md §4.5a and returns the
// original corner order alongside the resolved handedness, ready for
// permuteForHandedness.
func (p *Processor) resolveHandedness(img *blob.Image, full [4]geometry.Point) ([4]geometry.Point, settings.Handedness) {
	d01 := full[0].DistanceTo(full[1])
	d02 := full[0].DistanceTo(full[2])
	if d01 > d02 {
		return full, settings.HandednessNone
	}

	if p.settings.Handedness != settings.HandednessAuto {
		return full, p.settings.Handedness
	}

	if !p.haveLastAccepted || !strictlyInside100(p.lastAccepted) {
		return full, p.lastHandedness
	}

	cx, cy := calibPoint(img, p.device.Info())
	rightQuad := permuteForHandedness(full, settings.HandednessRight)
	leftQuad := permuteForHandedness(full, settings.HandednessLeft)

	rx, ry, errR := transform.GetXYBack(rightQuad, cx, cy, img.Width, img.Height)
	lx, ly, errL := transform.GetXYBack(leftQuad, cx, cy, img.Width, img.Height)
	if errR != nil || errL != nil {
		return full, p.lastHandedness
	}

	devX := math.Max(math.Abs(rx-50), math.Abs(lx-50))
	devY := math.Max(math.Abs(ry-50), math.Abs(ly-50))
	if devX < 2 && devY < 2 {
		return full, p.lastHandedness
	}

	useX := devX >= devY
	var distRight, distLeft float64
	if useX {
		distRight = math.Abs(rx - p.lastAccepted.X)
		distLeft = math.Abs(lx - p.lastAccepted.X)
	} else {
		distRight = math.Abs(ry - p.lastAccepted.Y)
		distLeft = math.Abs(ly - p.lastAccepted.Y)
	}

	if distLeft < distRight {
		return full, settings.HandednessLeft
	}
	return full, settings.HandednessRight
}

func strictlyInside100(pt point2D) bool {
	return pt.X > 0 && pt.X < 100 && pt.Y > 0 && pt.Y < 100
}

// permuteForHandedness reorders ordered's canonical corners per
// spec.md §4.5a: None -> (0,1,3,2), Left -> (2,0,3,1), Right ->
// (1,3,2,0).
func permuteForHandedness(ordered [4]geometry.Point, h settings.Handedness) [4]geometry.Point {
	var idx [4]int
	switch h {
	case settings.HandednessLeft:
		idx = [4]int{2, 0, 3, 1}
	case settings.HandednessRight:
		idx = [4]int{1, 3, 2, 0}
	default:
		idx = [4]int{0, 1, 3, 2}
	}
	return [4]geometry.Point{ordered[idx[0]], ordered[idx[1]], ordered[idx[2]], ordered[idx[3]]}
}
