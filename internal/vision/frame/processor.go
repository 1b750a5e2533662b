// Package frame implements the per-camera-frame pipeline: region-of-
// interest tracking, thresholded downsampling, blob/shape detection,
// corner refinement, the projective aim calculation, handedness
// resolution, jitter suppression, and the adaptive ROI recompute that
// feeds the next frame.
package frame

import (
	"fmt"
	"math"

	"github.com/barncastle/SindenLib/internal/geometry"
	"github.com/barncastle/SindenLib/internal/settings"
	"github.com/barncastle/SindenLib/internal/transform"
	"github.com/barncastle/SindenLib/internal/vision/blob"
	"github.com/barncastle/SindenLib/internal/vision/shape"
)

// defaultMinBrightness is the per-channel floor CheckPixel requires
// before a pixel is even considered for the border-colour distance
// test, used when the processor isn't given an override.
const defaultMinBrightness = 64

// jitterRingSize is the number of recently-accepted aim points kept for
// the anti-jitter comparison.
const jitterRingSize = 5

// defaultROIExpansion is the fractional padding applied to a detected
// quad's bounding box when recomputing the next frame's ROI, used when
// the processor isn't given an override.
const defaultROIExpansion = 0.15

// roiMinFraction is the minimum fraction (of each frame dimension) the
// recomputed ROI must retain to stay valid.
const roiMinFraction = 1.0 / 8.0

// DeviceController is the subset of the protocol engine the frame
// processor drives: pushing cursor offsets and calibration updates, and
// reading the current calibration back.
type DeviceController interface {
	SendCursorOffset(x, y int16) error
	UpdateCalibrationX(v float64) error
	UpdateCalibrationY(v float64) error
	Info() *settings.DeviceInfo
}

// Processor owns the ROI, jitter ring, and handedness memory across
// calls to ProcessFrame. It is not safe for concurrent use; the camera
// callback is expected to invoke it from a single worker.
type Processor struct {
	settings *settings.VideoSettings
	device   DeviceController
	counter  *blob.Counter

	roi      geometry.Rect
	roiValid bool

	jitterRing      [jitterRingSize]point2D
	jitterRingLen   int
	jitterRingNext  int
	lastAccepted    point2D
	haveLastAccepted bool

	lastHandedness settings.Handedness

	minBrightness int
	roiExpansion  float64
}

type point2D struct{ X, Y float64 }

// NewProcessor returns a Processor with an invalid ROI (so the first
// ProcessFrame call resets it to the full frame) and the package's
// default brightness floor and ROI expansion factor. Use
// SetMinBrightness/SetROIExpansion to override them from tuning config.
func NewProcessor(s *settings.VideoSettings, device DeviceController) *Processor {
	return &Processor{
		settings:       s,
		device:         device,
		counter:        blob.NewCounter(),
		lastHandedness: settings.HandednessRight,
		minBrightness:  defaultMinBrightness,
		roiExpansion:   defaultROIExpansion,
	}
}

// SetMinBrightness overrides the per-channel brightness floor CheckPixel
// requires before considering a pixel for the border-colour test.
func (p *Processor) SetMinBrightness(v int) { p.minBrightness = v }

// SetROIExpansion overrides the fractional padding applied to a
// detected quad's bounding box when recomputing the next frame's ROI.
func (p *Processor) SetROIExpansion(v float64) { p.roiExpansion = v }

// ProcessFrame runs the full per-frame pipeline described in package
// frame's doc comment against img, a 24 or 32bpp camera frame.
func (p *Processor) ProcessFrame(img *blob.Image) error {
	frameRect := geometry.Rect{MinX: 0, MinY: 0, MaxX: img.Width, MaxY: img.Height}

	if !p.roiValid {
		p.roi = frameRect
	}

	thresholded := p.downsample(img)

	minWH := 15
	if p.roi.Width() > 600 {
		minWH = 30
	}
	filter := blob.FilterParams{
		Enabled:              true,
		CoupledSizeFiltering: true,
		MinW:                 minWH,
		MinH:                 minWH,
		MaxW:                 thresholded.Width,
		MaxH:                 thresholded.Height,
	}
	if err := p.counter.ProcessImage(thresholded, blob.Threshold{R: 127}, filter); err != nil {
		return fmt.Errorf("frame: blob pass: %w", err)
	}

	chosen, chosenFound, err := p.pickBlob(thresholded)
	if err != nil {
		return err
	}
	if !chosenFound {
		p.roiValid = false
		return nil
	}

	full := upscaleAndTranslate(chosen, p.roi)
	full = p.refineCorners(img, full)

	ordered, handedness := p.resolveHandedness(img, full)
	quad := permuteForHandedness(ordered, handedness)
	p.lastHandedness = handedness

	return p.finishFrame(img, frameRect, quad)
}

// pickBlob runs the shape check over every blob in the thresholded
// image and returns the corners (in thresholded-image coordinates) of
// the largest-area blob that passes the convex-quad and (optionally)
// only-where-pointing filters.
func (p *Processor) pickBlob(thresholded *blob.Image) ([]geometry.Point, bool, error) {
	var best []geometry.Point
	bestArea := -1

	for _, b := range p.counter.Blobs() {
		edges, err := p.counter.EdgePoints(b)
		if err != nil {
			return nil, false, fmt.Errorf("frame: edge points: %w", err)
		}
		fits, corners, err := shape.IsConvexPolygon(edges)
		if err != nil || !fits || len(corners) != 4 {
			continue
		}

		if p.settings.OnlyMatchWherePointing {
			quad := [4]geometry.Point(corners)
			cx := float64(thresholded.Width) / 2
			cy := float64(thresholded.Height) / 2
			xPct, yPct, err := transform.GetXYBack(quad, cx, cy, thresholded.Width, thresholded.Height)
			if err != nil {
				continue
			}
			lo := p.settings.YSightOffset
			if xPct < 0 || xPct > 100 || yPct < lo || yPct > 100+lo {
				continue
			}
		}

		if area := b.Rect.Area(); area > bestArea {
			bestArea = area
			best = corners
		}
	}

	return best, best != nil, nil
}

// finishFrame runs steps 7-8 of the pipeline against quad, the final
// full-resolution, handedness-permuted corner order.
func (p *Processor) finishFrame(img *blob.Image, frameRect geometry.Rect, quad [4]geometry.Point) error {
	w, h := float64(img.Width)/2, float64(img.Height)/2
	calibX, calibY := calibPoint(img, p.device.Info())

	xPct, yPct, err := transform.GetXYBack(quad, calibX, calibY, img.Width, img.Height)
	if err != nil {
		p.roiValid = false
		return nil
	}

	quadCentreX, quadCentreY := transform.GetXY(quad, 0, p.settings.YSightOffset)
	newCalibX := (quadCentreX - w) / (2 * w) * 100
	newCalibY := (quadCentreY - h) / (2 * h) * 100
	if err := p.device.UpdateCalibrationX(newCalibX); err != nil {
		return err
	}
	if err := p.device.UpdateCalibrationY(newCalibY); err != nil {
		return err
	}

	if xPct <= -50 || xPct >= 150 || yPct <= -50 || yPct >= 150 {
		return nil
	}

	candidate := point2D{X: xPct, Y: yPct}
	if !p.settings.UseAntiJitter || p.jitterAccepts(candidate) {
		if err := p.sendAccepted(candidate); err != nil {
			return err
		}
		p.recomputeROI(quad, frameRect)
	}

	return nil
}

// sendAccepted converts candidate to the 16-bit signed cursor offset,
// transmits it, pushes it into the jitter ring, and remembers it for
// the next frame's handedness disambiguation.
func (p *Processor) sendAccepted(candidate point2D) error {
	x16 := int16(math.Round(candidate.X / 100 * 32767))
	y16 := int16(math.Round(candidate.Y / 100 * 32767))
	if err := p.device.SendCursorOffset(x16, y16); err != nil {
		return err
	}
	p.pushJitterRing(candidate)
	p.lastAccepted = candidate
	p.haveLastAccepted = true
	return nil
}

// recomputeROI derives the next frame's ROI from quad's bounding box,
// expanded by p.roiExpansion and clamped to frameRect; an ROI that ends
// up too small or non-fitting is invalidated for the next call.
func (p *Processor) recomputeROI(quad [4]geometry.Point, frameRect geometry.Rect) {
	box, err := geometry.BoundingBox(quad[:])
	if err != nil {
		p.roiValid = false
		return
	}

	padX := int(float64(box.Width()) * p.roiExpansion)
	padY := int(float64(box.Height()) * p.roiExpansion)
	expanded := geometry.Rect{
		MinX: box.MinX - padX,
		MinY: box.MinY - padY,
		MaxX: box.MaxX + padX,
		MaxY: box.MaxY + padY,
	}
	clamped := clampRect(expanded, frameRect)

	minW := int(float64(frameRect.Width()) * roiMinFraction)
	minH := int(float64(frameRect.Height()) * roiMinFraction)
	if clamped.Width() < minW || clamped.Height() < minH || !frameRect.Contains(clamped) {
		p.roiValid = false
		return
	}

	p.roi = clamped
	p.roiValid = true
}

func clampRect(r, bounds geometry.Rect) geometry.Rect {
	out := r
	if out.MinX < bounds.MinX {
		out.MinX = bounds.MinX
	}
	if out.MinY < bounds.MinY {
		out.MinY = bounds.MinY
	}
	if out.MaxX > bounds.MaxX {
		out.MaxX = bounds.MaxX
	}
	if out.MaxY > bounds.MaxY {
		out.MaxY = bounds.MaxY
	}
	return out
}

// upscaleAndTranslate maps corners detected in the half-resolution ROI
// image back into full camera-frame coordinates.
func upscaleAndTranslate(corners []geometry.Point, roi geometry.Rect) [4]geometry.Point {
	var out [4]geometry.Point
	for i, c := range corners {
		out[i] = geometry.Point{X: c.X*2 + roi.MinX, Y: c.Y*2 + roi.MinY}
	}
	return out
}
