// Package shape checks whether a cloud of blob edge points is well
// described by a convex quadrilateral, simplifying away near-straight
// vertices and fitting the remaining polygon against the point cloud.
package shape

import (
	"math"

	"github.com/barncastle/SindenLib/internal/geometry"
)

// interiorAngleThresholdDeg is the angle above which a vertex is
// considered a straight-line artefact rather than a true corner.
const interiorAngleThresholdDeg = 160.0

// IsConvexPolygon finds the corners implied by edgePoints and tests
// whether a convex quadrilateral fit explains the cloud well enough.
// Returns the fit result and the simplified corner list (normally 4
// points, occasionally 3 for a triangular detection).
func IsConvexPolygon(edgePoints []geometry.Point) (bool, []geometry.Point, error) {
	corners, err := geometry.FindQuadrilateralCorners(edgePoints)
	if err != nil {
		return false, nil, err
	}

	corners = simplify(corners)

	fits := fitsWithinTolerance(edgePoints, corners)
	return fits, corners, nil
}

// simplify drops vertices whose interior angle exceeds the threshold,
// never reducing the polygon below 4 points while more than 4 remain to
// inspect.
func simplify(corners []geometry.Point) []geometry.Point {
	if len(corners) <= 3 {
		return corners
	}

	changed := true
	for changed && len(corners) > 4 {
		changed = false
		for i := 0; i < len(corners); i++ {
			if len(corners) <= 4 {
				break
			}
			prev := corners[(i-1+len(corners))%len(corners)]
			curr := corners[i]
			next := corners[(i+1)%len(corners)]
			if interiorAngleDeg(prev, curr, next) > interiorAngleThresholdDeg {
				corners = append(corners[:i:i], corners[i+1:]...)
				changed = true
				break
			}
		}
	}
	return corners
}

// interiorAngleDeg returns the interior angle in degrees at vertex b
// formed by the path a -> b -> c.
func interiorAngleDeg(a, b, c geometry.Point) float64 {
	v1x, v1y := float64(a.X-b.X), float64(a.Y-b.Y)
	v2x, v2y := float64(c.X-b.X), float64(c.Y-b.Y)
	dot := v1x*v2x + v1y*v2y
	m1 := math.Hypot(v1x, v1y)
	m2 := math.Hypot(v2x, v2y)
	if m1 == 0 || m2 == 0 {
		return 0
	}
	cos := dot / (m1 * m2)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}

// fitsWithinTolerance reports whether the mean perpendicular distance
// from every edge point to its nearest polygon side is within tolerance.
func fitsWithinTolerance(edgePoints []geometry.Point, corners []geometry.Point) bool {
	if len(edgePoints) == 0 || len(corners) < 3 {
		return false
	}

	box, err := geometry.BoundingBox(edgePoints)
	if err != nil {
		return false
	}
	tolerance := math.Max(0.5, 0.03*float64(box.Width()+box.Height())/2)

	var total float64
	for _, p := range edgePoints {
		total += minDistanceToSides(p, corners)
	}
	mean := total / float64(len(edgePoints))
	return mean <= tolerance
}

func minDistanceToSides(p geometry.Point, corners []geometry.Point) float64 {
	best := math.MaxFloat64
	n := len(corners)
	for i := 0; i < n; i++ {
		a := corners[i]
		b := corners[(i+1)%n]
		d := distanceToSegmentLine(p, a, b)
		if d < best {
			best = d
		}
	}
	return best
}

// distanceToSegmentLine returns the perpendicular distance from p to the
// infinite line through a-b; vertical sides are handled as |x - x_side|
// per the spec.
func distanceToSegmentLine(p, a, b geometry.Point) float64 {
	if a.X == b.X {
		return math.Abs(float64(p.X - a.X))
	}
	// Line: y = m*x + c
	m := float64(b.Y-a.Y) / float64(b.X-a.X)
	c := float64(a.Y) - m*float64(a.X)
	// Distance from point to line mx - y + c = 0.
	return math.Abs(m*float64(p.X)-float64(p.Y)+c) / math.Sqrt(m*m+1)
}
