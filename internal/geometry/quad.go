package geometry

import (
	"math"
	"sort"
)

// FindQuadrilateralCorners recovers the 3 or 4 corners of a quadrilateral
// or triangle from an unordered cloud of edge points (typically the
// output of blob edge-point extraction). The first returned corner has
// the lowest X (ties broken by lowest Y); the remainder are ordered
// counter-clockwise in screen coordinates. When every point lies on the
// line through the two diagonal endpoints, no third corner is recovered
// and only those two points are returned.
func FindQuadrilateralCorners(points []Point) ([]Point, error) {
	box, err := BoundingBox(points)
	if err != nil {
		return nil, err
	}
	centre := box.Center()
	distortionLimit := 0.1 * float64(box.Width()+box.Height()) / 2

	p1 := FurthestFrom(points, centre)
	p2 := FurthestFrom(points, p1)

	p3, d3, ok3, p4, d4, ok4 := FurthestFromLine(points, p1, p2)

	if ok3 && ok4 && math.Abs(d3) >= distortionLimit && math.Abs(d4) >= distortionLimit {
		return sortCorners([]Point{p1, p2, p3, p4}), nil
	}

	// Trapezoid/triangle case: p1, p2 sit on the same edge. Pick the
	// candidate with the larger absolute distance as the pivot for a new
	// diagonal search.
	var pivot Point
	havePivot := false
	switch {
	case ok3 && ok4:
		if math.Abs(d3) >= math.Abs(d4) {
			pivot, havePivot = p3, true
		} else {
			pivot, havePivot = p4, true
		}
	case ok3:
		pivot, havePivot = p3, true
	case ok4:
		pivot, havePivot = p4, true
	}
	if !havePivot {
		// No third point distinguishable from the p1-p2 line at all;
		// nothing more can be recovered than the diagonal itself.
		return sortCorners([]Point{p1, p2}), nil
	}

	// Search for a third corner off the p1-pivot diagonal; if that comes
	// up empty, try the p2-pivot diagonal.
	third, okThird := findThirdCorner(points, p1, pivot, distortionLimit)
	usedEndpoint := p1
	if !okThird {
		third, okThird = findThirdCorner(points, p2, pivot, distortionLimit)
		usedEndpoint = p2
	}
	if !okThird {
		return sortCorners([]Point{p1, p2, pivot}), nil
	}

	// Search once more for a fourth corner, preferring the candidate
	// farther from the diagonal endpoint not used above.
	unusedEndpoint := p2
	if usedEndpoint == p2 {
		unusedEndpoint = p1
	}
	fourth, okFourth := findFourthCorner(points, pivot, third, unusedEndpoint, distortionLimit)
	if !okFourth {
		return sortCorners([]Point{p1, pivot, third}), nil
	}

	return sortCorners([]Point{p1, pivot, third, fourth}), nil
}

// findThirdCorner looks for a point far enough off the line a-pivot to be
// a genuine third corner rather than noise along the same edge.
func findThirdCorner(points []Point, a, pivot Point, distortionLimit float64) (Point, bool) {
	p1, d1, ok1, p2, d2, ok2 := FurthestFromLine(points, a, pivot)
	switch {
	case ok1 && math.Abs(d1) >= distortionLimit:
		return p1, true
	case ok2 && math.Abs(d2) >= distortionLimit:
		return p2, true
	default:
		return Point{}, false
	}
}

// findFourthCorner searches for a fourth corner given three known
// corners, preferring whichever of the two line-split candidates lies
// farther from preferEndpoint (the diagonal endpoint not used when the
// third corner was recovered).
func findFourthCorner(points []Point, a, b, preferEndpoint Point, distortionLimit float64) (Point, bool) {
	p1, d1, ok1, p2, d2, ok2 := FurthestFromLine(points, a, b)
	var best Point
	var bestDistFromPref float64
	found := false
	if ok1 && math.Abs(d1) >= distortionLimit {
		best = p1
		bestDistFromPref = p1.DistanceTo(preferEndpoint)
		found = true
	}
	if ok2 && math.Abs(d2) >= distortionLimit {
		d := p2.DistanceTo(preferEndpoint)
		if !found || d > bestDistFromPref {
			best = p2
			bestDistFromPref = d
			found = true
		}
	}
	return best, found
}

// sortCorners orders corners with the lowest-X (ties lowest-Y) point
// first, and the remainder counter-clockwise by slope from that point.
func sortCorners(corners []Point) []Point {
	if len(corners) == 0 {
		return corners
	}
	first := corners[0]
	firstIdx := 0
	for i, c := range corners[1:] {
		i++
		if c.X < first.X || (c.X == first.X && c.Y < first.Y) {
			first = c
			firstIdx = i
		}
	}
	rest := make([]Point, 0, len(corners)-1)
	for i, c := range corners {
		if i != firstIdx {
			rest = append(rest, c)
		}
	}

	slope := func(p Point) float64 {
		dx := float64(p.X - first.X)
		dy := float64(p.Y - first.Y)
		if dx == 0 {
			if dy >= 0 {
				return math.Inf(1)
			}
			return math.Inf(-1)
		}
		return dy / dx
	}

	sort.Slice(rest, func(i, j int) bool {
		return slope(rest[i]) < slope(rest[j])
	})

	return append([]Point{first}, rest...)
}
