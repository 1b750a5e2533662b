// Package geometry provides the 2D integer point primitives and
// point-cloud utilities that the vision pipeline builds on: bounding
// boxes, furthest-point search, and quadrilateral corner recovery from
// an unordered edge-point cloud.
package geometry

import (
	"fmt"
	"math"
)

// Point is an integer 2D coordinate in camera-pixel space.
type Point struct {
	X, Y int
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns p scaled by k.
func (p Point) Scale(k int) Point { return Point{p.X * k, p.Y * k} }

// Div returns p with both axes divided by k (integer division).
func (p Point) Div(k int) Point { return Point{p.X / k, p.Y / k} }

// DistanceTo returns the Euclidean distance between p and q.
func (p Point) DistanceTo(q Point) float64 {
	dx := float64(p.X - q.X)
	dy := float64(p.Y - q.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Equal reports whether p and q have the same coordinates.
func (p Point) Equal(q Point) bool { return p == q }

// Rect is an axis-aligned integer rectangle, inclusive of MinX/MinY and
// exclusive of MaxX/MaxY (matching image.Rectangle conventions).
type Rect struct {
	MinX, MinY, MaxX, MaxY int
}

// Width returns MaxX-MinX.
func (r Rect) Width() int { return r.MaxX - r.MinX }

// Height returns MaxY-MinY.
func (r Rect) Height() int { return r.MaxY - r.MinY }

// Area returns Width*Height.
func (r Rect) Area() int { return r.Width() * r.Height() }

// Center returns the integer midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{(r.MinX + r.MaxX) / 2, (r.MinY + r.MaxY) / 2}
}

// Contains reports whether r fully contains other.
func (r Rect) Contains(other Rect) bool {
	return other.MinX >= r.MinX && other.MinY >= r.MinY &&
		other.MaxX <= r.MaxX && other.MaxY <= r.MaxY
}

// BoundingBox returns the smallest Rect enclosing points. Errors on an
// empty point cloud.
func BoundingBox(points []Point) (Rect, error) {
	if len(points) == 0 {
		return Rect{}, fmt.Errorf("geometry: BoundingBox: empty point cloud")
	}
	r := Rect{points[0].X, points[0].Y, points[0].X + 1, points[0].Y + 1}
	for _, p := range points[1:] {
		if p.X < r.MinX {
			r.MinX = p.X
		}
		if p.Y < r.MinY {
			r.MinY = p.Y
		}
		if p.X+1 > r.MaxX {
			r.MaxX = p.X + 1
		}
		if p.Y+1 > r.MaxY {
			r.MaxY = p.Y + 1
		}
	}
	return r, nil
}

// FurthestFrom returns the point in points with the largest distance to
// ref. Panics if points is empty; callers are expected to have already
// validated the cloud via BoundingBox.
func FurthestFrom(points []Point, ref Point) Point {
	best := points[0]
	bestDist := -1.0
	for _, p := range points {
		if d := p.DistanceTo(ref); d > bestDist {
			bestDist = d
			best = p
		}
	}
	return best
}

// signedPerpDistance returns the signed perpendicular distance of p from
// the infinite line through a and b. Positive and negative values
// indicate opposite sides of the line.
func signedPerpDistance(a, b, p Point) float64 {
	dx := float64(b.X - a.X)
	dy := float64(b.Y - a.Y)
	length := math.Hypot(dx, dy)
	if length == 0 {
		return 0
	}
	// Cross product of (b-a) and (p-a), normalised by |b-a|.
	cross := dx*float64(p.Y-a.Y) - dy*float64(p.X-a.X)
	return cross / length
}

// FurthestFromLine finds, among points, the furthest point strictly on
// the positive side of line a-b and the furthest strictly on the
// negative side, along with their signed perpendicular distances. ok2/ok1
// report whether a point was found on each side.
func FurthestFromLine(points []Point, a, b Point) (p1 Point, d1 float64, ok1 bool, p2 Point, d2 float64, ok2 bool) {
	for _, p := range points {
		d := signedPerpDistance(a, b, p)
		if d > 0 {
			if !ok1 || d > d1 {
				p1, d1, ok1 = p, d, true
			}
		} else if d < 0 {
			if !ok2 || d < d2 {
				p2, d2, ok2 = p, d, true
			}
		}
	}
	return
}
