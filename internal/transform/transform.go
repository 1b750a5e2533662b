// Package transform computes the projective (perspective) mapping
// between a reference square and an arbitrary quadrilateral, and uses
// it to convert between camera-pixel coordinates and screen-space aim
// percentages. The linear algebra is done with gonum/mat rather than
// hand-rolled Cramer's rule.
package transform

import (
	"fmt"
	"math"

	"github.com/barncastle/SindenLib/internal/geometry"
	"gonum.org/v1/gonum/mat"
)

// squareSide is the coordinate span of the reference square: corners sit
// at (0,0), (squareSide,0), (squareSide,squareSide), (0,squareSide).
const squareSide = 99.0

// affineEpsilon is the tolerance used to detect the affine special case
// of the square-to-quad solve (the perspective terms vanish).
const affineEpsilon = 1e-13

// Homography is a 3x3 projective matrix. A camera/screen point (x, y) is
// mapped by treating it as the row vector [x, y, 1] and multiplying by
// the matrix; the result [X, Y, W] is normalised by W.
type Homography struct {
	m *mat.Dense // 3x3
}

// apply maps (x, y) through h, returning the homogeneous (X, Y, W)
// without dividing by W; callers divide X and Y by W themselves (no
// guard on W==0; callers must ensure the quad is non-degenerate).
func (h Homography) apply(x, y float64) (float64, float64, float64) {
	row := mat.NewVecDense(3, []float64{x, y, 1})
	out := mat.NewVecDense(3, nil)
	out.MulVec(h.m.T(), row)
	w := out.AtVec(2)
	return out.AtVec(0), out.AtVec(1), w
}

// MapSquareToQuad computes the homography mapping the reference square
// ((0,0),(99,0),(99,99),(0,99)) onto the quadrilateral q, ordered
// (top-left-ish, ..., counter-clockwise) the same way
// geometry.FindQuadrilateralCorners returns its corners.
func MapSquareToQuad(q [4]geometry.Point) Homography {
	unit := squareToQuadUnit(q)

	// Compose with the scale that maps the 0..99 square down to the unit
	// square: p99 * Scale * unit == p_unit * unit.
	scale := mat.NewDense(3, 3, []float64{
		1 / squareSide, 0, 0,
		0, 1 / squareSide, 0,
		0, 0, 1,
	})
	var m mat.Dense
	m.Mul(scale, unit)
	return Homography{m: &m}
}

// squareToQuadUnit implements the closed-form unit-square-to-quadrilateral
// solve (Heckbert's squareToQuad): maps (0,0),(1,0),(1,1),(0,1) to q.
func squareToQuadUnit(q [4]geometry.Point) *mat.Dense {
	x0, y0 := float64(q[0].X), float64(q[0].Y)
	x1, y1 := float64(q[1].X), float64(q[1].Y)
	x2, y2 := float64(q[2].X), float64(q[2].Y)
	x3, y3 := float64(q[3].X), float64(q[3].Y)

	dx1 := x1 - x2
	dx2 := x3 - x2
	dx3 := x0 - x1 + x2 - x3
	dy1 := y1 - y2
	dy2 := y3 - y2
	dy3 := y0 - y1 + y2 - y3

	var a11, a12, a13, a21, a22, a23, a31, a32 float64
	a13, a23 = x0, y0

	if math.Abs(dx3) < affineEpsilon && math.Abs(dy3) < affineEpsilon {
		// Affine case: no perspective distortion on either axis.
		a11 = x1 - x0
		a12 = x2 - x1
		a21 = y1 - y0
		a22 = y2 - y1
		a31, a32 = 0, 0
	} else {
		// Solve the 2x2 system for the perspective row [a31, a32].
		A := mat.NewDense(2, 2, []float64{dx1, dx2, dy1, dy2})
		b := mat.NewVecDense(2, []float64{dx3, dy3})
		var sol mat.VecDense
		if err := sol.SolveVec(A, b); err != nil {
			// Degenerate quad; caller's convex-quad check is expected to
			// have prevented this. Fall back to the affine case.
			a31, a32 = 0, 0
		} else {
			a31, a32 = sol.AtVec(0), sol.AtVec(1)
		}
		a11 = x1 - x0 + a31*x1
		a21 = y1 - y0 + a31*y1
		a12 = x3 - x0 + a32*x3
		a22 = y3 - y0 + a32*y3
	}

	return mat.NewDense(3, 3, []float64{
		a11, a21, a31,
		a12, a22, a32,
		a13, a23, 1,
	})
}

// adjugate returns the classical adjugate of a 3x3 matrix m (det(m)*inverse(m),
// computed directly so a near-singular matrix doesn't blow up through a
// separate inverse+determinant pass).
func adjugate(m *mat.Dense) *mat.Dense {
	a := m.At(0, 0)
	b := m.At(0, 1)
	c := m.At(0, 2)
	d := m.At(1, 0)
	e := m.At(1, 1)
	f := m.At(1, 2)
	g := m.At(2, 0)
	h := m.At(2, 1)
	i := m.At(2, 2)

	return mat.NewDense(3, 3, []float64{
		e*i - f*h, c*h - b*i, b*f - c*e,
		f*g - d*i, a*i - c*g, c*d - a*f,
		d*h - e*g, b*g - a*h, a*e - b*d,
	})
}

// MapQuadToQuad composes the homography that maps quad a directly onto
// quad b, via the reference square. With the row-vector convention of
// Homography, a point is first taken back to the square by adj(H_a) and
// then out to b by H_b: MapQuadToQuad(a, b) = adj(H_a) * H_b.
func MapQuadToQuad(a, b [4]geometry.Point) Homography {
	ha := MapSquareToQuad(a)
	hb := MapSquareToQuad(b)
	var out mat.Dense
	out.Mul(adjugate(ha.m), hb.m)
	return Homography{m: &out}
}

// GetXY returns the camera-space pixel location of a screen-centred
// percentage point (x, y each roughly in [-50, 50]) inside the quad
// described by corners, via the forward square-to-quad map.
func GetXY(corners [4]geometry.Point, x, y float64) (float64, float64) {
	h := MapSquareToQuad(corners)
	sx := (x + 50) / 100 * squareSide
	sy := (y + 50) / 100 * squareSide
	px, py, w := h.apply(sx, sy)
	return px / w, py / w
}

// GetXYBack returns the screen-space percentage (0..100 on each axis) of
// the camera pixel (x, y) inside the quad described by corners, via the
// inverse square-to-quad map. w and h (the camera frame dimensions) are
// accepted for parity with callers that pass frame extents through the
// pipeline; the homography itself is scale-invariant and does not need
// them.
func GetXYBack(corners [4]geometry.Point, x, y float64, w, h int) (float64, float64, error) {
	_, _ = w, h
	fwd := MapSquareToQuad(corners)
	inv, err := inverse(fwd.m)
	if err != nil {
		return 0, 0, err
	}
	inverted := Homography{m: inv}
	sx, sy, sw := inverted.apply(x, y)
	if sw == 0 {
		return 0, 0, fmt.Errorf("transform: GetXYBack: degenerate perspective denominator")
	}
	sx /= sw
	sy /= sw
	return sx / squareSide * 100, sy / squareSide * 100, nil
}

func inverse(m *mat.Dense) (*mat.Dense, error) {
	var inv mat.Dense
	if err := inv.Inverse(m); err != nil {
		return nil, fmt.Errorf("transform: matrix not invertible: %w", err)
	}
	return &inv, nil
}
