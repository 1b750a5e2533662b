package shape

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/barncastle/SindenLib/internal/geometry"
)

func squareEdgePoints(minX, minY, maxX, maxY int) []geometry.Point {
	var pts []geometry.Point
	for x := minX; x <= maxX; x++ {
		pts = append(pts, geometry.Point{X: x, Y: minY}, geometry.Point{X: x, Y: maxY})
	}
	for y := minY + 1; y < maxY; y++ {
		pts = append(pts, geometry.Point{X: minX, Y: y}, geometry.Point{X: maxX, Y: y})
	}
	return pts
}

func TestIsConvexPolygonAcceptsCleanSquare(t *testing.T) {
	pts := squareEdgePoints(0, 0, 100, 100)
	fits, corners, err := IsConvexPolygon(pts)
	require.NoError(t, err)
	require.True(t, fits)
	require.Len(t, corners, 4)
}

func TestIsConvexPolygonRejectsScatteredNoise(t *testing.T) {
	pts := []geometry.Point{
		{X: 0, Y: 0}, {X: 5, Y: 50}, {X: 0, Y: 100},
		{X: 100, Y: 0}, {X: 60, Y: 40}, {X: 100, Y: 100},
		{X: 30, Y: 30}, {X: 70, Y: 70}, {X: 20, Y: 80}, {X: 80, Y: 20},
	}
	fits, _, err := IsConvexPolygon(pts)
	require.NoError(t, err)
	require.False(t, fits)
}

func TestSimplifyDropsStraightVertex(t *testing.T) {
	corners := []geometry.Point{
		{X: 0, Y: 0},
		{X: 50, Y: 0}, // near-straight point on the top edge
		{X: 100, Y: 0},
		{X: 100, Y: 100},
		{X: 0, Y: 100},
	}
	simplified := simplify(corners)
	require.Len(t, simplified, 4)
}

func TestInteriorAngleDegOfRightAngleIsNinety(t *testing.T) {
	a := geometry.Point{X: 0, Y: 0}
	b := geometry.Point{X: 0, Y: 10}
	c := geometry.Point{X: 10, Y: 10}
	require.InDelta(t, 90.0, interiorAngleDeg(a, b, c), 0.01)
}
