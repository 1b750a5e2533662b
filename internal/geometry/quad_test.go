package geometry

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// squareEdgePoints returns the edge-point cloud of an axis-aligned
// square, as a blob edge-trace would produce: every boundary pixel, not
// just the four corners.
func squareEdgePoints(minX, minY, maxX, maxY int) []Point {
	var pts []Point
	for x := minX; x <= maxX; x++ {
		pts = append(pts, Point{x, minY}, Point{x, maxY})
	}
	for y := minY + 1; y < maxY; y++ {
		pts = append(pts, Point{minX, y}, Point{maxX, y})
	}
	return pts
}

func TestFindQuadrilateralCornersRecoversSquare(t *testing.T) {
	pts := squareEdgePoints(0, 0, 100, 100)
	corners, err := FindQuadrilateralCorners(pts)
	require.NoError(t, err)
	require.Len(t, corners, 4)

	expected := map[Point]bool{
		{0, 0}: true, {100, 0}: true, {100, 100}: true, {0, 100}: true,
	}
	for _, c := range corners {
		require.True(t, expected[c], "unexpected corner %v", c)
	}
}

func TestFindQuadrilateralCornersOrdersLowestXFirst(t *testing.T) {
	pts := squareEdgePoints(0, 0, 100, 100)
	corners, err := FindQuadrilateralCorners(pts)
	require.NoError(t, err)
	require.Equal(t, 0, corners[0].X)
}

func TestFindQuadrilateralCornersRejectsEmptyCloud(t *testing.T) {
	_, err := FindQuadrilateralCorners(nil)
	require.Error(t, err)
}
