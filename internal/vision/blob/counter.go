package blob

import (
	"fmt"
	"math"

	"github.com/barncastle/SindenLib/internal/geometry"
)

// Blob describes one connected foreground region.
type Blob struct {
	ID           int
	Rect         geometry.Rect
	Area         int
	Fullness     float64 // Area / Rect.Area()
	ColourMean   [3]float64
	ColourStdDev [3]float64
}

// FilterParams controls post-labeling size filtering.
type FilterParams struct {
	Enabled             bool
	CoupledSizeFiltering bool
	MinW, MaxW          int
	MinH, MaxH          int
}

// passes reports whether a w x h blob rectangle survives the filter.
func (f FilterParams) passes(w, h int) bool {
	if !f.Enabled {
		return true
	}
	if f.CoupledSizeFiltering {
		tooSmall := w < f.MinW && h < f.MinH
		tooLarge := w > f.MaxW && h > f.MaxH
		return !(tooSmall || tooLarge)
	}
	return w >= f.MinW && w <= f.MaxW && h >= f.MinH && h <= f.MaxH
}

// Counter performs connected-component labeling over successive frames.
// It is not safe for concurrent use; the frame processor owns one
// instance per camera.
type Counter struct {
	width, height int
	labels        []int // 0 = background, else dense 1..N label
	blobs         []Blob
	processed     bool
}

// NewCounter returns an empty Counter. Call ProcessImage before any query.
func NewCounter() *Counter {
	return &Counter{}
}

// union-find over provisional labels assigned during the labeling pass.
type equivalence struct {
	parent []int // parent[0] unused
}

func newEquivalence() *equivalence {
	return &equivalence{parent: []int{0}}
}

func (e *equivalence) newLabel() int {
	l := len(e.parent)
	e.parent = append(e.parent, l)
	return l
}

func (e *equivalence) find(l int) int {
	for e.parent[l] != l {
		e.parent[l] = e.parent[e.parent[l]] // path compression
		l = e.parent[l]
	}
	return l
}

// union merges the equivalence classes of a and b, keeping the lower
// label as root so the eventual dense compaction is stable in scan
// order.
func (e *equivalence) union(a, b int) {
	ra, rb := e.find(a), e.find(b)
	if ra == rb {
		return
	}
	if ra < rb {
		e.parent[rb] = ra
	} else {
		e.parent[ra] = rb
	}
}

// ProcessImage labels img's foreground pixels (per threshold t) into
// blobs, optionally filtering them by size per filter.
func (c *Counter) ProcessImage(img *Image, t Threshold, filter FilterParams) error {
	if err := img.validate(); err != nil {
		return err
	}

	w, h := img.Width, img.Height
	labels := make([]int, w*h)
	eq := newEquivalence()

	at := func(x, y int) int { return y*w + x }

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !img.isForeground(x, y, t) {
				continue
			}

			// Neighbour priority: left, upper-left, upper, upper-right.
			var neighbours []int
			if x > 0 && labels[at(x-1, y)] != 0 {
				neighbours = append(neighbours, labels[at(x-1, y)])
			}
			if x > 0 && y > 0 && labels[at(x-1, y-1)] != 0 {
				neighbours = append(neighbours, labels[at(x-1, y-1)])
			}
			if y > 0 && labels[at(x, y-1)] != 0 {
				neighbours = append(neighbours, labels[at(x, y-1)])
			}
			if x < w-1 && y > 0 && labels[at(x+1, y-1)] != 0 {
				neighbours = append(neighbours, labels[at(x+1, y-1)])
			}

			if len(neighbours) == 0 {
				labels[at(x, y)] = eq.newLabel()
				continue
			}

			min := neighbours[0]
			for _, n := range neighbours[1:] {
				if n < min {
					min = n
				}
			}
			for _, n := range neighbours {
				if n != min {
					eq.union(min, n)
				}
			}
			labels[at(x, y)] = min
		}
	}

	// Resolve every pixel to its root, then compact to a dense 1..N range.
	rootToDense := map[int]int{}
	next := 1
	for i, l := range labels {
		if l == 0 {
			continue
		}
		root := eq.find(l)
		dense, ok := rootToDense[root]
		if !ok {
			dense = next
			next++
			rootToDense[root] = dense
		}
		labels[i] = dense
	}

	c.width, c.height = w, h
	c.labels = labels
	c.blobs = collectBlobs(img, labels, next-1)

	if filter.Enabled {
		c.applyFilter(filter)
	}

	c.processed = true
	return nil
}

// collectBlobs makes one pass over the label image accumulating, per
// label, the bounding rect, area, and RGB sum/sum-of-squares needed for
// the mean and standard deviation.
func collectBlobs(img *Image, labels []int, maxLabel int) []Blob {
	if maxLabel == 0 {
		return nil
	}

	type accum struct {
		minX, minY, maxX, maxY int
		area                   int
		sum                    [3]float64
		sumSq                  [3]float64
		seen                   bool
	}
	accums := make([]accum, maxLabel+1)

	w := img.Width
	for i, l := range labels {
		if l == 0 {
			continue
		}
		x, y := i%w, i/w
		a := &accums[l]
		if !a.seen {
			a.minX, a.minY, a.maxX, a.maxY = x, y, x+1, y+1
			a.seen = true
		} else {
			if x < a.minX {
				a.minX = x
			}
			if y < a.minY {
				a.minY = y
			}
			if x+1 > a.maxX {
				a.maxX = x + 1
			}
			if y+1 > a.maxY {
				a.maxY = y + 1
			}
		}
		a.area++
		r, g, b := img.rgbAt(x, y)
		channels := [3]float64{float64(r), float64(g), float64(b)}
		for ch := 0; ch < 3; ch++ {
			a.sum[ch] += channels[ch]
			a.sumSq[ch] += channels[ch] * channels[ch]
		}
	}

	blobs := make([]Blob, 0, maxLabel)
	for id := 1; id <= maxLabel; id++ {
		a := accums[id]
		if !a.seen {
			continue
		}
		rect := geometry.Rect{MinX: a.minX, MinY: a.minY, MaxX: a.maxX, MaxY: a.maxY}
		n := float64(a.area)
		var mean, stddev [3]float64
		for ch := 0; ch < 3; ch++ {
			mean[ch] = a.sum[ch] / n
			variance := a.sumSq[ch]/n - mean[ch]*mean[ch]
			if variance < 0 {
				variance = 0
			}
			stddev[ch] = math.Sqrt(variance)
		}
		blobs = append(blobs, Blob{
			ID:           id,
			Rect:         rect,
			Area:         a.area,
			Fullness:     n / float64(rect.Area()),
			ColourMean:   mean,
			ColourStdDev: stddev,
		})
	}
	return blobs
}

// applyFilter drops blobs failing the size filter and renumbers the
// survivors (and their label-image footprint) densely from 1.
func (c *Counter) applyFilter(filter FilterParams) {
	remap := make(map[int]int, len(c.blobs))
	kept := make([]Blob, 0, len(c.blobs))
	next := 1
	for _, b := range c.blobs {
		if !filter.passes(b.Rect.Width(), b.Rect.Height()) {
			continue
		}
		remap[b.ID] = next
		b.ID = next
		kept = append(kept, b)
		next++
	}
	for i, l := range c.labels {
		if l == 0 {
			continue
		}
		if newID, ok := remap[l]; ok {
			c.labels[i] = newID
		} else {
			c.labels[i] = 0
		}
	}
	c.blobs = kept
}

// Blobs returns the blobs found by the most recent ProcessImage call.
func (c *Counter) Blobs() []Blob { return c.blobs }

// EdgePoints returns the deduplicated outline points of blob: the
// left-most and right-most foreground pixel of every row, plus the
// top-most and bottom-most foreground pixel of every column, skipping
// column extremes already captured by a row extreme at that same point.
func (c *Counter) EdgePoints(b Blob) ([]geometry.Point, error) {
	if !c.processed {
		return nil, fmt.Errorf("blob: EdgePoints called before ProcessImage")
	}

	seen := make(map[geometry.Point]bool)
	var points []geometry.Point
	add := func(p geometry.Point) {
		if !seen[p] {
			seen[p] = true
			points = append(points, p)
		}
	}

	at := func(x, y int) int { return y*c.width + x }

	for y := b.Rect.MinY; y < b.Rect.MaxY; y++ {
		first, last := -1, -1
		for x := b.Rect.MinX; x < b.Rect.MaxX; x++ {
			if c.labels[at(x, y)] == b.ID {
				if first == -1 {
					first = x
				}
				last = x
			}
		}
		if first != -1 {
			add(geometry.Point{X: first, Y: y})
			add(geometry.Point{X: last, Y: y})
		}
	}

	for x := b.Rect.MinX; x < b.Rect.MaxX; x++ {
		top, bottom := -1, -1
		for y := b.Rect.MinY; y < b.Rect.MaxY; y++ {
			if c.labels[at(x, y)] == b.ID {
				if top == -1 {
					top = y
				}
				bottom = y
			}
		}
		if top != -1 {
			add(geometry.Point{X: x, Y: top})
			add(geometry.Point{X: x, Y: bottom})
		}
	}

	return points, nil
}
