package detection

import (
	"image"
	"math"
)

// Contour is a closed border of a mask region, as pixel coordinates in
// traversal order. The last point connects back to the first.
type Contour []image.Point

// BorderKind says whether a contour bounds a region from outside or a hole
// from inside.
type BorderKind int

// Border kinds.
const (
	OuterBorder BorderKind = iota + 1
	HoleBorder
)

// Hierarchy links a contour to its relatives by index into the slice returned
// from FindContours. -1 means no such relative.
type Hierarchy struct {
	Next       int        `json:"next"`
	Previous   int        `json:"previous"`
	FirstChild int        `json:"first_child"`
	Parent     int        `json:"parent"`
	Kind       BorderKind `json:"kind"`
}

// neighbours lists the 8-connected offsets counter-clockwise on screen,
// starting east. Index arithmetic mod 8 walks around a pixel.
var neighbours = [8]image.Point{
	{X: 1, Y: 0},   // E
	{X: 1, Y: -1},  // NE
	{X: 0, Y: -1},  // N
	{X: -1, Y: -1}, // NW
	{X: -1, Y: 0},  // W
	{X: -1, Y: 1},  // SW
	{X: 0, Y: 1},   // S
	{X: 1, Y: 1},   // SE
}

// direction returns the neighbours index of the step from a to its 8-neighbour b.
func direction(a, b image.Point) int {
	d := b.Sub(a)
	for i, n := range neighbours {
		if n == d {
			return i
		}
	}
	return -1
}

// borderTracer holds the label grid for one FindContours call. The grid has a
// one pixel zero frame around the mask so borders on the image edge are traced
// like any other.
type borderTracer struct {
	f      []int
	stride int
	origin image.Point // mask.Bounds().Min, minus the frame
}

func (t *borderTracer) at(p image.Point) int { return t.f[p.Y*t.stride+p.X] }

func (t *borderTracer) set(p image.Point, v int) { t.f[p.Y*t.stride+p.X] = v }

func (t *borderTracer) toImage(p image.Point) image.Point { return p.Add(t.origin) }

// follow traces the border starting at pixel c, whose zero neighbour s
// identifies the side being followed, and labels it nbd.
func (t *borderTracer) follow(c, s image.Point, nbd int) Contour {
	d := direction(c, s)
	first := -1
	for k := 0; k < 8; k++ {
		dd := (d - k + 8) % 8
		if t.at(c.Add(neighbours[dd])) != 0 {
			first = dd
			break
		}
	}
	if first < 0 {
		// isolated pixel
		t.set(c, -nbd)
		return Contour{t.toImage(c)}
	}

	p1 := c.Add(neighbours[first])
	p2, p3 := p1, c
	var pts Contour

	for {
		d := direction(p3, p2)
		eastIsZero := false
		var p4 image.Point
		for k := 1; k <= 8; k++ {
			dd := (d + k) % 8
			q := p3.Add(neighbours[dd])
			if t.at(q) != 0 {
				p4 = q
				break
			}
			if dd == 0 {
				eastIsZero = true
			}
		}

		if eastIsZero {
			t.set(p3, -nbd)
		} else if t.at(p3) == 1 {
			t.set(p3, nbd)
		}
		pts = append(pts, t.toImage(p3))

		if p4 == c && p3 == p1 {
			return pts
		}
		p2, p3 = p3, p4
	}
}

// FindContours traces every border in a binary mask with Suzuki-Abe border
// following and returns them with their full nesting hierarchy.
//
// Any non-zero mask pixel is on; regions are 8-connected. Outer borders and hole
// borders are both returned, in raster discovery order. Each contour is
// compressed with CompressChain, so a solid rectangle yields its four corners.
func FindContours(mask *image.Gray) ([]Contour, []Hierarchy) {
	b := mask.Bounds()
	w, h := b.Dx(), b.Dy()
	t := &borderTracer{
		f:      make([]int, (w+2)*(h+2)),
		stride: w + 2,
		origin: b.Min.Sub(image.Point{X: 1, Y: 1}),
	}
	for y := 0; y < h; y++ {
		row := mask.Pix[mask.PixOffset(b.Min.X, b.Min.Y+y):]
		for x := 0; x < w; x++ {
			if row[x] != 0 {
				t.f[(y+1)*t.stride+x+1] = 1
			}
		}
	}

	// Border numbers start at 2; 1 is the frame, treated as a hole border with
	// no parent. kinds and parents are indexed by border number.
	kinds := []BorderKind{0, HoleBorder}
	parents := []int{0, 0}
	var contours []Contour

	for y := 1; y <= h; y++ {
		lnbd := 1
		for x := 1; x <= w; x++ {
			p := image.Point{X: x, Y: y}
			v := t.at(p)
			if v == 0 {
				continue
			}

			var kind BorderKind
			var s image.Point
			switch {
			case v == 1 && t.at(p.Add(neighbours[4])) == 0:
				kind, s = OuterBorder, p.Add(neighbours[4])
			case v >= 1 && t.at(p.Add(neighbours[0])) == 0:
				kind, s = HoleBorder, p.Add(neighbours[0])
				if v > 1 {
					lnbd = v
				}
			}

			if kind != 0 {
				nbd := len(kinds)
				parent := lnbd
				if kinds[lnbd] == kind {
					parent = parents[lnbd]
				}
				kinds = append(kinds, kind)
				parents = append(parents, parent)
				contours = append(contours, CompressChain(t.follow(p, s, nbd)))
			}

			if v := t.at(p); v != 1 {
				lnbd = abs(v)
			}
		}
	}

	return contours, buildHierarchy(kinds, parents)
}

// buildHierarchy converts border-number parent links into sibling and child
// links over contour indices (border number minus 2).
func buildHierarchy(kinds []BorderKind, parents []int) []Hierarchy {
	n := len(kinds) - 2
	hier := make([]Hierarchy, n)
	lastChild := make(map[int]int)
	firstChild := make(map[int]int)

	for i := 0; i < n; i++ {
		parent := parents[i+2] - 2 // -1 for the frame
		hier[i] = Hierarchy{Next: -1, Previous: -1, FirstChild: -1, Parent: parent, Kind: kinds[i+2]}
		if prev, ok := lastChild[parent]; ok {
			hier[prev].Next = i
			hier[i].Previous = prev
		} else {
			firstChild[parent] = i
		}
		lastChild[parent] = i
	}
	for parent, child := range firstChild {
		if parent >= 0 {
			hier[parent].FirstChild = child
		}
	}

	return hier
}

// CompressChain drops every point that continues the previous step in the same
// direction, keeping only the end points of horizontal, vertical and diagonal
// runs. Contours of two points or fewer are returned unchanged.
func CompressChain(c Contour) Contour {
	n := len(c)
	if n <= 2 {
		return c
	}

	out := make(Contour, 0, n)
	for i, p := range c {
		prev := c[(i-1+n)%n]
		next := c[(i+1)%n]
		if p.Sub(prev) != next.Sub(p) {
			out = append(out, p)
		}
	}
	return out
}

// ContourArea returns the area enclosed by the contour polygon using the
// shoelace formula. The orientation of the contour does not matter. Contours
// with fewer than three points have zero area.
func ContourArea(c Contour) float64 {
	if len(c) < 3 {
		return 0
	}
	var sum int
	for i, p := range c {
		q := c[(i+1)%len(c)]
		sum += p.X*q.Y - q.X*p.Y
	}
	return math.Abs(float64(sum)) / 2
}

// BoundingRect returns the smallest axis-aligned rectangle containing every
// point of the contour. Max is exclusive, so a single point gives a 1x1 rect.
func BoundingRect(c Contour) image.Rectangle {
	if len(c) == 0 {
		return image.Rectangle{}
	}
	r := image.Rectangle{Min: c[0], Max: c[0]}
	for _, p := range c[1:] {
		if p.X < r.Min.X {
			r.Min.X = p.X
		}
		if p.Y < r.Min.Y {
			r.Min.Y = p.Y
		}
		if p.X > r.Max.X {
			r.Max.X = p.X
		}
		if p.Y > r.Max.Y {
			r.Max.Y = p.Y
		}
	}
	r.Max = r.Max.Add(image.Point{X: 1, Y: 1})
	return r
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
