package detection

import "image"

// Contour is an ordered, closed boundary. The last point connects back to the
// first.
type Contour []Point

// mooreDirs lists the 8-neighborhood clockwise on screen (Y grows downward),
// starting east.
var mooreDirs = [8]Point{
	{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: -1, Y: 1},
	{X: -1, Y: 0}, {X: -1, Y: -1}, {X: 0, Y: -1}, {X: 1, Y: -1},
}

const dirWest = 4

// FindExternalContours returns the outer boundary of every 8-connected region
// of selected pixels in mask.
//
// Regions enclosed by the hole of another region are skipped, as are the
// holes themselves. Straight runs are compressed to their end points, so a
// filled axis-aligned rectangle yields its four corners. Points are relative
// to mask.Bounds().Min. Contours are returned in raster order of their
// top-left pixel.
//
// # Algorithm
//
//  1. Background reachable from the image border through 4-connected
//     background pixels is marked as outside.
//  2. Foreground regions are labeled with an iterative 8-connected flood
//     fill. A region is external when it touches the border or one of its
//     pixels is 4-adjacent to outside background.
//  3. Each external region is traced with Moore-neighbor tracing, starting
//     at its top-left pixel.
func FindExternalContours(mask *image.Gray) []Contour {
	b := mask.Bounds()
	width, height := b.Dx(), b.Dy()

	fg := make([]bool, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			fg[y*width+x] = isSet(mask, x+b.Min.X, y+b.Min.Y)
		}
	}

	outside := markOutside(fg, width, height)
	labels := make([]int, width*height)
	contours := make([]Contour, 0)
	label := 0

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			if !fg[i] || labels[i] != 0 {
				continue
			}
			label++
			if !labelRegion(fg, labels, outside, width, height, x, y, label) {
				continue
			}
			boundary := traceBoundary(labels, width, height, label, Point{X: x, Y: y})
			contours = append(contours, compressRuns(boundary))
		}
	}

	return contours
}

// markOutside flags background pixels 4-connected to the image border.
func markOutside(fg []bool, width, height int) []bool {
	outside := make([]bool, width*height)
	stack := make([]Point, 0, 2*(width+height))

	push := func(x, y int) {
		if x < 0 || y < 0 || x >= width || y >= height {
			return
		}
		i := y*width + x
		if fg[i] || outside[i] {
			return
		}
		outside[i] = true
		stack = append(stack, Point{X: x, Y: y})
	}

	for x := 0; x < width; x++ {
		push(x, 0)
		push(x, height-1)
	}
	for y := 0; y < height; y++ {
		push(0, y)
		push(width-1, y)
	}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		push(p.X+1, p.Y)
		push(p.X-1, p.Y)
		push(p.X, p.Y+1)
		push(p.X, p.Y-1)
	}

	return outside
}

// labelRegion flood-fills the 8-connected region containing (startX, startY)
// with label and reports whether the region is external.
func labelRegion(fg []bool, labels []int, outside []bool, width, height, startX, startY, label int) bool {
	external := false
	stack := []Point{{X: startX, Y: startY}}
	labels[startY*width+startX] = label

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X == 0 || p.Y == 0 || p.X == width-1 || p.Y == height-1 {
			external = true
		}

		for _, d := range mooreDirs {
			nx, ny := p.X+d.X, p.Y+d.Y
			if nx < 0 || ny < 0 || nx >= width || ny >= height {
				continue
			}
			i := ny*width + nx
			if !fg[i] {
				// outside contact only counts through 4-neighbors
				if d.X == 0 || d.Y == 0 {
					external = external || outside[i]
				}
				continue
			}
			if labels[i] == 0 {
				labels[i] = label
				stack = append(stack, Point{X: nx, Y: ny})
			}
		}
	}

	return external
}

// traceBoundary walks the outer boundary of the region labeled label
// clockwise, starting at its top-left pixel. The returned chain holds every
// boundary pixel once per visit; the closing return to start is omitted.
func traceBoundary(labels []int, width, height, label int, start Point) []Point {
	inRegion := func(p Point) bool {
		if p.X < 0 || p.Y < 0 || p.X >= width || p.Y >= height {
			return false
		}
		return labels[p.Y*width+p.X] == label
	}

	pts := []Point{start}
	cur, back := start, dirWest
	var first Point
	haveFirst := false
	maxSteps := 4*width*height + 8

	for steps := 0; steps < maxSteps; steps++ {
		next, nextBack, ok := mooreStep(cur, back, inRegion)
		if !ok {
			// isolated pixel
			break
		}
		// Jacob's stopping criterion: the first move is about to repeat.
		if haveFirst && cur == start && next == first {
			break
		}
		if !haveFirst {
			first, haveFirst = next, true
		}
		pts = append(pts, next)
		cur, back = next, nextBack
	}

	if len(pts) > 1 && pts[len(pts)-1] == start {
		pts = pts[:len(pts)-1]
	}
	return pts
}

// mooreStep scans the neighbors of cur clockwise, starting just after the
// backtrack direction, and returns the first region pixel together with the
// direction from it back to the last background pixel examined.
func mooreStep(cur Point, back int, inRegion func(Point) bool) (Point, int, bool) {
	for k := 1; k <= 8; k++ {
		i := (back + k) % 8
		next := Point{X: cur.X + mooreDirs[i].X, Y: cur.Y + mooreDirs[i].Y}
		if !inRegion(next) {
			continue
		}
		prev := mooreDirs[(i+7)%8]
		prevAbs := Point{X: cur.X + prev.X, Y: cur.Y + prev.Y}
		return next, dirIndex(prevAbs.X-next.X, prevAbs.Y-next.Y), true
	}
	return Point{}, 0, false
}

func dirIndex(dx, dy int) int {
	for i, d := range mooreDirs {
		if d.X == dx && d.Y == dy {
			return i
		}
	}
	return dirWest
}

// compressRuns drops chain points that continue a straight run, keeping
// only the points where the step direction changes.
func compressRuns(chain []Point) Contour {
	n := len(chain)
	if n < 3 {
		return Contour(chain)
	}

	out := make(Contour, 0, n/2+1)
	for i := 0; i < n; i++ {
		prev := chain[(i+n-1)%n]
		cur := chain[i]
		next := chain[(i+1)%n]
		if cur.X-prev.X == next.X-cur.X && cur.Y-prev.Y == next.Y-cur.Y {
			continue
		}
		out = append(out, cur)
	}
	return out
}
