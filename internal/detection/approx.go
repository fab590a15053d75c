package detection

import "math"

// ApproxPolygon simplifies a closed contour with the Douglas-Peucker
// algorithm. No point of the contour lies farther than tolerance from the
// returned polygon.
//
// The closed curve is split at two mutually distant points (the first is the
// point farthest from contour[0], the second the point farthest from it), each
// arc is simplified on its own, and vertices that end up within tolerance of
// the line through their neighbors are pruned, so the result does not depend
// on where tracing started.
func ApproxPolygon(contour []Point, tolerance float64) []Point {
	n := len(contour)
	if n <= 3 {
		return append([]Point(nil), contour...)
	}

	b := farthestFrom(contour, contour[0])
	a := farthestFrom(contour, contour[b])
	if a == b {
		return []Point{contour[0]}
	}
	if a > b {
		a, b = b, a
	}

	arc1 := contour[a : b+1]
	arc2 := make([]Point, 0, n-b+a+1)
	arc2 = append(arc2, contour[b:]...)
	arc2 = append(arc2, contour[:a+1]...)

	s1 := douglasPeucker(arc1, tolerance)
	s2 := douglasPeucker(arc2, tolerance)

	poly := make([]Point, 0, len(s1)+len(s2))
	poly = append(poly, s1[:len(s1)-1]...)
	poly = append(poly, s2[:len(s2)-1]...)

	return pruneNearlyCollinear(poly, tolerance)
}

// douglasPeucker simplifies an open polyline, always keeping both ends.
func douglasPeucker(pts []Point, tolerance float64) []Point {
	if len(pts) < 3 {
		return append([]Point(nil), pts...)
	}

	keep := make([]bool, len(pts))
	keep[0], keep[len(pts)-1] = true, true

	type span struct{ lo, hi int }
	stack := []span{{0, len(pts) - 1}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		maxDist, maxIdx := -1.0, -1
		for i := s.lo + 1; i < s.hi; i++ {
			d := segmentDistance(pts[i], pts[s.lo], pts[s.hi])
			if d > maxDist {
				maxDist, maxIdx = d, i
			}
		}
		if maxIdx < 0 || maxDist <= tolerance {
			continue
		}
		keep[maxIdx] = true
		stack = append(stack, span{s.lo, maxIdx}, span{maxIdx, s.hi})
	}

	out := make([]Point, 0, len(pts))
	for i, k := range keep {
		if k {
			out = append(out, pts[i])
		}
	}
	return out
}

// pruneNearlyCollinear removes polygon vertices lying within tolerance of the
// segment joining their neighbors until none is left or three remain.
func pruneNearlyCollinear(poly []Point, tolerance float64) []Point {
	for len(poly) > 3 {
		removed := false
		n := len(poly)
		for i := 0; i < n; i++ {
			prev, next := poly[(i+n-1)%n], poly[(i+1)%n]
			if segmentDistance(poly[i], prev, next) <= tolerance {
				poly = append(poly[:i], poly[i+1:]...)
				removed = true
				break
			}
		}
		if !removed {
			break
		}
	}
	return poly
}

// MergeCutCorners restores corners that opening clipped into short edges.
// An edge no longer than maxLen is replaced by the intersection of the lines
// through its two neighboring edges, provided that intersection lies within
// maxLen of the edge midpoint. Edges between parallel neighbors, such as the
// short side of a narrow rectangle, are kept. The polygon never drops below
// three vertices.
func MergeCutCorners(poly []Point, maxLen float64) []Point {
	out := append([]Point(nil), poly...)
	for len(out) > 3 {
		n := len(out)
		best, bestLen := -1, maxLen
		var corner Point
		for i := 0; i < n; i++ {
			a, b := out[i], out[(i+1)%n]
			l := distance(a, b)
			if l > bestLen {
				continue
			}
			x, y, ok := lineIntersection(out[(i+n-1)%n], a, out[(i+2)%n], b)
			if !ok {
				continue
			}
			midX, midY := float64(a.X+b.X)/2, float64(a.Y+b.Y)/2
			if math.Hypot(x-midX, y-midY) > maxLen {
				continue
			}
			best, bestLen = i, l
			corner = Point{X: int(math.Round(x)), Y: int(math.Round(y))}
		}
		if best < 0 {
			break
		}
		next := (best + 1) % n
		out[best] = corner
		out = append(out[:next], out[next+1:]...)
	}
	return out
}

// lineIntersection intersects the line through p1 and p2 with the line
// through p3 and p4.
func lineIntersection(p1, p2, p3, p4 Point) (float64, float64, bool) {
	x1, y1 := float64(p1.X), float64(p1.Y)
	x2, y2 := float64(p2.X), float64(p2.Y)
	x3, y3 := float64(p3.X), float64(p3.Y)
	x4, y4 := float64(p4.X), float64(p4.Y)

	d := (x1-x2)*(y3-y4) - (y1-y2)*(x3-x4)
	if math.Abs(d) < 1e-9 {
		return 0, 0, false
	}
	t := ((x1-x3)*(y3-y4) - (y1-y3)*(x3-x4)) / d
	return x1 + t*(x2-x1), y1 + t*(y2-y1), true
}

func farthestFrom(pts []Point, from Point) int {
	best, bestDist := 0, -1.0
	for i, p := range pts {
		if d := distance(p, from); d > bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// segmentDistance is the Euclidean distance from p to the segment [a, b].
func segmentDistance(p, a, b Point) float64 {
	dx, dy := float64(b.X-a.X), float64(b.Y-a.Y)
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return distance(p, a)
	}
	t := (float64(p.X-a.X)*dx + float64(p.Y-a.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	px := float64(a.X) + t*dx
	py := float64(a.Y) + t*dy
	return math.Hypot(float64(p.X)-px, float64(p.Y)-py)
}

func distance(a, b Point) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}
