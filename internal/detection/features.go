package detection

import "math"

// Features are the geometric measurements a contour is classified by.
type Features struct {
	// Vertices is the vertex count of the approximated polygon.
	Vertices int `json:"vertices"`

	// Area is the absolute enclosed contour area in square pixels.
	Area float64 `json:"area"`

	// Perimeter is the closed contour length in pixels.
	Perimeter float64 `json:"perimeter"`

	// Bounds is the bounding rectangle of the contour.
	Bounds Bounds `json:"bounds"`

	// AspectRatio is bounding width divided by bounding height.
	AspectRatio float64 `json:"aspect_ratio"`

	// Extent is Area divided by the bounding rectangle area.
	Extent float64 `json:"extent"`

	// Circularity is 4*pi*Area / Perimeter^2, clamped to [0, 1].
	// 1.0 for a circle, pi/4 for a square, at most 0.605 for a triangle.
	Circularity float64 `json:"circularity"`

	// PolygonFit is the approximated polygon's area divided by Area. Close to
	// 1 when the polygon follows the contour, about 0.64 for a circle
	// collapsed to four vertices.
	PolygonFit float64 `json:"polygon_fit"`
}

// ComputeFeatures measures contour and the polygon approximating it.
func ComputeFeatures(contour, polygon []Point) Features {
	area := math.Abs(signedArea(contour))
	perimeter := closedLength(contour)
	bounds := boundingBox(contour)

	width := float64(bounds.X2 - bounds.X1)
	height := float64(bounds.Y2 - bounds.Y1)

	f := Features{
		Vertices:  len(polygon),
		Area:      area,
		Perimeter: perimeter,
		Bounds:    bounds,
	}
	if height > 0 {
		f.AspectRatio = width / height
	}
	if width > 0 && height > 0 {
		f.Extent = area / (width * height)
	}
	if area > 0 {
		f.PolygonFit = math.Abs(signedArea(polygon)) / area
	}
	if perimeter > 0 {
		f.Circularity = math.Min(1, 4*math.Pi*area/(perimeter*perimeter))
	}
	return f
}

// signedArea is the shoelace area of the closed polygon through pts.
func signedArea(pts []Point) float64 {
	n := len(pts)
	if n < 3 {
		return 0
	}
	var sum int
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return float64(sum) / 2
}

func closedLength(pts []Point) float64 {
	n := len(pts)
	if n < 2 {
		return 0
	}
	var length float64
	for i := 0; i < n; i++ {
		length += distance(pts[i], pts[(i+1)%n])
	}
	return length
}

// boundingBox returns the pixel bounds of pts with an exclusive bottom-right
// corner, so a single point has width and height 1.
func boundingBox(pts []Point) Bounds {
	if len(pts) == 0 {
		return Bounds{}
	}
	b := Bounds{X1: pts[0].X, Y1: pts[0].Y, X2: pts[0].X, Y2: pts[0].Y}
	for _, p := range pts[1:] {
		b.X1 = min(b.X1, p.X)
		b.Y1 = min(b.Y1, p.Y)
		b.X2 = max(b.X2, p.X)
		b.Y2 = max(b.Y2, p.Y)
	}
	b.X2++
	b.Y2++
	return b
}
