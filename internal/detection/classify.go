package detection

// Kind names a recognized shape. The string value doubles as the overlay
// command token.
type Kind string

const (
	KindTriangle  Kind = "triangle"
	KindRectangle Kind = "rectangle"
	KindCircle    Kind = "circle"
)

// Label is the human-readable text drawn next to a shape.
func (k Kind) Label() string {
	switch k {
	case KindTriangle:
		return "Triangle"
	case KindRectangle:
		return "Rectangle"
	case KindCircle:
		return "Circle"
	}
	return string(k)
}

// circleMaxPolygonFit is the PolygonFit below which a round contour counts as
// a circle whatever its vertex count.
const circleMaxPolygonFit = 0.9

// Classify maps contour features to a shape kind. The second result is false
// when the contour is discarded.
//
// Rules, applied in order:
//
//  1. Area below p.MinArea: discarded.
//  2. Fewer than three vertices: discarded.
//  3. Circularity at or above p.CircleCircularity with a polygon that fits
//     the contour loosely (PolygonFit below 0.9): circle, whatever the
//     vertex count. Coarse tolerances collapse circles to three or four
//     vertices that cut well inside the contour, while a polygon with
//     rounded corners still hugs it.
//  4. Three vertices: triangle. Four vertices: rectangle.
//  5. Five or more vertices with circularity at or above
//     p.PolygonCircularity: circle.
//  6. Anything else: discarded.
func Classify(f Features, p Profile) (Kind, bool) {
	if f.Area < p.MinArea {
		return "", false
	}
	if f.Vertices < 3 {
		return "", false
	}
	if f.Circularity >= p.CircleCircularity && f.PolygonFit < circleMaxPolygonFit {
		return KindCircle, true
	}
	switch {
	case f.Vertices == 3:
		return KindTriangle, true
	case f.Vertices == 4:
		return KindRectangle, true
	case f.Circularity >= p.PolygonCircularity:
		return KindCircle, true
	}
	return "", false
}
