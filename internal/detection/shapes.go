package detection

import (
	"image"
	"sort"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// Bounds represents a rectangular bounding box in pixel coordinates.
//
// The coordinate convention follows standard image bounds:
//   - (X1, Y1) is the top-left corner (inclusive)
//   - (X2, Y2) is the bottom-right corner (exclusive)
type Bounds struct {
	X1 int `json:"x1"` // Left edge (inclusive)
	Y1 int `json:"y1"` // Top edge (inclusive)
	X2 int `json:"x2"` // Right edge (exclusive)
	Y2 int `json:"y2"` // Bottom edge (exclusive)
}

// Rect converts b to an image.Rectangle.
func (b Bounds) Rect() image.Rectangle {
	return image.Rect(b.X1, b.Y1, b.X2, b.Y2)
}

// Point represents a 2D coordinate in pixel space.
type Point struct {
	X int `json:"x"` // Horizontal position (0 = leftmost)
	Y int `json:"y"` // Vertical position (0 = topmost)
}

// Shape is a classified contour.
type Shape struct {
	// Kind is the recognized shape.
	Kind Kind `json:"kind"`

	// Label is the display text for Kind.
	Label string `json:"label"`

	// Bounds is the bounding box of the contour.
	Bounds Bounds `json:"bounds"`

	// Center is the center of Bounds.
	Center Point `json:"center"`

	// Polygon is the approximated polygon the vertex count comes from.
	Polygon []Point `json:"polygon"`

	// Contour is the traced boundary, in compressed form.
	Contour []Point `json:"contour,omitempty"`

	// Features are the measurements Kind was decided on.
	Features Features `json:"features"`
}

// ShapesResult contains every shape detected in one image.
type ShapesResult struct {
	// Profile is the name of the profile used.
	Profile string `json:"profile"`

	// Backend names the contour extractor ("go" or "opencv").
	Backend string `json:"backend"`

	// Width and Height are the dimensions detection ran at. They differ from
	// the input when the profile rescales.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Scale is the factor applied to the input before detection.
	Scale float64 `json:"scale"`

	// Shapes are sorted by area, largest first.
	Shapes []Shape `json:"shapes"`

	// Count is the number of shapes.
	Count int `json:"count"`

	Triangles  int `json:"triangles"`
	Rectangles int `json:"rectangles"`
	Circles    int `json:"circles"`

	// Discarded counts contours that were too small or matched no kind.
	Discarded int `json:"discarded"`

	// Command is the overlay command for this image, empty without shapes.
	Command string `json:"command"`
}

// DetectShapes finds pink-to-red triangles, rectangles and circles in img
// using the build's default contour extractor.
//
// Parameters:
//   - img: Source image (camera frame or decoded photo).
//   - p: Detection profile; see LookupProfile for the built-in ones.
//
// Returns:
//   - *ShapesResult: Shapes sorted by area (largest first) with per-kind counts.
//   - error: Non-nil for a nil or empty image or an invalid profile.
//
// # Algorithm
//
//  1. Scaling: when p.MaxDimension is set the longer side is resized to it
//     (nearest neighbor)
//  2. Segmentation: HSV ranges OR-combined into a mask, optionally opened
//  3. Contours: external boundaries of the mask regions
//  4. Approximation: Douglas-Peucker with tolerance p.Epsilon * perimeter;
//     after opening, corners clipped into short edges are restored
//  5. Classification: see Classify
//
// Coordinates in the result refer to the image detection ran at; when no
// scaling took place they are in the coordinate space of img.
func DetectShapes(img image.Image, p Profile) (*ShapesResult, error) {
	return DetectShapesWith(img, p, DefaultExtractor())
}

// DetectShapesWith is DetectShapes with an explicit contour extractor.
func DetectShapesWith(img image.Image, p Profile, extractor ContourExtractor) (*ShapesResult, error) {
	if img == nil {
		return nil, errors.New("nil image")
	}
	if img.Bounds().Empty() {
		return nil, errors.New("empty image")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	work, scale := Rescale(img, p)
	origin := work.Bounds().Min

	contours, err := extractor.ExtractContours(work, p)
	if err != nil {
		return nil, errors.Wrapf(err, "extract contours with %s backend", extractor.Name())
	}

	result := &ShapesResult{
		Profile: p.Name,
		Backend: extractor.Name(),
		Width:   work.Bounds().Dx(),
		Height:  work.Bounds().Dy(),
		Scale:   scale,
		Shapes:  make([]Shape, 0),
	}

	for _, c := range contours {
		contour := translate(c, origin)
		tolerance := p.Epsilon * closedLength(contour)
		polygon := ApproxPolygon(contour, tolerance)
		if p.OpenKernel > 1 {
			polygon = MergeCutCorners(polygon, float64(p.OpenKernel)+tolerance)
		}
		features := ComputeFeatures(contour, polygon)

		kind, ok := Classify(features, p)
		if !ok {
			result.Discarded++
			continue
		}

		b := features.Bounds
		result.Shapes = append(result.Shapes, Shape{
			Kind:     kind,
			Label:    kind.Label(),
			Bounds:   b,
			Center:   Point{X: (b.X1 + b.X2) / 2, Y: (b.Y1 + b.Y2) / 2},
			Polygon:  polygon,
			Contour:  contour,
			Features: features,
		})

		switch kind {
		case KindTriangle:
			result.Triangles++
		case KindRectangle:
			result.Rectangles++
		case KindCircle:
			result.Circles++
		}
	}

	sort.SliceStable(result.Shapes, func(i, j int) bool {
		return result.Shapes[i].Features.Area > result.Shapes[j].Features.Area
	})

	result.Count = len(result.Shapes)
	result.Command = Command(result)
	return result, nil
}

// Command returns the overlay command for a detection result: the kind of the
// largest shape, or "" when nothing was found.
func Command(r *ShapesResult) string {
	if r == nil || len(r.Shapes) == 0 {
		return ""
	}
	largest := r.Shapes[0]
	for _, s := range r.Shapes[1:] {
		if s.Features.Area > largest.Features.Area {
			largest = s
		}
	}
	return string(largest.Kind)
}

// Rescale returns the image detection runs on for profile p: img resized
// (nearest neighbor, aspect ratio kept) so that its longer side equals
// p.MaxDimension, together with the scale factor. Profiles without
// MaxDimension return img unchanged with scale 1.
//
// Shape coordinates from DetectShapes refer to the returned image, so
// annotations are drawn on it.
func Rescale(img image.Image, p Profile) (image.Image, float64) {
	maxDim := p.MaxDimension
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxDim <= 0 || max(w, h) == maxDim {
		return img, 1
	}
	if w >= h {
		scale := float64(maxDim) / float64(w)
		return imaging.Resize(img, maxDim, max(1, int(float64(h)*scale)), imaging.NearestNeighbor), scale
	}
	scale := float64(maxDim) / float64(h)
	return imaging.Resize(img, max(1, int(float64(w)*scale)), maxDim, imaging.NearestNeighbor), scale
}

func translate(c Contour, origin image.Point) []Point {
	out := make([]Point, len(c))
	for i, p := range c {
		out[i] = Point{X: p.X + origin.X, Y: p.Y + origin.Y}
	}
	return out
}
