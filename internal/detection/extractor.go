package detection

import (
	"image"

	"github.com/pkg/errors"
)

// ContourExtractor segments an image by color and returns the external
// contours of the selected regions, relative to the image origin.
type ContourExtractor interface {
	// Name identifies the backend in results and logs.
	Name() string

	// ExtractContours builds the color mask for p, applies opening when
	// p.OpenKernel asks for it and traces the external contours.
	ExtractContours(img image.Image, p Profile) ([]Contour, error)
}

// MaskExtractor is the pure Go backend.
type MaskExtractor struct{}

// Name implements ContourExtractor.
func (MaskExtractor) Name() string { return "go" }

// ExtractContours implements ContourExtractor.
func (MaskExtractor) ExtractContours(img image.Image, p Profile) ([]Contour, error) {
	mask, err := BuildMask(img, p.Ranges)
	if err != nil {
		return nil, errors.Wrap(err, "build mask")
	}
	return FindExternalContours(Open(mask, p.OpenKernel)), nil
}

// DefaultExtractor returns the backend selected at build time: OpenCV when
// built with the gocv tag, MaskExtractor otherwise.
func DefaultExtractor() ContourExtractor {
	return defaultExtractor()
}
