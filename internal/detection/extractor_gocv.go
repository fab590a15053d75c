//go:build gocv

package detection

import (
	"image"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

func defaultExtractor() ContourExtractor {
	return OpenCVExtractor{}
}

// OpenCVExtractor runs segmentation and contour tracing through OpenCV.
// It needs OpenCV 4 installed and is only compiled with the gocv build tag.
type OpenCVExtractor struct{}

// Name implements ContourExtractor.
func (OpenCVExtractor) Name() string { return "opencv" }

// ExtractContours implements ContourExtractor.
func (OpenCVExtractor) ExtractContours(img image.Image, p Profile) ([]Contour, error) {
	if len(p.Ranges) == 0 {
		return nil, errors.New("no color ranges")
	}

	// ImageToMatRGB stores channels in BGR order.
	src, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, errors.Wrap(err, "convert image to mat")
	}
	defer src.Close()

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(src, &hsv, gocv.ColorBGRToHSV)

	mask := gocv.NewMat()
	defer mask.Close()
	part := gocv.NewMat()
	defer part.Close()

	for i, r := range p.Ranges {
		lower := gocv.NewScalar(r.Lower.H, r.Lower.S, r.Lower.V, 0)
		upper := gocv.NewScalar(r.Upper.H, r.Upper.S, r.Upper.V, 0)
		gocv.InRangeWithScalar(hsv, lower, upper, &part)
		if i == 0 {
			part.CopyTo(&mask)
			continue
		}
		gocv.BitwiseOr(mask, part, &mask)
	}

	if p.OpenKernel > 1 {
		kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(p.OpenKernel, p.OpenKernel))
		defer kernel.Close()
		gocv.MorphologyEx(mask, &mask, gocv.MorphOpen, kernel)
	}

	found := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer found.Close()

	contours := make([]Contour, 0, found.Size())
	for i := 0; i < found.Size(); i++ {
		pts := found.At(i).ToPoints()
		c := make(Contour, len(pts))
		for j, pt := range pts {
			c[j] = Point{X: pt.X, Y: pt.Y}
		}
		contours = append(contours, c)
	}
	return contours, nil
}
