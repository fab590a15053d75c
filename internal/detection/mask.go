package detection

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

// HSV is a color on the OpenCV 8-bit scale: H in [0,180), S and V in [0,255].
//
// The half-degree hue keeps the range constants interchangeable with the
// OpenCV extractor.
type HSV struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	V float64 `json:"v"`
}

// HSVRange selects colors whose components all lie within [Lower, Upper].
type HSVRange struct {
	Lower HSV `json:"lower"`
	Upper HSV `json:"upper"`
}

// Contains reports whether c lies inside the range, bounds included.
func (r HSVRange) Contains(c HSV) bool {
	return c.H >= r.Lower.H && c.H <= r.Upper.H &&
		c.S >= r.Lower.S && c.S <= r.Upper.S &&
		c.V >= r.Lower.V && c.V <= r.Upper.V
}

// Validate checks component order and scale.
func (r HSVRange) Validate() error {
	if r.Lower.H > r.Upper.H || r.Lower.S > r.Upper.S || r.Lower.V > r.Upper.V {
		return errors.New("lower bound exceeds upper bound")
	}
	if r.Lower.H < 0 || r.Upper.H > 180 {
		return errors.Errorf("hue bounds %.0f-%.0f outside 0-180", r.Lower.H, r.Upper.H)
	}
	if r.Lower.S < 0 || r.Upper.S > 255 || r.Lower.V < 0 || r.Upper.V > 255 {
		return errors.New("saturation and value bounds must lie within 0-255")
	}
	return nil
}

// ToHSV converts an 8-bit RGB triple to the OpenCV HSV scale. Components are
// rounded to integers as an 8-bit conversion stores them, and a hue that
// rounds up to 180 wraps to 0.
func ToHSV(r, g, b uint8) HSV {
	c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	h, s, v := c.Hsv()
	hsv := HSV{H: math.Round(h / 2), S: math.Round(s * 255), V: math.Round(v * 255)}
	if hsv.H >= 180 {
		hsv.H = 0
	}
	return hsv
}

// BuildMask selects every pixel of img whose color falls inside any of the
// ranges. Selected pixels are 255, all others 0. The mask origin is (0,0)
// regardless of the bounds of img.
func BuildMask(img image.Image, ranges []HSVRange) (*image.Gray, error) {
	if img == nil {
		return nil, errors.New("nil image")
	}
	if img.Bounds().Empty() {
		return nil, errors.New("empty image")
	}
	if len(ranges) == 0 {
		return nil, errors.New("no color ranges")
	}

	src := imaging.Clone(img)
	width, height := src.Bounds().Dx(), src.Bounds().Dy()
	mask := image.NewGray(image.Rect(0, 0, width, height))

	// verdict per distinct color
	verdicts := make(map[[3]uint8]bool)

	for y := 0; y < height; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+width*4]
		for x := 0; x < width; x++ {
			key := [3]uint8{row[x*4], row[x*4+1], row[x*4+2]}
			hit, seen := verdicts[key]
			if !seen {
				hsv := ToHSV(key[0], key[1], key[2])
				for _, r := range ranges {
					if r.Contains(hsv) {
						hit = true
						break
					}
				}
				verdicts[key] = hit
			}
			if hit {
				mask.Pix[y*mask.Stride+x] = 255
			}
		}
	}

	return mask, nil
}

// Open removes specks smaller than the kernel: erosion followed by dilation
// with the same neighborhood. A kernel of 1 or less returns mask unchanged.
func Open(mask *image.Gray, kernel int) *image.Gray {
	if kernel <= 1 {
		return mask
	}
	radius := float64(kernel / 2)
	eroded := effect.Erode(mask, radius)
	opened := effect.Dilate(eroded, radius)
	return segment.Threshold(opened, 128)
}

// Mask returns the color mask detection with profile p would trace: the
// input rescaled per p, segmented with p.Ranges and opened with
// p.OpenKernel.
func Mask(img image.Image, p Profile) (*image.Gray, error) {
	if img == nil {
		return nil, errors.New("nil image")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	work, _ := Rescale(img, p)
	mask, err := BuildMask(work, p.Ranges)
	if err != nil {
		return nil, err
	}
	return Open(mask, p.OpenKernel), nil
}

// Coverage returns the fraction of selected pixels in mask.
func Coverage(mask *image.Gray) float64 {
	b := mask.Bounds()
	total := b.Dx() * b.Dy()
	if total == 0 {
		return 0
	}
	selected := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if mask.GrayAt(x, y).Y >= 128 {
				selected++
			}
		}
	}
	return float64(selected) / float64(total)
}

// isSet reports whether the mask pixel at (x, y) is selected. Coordinates
// outside the mask are background.
func isSet(mask *image.Gray, x, y int) bool {
	if !(image.Point{X: x, Y: y}.In(mask.Bounds())) {
		return false
	}
	return mask.GrayAt(x, y).Y >= 128
}
