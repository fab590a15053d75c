package imaging

import (
	"image"
	"strings"

	"github.com/ironsheep/shape-detect-mcp/internal/detection"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

// RGBColor represents an RGB color with 8-bit components.
//
// Each component ranges from 0 to 255, where:
//   - 0 represents no intensity (black for all components)
//   - 255 represents full intensity (white for all components)
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// RGBAColor represents an RGBA color with 8-bit components including alpha.
//
// The alpha component represents opacity:
//   - 0 = fully transparent
//   - 255 = fully opaque
type RGBAColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
	A uint8 `json:"a"` // Alpha/opacity component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
//
// HSL is often more intuitive for color manipulation than RGB:
//   - Hue represents the color type (red, green, blue, etc.)
//   - Saturation represents color intensity (gray to vivid)
//   - Lightness represents brightness (black to white)
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a color value in multiple representations.
//
// This struct provides the same color in five formats to suit different use cases:
//   - Hex: Compact string format for CSS/web usage
//   - RGB: Standard 8-bit components without alpha
//   - RGBA: 8-bit components with alpha for transparency
//   - HSL: Perceptual color space for intuitive color operations
//   - HSV: The scale detection profiles are written in, for tuning ranges
type ColorResult struct {
	Hex  string        `json:"hex"`  // Hex format "#RRGGBB" (no alpha)
	RGB  RGBColor      `json:"rgb"`  // RGB components
	RGBA RGBAColor     `json:"rgba"` // RGBA components with alpha
	HSL  HSLColor      `json:"hsl"`  // HSL representation
	HSV  detection.HSV `json:"hsv"`  // H 0-180, S and V 0-255

	// Profiles lists the built-in detection profiles whose color ranges
	// select this color.
	Profiles []string `json:"profiles"`
}

// SampleColor extracts the color value at a specific pixel coordinate.
//
// Parameters:
//   - img: The source image to sample from.
//   - x: X coordinate (0-based, 0 = leftmost pixel).
//   - y: Y coordinate (0-based, 0 = topmost pixel).
//
// Returns:
//   - *ColorResult: The color at (x, y) in multiple formats.
//   - error: Non-nil if coordinates are outside the image bounds.
//
// # Coordinate System
//
// Coordinates are 0-based with origin at top-left:
//   - Valid X range: 0 to width-1
//   - Valid Y range: 0 to height-1
//
// # Color Conversion
//
// The function reads the native color from the image and converts it to 8-bit
// components. For 16-bit images, values are scaled down by right-shifting 8 bits.
// The Hex format excludes alpha; use RGBA.A to get transparency information.
// HSV follows the OpenCV 8-bit convention used by detection profiles, so a
// sampled value can be compared directly against a profile's ranges.
func SampleColor(img image.Image, x, y int) (*ColorResult, error) {
	bounds := img.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
		return nil, errors.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	r, g, b, a := img.At(x, y).RGBA()
	// Convert from 16-bit to 8-bit
	r8, g8, b8, a8 := uint8(r>>8), uint8(g>>8), uint8(b>>8), uint8(a>>8)
	hsv := detection.ToHSV(r8, g8, b8)

	return &ColorResult{
		Hex:      strings.ToUpper(toColorful(r8, g8, b8).Hex()),
		RGB:      RGBColor{R: r8, G: g8, B: b8},
		RGBA:     RGBAColor{R: r8, G: g8, B: b8, A: a8},
		HSL:      rgbToHSL(r8, g8, b8),
		HSV:      hsv,
		Profiles: matchingProfiles(hsv),
	}, nil
}

// LabeledPoint represents a pixel coordinate with an optional descriptive label.
//
// Labels are useful for identifying specific points in the results, such as
// "button_background" or "header_text". If Label is empty, the point will
// still be sampled but won't have an identifying label in the output.
type LabeledPoint struct {
	X     int    // X coordinate (0-based)
	Y     int    // Y coordinate (0-based)
	Label string // Optional descriptive label for this point
}

// LabeledColorResult combines a color sample with its location and optional label.
type LabeledColorResult struct {
	Label string      `json:"label,omitempty"` // Optional label (empty if not provided)
	X     int         `json:"x"`               // X coordinate that was sampled
	Y     int         `json:"y"`               // Y coordinate that was sampled
	Color ColorResult `json:"color"`           // The color at this location
}

// MultiColorResult contains color samples from multiple points.
//
// Results are returned in the same order as the input points.
type MultiColorResult struct {
	Samples []LabeledColorResult `json:"samples"` // Color samples in input order
}

// SampleColorsMulti extracts colors at multiple pixel coordinates in a single call.
//
// This is more efficient than calling SampleColor multiple times when sampling
// many points, as it processes all points in one pass.
//
// Parameters:
//   - img: The source image to sample from.
//   - points: Slice of coordinates to sample. Each point may have an optional label.
//
// Returns:
//   - *MultiColorResult: Colors at all requested points, in the same order as input.
//   - error: Non-nil if any coordinate is outside the image bounds. On error, no
//     partial results are returned.
//
// # Example
//
//	points := []imaging.LabeledPoint{
//	    {X: 10, Y: 20, Label: "background"},
//	    {X: 50, Y: 100, Label: "text"},
//	}
//	result, err := imaging.SampleColorsMulti(img, points)
func SampleColorsMulti(img image.Image, points []LabeledPoint) (*MultiColorResult, error) {
	results := make([]LabeledColorResult, 0, len(points))

	for _, p := range points {
		color, err := SampleColor(img, p.X, p.Y)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to sample point (%d,%d)", p.X, p.Y)
		}
		results = append(results, LabeledColorResult{
			Label: p.Label,
			X:     p.X,
			Y:     p.Y,
			Color: *color,
		})
	}

	return &MultiColorResult{Samples: results}, nil
}

// rgbToHSL converts 8-bit RGB values to HSL color space.
//
// Returns HSLColor with:
//   - H: 0-360 (degrees on color wheel)
//   - S: 0-100 (percentage)
//   - L: 0-100 (percentage)
func rgbToHSL(r, g, b uint8) HSLColor {
	h, s, l := toColorful(r, g, b).Hsl()
	return HSLColor{
		H: int(h),
		S: int(s * 100),
		L: int(l * 100),
	}
}

func toColorful(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

func matchingProfiles(c detection.HSV) []string {
	matches := make([]string, 0)
	for _, name := range detection.ProfileNames() {
		p, err := detection.LookupProfile(name)
		if err != nil {
			continue
		}
		for _, r := range p.Ranges {
			if r.Contains(c) {
				matches = append(matches, name)
				break
			}
		}
	}
	return matches
}
