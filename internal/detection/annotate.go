package detection

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// AnnotationStyle selects how Annotate marks shapes.
type AnnotationStyle string

const (
	// StyleBoxes draws a red bounding box per shape with the label centered
	// in it. Used for live frames.
	StyleBoxes AnnotationStyle = "boxes"

	// StyleOutlines traces each contour in a per-kind color and writes the
	// label at the first contour point. Used for photos.
	StyleOutlines AnnotationStyle = "outlines"
)

// ParseStyle resolves a style name for profile p. An empty name picks
// StyleOutlines for profiles that rescale (gallery photos) and StyleBoxes
// otherwise.
func ParseStyle(name string, p Profile) (AnnotationStyle, error) {
	switch style := AnnotationStyle(name); style {
	case StyleBoxes, StyleOutlines:
		return style, nil
	case "":
		if p.MaxDimension > 0 {
			return StyleOutlines, nil
		}
		return StyleBoxes, nil
	}
	return "", errors.Errorf("unknown style %q (want boxes or outlines)", name)
}

var (
	boxColor = color.RGBA{R: 255, A: 255}

	outlineColors = map[Kind]color.RGBA{
		KindTriangle:  {G: 255, A: 255},
		KindRectangle: {R: 255, A: 255},
		KindCircle:    {B: 255, A: 255},
	}
)

const (
	boxThickness     = 2
	outlineThickness = 3
)

// Annotate returns a copy of img with shapes marked in the given style.
// An unknown style falls back to StyleBoxes.
func Annotate(img image.Image, shapes []Shape, style AnnotationStyle) *image.RGBA {
	bounds := img.Bounds()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, img, bounds.Min, draw.Src)

	for _, s := range shapes {
		switch style {
		case StyleOutlines:
			c := outlineColors[s.Kind]
			pts := s.Contour
			if len(pts) == 0 {
				pts = s.Polygon
			}
			drawPolyline(dst, pts, outlineThickness, c)
			if len(pts) > 0 {
				drawText(dst, pts[0].X, pts[0].Y, s.Label, c)
			}
		default:
			b := s.Bounds
			corners := []Point{
				{X: b.X1, Y: b.Y1}, {X: b.X2 - 1, Y: b.Y1},
				{X: b.X2 - 1, Y: b.Y2 - 1}, {X: b.X1, Y: b.Y2 - 1},
			}
			drawPolyline(dst, corners, boxThickness, boxColor)

			face := basicfont.Face7x13
			textWidth := font.MeasureString(face, s.Label).Round()
			ascent := face.Metrics().Ascent.Round()
			drawText(dst, s.Center.X-textWidth/2, s.Center.Y+ascent/2, s.Label, boxColor)
		}
	}

	return dst
}

// drawText writes text with its baseline starting at (x, y).
func drawText(dst *image.RGBA, x, y int, text string, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

// drawPolyline strokes the closed polyline through pts.
func drawPolyline(dst *image.RGBA, pts []Point, thickness int, c color.RGBA) {
	switch len(pts) {
	case 0:
		return
	case 1:
		stamp(dst, pts[0].X, pts[0].Y, thickness, c)
		return
	}
	for i := range pts {
		drawLine(dst, pts[i], pts[(i+1)%len(pts)], thickness, c)
	}
}

// drawLine rasterizes a segment with Bresenham's algorithm, stamping a square
// brush of the given thickness at every step.
func drawLine(dst *image.RGBA, a, b Point, thickness int, c color.RGBA) {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	e := dx + dy
	x, y := a.X, a.Y
	for {
		stamp(dst, x, y, thickness, c)
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

func stamp(dst *image.RGBA, cx, cy, thickness int, c color.RGBA) {
	lo := -(thickness - 1) / 2
	hi := thickness / 2
	bounds := dst.Bounds()
	for y := cy + lo; y <= cy+hi; y++ {
		for x := cx + lo; x <= cx+hi; x++ {
			if (image.Point{X: x, Y: y}).In(bounds) {
				dst.SetRGBA(x, y, c)
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
