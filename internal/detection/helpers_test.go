package detection

import (
	"image"
	"image/color"
	"math"
)

var (
	pink  = color.RGBA{R: 230, G: 30, B: 120, A: 255}
	red   = color.RGBA{R: 220, G: 20, B: 20, A: 255}
	black = color.RGBA{A: 255}
)

// createTestImage creates a solid color test image
func createTestImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// fillRect paints the inclusive rectangle (x1,y1)-(x2,y2)
func fillRect(img *image.RGBA, x1, y1, x2, y2 int, c color.Color) {
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			img.Set(x, y, c)
		}
	}
}

// fillCircle paints a solid disk
func fillCircle(img *image.RGBA, cx, cy, radius int, c color.Color) {
	for y := cy - radius; y <= cy+radius; y++ {
		for x := cx - radius; x <= cx+radius; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= radius*radius {
				img.Set(x, y, c)
			}
		}
	}
}

// fillTriangle paints the triangle a-b-c using edge-function tests
func fillTriangle(img *image.RGBA, a, b, c Point, col color.Color) {
	edge := func(p, q, r Point) int {
		return (q.X-p.X)*(r.Y-p.Y) - (q.Y-p.Y)*(r.X-p.X)
	}
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			p := Point{X: x, Y: y}
			w0, w1, w2 := edge(a, b, p), edge(b, c, p), edge(c, a, p)
			if (w0 >= 0 && w1 >= 0 && w2 >= 0) || (w0 <= 0 && w1 <= 0 && w2 <= 0) {
				img.Set(x, y, col)
			}
		}
	}
}

// fillRotatedRect paints a w x h rectangle centered on (cx, cy) and rotated
// by deg degrees, testing pixel centers
func fillRotatedRect(img *image.RGBA, cx, cy, w, h, deg float64, c color.Color) {
	sin, cos := math.Sincos(deg * math.Pi / 180)
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			u := dx*cos + dy*sin
			v := -dx*sin + dy*cos
			if math.Abs(u) <= w/2 && math.Abs(v) <= h/2 {
				img.Set(x, y, c)
			}
		}
	}
}

// equilateral returns the corners of an upright equilateral triangle with
// side s and its apex at (cx, top)
func equilateral(cx, top, s int) (Point, Point, Point) {
	h := int(math.Round(float64(s) * math.Sqrt(3) / 2))
	return Point{cx, top}, Point{cx + s/2, top + h}, Point{cx - s/2, top + h}
}

// createMask builds a mask with the inclusive rectangles set
func createMask(width, height int, rects ...image.Rectangle) *image.Gray {
	mask := image.NewGray(image.Rect(0, 0, width, height))
	for _, r := range rects {
		for y := r.Min.Y; y <= r.Max.Y; y++ {
			for x := r.Min.X; x <= r.Max.X; x++ {
				mask.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return mask
}

// testProfile returns the camera profile with opening disabled, so results
// depend only on the drawn pixels.
func testProfile() Profile {
	p, _ := LookupProfile("camera")
	p.Name = "test"
	p.OpenKernel = 0
	return p
}
