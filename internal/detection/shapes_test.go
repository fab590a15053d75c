package detection

import (
	"fmt"
	"image"
	"image/color"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectShapes_Triangle(t *testing.T) {
	img := createTestImage(120, 120, black)
	fillTriangle(img, Point{60, 10}, Point{110, 100}, Point{10, 100}, pink)
	p, err := LookupProfile("camera")
	require.NoError(t, err)

	result, err := DetectShapes(img, p)
	require.NoError(t, err)

	require.Equal(t, 1, result.Count)
	assert.Equal(t, KindTriangle, result.Shapes[0].Kind)
	assert.Equal(t, "Triangle", result.Shapes[0].Label)
	assert.Equal(t, 1, result.Triangles)
	assert.Equal(t, "triangle", result.Command)
	assert.Equal(t, "camera", result.Profile)
}

func TestDetectShapes_Rectangle(t *testing.T) {
	img := createTestImage(100, 100, black)
	fillRect(img, 20, 40, 79, 69, pink)
	p, _ := LookupProfile("camera")

	result, err := DetectShapes(img, p)
	require.NoError(t, err)

	require.Equal(t, 1, result.Count)
	s := result.Shapes[0]
	assert.Equal(t, KindRectangle, s.Kind)
	assert.Equal(t, 4, s.Features.Vertices)
	assert.InDelta(t, 20, s.Bounds.X1, 1)
	assert.InDelta(t, 80, s.Bounds.X2, 1)
	assert.InDelta(t, 50, s.Center.X, 1)
	assert.InDelta(t, 55, s.Center.Y, 1)
}

func TestDetectShapes_Square(t *testing.T) {
	img := createTestImage(60, 60, black)
	fillRect(img, 10, 10, 49, 49, pink)

	result, err := DetectShapes(img, testProfile())
	require.NoError(t, err)

	require.Equal(t, 1, result.Count)
	assert.Equal(t, KindRectangle, result.Shapes[0].Kind)
	assert.Equal(t, Bounds{X1: 10, Y1: 10, X2: 50, Y2: 50}, result.Shapes[0].Bounds)
	assert.InDelta(t, 0.785, result.Shapes[0].Features.Circularity, 0.01)
}

func TestDetectShapes_Circle(t *testing.T) {
	img := createTestImage(120, 120, black)
	fillCircle(img, 60, 60, 30, pink)
	p, _ := LookupProfile("camera")

	result, err := DetectShapes(img, p)
	require.NoError(t, err)

	require.Equal(t, 1, result.Count)
	assert.Equal(t, KindCircle, result.Shapes[0].Kind)
	assert.Greater(t, result.Shapes[0].Features.Circularity, 0.83)
	assert.Equal(t, 1, result.Circles)
	assert.Equal(t, "circle", result.Command)
}

func TestDetectShapes_CameraTriangleSizes(t *testing.T) {
	p, _ := LookupProfile("camera")

	for _, side := range []int{30, 40, 50, 60} {
		t.Run(fmt.Sprintf("side %d", side), func(t *testing.T) {
			img := createTestImage(100, 100, black)
			a, b, c := equilateral(50, 20, side)
			fillTriangle(img, a, b, c, pink)

			result, err := DetectShapes(img, p)
			require.NoError(t, err)

			require.Equal(t, 1, result.Count)
			assert.Equal(t, KindTriangle, result.Shapes[0].Kind)
			assert.Equal(t, 3, result.Shapes[0].Features.Vertices)
		})
	}
}

func TestDetectShapes_CameraRotatedRectangles(t *testing.T) {
	p, _ := LookupProfile("camera")

	tests := []struct {
		w, h, deg float64
	}{
		{30, 21, 30},
		{30, 21, 45},
		{60, 30, 20},
		{40, 40, 45},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%.0fx%.0f at %.0f", tt.w, tt.h, tt.deg), func(t *testing.T) {
			img := createTestImage(100, 100, black)
			fillRotatedRect(img, 50, 50, tt.w, tt.h, tt.deg, pink)

			result, err := DetectShapes(img, p)
			require.NoError(t, err)

			require.Equal(t, 1, result.Count)
			assert.Equal(t, KindRectangle, result.Shapes[0].Kind)
			assert.Equal(t, 4, result.Shapes[0].Features.Vertices)
		})
	}
}

func TestDetectShapes_PhotoTriangleAndCircle(t *testing.T) {
	img := createTestImage(1280, 400, black)
	a, b, c := equilateral(300, 50, 300)
	fillTriangle(img, a, b, c, pink)
	fillCircle(img, 900, 200, 150, pink)
	p, _ := LookupProfile("photo")

	result, err := DetectShapes(img, p)
	require.NoError(t, err)

	assert.Equal(t, 1.0, result.Scale)
	require.Equal(t, 2, result.Count)
	assert.Equal(t, 1, result.Triangles)
	assert.Equal(t, 1, result.Circles)
	for _, s := range result.Shapes {
		if s.Kind == KindTriangle {
			assert.Equal(t, 3, s.Features.Vertices)
		}
	}
}

func TestDetectShapes_NoShapes(t *testing.T) {
	result, err := DetectShapes(createTestImage(50, 50, black), testProfile())
	require.NoError(t, err)

	assert.Zero(t, result.Count)
	assert.NotNil(t, result.Shapes)
	assert.Empty(t, result.Command)
}

func TestDetectShapes_IgnoresOtherColors(t *testing.T) {
	img := createTestImage(80, 80, black)
	fillRect(img, 10, 10, 49, 49, color.RGBA{G: 200, A: 255})

	result, err := DetectShapes(img, testProfile())
	require.NoError(t, err)
	assert.Zero(t, result.Count)
}

func TestDetectShapes_DiscardsSmallAreas(t *testing.T) {
	img := createTestImage(50, 50, black)
	fillRect(img, 10, 10, 17, 17, pink)

	result, err := DetectShapes(img, testProfile())
	require.NoError(t, err)

	assert.Zero(t, result.Count)
	assert.Equal(t, 1, result.Discarded)
}

func TestDetectShapes_SortedByArea(t *testing.T) {
	img := createTestImage(160, 100, black)
	fillRect(img, 100, 40, 119, 54, pink)
	fillCircle(img, 40, 50, 30, pink)

	result, err := DetectShapes(img, testProfile())
	require.NoError(t, err)

	require.Equal(t, 2, result.Count)
	assert.Equal(t, KindCircle, result.Shapes[0].Kind)
	assert.Equal(t, KindRectangle, result.Shapes[1].Kind)
	assert.Greater(t, result.Shapes[0].Features.Area, result.Shapes[1].Features.Area)
	assert.Equal(t, "circle", result.Command, "the largest shape drives the command")
}

func TestDetectShapes_PhotoRescales(t *testing.T) {
	img := createTestImage(2560, 400, black)
	fillRect(img, 200, 100, 599, 299, pink)
	p, _ := LookupProfile("photo")

	result, err := DetectShapes(img, p)
	require.NoError(t, err)

	assert.Equal(t, 1280, result.Width)
	assert.Equal(t, 200, result.Height)
	assert.InDelta(t, 0.5, result.Scale, 1e-9)
	require.Equal(t, 1, result.Count)
	assert.Equal(t, KindRectangle, result.Shapes[0].Kind)
	assert.InDelta(t, 100, result.Shapes[0].Bounds.X1, 1)
}

func TestDetectShapes_RedProfile(t *testing.T) {
	img := createTestImage(100, 100, black)
	fillRect(img, 20, 40, 79, 69, red)

	cam, _ := LookupProfile("camera")
	result, err := DetectShapes(img, cam)
	require.NoError(t, err)
	assert.Zero(t, result.Count, "camera profile is pink only")

	redProfile, _ := LookupProfile("red")
	result, err = DetectShapes(img, redProfile)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Rectangles)
}

func TestDetectShapes_OffsetImage(t *testing.T) {
	img := createTestImage(100, 100, black)
	fillRect(img, 60, 60, 89, 89, pink)
	sub := img.SubImage(image.Rect(50, 50, 100, 100))

	result, err := DetectShapes(sub, testProfile())
	require.NoError(t, err)

	require.Equal(t, 1, result.Count)
	assert.Equal(t, 60, result.Shapes[0].Bounds.X1, "coordinates are in the space of the input")
}

func TestDetectShapes_Errors(t *testing.T) {
	_, err := DetectShapes(nil, testProfile())
	assert.Error(t, err)

	_, err = DetectShapes(image.NewRGBA(image.Rect(0, 0, 0, 0)), testProfile())
	assert.Error(t, err)

	bad := testProfile()
	bad.Epsilon = 0
	_, err = DetectShapes(createTestImage(10, 10, black), bad)
	assert.Error(t, err)
}

type stubExtractor struct {
	contours []Contour
	err      error
}

func (stubExtractor) Name() string { return "stub" }

func (s stubExtractor) ExtractContours(image.Image, Profile) ([]Contour, error) {
	return s.contours, s.err
}

func TestDetectShapesWith_Extractor(t *testing.T) {
	square := Contour{{0, 0}, {29, 0}, {29, 29}, {0, 29}}
	line := Contour{{0, 40}, {29, 40}}

	result, err := DetectShapesWith(createTestImage(50, 50, black), testProfile(),
		stubExtractor{contours: []Contour{square, line}})
	require.NoError(t, err)

	assert.Equal(t, "stub", result.Backend)
	assert.Equal(t, 1, result.Rectangles)
	assert.Equal(t, 1, result.Discarded)

	_, err = DetectShapesWith(createTestImage(50, 50, black), testProfile(),
		stubExtractor{err: errors.New("camera unplugged")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stub backend")
	assert.Contains(t, err.Error(), "camera unplugged")
}

func TestCommand(t *testing.T) {
	assert.Empty(t, Command(nil))
	assert.Empty(t, Command(&ShapesResult{}))

	r := &ShapesResult{Shapes: []Shape{
		{Kind: KindTriangle, Features: Features{Area: 300}},
		{Kind: KindRectangle, Features: Features{Area: 900}},
	}}
	assert.Equal(t, "rectangle", Command(r))
}

func TestLookupProfile(t *testing.T) {
	p, err := LookupProfile("")
	require.NoError(t, err)
	assert.Equal(t, DefaultProfileName, p.Name)

	for _, name := range ProfileNames() {
		p, err := LookupProfile(name)
		require.NoError(t, err, name)
		assert.NoError(t, p.Validate(), name)
	}

	_, err = LookupProfile("infrared")
	assert.Error(t, err)
}

func TestLookupProfile_ReturnsCopy(t *testing.T) {
	p, _ := LookupProfile("photo")
	p.Ranges[0].Lower.H = 99

	again, _ := LookupProfile("photo")
	assert.Equal(t, 0.0, again.Ranges[0].Lower.H)
}

func TestProfileNames(t *testing.T) {
	assert.Equal(t, []string{"camera", "photo", "red"}, ProfileNames())
}

func TestProfile_Validate(t *testing.T) {
	mutations := map[string]func(*Profile){
		"no ranges":            func(p *Profile) { p.Ranges = nil },
		"bad range":            func(p *Profile) { p.Ranges[0].Lower.S = 300 },
		"epsilon too large":    func(p *Profile) { p.Epsilon = 1 },
		"negative min area":    func(p *Profile) { p.MinArea = -1 },
		"zero circularity":     func(p *Profile) { p.CircleCircularity = 0 },
		"polygon above circle": func(p *Profile) { p.PolygonCircularity = 0.9 },
		"negative kernel":      func(p *Profile) { p.OpenKernel = -3 },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			p, _ := LookupProfile("camera")
			mutate(&p)
			assert.Error(t, p.Validate())
		})
	}
}

func TestRescale(t *testing.T) {
	photo, _ := LookupProfile("photo")
	camera, _ := LookupProfile("camera")

	tall := createTestImage(300, 2000, black)
	out, scale := Rescale(tall, photo)
	assert.Equal(t, 1280, out.Bounds().Dy())
	assert.Equal(t, 192, out.Bounds().Dx())
	assert.InDelta(t, 0.64, scale, 1e-9)

	small := createTestImage(640, 480, black)
	out, scale = Rescale(small, photo)
	assert.Equal(t, 1280, out.Bounds().Dx(), "small photos are enlarged")
	assert.InDelta(t, 2.0, scale, 1e-9)

	out, scale = Rescale(small, camera)
	assert.Same(t, small, out.(*image.RGBA))
	assert.Equal(t, 1.0, scale)
}
