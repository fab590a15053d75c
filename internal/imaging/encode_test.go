package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func decodeEncoded(t *testing.T, e *EncodedImage) image.Image {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(e.ImageBase64)
	if err != nil {
		t.Fatalf("invalid base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("invalid PNG: %v", err)
	}
	return img
}

func TestEncodePNGBase64(t *testing.T) {
	img := createPatternImage(40, 20)

	result, err := EncodePNGBase64(img)
	if err != nil {
		t.Fatalf("EncodePNGBase64 failed: %v", err)
	}
	if result.Width != 40 || result.Height != 20 {
		t.Errorf("dimensions: got %dx%d, want 40x20", result.Width, result.Height)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", result.MimeType)
	}

	decoded := decodeEncoded(t, result)
	r, g, b, _ := decoded.At(5, 5).RGBA()
	if r>>8 != 255 || g != 0 || b != 0 {
		t.Errorf("top-left pixel: got (%d,%d,%d), want red", r>>8, g>>8, b>>8)
	}
}

func TestEncodePNGBase64_Nil(t *testing.T) {
	if _, err := EncodePNGBase64(nil); err == nil {
		t.Error("EncodePNGBase64 should fail for a nil image")
	}
}

func TestCrop(t *testing.T) {
	img := createPatternImage(100, 100)

	result, err := Crop(img, 50, 0, 100, 50, 1)
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}
	if result.Width != 50 || result.Height != 50 {
		t.Errorf("dimensions: got %dx%d, want 50x50", result.Width, result.Height)
	}

	// top-right quadrant is green
	decoded := decodeEncoded(t, result)
	r, g, _, _ := decoded.At(10, 10).RGBA()
	if r != 0 || g>>8 != 255 {
		t.Errorf("expected green crop, got r=%d g=%d", r>>8, g>>8)
	}
}

func TestCrop_Scale(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{230, 30, 120, 255})

	result, err := Crop(img, 0, 0, 40, 20, 2)
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}
	if result.Width != 80 || result.Height != 40 {
		t.Errorf("dimensions: got %dx%d, want 80x40", result.Width, result.Height)
	}
}

func TestCrop_InvalidRegion(t *testing.T) {
	img := createInMemoryImage(100, 100, color.White)

	tests := []struct {
		name           string
		x1, y1, x2, y2 int
	}{
		{"negative", -1, 0, 10, 10},
		{"past right edge", 90, 0, 101, 10},
		{"past bottom edge", 0, 90, 10, 101},
		{"empty width", 10, 10, 10, 20},
		{"inverted", 20, 20, 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Crop(img, tt.x1, tt.y1, tt.x2, tt.y2, 1); err == nil {
				t.Error("Crop should fail")
			}
		})
	}
}
