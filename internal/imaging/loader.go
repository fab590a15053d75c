package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// ImageCache keeps decoded images keyed by file path, so the detect, mask and
// annotate passes over one photo decode it once.
//
// The cache holds at most capacity images and drops the least recently used
// one when a new path would exceed it. Evict and Clear release entries on
// request; the server exposes them through the image_evict tool.
//
// Paths are used verbatim: a relative and an absolute path to the same file
// are separate entries. All methods are safe for concurrent use.
type ImageCache struct {
	mu       sync.Mutex
	capacity int
	images   map[string]image.Image
	recent   []string // least recently used first
}

// NewImageCache returns an empty cache holding up to capacity images.
// A capacity of zero or less means no limit.
func NewImageCache(capacity int) *ImageCache {
	return &ImageCache{
		capacity: capacity,
		images:   make(map[string]image.Image),
	}
}

// Load returns the image at path, decoding it on first use. PNG, JPEG and
// GIF are supported. JPEG EXIF orientation is applied, so a portrait phone
// photo comes back upright and shape coordinates match what a viewer shows.
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.Lock()
	if img, ok := c.images[path]; ok {
		c.touch(path)
		c.mu.Unlock()
		return img, nil
	}
	c.mu.Unlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open image")
	}
	defer f.Close()

	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode image")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok := c.images[path]; ok {
		c.touch(path)
		return cached, nil
	}
	if c.capacity > 0 && len(c.recent) >= c.capacity {
		oldest := c.recent[0]
		c.recent = c.recent[1:]
		delete(c.images, oldest)
	}
	c.images[path] = img
	c.recent = append(c.recent, path)
	return img, nil
}

// Evict drops path from the cache and reports whether it was cached.
func (c *ImageCache) Evict(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.images[path]; !ok {
		return false
	}
	delete(c.images, path)
	c.remove(path)
	return true
}

// Clear drops every cached image and returns how many there were.
func (c *ImageCache) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.images)
	c.images = make(map[string]image.Image)
	c.recent = nil
	return n
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.images)
}

// touch marks path as most recently used. Callers hold mu.
func (c *ImageCache) touch(path string) {
	c.remove(path)
	c.recent = append(c.recent, path)
}

func (c *ImageCache) remove(path string) {
	for i, p := range c.recent {
		if p == path {
			c.recent = append(c.recent[:i], c.recent[i+1:]...)
			return
		}
	}
}

// ImageInfo describes an image file.
type ImageInfo struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	// Format is "png", "jpeg", "gif" or "unknown", taken from the extension.
	Format string `json:"format"`

	// ColorDepth is "8-bit" or "16-bit" per channel.
	ColorDepth string `json:"color_depth"`

	HasAlpha      bool  `json:"has_alpha"`
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads path through cache and describes it. Format comes from
// the file extension ("unknown" for anything but png, jpg/jpeg and gif);
// color depth and alpha come from the decoded image type.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to stat file")
	}

	info := &ImageInfo{
		Width:         img.Bounds().Dx(),
		Height:        img.Bounds().Dy(),
		Format:        formatFromExt(path),
		ColorDepth:    "8-bit",
		FileSizeBytes: stat.Size(),
	}
	switch img.(type) {
	case *image.RGBA, *image.NRGBA:
		info.HasAlpha = true
	case *image.RGBA64, *image.NRGBA64:
		info.HasAlpha = true
		info.ColorDepth = "16-bit"
	case *image.Gray16:
		info.ColorDepth = "16-bit"
	}
	return info, nil
}

func formatFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	}
	return "unknown"
}

// DimensionsResult is the width and height of an image.
type DimensionsResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GetDimensions loads path through cache and returns its size.
func GetDimensions(cache *ImageCache, path string) (*DimensionsResult, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}
	return &DimensionsResult{Width: img.Bounds().Dx(), Height: img.Bounds().Dy()}, nil
}

// DecodeBase64 decodes an inline PNG, JPEG or GIF image.
//
// data may be plain standard base64 or a data URL such as
// "data:image/png;base64,iVBOR...". Inline images are not cached; EXIF
// orientation is applied as in ImageCache.Load.
func DecodeBase64(data string) (image.Image, error) {
	if strings.HasPrefix(data, "data:") {
		comma := strings.IndexByte(data, ',')
		if comma < 0 || !strings.HasSuffix(data[:comma], ";base64") {
			return nil, errors.New("data URL is not base64 encoded")
		}
		data = data[comma+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(data))
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode base64 image data")
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode image")
	}
	return img, nil
}
