// Package imaging provides the image I/O and inspection operations the MCP
// server exposes next to shape detection.
//
// It covers loading (with a path-keyed cache and EXIF auto-orientation),
// inline base64 decoding, color sampling, cropping and PNG encoding. All
// operations work with standard Go image.Image types and use a coordinate
// system where (0,0) is at the top-left corner, X increases rightward, and
// Y increases downward.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Individual image operations
// are stateless and can be called concurrently on different images.
//
// # Color Representation
//
// Colors are returned in multiple formats:
//   - Hex: 6-character format "#RRGGBB" (alpha excluded)
//   - RGB and RGBA: 8-bit components (0-255)
//   - HSL: Hue (0-360), Saturation (0-100), Lightness (0-100)
//   - HSV: Hue (0-180), Saturation (0-255), Value (0-255), the scale used
//     by detection profiles
//
// Sampling a pixel of a shape that was not detected shows directly which
// profile range it misses.
package imaging
