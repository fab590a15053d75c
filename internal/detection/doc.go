// Package detection finds pink-to-red triangles, rectangles and circles in
// images.
//
// Detection is color-driven: the image is segmented into a binary mask of
// pixels whose HSV color lies in one of a profile's ranges, the outer
// contours of the mask regions are traced, and each contour is approximated
// by a polygon and classified by vertex count and circularity.
//
// # Pipeline
//
//  1. Scaling: profiles with MaxDimension resize the input first
//  2. Segmentation: BuildMask, then Open when the profile sets a kernel
//  3. Contours: FindExternalContours (outer boundaries only)
//  4. Approximation: ApproxPolygon with a perimeter-relative tolerance
//  5. Classification: ComputeFeatures and Classify
//
// DetectShapes runs the whole pipeline. Annotate draws the result back onto
// the image and Command reduces it to the single token a display reacts to.
//
// # Backends
//
// Steps 2 and 3 sit behind ContourExtractor. The default build uses the pure
// Go MaskExtractor. Building with the gocv tag switches to OpenCV:
//
//	go build -tags gocv ./...
//
// Both backends use the same HSV scale (H 0-180, S and V 0-255), so profiles
// behave the same on either.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//   - Bounding boxes use inclusive top-left and exclusive bottom-right
//
// When a profile rescales the input, coordinates refer to the rescaled image.
// ShapesResult.Scale gives the factor.
package detection
