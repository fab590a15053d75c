//go:build !gocv

package detection

func defaultExtractor() ContourExtractor {
	return MaskExtractor{}
}
