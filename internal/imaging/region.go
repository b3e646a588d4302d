package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// CropRegion extracts a rectangular sub-region from an image.
//
// The rectangle is expressed in the source image's coordinate space
// (inclusive top-left, exclusive bottom-right) and must lie fully inside the
// image bounds. The returned image owns its own pixels; the source is never
// modified.
func CropRegion(img image.Image, r image.Rectangle) (image.Image, error) {
	bounds := img.Bounds()
	if r.Dx() <= 0 || r.Dy() <= 0 {
		return nil, fmt.Errorf("invalid region %v: x1 must be < x2, y1 must be < y2", r)
	}
	if !r.In(bounds) {
		return nil, fmt.Errorf("region %v outside image bounds %v", r, bounds)
	}
	return imaging.Crop(img, r), nil
}
