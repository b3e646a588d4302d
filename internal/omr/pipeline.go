package omr

import (
	"fmt"
	"image"

	"github.com/bavi404/omr-scanner-yolov8/internal/imaging"
)

// DecodeRegion decodes one cropped MCQ region into per-question answers.
//
// It runs the full pipeline: binarize into two masks, extract candidates
// from each and merge, group into rows/columns/slots, measure fills against
// the canonical mask, and decode. Deterministic for identical pixels and
// config, with no shared state, so it is safe to call from any number of
// concurrent goroutines.
//
// A region with no detectable bubbles yields an empty result; only a
// degenerate region (zero width or height) or an invalid config is an error.
func DecodeRegion(img image.Image, cfg Config) (*RegionResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, ErrInvalidRegion
	}

	masks, err := imaging.Binarize(img)
	if err != nil {
		return nil, fmt.Errorf("binarize region: %w", err)
	}

	global := ExtractCandidates(masks.Global, cfg.MinArea, cfg.MaxArea)
	adaptive := ExtractCandidates(masks.Adaptive, cfg.MinArea, cfg.MaxArea)
	candidates := MergeCandidates(global, adaptive)

	grid := BuildGrid(candidates, cfg)
	ratios := GridFillRatios(masks.Global, grid)
	return DecodeGrid(grid, ratios, cfg), nil
}

// DecodeSubRegion crops a bounding box out of a full sheet image, typically
// one supplied by the external region detector, and decodes it.
func DecodeSubRegion(img image.Image, box image.Rectangle, cfg Config) (*RegionResult, error) {
	crop, err := imaging.CropRegion(img, box)
	if err != nil {
		return nil, fmt.Errorf("crop region %v: %w", box, err)
	}
	return DecodeRegion(crop, cfg)
}
