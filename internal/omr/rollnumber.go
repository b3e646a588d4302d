package omr

import (
	"fmt"
	"image"
	"sort"
	"strconv"

	"github.com/bavi404/omr-scanner-yolov8/internal/imaging"
)

// DecodeRollNumber reads a roll-number bubble grid: digits 0-9 laid out
// top-to-bottom, one column per digit position, columns left to right.
//
// Bubbles are extracted with the roll-specific area bounds, grouped into
// columns by x proximity (a center gap of HorizontalThreshold or more starts
// a new column), and each column contributes the index of its topmost filled
// bubble as a digit. Columns with no confidently filled bubble contribute
// nothing; a region with no bubbles at all returns the empty string, which
// callers treat as a cue to fall back to text recognition.
func DecodeRollNumber(img image.Image, cfg Config) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return "", ErrInvalidRegion
	}

	masks, err := imaging.Binarize(img)
	if err != nil {
		return "", fmt.Errorf("binarize roll region: %w", err)
	}

	global := ExtractCandidates(masks.Global, cfg.RollMinArea, cfg.RollMaxArea)
	adaptive := ExtractCandidates(masks.Adaptive, cfg.RollMinArea, cfg.RollMaxArea)
	candidates := MergeCandidates(global, adaptive)
	if len(candidates) == 0 {
		return "", nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Center.X != candidates[j].Center.X {
			return candidates[i].Center.X < candidates[j].Center.X
		}
		return candidates[i].Center.Y < candidates[j].Center.Y
	})

	var columns [][]Candidate
	current := []Candidate{candidates[0]}
	for _, c := range candidates[1:] {
		if c.Center.X-current[len(current)-1].Center.X < cfg.HorizontalThreshold {
			current = append(current, c)
		} else {
			columns = append(columns, current)
			current = []Candidate{c}
		}
	}
	columns = append(columns, current)

	var roll string
	for _, col := range columns {
		sort.Slice(col, func(i, j int) bool {
			return col[i].Center.Y < col[j].Center.Y
		})
		for idx, c := range col {
			if FillRatio(masks.Global, c) > cfg.RollFillThreshold {
				roll += strconv.Itoa(idx)
				break
			}
		}
	}
	return roll, nil
}
