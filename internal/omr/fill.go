package omr

// FillRatio measures how much of a candidate's bounding box is ink in the
// given mask: ink pixel count over box area, in [0, 1].
//
// The mask is always the canonical (global) one, regardless of which
// binarization strategy found the candidate, so fill measurements are not
// biased by the strategy that happened to win extraction. The box is clipped
// to the mask; a candidate entirely outside it reads 0.
func FillRatio(mask [][]bool, c Candidate) float64 {
	height := len(mask)
	if height == 0 {
		return 0
	}
	width := len(mask[0])

	x1 := clampInt(c.Bounds.Min.X, 0, width)
	x2 := clampInt(c.Bounds.Max.X, 0, width)
	y1 := clampInt(c.Bounds.Min.Y, 0, height)
	y2 := clampInt(c.Bounds.Max.Y, 0, height)

	total := (x2 - x1) * (y2 - y1)
	if total <= 0 {
		return 0
	}

	ink := 0
	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			if mask[y][x] {
				ink++
			}
		}
	}
	return float64(ink) / float64(total)
}

// GridFillRatios measures every slot's options against the canonical mask.
// The result is parallel to grid.Slots; missing options read 0.
func GridFillRatios(mask [][]bool, grid Grid) [][]float64 {
	ratios := make([][]float64, len(grid.Slots))
	for i, slot := range grid.Slots {
		ratios[i] = make([]float64, len(slot.Options))
		for j, opt := range slot.Options {
			if opt != nil {
				ratios[i][j] = FillRatio(mask, *opt)
			}
		}
	}
	return ratios
}

func clampInt(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
