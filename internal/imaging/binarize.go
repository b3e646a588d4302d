package imaging

import (
	"errors"
	"image"

	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"
)

// ErrDegenerateImage is returned when an input image has zero width or height.
var ErrDegenerateImage = errors.New("image has zero width or height")

// Binarization parameters. The blur radius matches a 5x5 Gaussian kernel;
// the adaptive window and offset follow the usual mean-threshold settings
// for scanned forms (11px neighborhood, offset 2).
const (
	blurRadius     = 1.4
	adaptiveWindow = 11
	adaptiveOffset = 2
)

// Masks holds the binary ink masks produced by the two thresholding
// strategies. Both masks have identical dimensions; mask[y][x] == true means
// the pixel is ink.
type Masks struct {
	Width  int
	Height int

	// Global is the Otsu-thresholded mask, computed on a blurred copy of the
	// grayscale source. This is the canonical mask for ink-fill sampling.
	Global [][]bool

	// Adaptive is the local-mean-thresholded mask, computed on the unblurred
	// grayscale source so that thin bubble outlines survive.
	Adaptive [][]bool
}

// Binarize converts an image into the two ink masks described on Masks.
//
// The input may be color or grayscale; it is converted to luminance first.
// Binarize is a pure function of its input and never modifies the image.
// Returns ErrDegenerateImage if the image has zero width or height.
func Binarize(img image.Image) (*Masks, error) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, ErrDegenerateImage
	}

	gray := imaging.Grayscale(img)
	grid := pixelGrid(gray.Pix, gray.Stride, width, height)

	blurred := blur.Gaussian(gray, blurRadius)
	blurGrid := pixelGrid(blurred.Pix, blurred.Stride, width, height)

	threshold := otsuThreshold(blurGrid)

	return &Masks{
		Width:    width,
		Height:   height,
		Global:   thresholdBelow(blurGrid, threshold),
		Adaptive: adaptiveMean(grid, adaptiveWindow, adaptiveOffset),
	}, nil
}

// pixelGrid extracts the first channel of a 4-byte-per-pixel buffer into a
// [][]uint8 grid. Both *image.NRGBA and *image.RGBA grayscale images store
// the luminance in every color channel, so channel 0 is sufficient.
func pixelGrid(pix []uint8, stride, width, height int) [][]uint8 {
	grid := make([][]uint8, height)
	for y := 0; y < height; y++ {
		grid[y] = make([]uint8, width)
		row := pix[y*stride:]
		for x := 0; x < width; x++ {
			grid[y][x] = row[x*4]
		}
	}
	return grid
}

// otsuThreshold computes the global threshold that maximizes between-class
// variance of the grayscale histogram (Otsu's method).
func otsuThreshold(grid [][]uint8) uint8 {
	var hist [256]int
	total := 0
	for _, row := range grid {
		for _, v := range row {
			hist[v]++
		}
		total += len(row)
	}

	var sum float64
	for v, n := range hist {
		sum += float64(v) * float64(n)
	}

	var sumBelow float64
	countBelow := 0
	bestThreshold := uint8(0)
	bestVariance := -1.0

	for t := 0; t < 256; t++ {
		countBelow += hist[t]
		if countBelow == 0 {
			continue
		}
		countAbove := total - countBelow
		if countAbove == 0 {
			break
		}
		sumBelow += float64(t) * float64(hist[t])

		meanBelow := sumBelow / float64(countBelow)
		meanAbove := (sum - sumBelow) / float64(countAbove)
		diff := meanBelow - meanAbove
		variance := float64(countBelow) * float64(countAbove) * diff * diff

		if variance > bestVariance {
			bestVariance = variance
			bestThreshold = uint8(t)
		}
	}

	return bestThreshold
}

// thresholdBelow marks pixels at or below the threshold as ink
// (inverted binary threshold: the sheet is light, marks are dark).
func thresholdBelow(grid [][]uint8, threshold uint8) [][]bool {
	mask := make([][]bool, len(grid))
	for y, row := range grid {
		mask[y] = make([]bool, len(row))
		for x, v := range row {
			mask[y][x] = v <= threshold
		}
	}
	return mask
}

// adaptiveMean marks pixels as ink when they are darker than the mean of
// their window x window neighborhood by more than offset. The neighborhood
// is clamped at image borders. An integral image keeps this O(w*h).
func adaptiveMean(grid [][]uint8, window, offset int) [][]bool {
	height := len(grid)
	if height == 0 {
		return nil
	}
	width := len(grid[0])

	// integral[y+1][x+1] = sum of grid[0..y][0..x]
	integral := make([][]int64, height+1)
	integral[0] = make([]int64, width+1)
	for y := 0; y < height; y++ {
		integral[y+1] = make([]int64, width+1)
		var rowSum int64
		for x := 0; x < width; x++ {
			rowSum += int64(grid[y][x])
			integral[y+1][x+1] = integral[y][x+1] + rowSum
		}
	}

	half := window / 2
	mask := make([][]bool, height)
	for y := 0; y < height; y++ {
		mask[y] = make([]bool, width)
		y1 := clampInt(y-half, 0, height-1)
		y2 := clampInt(y+half, 0, height-1)
		for x := 0; x < width; x++ {
			x1 := clampInt(x-half, 0, width-1)
			x2 := clampInt(x+half, 0, width-1)

			count := int64(y2-y1+1) * int64(x2-x1+1)
			sum := integral[y2+1][x2+1] - integral[y1][x2+1] - integral[y2+1][x1] + integral[y1][x1]
			mean := float64(sum) / float64(count)

			mask[y][x] = float64(grid[y][x]) <= mean-float64(offset)
		}
	}
	return mask
}

// clampInt constrains an integer value to the range [min, max].
func clampInt(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
