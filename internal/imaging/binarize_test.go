package imaging

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

// grayImage creates a uniform image of the given gray level.
func grayImage(width, height int, level uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	c := color.RGBA{level, level, level, 255}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestBinarize_DegenerateImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 0, 0))
	if _, err := Binarize(img); !errors.Is(err, ErrDegenerateImage) {
		t.Errorf("expected ErrDegenerateImage, got %v", err)
	}
}

func TestBinarize_Dimensions(t *testing.T) {
	masks, err := Binarize(grayImage(37, 23, 200))
	if err != nil {
		t.Fatalf("Binarize failed: %v", err)
	}
	if masks.Width != 37 || masks.Height != 23 {
		t.Errorf("dimensions: got %dx%d, want 37x23", masks.Width, masks.Height)
	}
	if len(masks.Global) != 23 || len(masks.Global[0]) != 37 {
		t.Error("global mask shape does not match input")
	}
	if len(masks.Adaptive) != 23 || len(masks.Adaptive[0]) != 37 {
		t.Error("adaptive mask shape does not match input")
	}
}

func TestBinarize_GlobalSeparatesBimodalImage(t *testing.T) {
	img := grayImage(60, 60, 250)
	// 20x20 dark square in the middle.
	for y := 20; y < 40; y++ {
		for x := 20; x < 40; x++ {
			img.Set(x, y, color.RGBA{10, 10, 10, 255})
		}
	}

	masks, err := Binarize(img)
	if err != nil {
		t.Fatalf("Binarize failed: %v", err)
	}

	if !masks.Global[30][30] {
		t.Error("global mask should mark the dark square center as ink")
	}
	if masks.Global[5][5] {
		t.Error("global mask should leave the light background clean")
	}
}

func TestBinarize_AdaptiveMarksEdgesNotInterior(t *testing.T) {
	img := grayImage(60, 60, 250)
	for y := 15; y < 45; y++ {
		for x := 15; x < 45; x++ {
			img.Set(x, y, color.RGBA{10, 10, 10, 255})
		}
	}

	masks, err := Binarize(img)
	if err != nil {
		t.Fatalf("Binarize failed: %v", err)
	}

	// A pixel just inside the square's edge sits next to a bright
	// neighborhood and clears the mean test.
	if !masks.Adaptive[15][30] {
		t.Error("adaptive mask should mark the dark square's edge as ink")
	}
	// Deep inside the square the neighborhood is uniformly dark.
	if masks.Adaptive[30][30] {
		t.Error("adaptive mask should not mark the uniform interior")
	}
	if masks.Adaptive[5][5] {
		t.Error("adaptive mask should leave the background clean")
	}
}

func TestBinarize_AdaptiveSurvivesUnevenIllumination(t *testing.T) {
	// Background brightness ramps left (140) to right (250); a global
	// threshold cannot hold both sides, the adaptive one can.
	img := image.NewRGBA(image.Rect(0, 0, 120, 60))
	for y := 0; y < 60; y++ {
		for x := 0; x < 120; x++ {
			level := uint8(140 + 110*x/120)
			img.Set(x, y, color.RGBA{level, level, level, 255})
		}
	}
	// Dark dots on each side, ~100 below their local background.
	for _, dot := range []image.Point{{20, 30}, {100, 30}} {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				img.Set(dot.X+dx, dot.Y+dy, color.RGBA{40, 40, 40, 255})
			}
		}
	}

	masks, err := Binarize(img)
	if err != nil {
		t.Fatalf("Binarize failed: %v", err)
	}

	if !masks.Adaptive[30][20] {
		t.Error("adaptive mask should catch the dot on the dim side")
	}
	if !masks.Adaptive[30][100] {
		t.Error("adaptive mask should catch the dot on the bright side")
	}
}

func TestBinarize_Deterministic(t *testing.T) {
	img := grayImage(40, 40, 250)
	for y := 10; y < 20; y++ {
		for x := 10; x < 20; x++ {
			img.Set(x, y, color.RGBA{20, 20, 20, 255})
		}
	}

	a, err := Binarize(img)
	if err != nil {
		t.Fatalf("Binarize failed: %v", err)
	}
	b, err := Binarize(img)
	if err != nil {
		t.Fatalf("Binarize failed: %v", err)
	}

	for y := range a.Global {
		for x := range a.Global[y] {
			if a.Global[y][x] != b.Global[y][x] || a.Adaptive[y][x] != b.Adaptive[y][x] {
				t.Fatalf("masks differ at (%d,%d) across identical runs", x, y)
			}
		}
	}
}

func TestOtsuThreshold_Bimodal(t *testing.T) {
	// Half the pixels at 40, half at 220: the threshold must fall between.
	grid := make([][]uint8, 10)
	for y := range grid {
		grid[y] = make([]uint8, 10)
		for x := range grid[y] {
			if x < 5 {
				grid[y][x] = 40
			} else {
				grid[y][x] = 220
			}
		}
	}

	threshold := otsuThreshold(grid)
	if threshold < 40 || threshold >= 220 {
		t.Errorf("threshold %d should separate the modes 40 and 220", threshold)
	}

	mask := thresholdBelow(grid, threshold)
	if !mask[0][0] {
		t.Error("dark side should be ink")
	}
	if mask[0][9] {
		t.Error("bright side should be background")
	}
}

func TestAdaptiveMean_SmallGrid(t *testing.T) {
	// One dark pixel in a bright field.
	grid := make([][]uint8, 7)
	for y := range grid {
		grid[y] = make([]uint8, 7)
		for x := range grid[y] {
			grid[y][x] = 200
		}
	}
	grid[3][3] = 0

	mask := adaptiveMean(grid, 11, 2)
	if !mask[3][3] {
		t.Error("dark pixel should be ink")
	}
	if mask[0][0] {
		t.Error("bright pixel should be background")
	}
}
