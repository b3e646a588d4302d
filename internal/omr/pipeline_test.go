package omr

import (
	"errors"
	"image"
	"image/color"
	"reflect"
	"testing"
)

// Printed bubble outlines are light gray; pencil marks are near black.
var (
	outlineGray = color.RGBA{180, 180, 180, 255}
	markBlack   = color.RGBA{10, 10, 10, 255}
)

// newSheet creates a white test sheet.
func newSheet(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.White)
		}
	}
	return img
}

// drawRing draws an unfilled bubble outline using the midpoint circle
// algorithm.
func drawRing(img *image.RGBA, cx, cy, radius int, c color.Color) {
	x := radius
	y := 0
	err := 0

	for x >= y {
		img.Set(cx+x, cy+y, c)
		img.Set(cx+y, cy+x, c)
		img.Set(cx-y, cy+x, c)
		img.Set(cx-x, cy+y, c)
		img.Set(cx-x, cy-y, c)
		img.Set(cx-y, cy-x, c)
		img.Set(cx+y, cy-x, c)
		img.Set(cx+x, cy-y, c)

		if err <= 0 {
			y++
			err += 2*y + 1
		}
		if err > 0 {
			x--
			err -= 2*x + 1
		}
	}
}

// drawDisc draws a filled-in bubble.
func drawDisc(img *image.RGBA, cx, cy, radius int, c color.Color) {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= radius*radius {
				img.Set(cx+dx, cy+dy, c)
			}
		}
	}
}

// drawMCQBlock draws a bubble grid with the given row/option centers;
// marked[row] gives the 0-based option to fill, -1 for none.
func drawMCQBlock(img *image.RGBA, rowYs, optionXs []int, radius int, marked []int) {
	for ri, y := range rowYs {
		for oi, x := range optionXs {
			if marked[ri] == oi {
				drawDisc(img, x, y, radius, markBlack)
			} else {
				drawRing(img, x, y, radius, outlineGray)
			}
		}
	}
}

func TestDecodeRegion_SingleColumn(t *testing.T) {
	img := newSheet(200, 140)
	rowYs := []int{30, 60, 90}
	optionXs := []int{40, 65, 90, 115}
	drawMCQBlock(img, rowYs, optionXs, 8, []int{-1, 2, -1})

	cfg := testConfig(4)
	result, err := DecodeRegion(img, cfg)
	if err != nil {
		t.Fatalf("DecodeRegion failed: %v", err)
	}

	if len(result.Answers) != 3 {
		t.Fatalf("expected 3 answers, got %d (answer string %q)", len(result.Answers), result.AnswerString)
	}
	want := []string{SelectionBlank, "C", SelectionBlank}
	for i, w := range want {
		if result.Answers[i].Selection != w {
			t.Errorf("question %d: got %q, want %q", i+1, result.Answers[i].Selection, w)
		}
	}
	if result.AnswerString != "-C-" {
		t.Errorf("answer string: got %q, want \"-C-\"", result.AnswerString)
	}
	if len(result.Mismatches) != 0 {
		t.Errorf("clean grid should have no mismatches, got %v", result.Mismatches)
	}
}

func TestDecodeRegion_TwoColumns(t *testing.T) {
	img := newSheet(340, 140)
	rowYs := []int{30, 60, 90}
	left := []int{40, 65, 90, 115}
	right := []int{210, 235, 260, 285}

	drawMCQBlock(img, rowYs, left, 8, []int{-1, -1, -1})
	drawMCQBlock(img, rowYs, right, 8, []int{0, -1, -1})

	cfg := testConfig(4)
	result, err := DecodeRegion(img, cfg)
	if err != nil {
		t.Fatalf("DecodeRegion failed: %v", err)
	}

	if len(result.Answers) != 6 {
		t.Fatalf("expected 6 answers across two columns, got %d", len(result.Answers))
	}
	// Column-major numbering: the right column's first row is question 4.
	if result.Answers[3].Selection != "A" {
		t.Errorf("question 4: got %q, want A (answer string %q)",
			result.Answers[3].Selection, result.AnswerString)
	}
	if result.AnswerString != "---A--" {
		t.Errorf("answer string: got %q, want \"---A--\"", result.AnswerString)
	}
}

func TestDecodeRegion_EmptySheet(t *testing.T) {
	result, err := DecodeRegion(newSheet(100, 100), testConfig(4))
	if err != nil {
		t.Fatalf("DecodeRegion failed: %v", err)
	}
	if len(result.Answers) != 0 || result.AnswerString != "" {
		t.Errorf("blank sheet should decode to nothing, got %+v", result)
	}
}

func TestDecodeRegion_DegenerateRegion(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 0, 0))
	if _, err := DecodeRegion(img, testConfig(4)); !errors.Is(err, ErrInvalidRegion) {
		t.Errorf("expected ErrInvalidRegion, got %v", err)
	}
}

func TestDecodeRegion_InvalidConfig(t *testing.T) {
	cfg := testConfig(4)
	cfg.FillThreshold = 2
	if _, err := DecodeRegion(newSheet(50, 50), cfg); err == nil {
		t.Error("expected config validation error")
	}
}

func TestDecodeRegion_Idempotent(t *testing.T) {
	img := newSheet(200, 140)
	drawMCQBlock(img, []int{30, 60, 90}, []int{40, 65, 90, 115}, 8, []int{1, -1, 3})

	cfg := testConfig(4)
	first, err := DecodeRegion(img, cfg)
	if err != nil {
		t.Fatalf("first decode failed: %v", err)
	}
	second, err := DecodeRegion(img, cfg)
	if err != nil {
		t.Fatalf("second decode failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("identical pixels and config must yield identical output")
	}
}

func TestDecodeSubRegion(t *testing.T) {
	img := newSheet(400, 300)
	// Grid lives in the lower-right quadrant; the rest of the sheet is
	// treated as unrelated content.
	drawMCQBlock(img, []int{210, 240}, []int{240, 265, 290, 315}, 8, []int{0, 3})

	result, err := DecodeSubRegion(img, image.Rect(220, 190, 340, 260), testConfig(4))
	if err != nil {
		t.Fatalf("DecodeSubRegion failed: %v", err)
	}
	if result.AnswerString != "AD" {
		t.Errorf("answer string: got %q, want \"AD\"", result.AnswerString)
	}
}

func TestDecodeSubRegion_OutOfBounds(t *testing.T) {
	img := newSheet(100, 100)
	if _, err := DecodeSubRegion(img, image.Rect(50, 50, 200, 200), testConfig(4)); err == nil {
		t.Error("expected error for region outside image bounds")
	}
}
