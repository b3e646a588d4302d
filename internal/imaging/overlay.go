package imaging

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// RenderOverlay draws a bounding box around each detected bubble, colored by
// its measured ink-fill ratio: green for empty, through yellow, to red for
// fully filled. It returns a new annotated copy of the image.
//
// boxes and ratios are parallel slices; when ratios is shorter than boxes the
// remaining boxes are drawn as if unfilled. Used for calibration and for the
// debug images the CLI can save alongside results.
func RenderOverlay(img image.Image, boxes []image.Rectangle, ratios []float64) *image.RGBA {
	bounds := img.Bounds()
	result := image.NewRGBA(bounds)
	draw.Draw(result, bounds, img, bounds.Min, draw.Src)

	for i, box := range boxes {
		ratio := 0.0
		if i < len(ratios) {
			ratio = ratios[i]
		}
		drawBox(result, box.Inset(-2), heatColor(ratio))
	}
	return result
}

// SavePNG writes an image to disk; the format is chosen from the extension.
func SavePNG(img image.Image, path string) error {
	return imaging.Save(img, path)
}

// heatColor maps a fill ratio in [0,1] to a hue from green (empty) to red
// (filled). Ratios outside the range are clamped.
func heatColor(ratio float64) color.RGBA {
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	r, g, b := colorful.Hsv(120*(1-ratio), 1, 1).RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// drawBox draws a 1px rectangle outline, clipped to the image bounds.
func drawBox(img *image.RGBA, box image.Rectangle, c color.RGBA) {
	bounds := img.Bounds()
	for x := box.Min.X; x <= box.Max.X; x++ {
		setIfInside(img, bounds, x, box.Min.Y, c)
		setIfInside(img, bounds, x, box.Max.Y, c)
	}
	for y := box.Min.Y; y <= box.Max.Y; y++ {
		setIfInside(img, bounds, box.Min.X, y, c)
		setIfInside(img, bounds, box.Max.X, y, c)
	}
}

func setIfInside(img *image.RGBA, bounds image.Rectangle, x, y int, c color.RGBA) {
	if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
		img.Set(x, y, c)
	}
}
