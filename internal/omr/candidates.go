package omr

import (
	"image"
	"math"
)

// Accepted bounding-box aspect ratio band for a bubble candidate. Kept wide
// so slightly squashed or hand-retraced bubbles survive, while multi-cell
// ruling lines and text runs do not.
const (
	minAspect = 0.4
	maxAspect = 2.5
)

// Candidate is one plausible bubble: a connected ink component that passed
// the area and roundness filters. Candidates are never mutated after
// creation.
type Candidate struct {
	// Bounds is the component's bounding box (inclusive min, exclusive max).
	Bounds image.Rectangle `json:"bounds"`

	// Center is the bounding-box center, used for all spatial clustering.
	Center image.Point `json:"center"`

	// Area is the component's ink pixel count.
	Area int `json:"area"`
}

// ExtractCandidates finds all connected ink components in a binary mask and
// keeps the bubble-shaped ones: area strictly inside (minArea, maxArea) and
// bounding-box aspect ratio within the accepted band.
//
// Components are found with an iterative 8-connected flood fill. Output
// order follows the scan order of the mask but is not part of the contract;
// grouping must not rely on it.
func ExtractCandidates(mask [][]bool, minArea, maxArea int) []Candidate {
	height := len(mask)
	if height == 0 {
		return nil
	}
	width := len(mask[0])

	visited := make([][]bool, height)
	for y := range visited {
		visited[y] = make([]bool, width)
	}

	var candidates []Candidate
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !mask[y][x] || visited[y][x] {
				continue
			}

			area, bounds := collectComponent(mask, visited, x, y, width, height)
			if area <= minArea || area >= maxArea {
				continue
			}

			bw := bounds.Dx()
			bh := bounds.Dy()
			aspect := float64(bw) / float64(bh)
			if aspect < minAspect || aspect > maxAspect {
				continue
			}

			candidates = append(candidates, Candidate{
				Bounds: bounds,
				Center: image.Pt(bounds.Min.X+bw/2, bounds.Min.Y+bh/2),
				Area:   area,
			})
		}
	}
	return candidates
}

// collectComponent flood-fills one connected component starting at
// (startX, startY), marking visited pixels. Uses a stack, not recursion, to
// survive large components. Returns the pixel count and the bounding box
// (exclusive max edges).
func collectComponent(mask, visited [][]bool, startX, startY, width, height int) (int, image.Rectangle) {
	stack := []image.Point{{X: startX, Y: startY}}
	area := 0
	minX, minY := startX, startY
	maxX, maxY := startX, startY

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
			continue
		}
		if visited[p.Y][p.X] || !mask[p.Y][p.X] {
			continue
		}

		visited[p.Y][p.X] = true
		area++
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}

		// 8-connected neighbors
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				stack = append(stack, image.Pt(p.X+dx, p.Y+dy))
			}
		}
	}

	return area, image.Rect(minX, minY, maxX+1, maxY+1)
}

// MergeCandidates unions candidate sets from the two binarization
// strategies, deduplicating bubbles both strategies found. Two candidates
// whose centers are closer than half their mean bounding-box width are the
// same bubble; the larger-area one is kept.
//
// This union is the robustness mechanism against partial thresholding
// failure: a bubble lost by one mask survives via the other.
func MergeCandidates(primary, secondary []Candidate) []Candidate {
	merged := make([]Candidate, len(primary))
	copy(merged, primary)

	for _, c := range secondary {
		dup := -1
		for i, m := range merged {
			limit := float64(m.Bounds.Dx()+c.Bounds.Dx()) / 4
			if centerDistance(c.Center, m.Center) < limit {
				dup = i
				break
			}
		}
		if dup < 0 {
			merged = append(merged, c)
		} else if c.Area > merged[dup].Area {
			merged[dup] = c
		}
	}
	return merged
}

// centerDistance returns the Euclidean distance between two points.
func centerDistance(a, b image.Point) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}
