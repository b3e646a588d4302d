package omr

import (
	"math"
	"sort"
)

// Row is an ordered run of candidates sharing an inferred vertical position.
// Bubbles are ordered left to right; every member's center y lies within the
// vertical threshold of MeanY at the moment it joined.
type Row struct {
	MeanY   float64
	Bubbles []Candidate
}

// Slot is the resolved mapping of one question to its option bubbles.
// Options has exactly the configured option count entries, left to right;
// a nil entry is an option whose bubble extraction missed.
type Slot struct {
	Question int
	Options  []*Candidate
}

// Grid is the fully ordered result of spatial grouping: one slot per
// question, in question order, plus the structural warnings grouping raised.
type Grid struct {
	Slots      []Slot
	Mismatches []StructuralMismatch

	// Columns and Rows describe the recovered layout, for diagnostics.
	Columns int
	Rows    int
}

// GroupRows clusters candidates into rows with a single top-to-bottom sweep:
// candidates sorted by center y join the current row while their center y
// stays within verticalThreshold of the row's running mean; otherwise they
// start a new row. O(n log n), dominated by the sort.
//
// The running mean, rather than the previous bubble's y, keeps a long
// slightly-skewed row from drifting away from its own first members.
func GroupRows(candidates []Candidate, verticalThreshold int) []Row {
	if len(candidates) == 0 {
		return nil
	}

	sorted := make([]Candidate, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Center.Y != sorted[j].Center.Y {
			return sorted[i].Center.Y < sorted[j].Center.Y
		}
		return sorted[i].Center.X < sorted[j].Center.X
	})

	rows := []Row{{MeanY: float64(sorted[0].Center.Y), Bubbles: []Candidate{sorted[0]}}}
	for _, c := range sorted[1:] {
		cur := &rows[len(rows)-1]
		if math.Abs(float64(c.Center.Y)-cur.MeanY) <= float64(verticalThreshold) {
			cur.Bubbles = append(cur.Bubbles, c)
			cur.MeanY += (float64(c.Center.Y) - cur.MeanY) / float64(len(cur.Bubbles))
		} else {
			rows = append(rows, Row{MeanY: float64(c.Center.Y), Bubbles: []Candidate{c}})
		}
	}

	for i := range rows {
		bubbles := rows[i].Bubbles
		sort.Slice(bubbles, func(a, b int) bool {
			return bubbles[a].Center.X < bubbles[b].Center.X
		})
	}
	return rows
}

// columnCuts finds the x positions that split the region into question
// columns. All candidate centers are scanned globally (not per row) in x
// order; a center-to-center gap exceeding horizontalThreshold marks a split,
// placed at the gap's midpoint. Returns the cut positions in ascending
// order; len(cuts)+1 is the column count.
func columnCuts(candidates []Candidate, horizontalThreshold int) []int {
	if len(candidates) == 0 {
		return nil
	}

	xs := make([]int, len(candidates))
	for i, c := range candidates {
		xs[i] = c.Center.X
	}
	sort.Ints(xs)

	var cuts []int
	for i := 1; i < len(xs); i++ {
		if xs[i]-xs[i-1] > horizontalThreshold {
			cuts = append(cuts, (xs[i]+xs[i-1])/2)
		}
	}
	return cuts
}

// columnIndex returns which column band an x position falls into.
func columnIndex(cuts []int, x int) int {
	idx := 0
	for _, cut := range cuts {
		if x > cut {
			idx++
		}
	}
	return idx
}

// BuildGrid turns an unordered candidate set into an ordered grid of
// question slots.
//
// Rows come from GroupRows, column bands from a global gap scan. Within each
// (column, row) cell, bubbles are chunked left to right into groups of
// cfg.OptionCount; a trailing group with fewer bubbles keeps its slot with
// the missing options nil and raises a StructuralMismatch, so a detection
// error upstream stays visible instead of being silently dropped.
//
// Question numbers follow cfg.Numbering: column-major walks each column top
// to bottom before moving right; row-major walks each row across all
// columns before moving down. A region with zero candidates yields an empty
// grid, not an error.
func BuildGrid(candidates []Candidate, cfg Config) Grid {
	rows := GroupRows(candidates, cfg.VerticalThreshold)
	if len(rows) == 0 {
		return Grid{}
	}

	cuts := columnCuts(candidates, cfg.HorizontalThreshold)
	columns := len(cuts) + 1

	// cells[col][row] holds that cell's question groups, left to right.
	cells := make([][][][]Candidate, columns)
	for c := range cells {
		cells[c] = make([][][]Candidate, len(rows))
	}

	for ri, row := range rows {
		for ci := 0; ci < columns; ci++ {
			var cell []Candidate
			for _, b := range row.Bubbles {
				if columnIndex(cuts, b.Center.X) == ci {
					cell = append(cell, b)
				}
			}
			for start := 0; start < len(cell); start += cfg.OptionCount {
				end := start + cfg.OptionCount
				if end > len(cell) {
					end = len(cell)
				}
				cells[ci][ri] = append(cells[ci][ri], cell[start:end])
			}
		}
	}

	grid := Grid{Columns: columns, Rows: len(rows)}
	emit := func(group []Candidate) {
		question := len(grid.Slots) + 1
		options := make([]*Candidate, cfg.OptionCount)
		for i := range group {
			b := group[i]
			options[i] = &b
		}
		grid.Slots = append(grid.Slots, Slot{Question: question, Options: options})
		if len(group) != cfg.OptionCount {
			grid.Mismatches = append(grid.Mismatches, StructuralMismatch{
				Question: question,
				Bubbles:  len(group),
				Expected: cfg.OptionCount,
			})
		}
	}

	if cfg.Numbering == RowMajor {
		for ri := range rows {
			for ci := 0; ci < columns; ci++ {
				for _, group := range cells[ci][ri] {
					emit(group)
				}
			}
		}
	} else {
		for ci := 0; ci < columns; ci++ {
			for ri := range rows {
				for _, group := range cells[ci][ri] {
					emit(group)
				}
			}
		}
	}
	return grid
}
