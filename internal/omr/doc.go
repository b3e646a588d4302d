// Package omr implements the bubble-grid extraction and answer-decoding core
// of the OMR sheet scanner.
//
// Given a cropped image region believed to contain an MCQ answer grid
// (possibly spanning several side-by-side question columns), the package
// recovers a deduplicated set of candidate bubbles, clusters them into rows
// and columns despite scan skew and noise, measures each bubble's ink fill,
// and emits one decoded answer per question.
//
// # Pipeline
//
// DecodeRegion runs five stages, strictly top to bottom, with no feedback:
//
//  1. Binarization (internal/imaging): two independent ink masks, global
//     Otsu and locally adaptive, so uneven scan lighting cannot take out a
//     whole region.
//  2. Candidate extraction: connected ink components, filtered by area and
//     aspect ratio to keep bubble-shaped blobs and reject stray ink, printed
//     glyphs and ruling lines. Extraction runs on both masks; the results
//     are unioned with centroid-distance deduplication.
//  3. Spatial grouping: a greedy single-pass sweep clusters candidates into
//     rows by vertical proximity, splits the region into question columns at
//     large horizontal gaps, and chunks each row into option groups.
//  4. Fill analysis: a normalized ink-fill ratio per bubble, always sampled
//     from the canonical (global) mask regardless of which mask found the
//     bubble.
//  5. Decoding: a fill threshold plus a tie-break policy turn ratios into
//     one answer per question: a letter, "blank", or "multi".
//
// # Determinism and Concurrency
//
// Every stage is a pure function of its input and the per-call Config. There
// is no package-level tuning state, no hidden randomness, and no shared
// mutable data across calls, so concurrent batch scoring with different
// calibrations is safe and results are reproducible.
//
// # Error Handling
//
// Only a degenerate region (zero width or height) fails a call, with
// ErrInvalidRegion. A question row with an unexpected bubble count is
// recovered locally: the question keeps its slot, missing options decode as
// unfilled, and a StructuralMismatch warning is attached to the result. One
// damaged question never invalidates the rest of the sheet.
//
// # Limitations
//
// The grouping is a greedy heuristic, not an optimal clustering; it tolerates
// a bounded amount of skew (bubble centers drifting within the configured
// vertical threshold) but does not rectify rotated or perspective-distorted
// scans. Locating the answer-grid region within a full page and reading any
// printed or handwritten text are the job of external collaborators (see
// RegionDetector and TextReader).
package omr
