// Package imaging provides the pixel-level front end of the OMR scanner:
// image loading, binarization, and debug overlay rendering.
//
// All operations work with standard Go image.Image types and use a coordinate
// system where (0,0) is at the top-left corner, X increases rightward, and Y
// increases downward.
//
// # Binarization
//
// Scanned answer sheets arrive with uneven illumination, so Binarize produces
// two independent ink masks rather than one:
//
//   - Global: Otsu's histogram threshold after a Gaussian pre-blur. Works well
//     on evenly lit scans and is the canonical source for ink-fill sampling.
//   - Adaptive: a local-mean threshold that follows illumination gradients.
//     Recovers faint bubble outlines the global threshold loses.
//
// Downstream bubble extraction runs on both masks and merges the results, so
// a partial failure of either strategy degrades accuracy instead of losing
// whole questions.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Binarize and the overlay
// functions are pure transformations of their inputs and can be called
// concurrently on different images.
package imaging
