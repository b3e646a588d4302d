package omr

import (
	"errors"
	"fmt"
)

// ErrInvalidRegion is returned when a region has zero width or height.
// It is fatal for that region only; there is nothing to retry.
var ErrInvalidRegion = errors.New("invalid region: zero width or height")

// StructuralMismatch reports a question whose row held a different number of
// bubbles than the configured option count, usually a bubble missed or
// invented by extraction. The question still decodes (missing options count
// as unfilled); the mismatch is surfaced as a warning, not an error.
type StructuralMismatch struct {
	Question int `json:"question"`
	Bubbles  int `json:"bubbles"`
	Expected int `json:"expected"`
}

func (m StructuralMismatch) String() string {
	return fmt.Sprintf("question %d: found %d bubbles, expected %d", m.Question, m.Bubbles, m.Expected)
}
