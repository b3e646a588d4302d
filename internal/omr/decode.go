package omr

import "strings"

// Decode states for questions that do not resolve to a single letter.
const (
	// SelectionBlank means no option reached the fill threshold.
	SelectionBlank = "blank"

	// SelectionMulti means several options reached the threshold and the
	// ambiguous policy is reject.
	SelectionMulti = "multi"
)

// Answer-string characters for the non-letter decode states.
const (
	blankChar = "-"
	multiChar = "*"
)

// DecodedAnswer is the terminal artifact for one question: the question
// number, the decoded selection (an option letter, SelectionBlank, or
// SelectionMulti), and the measured fill ratios that produced it.
type DecodedAnswer struct {
	Question  int       `json:"question"`
	Selection string    `json:"selection"`
	Ratios    []float64 `json:"ratios,omitempty"`
}

// BubbleFill pairs a candidate with its measured fill ratio, for debug
// overlays and calibration.
type BubbleFill struct {
	Candidate
	Ratio float64
}

// RegionResult is the decoded output for one region. Answers always has
// exactly one entry per slot found by grouping; questions with structurally
// missing bubbles decode rather than disappear, so numbering never shifts.
type RegionResult struct {
	Answers []DecodedAnswer `json:"answers"`

	// AnswerString is the concatenated answers in question order: the option
	// letter, "-" for blank, "*" for multi. Its length always equals the
	// question count.
	AnswerString string `json:"answer_string"`

	// Mismatches lists per-question structural warnings from grouping.
	Mismatches []StructuralMismatch `json:"mismatches,omitempty"`

	// Bubbles lists every accepted candidate with its fill ratio, in no
	// particular order. Consumed by debug overlays, not serialized.
	Bubbles []BubbleFill `json:"-"`
}

// OptionLetter returns the letter for a 0-based option index ("A" for 0).
func OptionLetter(index int) string {
	return string(rune('A' + index))
}

// DecodeGrid applies the fill threshold and tie-break policy to every slot.
//
// An option is marked when its ratio is at or above cfg.FillThreshold.
// Exactly one marked option decodes to its letter; none decodes to blank;
// several decode to multi, unless cfg.Ambiguous is pick-highest, in which
// case the highest ratio wins. ratios must be parallel to grid.Slots, as
// produced by GridFillRatios.
func DecodeGrid(grid Grid, ratios [][]float64, cfg Config) *RegionResult {
	result := &RegionResult{
		Answers:    make([]DecodedAnswer, 0, len(grid.Slots)),
		Mismatches: grid.Mismatches,
	}

	var sb strings.Builder
	for i, slot := range grid.Slots {
		rs := ratios[i]

		var marked []int
		for j, opt := range slot.Options {
			if opt != nil && rs[j] >= cfg.FillThreshold {
				marked = append(marked, j)
			}
			if opt != nil {
				result.Bubbles = append(result.Bubbles, BubbleFill{Candidate: *opt, Ratio: rs[j]})
			}
		}

		selection := SelectionBlank
		char := blankChar
		switch {
		case len(marked) == 1:
			selection = OptionLetter(marked[0])
			char = selection
		case len(marked) > 1:
			if cfg.Ambiguous == AmbiguousPickHighest {
				best := marked[0]
				for _, j := range marked[1:] {
					if rs[j] > rs[best] {
						best = j
					}
				}
				selection = OptionLetter(best)
				char = selection
			} else {
				selection = SelectionMulti
				char = multiChar
			}
		}

		result.Answers = append(result.Answers, DecodedAnswer{
			Question:  slot.Question,
			Selection: selection,
			Ratios:    rs,
		})
		sb.WriteString(char)
	}

	result.AnswerString = sb.String()
	return result
}
