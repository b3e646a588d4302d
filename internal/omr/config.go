package omr

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// NumberingOrder selects how question numbers are assigned across a
// multi-column sheet.
type NumberingOrder string

const (
	// ColumnMajor numbers the first column top to bottom, then the next
	// column, and so on. This is the common layout for printed MCQ sheets.
	ColumnMajor NumberingOrder = "column-major"

	// RowMajor numbers left to right across all columns, then the next row.
	RowMajor NumberingOrder = "row-major"
)

// AmbiguousPolicy selects how a question with more than one filled bubble is
// decoded.
type AmbiguousPolicy string

const (
	// AmbiguousReject decodes multi-marked questions as "multi". This is the
	// default: guessing on a multi-mark is a scoring-policy decision, not a
	// vision one.
	AmbiguousReject AmbiguousPolicy = "reject"

	// AmbiguousPickHighest decodes multi-marked questions as the option with
	// the highest fill ratio.
	AmbiguousPickHighest AmbiguousPolicy = "pick-highest"
)

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// Config holds every tunable of the decoding pipeline. A Config is passed
// explicitly into each call rather than held as process-wide state, so
// concurrent batches of sheets with different calibrations are safe.
//
// Sheet geometry varies by printer and scanner; the thresholds here are
// starting points, not universal constants.
type Config struct {
	// MinArea and MaxArea bound the pixel area of a bubble candidate.
	// Components outside (MinArea, MaxArea) are rejected as noise, glyphs,
	// or ruling lines.
	MinArea int `yaml:"min_area"`
	MaxArea int `yaml:"max_area"`

	// VerticalThreshold is the maximum distance (px) between a bubble's
	// center and a row's running mean y for the bubble to join the row.
	VerticalThreshold int `yaml:"vertical_threshold"`

	// HorizontalThreshold is the minimum center-to-center gap (px) between
	// horizontally adjacent bubbles that starts a new question column.
	HorizontalThreshold int `yaml:"horizontal_threshold"`

	// FillThreshold is the ink-fill ratio (0-1) at or above which a bubble
	// counts as marked.
	FillThreshold float64 `yaml:"fill_threshold"`

	// OptionCount is the number of options per question (4 for A-D,
	// 5 for A-E, ...).
	OptionCount int `yaml:"option_count"`

	// Numbering selects question-number assignment order across columns.
	Numbering NumberingOrder `yaml:"numbering_order"`

	// Ambiguous selects how multi-marked questions are decoded.
	Ambiguous AmbiguousPolicy `yaml:"ambiguous_policy"`

	// Roll-number grids use smaller bubbles and a stricter fill bar than the
	// MCQ block.
	RollMinArea       int     `yaml:"roll_min_area"`
	RollMaxArea       int     `yaml:"roll_max_area"`
	RollFillThreshold float64 `yaml:"roll_fill_threshold"`
}

// DefaultConfig returns the calibration used for the reference sheet layout.
func DefaultConfig() Config {
	return Config{
		MinArea:             20,
		MaxArea:             1000,
		VerticalThreshold:   8,
		HorizontalThreshold: 30,
		FillThreshold:       0.25,
		OptionCount:         5,
		Numbering:           ColumnMajor,
		Ambiguous:           AmbiguousReject,
		RollMinArea:         30,
		RollMaxArea:         400,
		RollFillThreshold:   0.3,
	}
}

// Validate reports the first invalid field, if any.
func (c Config) Validate() error {
	if c.MinArea < 0 {
		return fmt.Errorf("min_area must be >= 0, got %d", c.MinArea)
	}
	if c.MaxArea <= c.MinArea {
		return fmt.Errorf("max_area (%d) must be greater than min_area (%d)", c.MaxArea, c.MinArea)
	}
	if c.VerticalThreshold <= 0 {
		return fmt.Errorf("vertical_threshold must be positive, got %d", c.VerticalThreshold)
	}
	if c.HorizontalThreshold <= 0 {
		return fmt.Errorf("horizontal_threshold must be positive, got %d", c.HorizontalThreshold)
	}
	if c.FillThreshold <= 0 || c.FillThreshold > 1 {
		return fmt.Errorf("fill_threshold must be in (0, 1], got %g", c.FillThreshold)
	}
	if c.OptionCount < 2 || c.OptionCount > 26 {
		return fmt.Errorf("option_count must be in [2, 26], got %d", c.OptionCount)
	}
	switch c.Numbering {
	case ColumnMajor, RowMajor:
	default:
		return fmt.Errorf("unknown numbering_order %q", c.Numbering)
	}
	switch c.Ambiguous {
	case AmbiguousReject, AmbiguousPickHighest:
	default:
		return fmt.Errorf("unknown ambiguous_policy %q", c.Ambiguous)
	}
	if c.RollMinArea < 0 || c.RollMaxArea <= c.RollMinArea {
		return fmt.Errorf("roll area bounds (%d, %d) invalid", c.RollMinArea, c.RollMaxArea)
	}
	if c.RollFillThreshold <= 0 || c.RollFillThreshold > 1 {
		return fmt.Errorf("roll_fill_threshold must be in (0, 1], got %g", c.RollFillThreshold)
	}
	return nil
}

// LoadConfigFile reads a YAML calibration file, overlaying it on the
// defaults so partial files are valid. If the file does not exist, it
// returns ErrConfigNotFound; callers decide whether that is fatal based on
// whether the path was explicitly user-specified.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, ErrConfigNotFound
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}
