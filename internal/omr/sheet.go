package omr

import (
	"context"
	"fmt"
	"image"

	"github.com/bavi404/omr-scanner-yolov8/internal/imaging"
)

// RegionLabel classifies a region found on a full sheet by the external
// object detector.
type RegionLabel string

const (
	RegionName       RegionLabel = "name"
	RegionRollNumber RegionLabel = "r_number"
	RegionVersion    RegionLabel = "v_number"
	RegionMCQ        RegionLabel = "mcqs"

	// RegionMCQArea is an alternative, usually larger, crop of the answer
	// block. Preferred over RegionMCQ when both are present.
	RegionMCQArea RegionLabel = "m_area"
)

// DetectedRegion is one labeled bounding box on the full sheet, as reported
// by the external detector. The box uses the sheet image's coordinates.
type DetectedRegion struct {
	Label      RegionLabel
	Box        image.Rectangle
	Confidence float64
}

// RegionDetector locates the coarse regions of a sheet (name field, roll
// number grid, answer block). Implementations wrap an external model and are
// the only part of sheet processing expected to block; they receive a
// context for cancellation.
type RegionDetector interface {
	DetectRegions(ctx context.Context, img image.Image) ([]DetectedRegion, error)
}

// TextReader recognizes printed or handwritten text in a cropped region.
// Implementations wrap an external recognizer; a nil TextReader simply
// leaves the text fields of SheetResult empty.
type TextReader interface {
	ReadText(ctx context.Context, img image.Image) (string, error)
}

// SheetResult is the assembled output for one full answer sheet.
type SheetResult struct {
	Name         string               `json:"name"`
	RollNumber   string               `json:"roll_number"`
	Version      string               `json:"version"`
	Answers      []DecodedAnswer      `json:"answers"`
	AnswerString string               `json:"answer_string"`
	Mismatches   []StructuralMismatch `json:"mismatches,omitempty"`
}

// SheetProcessor assembles a SheetResult from a full sheet image, driving
// the external detector and recognizer and the in-process decoding core.
// Safe for concurrent use as long as its collaborators are.
type SheetProcessor struct {
	detector RegionDetector
	reader   TextReader
	cfg      Config
}

// NewSheetProcessor builds a processor around the given collaborators.
// detector must be non-nil; reader may be nil to skip text fields.
func NewSheetProcessor(detector RegionDetector, reader TextReader, cfg Config) *SheetProcessor {
	return &SheetProcessor{detector: detector, reader: reader, cfg: cfg}
}

// Process scores one sheet: detect regions, read the name and version
// fields, decode the roll-number grid (falling back to text recognition when
// no bubbles are confidently filled), and decode the answer block.
//
// Missing regions leave their fields empty rather than failing the sheet; a
// sheet is only an error when detection itself fails, a crop is invalid, or
// the answer region is degenerate.
func (p *SheetProcessor) Process(ctx context.Context, img image.Image) (*SheetResult, error) {
	if err := p.cfg.Validate(); err != nil {
		return nil, err
	}

	detected, err := p.detector.DetectRegions(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("detect regions: %w", err)
	}

	// Keep the highest-confidence box per label.
	regions := make(map[RegionLabel]DetectedRegion)
	for _, r := range detected {
		if best, ok := regions[r.Label]; !ok || r.Confidence > best.Confidence {
			regions[r.Label] = r
		}
	}

	result := &SheetResult{}

	if r, ok := regions[RegionName]; ok {
		result.Name, err = p.readRegionText(ctx, img, r.Box)
		if err != nil {
			return nil, fmt.Errorf("read name region: %w", err)
		}
	}
	if r, ok := regions[RegionVersion]; ok {
		result.Version, err = p.readRegionText(ctx, img, r.Box)
		if err != nil {
			return nil, fmt.Errorf("read version region: %w", err)
		}
	}

	if r, ok := regions[RegionRollNumber]; ok {
		crop, err := imaging.CropRegion(img, r.Box)
		if err != nil {
			return nil, fmt.Errorf("crop roll region %v: %w", r.Box, err)
		}
		roll, err := DecodeRollNumber(crop, p.cfg)
		if err != nil {
			return nil, fmt.Errorf("decode roll number: %w", err)
		}
		if roll == "" && p.reader != nil {
			roll, err = p.reader.ReadText(ctx, crop)
			if err != nil {
				return nil, fmt.Errorf("read roll region: %w", err)
			}
		}
		result.RollNumber = roll
	}

	mcq, ok := regions[RegionMCQArea]
	if !ok {
		mcq, ok = regions[RegionMCQ]
	}
	if ok {
		decoded, err := DecodeSubRegion(img, mcq.Box, p.cfg)
		if err != nil {
			return nil, fmt.Errorf("decode answer region: %w", err)
		}
		result.Answers = decoded.Answers
		result.AnswerString = decoded.AnswerString
		result.Mismatches = decoded.Mismatches
	}

	return result, nil
}

func (p *SheetProcessor) readRegionText(ctx context.Context, img image.Image, box image.Rectangle) (string, error) {
	if p.reader == nil {
		return "", nil
	}
	crop, err := imaging.CropRegion(img, box)
	if err != nil {
		return "", err
	}
	return p.reader.ReadText(ctx, crop)
}
