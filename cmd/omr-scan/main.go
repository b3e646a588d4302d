package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/bavi404/omr-scanner-yolov8/internal/imaging"
	"github.com/bavi404/omr-scanner-yolov8/internal/omr"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version information")
	configPath := flag.String("config", "", "path to a YAML calibration file (defaults apply when omitted)")
	regionSpec := flag.String("region", "", "answer-grid bounding box as x1,y1,x2,y2 (whole image when omitted)")
	overlayPath := flag.String("overlay", "", "write an annotated debug image to this path")
	flag.Usage = usage
	flag.Parse()

	if *showVersion {
		fmt.Printf("omr-scan %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	}

	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}
	imagePath := flag.Arg(0)

	cfg := omr.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = omr.LoadConfigFile(*configPath)
		if err != nil {
			if errors.Is(err, omr.ErrConfigNotFound) {
				log.Fatalf("config file %s does not exist", *configPath)
			}
			log.Fatalf("load config: %v", err)
		}
	}

	cache := imaging.NewImageCache()
	img, err := cache.Load(imagePath)
	if err != nil {
		log.Fatalf("load image: %v", err)
	}

	target := img
	if *regionSpec != "" {
		box, err := parseRegion(*regionSpec)
		if err != nil {
			log.Fatalf("parse -region: %v", err)
		}
		target, err = imaging.CropRegion(img, box)
		if err != nil {
			log.Fatalf("crop region: %v", err)
		}
	}

	result, err := omr.DecodeRegion(target, cfg)
	if err != nil {
		log.Fatalf("decode: %v", err)
	}

	if *overlayPath != "" {
		boxes := make([]image.Rectangle, len(result.Bubbles))
		ratios := make([]float64, len(result.Bubbles))
		for i, b := range result.Bubbles {
			boxes[i] = b.Bounds
			ratios[i] = b.Ratio
		}
		annotated := imaging.RenderOverlay(target, boxes, ratios)
		if err := imaging.SavePNG(annotated, *overlayPath); err != nil {
			log.Fatalf("save overlay: %v", err)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		log.Fatalf("encode result: %v", err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "omr-scan - decode answer bubbles from a scanned MCQ sheet region")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Usage: omr-scan [options] <image>")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Options:")
	flag.PrintDefaults()
}

// parseRegion parses "x1,y1,x2,y2" into a rectangle.
func parseRegion(spec string) (image.Rectangle, error) {
	parts := strings.Split(spec, ",")
	if len(parts) != 4 {
		return image.Rectangle{}, fmt.Errorf("want x1,y1,x2,y2, got %q", spec)
	}
	vals := make([]int, 4)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return image.Rectangle{}, fmt.Errorf("coordinate %q: %w", p, err)
		}
		vals[i] = v
	}
	return image.Rect(vals[0], vals[1], vals[2], vals[3]), nil
}
