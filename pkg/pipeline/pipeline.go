// Package pipeline runs the compose → raster → export pipeline that every
// front-end shares.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Compose: validate the configuration and build the scene of blobs
//  2. Raster: paint the scene at the export dpi (only when a raster format
//     is requested)
//  3. Export: encode the requested formats (PNG, SVG, PDF, JSON)
//
// Encoded artifacts are cached by the hash of the configuration, so a
// repeated request for the same poster skips stages 2 and 3. Composing is
// always redone: it is cheap and keeps the scene available to callers.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Config:  poster.Default(),
//	    Formats: []string{pipeline.FormatPNG},
//	})
//	png := result.Artifacts[pipeline.FormatPNG]
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/genposter/pkg/cache"
	"github.com/matzehuels/genposter/pkg/errors"
	"github.com/matzehuels/genposter/pkg/poster"
)

// Format constants for output formats.
const (
	FormatPNG  = "png"
	FormatSVG  = "svg"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// DefaultFormat is rendered when no format is requested.
const DefaultFormat = FormatPNG

// Formats lists the supported output formats in display order.
var Formats = []string{FormatPNG, FormatSVG, FormatPDF, FormatJSON}

var contentTypes = map[string]string{
	FormatPNG:  "image/png",
	FormatSVG:  "image/svg+xml",
	FormatPDF:  "application/pdf",
	FormatJSON: "application/json",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	Config  poster.Config `json:"config"`
	Formats []string      `json:"formats,omitempty"`

	// Refresh bypasses cached artifacts and overwrites them.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Scene is the composed poster.
	Scene *poster.Scene

	// ConfigHash identifies the configuration; equal hashes mean equal bytes.
	ConfigHash string

	// Width and Height are the raster size in device pixels.
	Width, Height int

	// Artifacts contains encoded outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	BlobCount   int
	ComposeTime time.Duration
	RasterTime  time.Duration
	ExportTime  time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	ArtifactHit bool // every requested format came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if _, ok := contentTypes[format]; !ok {
		return errors.Invalid("invalid format: %q (must be one of: %s)", format, strings.Join(Formats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated list such as "png,pdf",
// dropping blanks and duplicates. A list with no format in it is rejected.
func ParseFormats(s string) ([]string, error) {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || slices.Contains(out, f) {
			continue
		}
		if err := ValidateFormat(f); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if len(out) == 0 {
		return nil, errors.Invalid("no output format given (must be one of: %s)", strings.Join(Formats, ", "))
	}
	return out, nil
}

// ContentType returns the MIME type of format.
func ContentType(format string) string {
	if ct, ok := contentTypes[format]; ok {
		return ct
	}
	return "application/octet-stream"
}

// FileName returns the timestamped download name, e.g.
// poster_20240131_154500.png.
func FileName(format string, t time.Time) string {
	return fmt.Sprintf("poster_%s.%s", t.Format("20060102_150405"), format)
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults applies defaults and checks the options.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.Config = o.Config.WithDefaults()
	if err := o.Config.Validate(); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// NeedsRaster reports whether any requested format is drawn from pixels.
func (o *Options) NeedsRaster() bool {
	return slices.Contains(o.Formats, FormatPNG)
}

// ArtifactKeyOpts returns cache key options for one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format}
	if format == FormatPNG {
		opts.DPI = o.Config.DPI
	}
	return opts
}
