package poster

import (
	"math/rand/v2"

	"github.com/matzehuels/genposter/pkg/errors"
	"github.com/matzehuels/genposter/pkg/poster/blob"
	"github.com/matzehuels/genposter/pkg/poster/geom"
	"github.com/matzehuels/genposter/pkg/poster/layer"
	"github.com/matzehuels/genposter/pkg/poster/palette"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, Studio and Server
// =============================================================================

const (
	// DefaultLayers is the number of layers drawn when none is configured.
	DefaultLayers = 8

	// DefaultBlobsPerLayer is the requested blob count per layer.
	DefaultBlobsPerLayer = 4

	// DefaultWidth and DefaultHeight give a 7x10 inch portrait poster at the
	// 100 dpi logical resolution.
	DefaultWidth  = 700
	DefaultHeight = 1000

	// DefaultSeed is the seed used when none is given.
	DefaultSeed = int64(42)

	// BaseDPI is the resolution of one logical pixel.
	BaseDPI = 100.0

	// DefaultDPI is the export resolution.
	DefaultDPI = 300.0

	// MaxDPI bounds the export resolution.
	MaxDPI = 1200.0

	// MaxLogicalSide bounds either canvas dimension in logical pixels.
	MaxLogicalSide = 10000

	// Upper bounds on the counts that size a render.
	MaxLayers        = 50
	MaxBlobsPerLayer = 100
	MaxBlobs         = 2000 // layers * blobs per layer
	MaxPaletteSize   = palette.MaxSize
	MaxPoints        = 2048

	// DefaultTitle is the overlay heading when titles are enabled.
	DefaultTitle = "Generative Poster"
)

// streamKey is XORed into the seed for the second PCG word.
const streamKey = 0xdeadbeef

// Config is an immutable snapshot of the user inputs for one render.
// Front-ends build a new Config per render; nothing mutates it afterwards.
type Config struct {
	Palette       palette.Mode  `json:"palette" toml:"palette"`
	Preset        layer.Preset  `json:"preset" toml:"preset"`
	Layers        int           `json:"layers" toml:"layers"`
	BlobsPerLayer int           `json:"blobs_per_layer" toml:"blobs_per_layer"`
	Wobble        geom.Range    `json:"wobble" toml:"wobble"`
	Radius        geom.Range    `json:"radius" toml:"radius"`
	Alpha         geom.Range    `json:"alpha" toml:"alpha"`
	Seed          int64         `json:"seed" toml:"seed"`
	Size          geom.Size     `json:"size" toml:"size"`
	Background    palette.Color `json:"background" toml:"background"`
	PaletteSize   int           `json:"palette_size" toml:"palette_size"`
	Points        int           `json:"points" toml:"points"`
	DPI           float64       `json:"dpi" toml:"dpi"`
	Title         string        `json:"title,omitempty" toml:"title,omitempty"`
	Subtitle      string        `json:"subtitle,omitempty" toml:"subtitle,omitempty"`
}

// Default returns the configuration the front-ends start from.
func Default() Config {
	return Config{
		Palette:       palette.Pastel,
		Preset:        layer.Custom,
		Layers:        DefaultLayers,
		BlobsPerLayer: DefaultBlobsPerLayer,
		Wobble:        geom.Range{Min: 0.05, Max: 0.25},
		Radius:        geom.Range{Min: 14, Max: 70},
		Alpha:         geom.Range{Min: 0.25, Max: 0.6},
		Seed:          DefaultSeed,
		Size:          geom.Size{Width: DefaultWidth, Height: DefaultHeight},
		Background:    palette.OffWhite,
		PaletteSize:   palette.DefaultSize,
		Points:        blob.DefaultPoints,
		DPI:           DefaultDPI,
	}
}

// WithDefaults fills zero-valued optional fields from Default.
// Ranges, counts and sizes that were explicitly set are left alone so that
// Validate can reject them.
func (c Config) WithDefaults() Config {
	d := Default()
	if c.Palette == "" {
		c.Palette = d.Palette
	}
	if c.Preset == "" {
		c.Preset = d.Preset
	}
	if c.BlobsPerLayer == 0 {
		c.BlobsPerLayer = d.BlobsPerLayer
	}
	if c.Alpha == (geom.Range{}) {
		c.Alpha = d.Alpha
	}
	if c.PaletteSize == 0 {
		c.PaletteSize = d.PaletteSize
	}
	if c.Points == 0 {
		c.Points = d.Points
	}
	if c.DPI == 0 {
		c.DPI = d.DPI
	}
	return c
}

// Validate checks the configuration. Every range, count and size problem is
// reported as INVALID_CONFIGURATION before any drawing happens.
func (c Config) Validate() error {
	if _, err := palette.ParseMode(string(c.Palette)); err != nil {
		return err
	}
	if _, err := layer.ParsePreset(string(c.Preset)); err != nil {
		return err
	}
	if err := errors.ValidatePositive("layers", c.Layers); err != nil {
		return err
	}
	if err := errors.ValidatePositive("blobs per layer", c.BlobsPerLayer); err != nil {
		return err
	}
	if err := errors.ValidatePositive("palette size", c.PaletteSize); err != nil {
		return err
	}
	if c.Points < blob.MinPoints {
		return errors.Invalid("outline points must be at least %d, got %d", blob.MinPoints, c.Points)
	}
	if err := validateMax("layers", c.Layers, MaxLayers); err != nil {
		return err
	}
	if err := validateMax("blobs per layer", c.BlobsPerLayer, MaxBlobsPerLayer); err != nil {
		return err
	}
	if n := c.Layers * c.BlobsPerLayer; n > MaxBlobs {
		return errors.Invalid("layers x blobs per layer must be at most %d, got %d", MaxBlobs, n)
	}
	if err := validateMax("palette size", c.PaletteSize, MaxPaletteSize); err != nil {
		return err
	}
	if err := validateMax("outline points", c.Points, MaxPoints); err != nil {
		return err
	}
	if err := errors.ValidateRange("radius", c.Radius.Min, c.Radius.Max); err != nil {
		return err
	}
	if c.Radius.Min <= 0 {
		return errors.Invalid("radius range must be positive, got min %g", c.Radius.Min)
	}
	if err := errors.ValidateRange("wobble", c.Wobble.Min, c.Wobble.Max); err != nil {
		return err
	}
	if c.Wobble.Min < 0 {
		return errors.Invalid("wobble range must not be negative, got min %g", c.Wobble.Min)
	}
	if err := errors.ValidateUnit("alpha", c.Alpha.Min, c.Alpha.Max); err != nil {
		return err
	}
	if err := errors.ValidateSize(c.Size.Width, c.Size.Height); err != nil {
		return err
	}
	if c.Size.Width > MaxLogicalSide || c.Size.Height > MaxLogicalSide {
		return errors.Invalid("canvas size %dx%d exceeds %d pixels per side", c.Size.Width, c.Size.Height, MaxLogicalSide)
	}
	if !(c.DPI > 0 && c.DPI <= MaxDPI) {
		return errors.Invalid("dpi must be in (0, %g], got %g", MaxDPI, c.DPI)
	}
	return nil
}

func validateMax(name string, v, hi int) error {
	if v > hi {
		return errors.Invalid("%s must be at most %d, got %d", name, hi, v)
	}
	return nil
}

// Scale returns the device pixels per logical pixel at the configured DPI.
func (c Config) Scale() float64 {
	return c.DPI / BaseDPI
}

// PixelSize returns the exported raster size in device pixels.
func (c Config) PixelSize() (int, int) {
	s := c.Scale()
	return int(float64(c.Size.Width)*s + 0.5), int(float64(c.Size.Height)*s + 0.5)
}

// NewRand returns a fresh random stream for seed. Every render owns its own
// stream; the sequence depends on nothing but the seed.
func NewRand(seed int64) *rand.Rand {
	s := uint64(seed)
	return rand.New(rand.NewPCG(s, s^streamKey))
}
