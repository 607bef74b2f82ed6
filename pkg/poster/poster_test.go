package poster

import (
	"math"
	"reflect"
	"testing"

	"github.com/matzehuels/genposter/pkg/errors"
	"github.com/matzehuels/genposter/pkg/poster/geom"
	"github.com/matzehuels/genposter/pkg/poster/layer"
	"github.com/matzehuels/genposter/pkg/poster/palette"
)

// exampleConfig is the reference scenario: pastel, minimal, three layers.
func exampleConfig(seed int64) Config {
	cfg := Default()
	cfg.Palette = palette.Pastel
	cfg.Preset = layer.Minimal
	cfg.Layers = 3
	cfg.Wobble = geom.Range{Min: 0, Max: 0.1}
	cfg.Radius = geom.Range{Min: 10, Max: 50}
	cfg.Seed = seed
	cfg.Size = geom.Size{Width: 800, Height: 600}
	cfg.Background = palette.White
	return cfg
}

func TestComposeDeterministic(t *testing.T) {
	a, err := Compose(exampleConfig(42))
	if err != nil {
		t.Fatalf("Compose error: %v", err)
	}
	b, err := Compose(exampleConfig(42))
	if err != nil {
		t.Fatalf("Compose error: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("equal configurations should compose equal scenes")
	}
}

func TestComposeSeedSensitivity(t *testing.T) {
	a, _ := Compose(exampleConfig(42))
	b, _ := Compose(exampleConfig(43))
	if reflect.DeepEqual(a.Layers, b.Layers) {
		t.Error("changing only the seed should change the blobs")
	}
}

func TestComposeShape(t *testing.T) {
	s, err := Compose(exampleConfig(42))
	if err != nil {
		t.Fatalf("Compose error: %v", err)
	}
	if len(s.Layers) != 3 {
		t.Fatalf("got %d layers, want 3", len(s.Layers))
	}
	// Minimal halves the default four blobs per layer.
	for i, l := range s.Layers {
		if len(l.Blobs) != 2 {
			t.Errorf("layer %d has %d blobs, want 2", i, len(l.Blobs))
		}
	}
	if s.BlobCount() != 6 {
		t.Errorf("BlobCount() = %d, want 6", s.BlobCount())
	}
	if len(s.Palette) != palette.DefaultSize {
		t.Errorf("palette has %d colors", len(s.Palette))
	}

	// Palette indexes continue across layers.
	idx := 0
	for _, l := range s.Layers {
		for _, b := range l.Blobs {
			if b.Index != idx%len(s.Palette) {
				t.Errorf("blob %d has palette index %d", idx, b.Index)
			}
			idx++
		}
	}
}

func TestComposeFreshStreamPerCall(t *testing.T) {
	// Composing another poster in between must not disturb the next one.
	first, _ := Compose(exampleConfig(42))
	_, _ = Compose(exampleConfig(1000))
	again, _ := Compose(exampleConfig(42))
	if !reflect.DeepEqual(first, again) {
		t.Error("renders must not share random state")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"radius inverted", func(c *Config) { c.Radius = geom.Range{Min: 50, Max: 10} }},
		{"radius zero", func(c *Config) { c.Radius = geom.Range{Min: 0, Max: 10} }},
		{"wobble inverted", func(c *Config) { c.Wobble = geom.Range{Min: 0.3, Max: 0.1} }},
		{"wobble negative", func(c *Config) { c.Wobble = geom.Range{Min: -0.1, Max: 0.1} }},
		{"alpha above one", func(c *Config) { c.Alpha = geom.Range{Min: 0.5, Max: 1.5} }},
		{"zero layers", func(c *Config) { c.Layers = 0 }},
		{"negative blobs", func(c *Config) { c.BlobsPerLayer = -2 }},
		{"zero palette", func(c *Config) { c.PaletteSize = 0 }},
		{"two points", func(c *Config) { c.Points = 2 }},
		{"too many layers", func(c *Config) { c.Layers = MaxLayers + 1 }},
		{"max int layers", func(c *Config) { c.Layers = math.MaxInt }},
		{"too many blobs per layer", func(c *Config) { c.BlobsPerLayer = MaxBlobsPerLayer + 1 }},
		{"too many blobs in total", func(c *Config) { c.Layers, c.BlobsPerLayer = MaxLayers, MaxBlobsPerLayer }},
		{"huge palette", func(c *Config) { c.PaletteSize = math.MaxInt }},
		{"too many points", func(c *Config) { c.Points = MaxPoints + 1 }},
		{"max int points", func(c *Config) { c.Points = math.MaxInt }},
		{"zero width", func(c *Config) { c.Size.Width = 0 }},
		{"negative height", func(c *Config) { c.Size.Height = -5 }},
		{"huge canvas", func(c *Config) { c.Size.Width = MaxLogicalSide + 1 }},
		{"zero dpi", func(c *Config) { c.DPI = 0 }},
		{"huge dpi", func(c *Config) { c.DPI = MaxDPI * 2 }},
		{"unknown palette", func(c *Config) { c.Palette = "sepia" }},
		{"unknown preset", func(c *Config) { c.Preset = "baroque" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := exampleConfig(42)
			tt.mutate(&cfg)

			err := cfg.Validate()
			if !errors.Is(err, errors.ErrCodeInvalidConfiguration) {
				t.Fatalf("Validate() = %v, want INVALID_CONFIGURATION", err)
			}
			if _, err := Compose(cfg); !errors.Is(err, errors.ErrCodeInvalidConfiguration) {
				t.Errorf("Compose() = %v, want INVALID_CONFIGURATION", err)
			}
		})
	}
}

func TestValidateDefault(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default() should validate: %v", err)
	}
	if err := exampleConfig(42).Validate(); err != nil {
		t.Errorf("example config should validate: %v", err)
	}
}

func TestWithDefaults(t *testing.T) {
	cfg := Config{
		Layers: 3,
		Radius: geom.Range{Min: 10, Max: 50},
		Size:   geom.Size{Width: 100, Height: 100},
	}.WithDefaults()

	if cfg.Palette != palette.Pastel || cfg.Preset != layer.Custom {
		t.Errorf("enum defaults not applied: %q %q", cfg.Palette, cfg.Preset)
	}
	if cfg.DPI != DefaultDPI || cfg.Points == 0 || cfg.PaletteSize == 0 || cfg.BlobsPerLayer == 0 {
		t.Errorf("numeric defaults not applied: %+v", cfg)
	}
	if cfg.Layers != 3 {
		t.Error("explicit values must be kept")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaulted config should validate: %v", err)
	}
}

func TestPixelSize(t *testing.T) {
	cfg := exampleConfig(1)
	w, h := cfg.PixelSize()
	if w != 2400 || h != 1800 {
		t.Errorf("PixelSize() = %dx%d, want 2400x1800 at 300 dpi", w, h)
	}
	cfg.DPI = 100
	if w, h := cfg.PixelSize(); w != 800 || h != 600 {
		t.Errorf("PixelSize() = %dx%d at base dpi", w, h)
	}
}

func TestComposeAcceptsLenientNames(t *testing.T) {
	cfg := exampleConfig(42)
	cfg.Palette = "mono"
	cfg.Preset = "Noise Touch"
	s, err := Compose(cfg)
	if err != nil {
		t.Fatalf("Compose error: %v", err)
	}
	if s.Layers[0].Preset != layer.NoiseTouch {
		t.Errorf("preset = %q", s.Layers[0].Preset)
	}
}
