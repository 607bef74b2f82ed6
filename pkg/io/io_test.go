package io

import (
	"bytes"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/genposter/pkg/errors"
	"github.com/matzehuels/genposter/pkg/poster"
	"github.com/matzehuels/genposter/pkg/poster/geom"
	"github.com/matzehuels/genposter/pkg/poster/layer"
	"github.com/matzehuels/genposter/pkg/poster/palette"
)

func exampleConfig() poster.Config {
	cfg := poster.Default()
	cfg.Palette = palette.Pastel
	cfg.Preset = layer.Minimal
	cfg.Layers = 3
	cfg.Wobble = geom.Range{Min: 0, Max: 0.1}
	cfg.Radius = geom.Range{Min: 10, Max: 50}
	cfg.Size = geom.Size{Width: 800, Height: 600}
	cfg.Background = palette.White
	cfg.Title = "Spring"
	return cfg
}

func TestReadTOMLPartial(t *testing.T) {
	src := `
palette = "mono"
preset = "Noise Touch"
layers = 5
seed = 7
background = "black"

[radius]
min = 12.5
max = 40.0
`
	cfg, err := ReadConfig(strings.NewReader(src), FormatTOML)
	if err != nil {
		t.Fatalf("ReadConfig error: %v", err)
	}
	if cfg.Palette != palette.Monochrome || cfg.Preset != layer.NoiseTouch {
		t.Errorf("names not normalized: %q %q", cfg.Palette, cfg.Preset)
	}
	if cfg.Layers != 5 || cfg.Seed != 7 {
		t.Errorf("scalars = %d %d", cfg.Layers, cfg.Seed)
	}
	if cfg.Radius != (geom.Range{Min: 12.5, Max: 40}) {
		t.Errorf("radius = %+v", cfg.Radius)
	}
	if cfg.Background != palette.Black {
		t.Errorf("background = %v", cfg.Background)
	}

	// Keys absent from the file keep their defaults.
	d := poster.Default()
	if cfg.Wobble != d.Wobble || cfg.Size != d.Size || cfg.DPI != d.DPI {
		t.Error("missing keys should keep defaults")
	}
}

func TestReadTOMLErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown key", "wobbel = 3"},
		{"bad palette", `palette = "sepia"`},
		{"bad color", `background = "#zzzzzz"`},
		{"syntax", "layers = = 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadConfig(strings.NewReader(tt.src), FormatTOML); !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("ReadConfig = %v, want INVALID_FORMAT", err)
			}
		})
	}
}

func TestReadJSON(t *testing.T) {
	cfg, err := ReadConfig(strings.NewReader(`{"palette":"vivid","layers":2,"size":{"width":300,"height":200}}`), FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Palette != palette.Vivid || cfg.Layers != 2 || cfg.Size.Width != 300 {
		t.Errorf("cfg = %+v", cfg)
	}
	if _, err := ReadConfig(strings.NewReader(`{"colour":"red"}`), FormatJSON); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("unknown JSON field should fail, got %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatTOML, FormatJSON} {
		t.Run(string(format), func(t *testing.T) {
			want := exampleConfig()
			var buf bytes.Buffer
			if err := WriteConfig(&buf, want, format); err != nil {
				t.Fatalf("WriteConfig error: %v", err)
			}
			got, err := ReadConfig(&buf, format)
			if err != nil {
				t.Fatalf("ReadConfig error: %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
			}
		})
	}
}

func TestExportImportFile(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"poster.toml", "nested/poster.json"} {
		path := filepath.Join(dir, name)
		want := exampleConfig()
		if err := ExportConfig(want, path); err != nil {
			t.Fatalf("ExportConfig(%s) error: %v", name, err)
		}
		got, err := ImportConfig(path)
		if err != nil {
			t.Fatalf("ImportConfig(%s) error: %v", name, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("%s: round trip mismatch", name)
		}
	}

	if _, err := ImportConfig(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file: got %v, want FILE_NOT_FOUND", err)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"poster.toml": FormatTOML,
		"poster.JSON": FormatJSON,
		"poster":      FormatTOML,
	}
	for path, want := range tests {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestExampleConfigs(t *testing.T) {
	tests := []struct {
		file    string
		palette palette.Mode
		preset  layer.Preset
	}{
		{"minimal.toml", palette.Pastel, layer.Minimal},
		{"vivid.toml", palette.Vivid, layer.Vivid},
		{"noisetouch.toml", palette.Random, layer.NoiseTouch},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			cfg, err := ImportConfig(filepath.Join("..", "..", "examples", tt.file))
			if err != nil {
				t.Fatalf("ImportConfig error: %v", err)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("Validate = %v", err)
			}
			if cfg.Palette != tt.palette || cfg.Preset != tt.preset {
				t.Errorf("got %q/%q, want %q/%q", cfg.Palette, cfg.Preset, tt.palette, tt.preset)
			}
		})
	}
}
