package layer

import (
	"strings"

	"github.com/matzehuels/genposter/pkg/errors"
	"github.com/matzehuels/genposter/pkg/poster/geom"
)

// Preset names a bundle of rendering modifiers.
type Preset string

// Style presets.
const (
	Custom     Preset = "custom"
	Minimal    Preset = "minimal"
	Vivid      Preset = "vivid"
	NoiseTouch Preset = "noisetouch"
)

// Presets lists every preset in display order.
var Presets = []Preset{Custom, Minimal, Vivid, NoiseTouch}

// Modifiers are the data a preset contributes to a layer.
type Modifiers struct {
	// BlobFactor scales the requested blob count per layer.
	BlobFactor float64 `json:"blob_factor"`
	// Opacity is the per-blob alpha range. Nil for Custom, which takes the
	// range from the poster configuration.
	Opacity *geom.Range `json:"opacity,omitempty"`
	// Stroke is the outline width in logical pixels; zero disables outlines.
	Stroke float64 `json:"stroke"`
	// Noise is the amplitude of the secondary wobble pass; zero disables it.
	Noise float64 `json:"noise"`
	// Saturation scales the HSV saturation of palette colors.
	Saturation float64 `json:"saturation"`
}

var modifiers = map[Preset]Modifiers{
	Custom: {
		BlobFactor: 1,
		Saturation: 1,
	},
	Minimal: {
		BlobFactor: 0.5,
		Opacity:    &geom.Range{Min: 0.75, Max: 0.90},
		Saturation: 1,
	},
	Vivid: {
		BlobFactor: 1,
		Opacity:    &geom.Range{Min: 1, Max: 1},
		Saturation: 1.3,
	},
	NoiseTouch: {
		BlobFactor: 1,
		Opacity:    &geom.Range{Min: 0.35, Max: 0.65},
		Stroke:     0.6,
		Noise:      0.04,
		Saturation: 1,
	},
}

// Modifiers returns the modifier table entry for p.
// Unknown presets fall back to Custom; use ParsePreset to reject them early.
func (p Preset) Modifiers() Modifiers {
	if m, ok := modifiers[p]; ok {
		return m
	}
	return modifiers[Custom]
}

// ParsePreset converts a user supplied name into a Preset.
// Matching is case-insensitive and ignores spaces, dashes and underscores,
// so "Noise Touch" and "noise-touch" both select NoiseTouch.
func ParsePreset(s string) (Preset, error) {
	key := strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(s))
	if key == "" {
		return Custom, nil
	}
	p := Preset(key)
	if _, ok := modifiers[p]; !ok {
		return "", errors.Invalid("unknown style preset %q (must be one of: custom, minimal, vivid, noisetouch)", s)
	}
	return p, nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Preset) UnmarshalText(text []byte) error {
	parsed, err := ParsePreset(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
