// Package palette provides the ordered color sequences blobs are filled with.
//
// # Modes
//
// Four palette modes exist:
//
//   - [Pastel]: six soft swatches, extended by golden-ratio hue rotation at
//     low saturation (s=0.25, v=0.97)
//   - [Vivid]: six high-contrast swatches, extended by golden-ratio hue
//     rotation at high saturation (s=0.95, v=0.95)
//   - [Monochrome]: a blue ramp, RGB (0.2, 0.2+0.6t, 0.6+0.3t) with
//     t = i/(count-1)
//   - [Random]: per color h in [0,1), s in [0.30,1], v in [0.55,1] drawn in
//     that order from a PCG stream seeded by the poster seed
//
// Only [Random] depends on the seed. [Get] is a pure function: the same
// arguments always return the same colors.
//
//	pal, err := palette.Get(palette.Pastel, 42, 6)
package palette

import (
	"math"
	"math/rand/v2"
	"strings"

	"github.com/matzehuels/genposter/pkg/errors"
)

// Mode selects a palette formula.
type Mode string

// Palette modes.
const (
	Random     Mode = "random"
	Pastel     Mode = "pastel"
	Vivid      Mode = "vivid"
	Monochrome Mode = "monochrome"
)

// Modes lists every palette mode in display order.
var Modes = []Mode{Pastel, Vivid, Monochrome, Random}

// DefaultSize is the number of colors drawn when no size is configured.
const DefaultSize = 6

// MaxSize bounds the number of colors one palette may hold.
const MaxSize = 64

// goldenRatio spreads rotated hues evenly around the color wheel.
const goldenRatio = 0.618033988749895

// streamKey decorrelates the palette stream from the blob stream for the same seed.
const streamKey = 0x9e3779b97f4a7c15

// Palette is an ordered sequence of colors.
type Palette []Color

// At returns the color for index i, cycling through the palette.
func (p Palette) At(i int) Color {
	return p[i%len(p)]
}

// Hex returns the palette as "#rrggbb" strings.
func (p Palette) Hex() []string {
	out := make([]string, len(p))
	for i, c := range p {
		out[i] = c.Hex()
	}
	return out
}

var pastelBase = Palette{
	{0.98, 0.74, 0.76}, // soft pink
	{0.69, 0.88, 0.90}, // pastel blue
	{0.77, 0.92, 0.80}, // mint green
	{0.98, 0.91, 0.71}, // light yellow
	{0.86, 0.77, 0.90}, // lavender
	{0.99, 0.82, 0.64}, // peach
}

var vividBase = Palette{
	{1.0, 0.0, 0.0}, // red
	{0.0, 0.7, 0.0}, // green
	{0.0, 0.0, 1.0}, // blue
	{1.0, 0.5, 0.0}, // orange
	{0.8, 0.0, 0.8}, // purple
	{1.0, 1.0, 0.0}, // yellow
}

// ParseMode converts a user supplied name into a Mode.
// Matching is case-insensitive; "mono" is accepted for Monochrome.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "random":
		return Random, nil
	case "pastel":
		return Pastel, nil
	case "vivid":
		return Vivid, nil
	case "monochrome", "mono":
		return Monochrome, nil
	}
	return "", errors.Invalid("unknown palette mode %q (must be one of: pastel, vivid, monochrome, random)", s)
}

// UnmarshalText implements encoding.TextUnmarshaler so modes can be read
// from JSON and TOML with the same leniency as the CLI.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Get returns count colors for the given mode.
// seed is only consulted by Random.
func Get(mode Mode, seed int64, count int) (Palette, error) {
	if count <= 0 {
		return nil, errors.Invalid("palette size must be positive, got %d", count)
	}
	if count > MaxSize {
		return nil, errors.Invalid("palette size must be at most %d, got %d", MaxSize, count)
	}

	switch mode {
	case Pastel:
		return extend(pastelBase, count, 0.25, 0.97), nil
	case Vivid:
		return extend(vividBase, count, 0.95, 0.95), nil
	case Monochrome:
		return monochrome(count), nil
	case Random:
		return random(seed, count), nil
	}
	return nil, errors.Invalid("unknown palette mode %q", mode)
}

// extend returns the first count base colors, rotating hues at fixed
// saturation and value for indexes past the base swatches.
func extend(base Palette, count int, s, v float64) Palette {
	out := make(Palette, count)
	for i := range out {
		if i < len(base) {
			out[i] = base[i]
			continue
		}
		_, h := math.Modf(float64(i) * goldenRatio)
		out[i] = FromHSV(h, s, v)
	}
	return out
}

func monochrome(count int) Palette {
	out := make(Palette, count)
	for i := range out {
		t := 0.0
		if count > 1 {
			t = float64(i) / float64(count-1)
		}
		out[i] = Color{R: 0.2, G: 0.2 + 0.6*t, B: 0.6 + 0.3*t}
	}
	return out
}

func random(seed int64, count int) Palette {
	s := uint64(seed)
	rng := rand.New(rand.NewPCG(s, s^streamKey))
	out := make(Palette, count)
	for i := range out {
		h := rng.Float64()
		sat := 0.30 + rng.Float64()*0.70
		val := 0.55 + rng.Float64()*0.45
		out[i] = FromHSV(h, sat, val)
	}
	return out
}
