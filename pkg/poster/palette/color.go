package palette

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/genposter/pkg/errors"
)

// Color is an opaque RGB color with channels in [0, 1].
// It encodes as "#rrggbb" in JSON and TOML.
type Color struct {
	R, G, B float64
}

// Named background colors offered by the front-ends. Their channels are
// exact 8-bit values so they survive a hex round trip unchanged.
var (
	OffWhite = rgb8(250, 250, 247)
	White    = rgb8(255, 255, 255)
	Black    = rgb8(13, 13, 13)
)

func rgb8(r, g, b uint8) Color {
	return Color{float64(r) / 255, float64(g) / 255, float64(b) / 255}
}

var named = map[string]Color{
	"offwhite":  OffWhite,
	"off-white": OffWhite,
	"white":     White,
	"black":     Black,
}

// FromHSV builds a color from hue, saturation and value, all in [0, 1].
func FromHSV(h, s, v float64) Color {
	return fromColorful(colorful.Hsv(h*360, s, v).Clamped())
}

// ParseColor accepts a named background ("offwhite", "white", "black") or a
// "#rrggbb" hex string.
func ParseColor(s string) (Color, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if c, ok := named[key]; ok {
		return c, nil
	}
	if !strings.HasPrefix(key, "#") {
		key = "#" + key
	}
	c, err := colorful.Hex(key)
	if err != nil {
		return Color{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, err, "invalid color %q", s)
	}
	return fromColorful(c), nil
}

// RGBA implements color.Color. The color is always fully opaque.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.colorful().RGBA()
}

// Hex returns the color as "#rrggbb".
func (c Color) Hex() string {
	return c.colorful().Clamped().Hex()
}

// String implements fmt.Stringer.
func (c Color) String() string { return c.Hex() }

// Saturate scales the HSV saturation by factor, clamped to [0, 1].
// A factor of 1 returns c unchanged.
func (c Color) Saturate(factor float64) Color {
	if factor == 1 {
		return c
	}
	h, s, v := c.colorful().Hsv()
	s = min(1, max(0, s*factor))
	return fromColorful(colorful.Hsv(h, s, v).Clamped())
}

// Luminance returns the relative luminance in [0, 1].
func (c Color) Luminance() float64 {
	return 0.2126*c.R + 0.7152*c.G + 0.0722*c.B
}

// MarshalText encodes the color as a hex string for JSON and TOML.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText accepts anything ParseColor accepts.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Bytes returns the 8-bit channels, rounding to nearest.
func (c Color) Bytes() (r, g, b uint8) {
	r8, g8, b8 := c.colorful().Clamped().RGB255()
	return r8, g8, b8
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{R: c.R, G: c.G, B: c.B}
}

func fromColorful(c colorful.Color) Color {
	return Color{R: c.R, G: c.G, B: c.B}
}
