// Package layer composes ordered groups of blobs under a style preset.
//
// A layer is built by calling [blob.Generate] repeatedly on one shared random
// stream. Per blob the composer consumes, in order:
//
//  1. the blob's own draws (see package blob)
//  2. one draw for the blob alpha, from the preset opacity range
//  3. for presets with noise, one draw per outline sample for the
//     secondary wobble pass
//
// Colors cycle through the palette by running blob index, which continues
// across layers through [Params.Offset].
package layer

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/genposter/pkg/poster/blob"
	"github.com/matzehuels/genposter/pkg/poster/geom"
	"github.com/matzehuels/genposter/pkg/poster/palette"
)

// Layer is an ordered sequence of blobs sharing one preset's modifiers.
type Layer struct {
	Preset    Preset      `json:"preset"`
	Modifiers Modifiers   `json:"modifiers"`
	Blobs     []blob.Blob `json:"blobs"`
}

// Params are the geometric inputs of one Compose call.
type Params struct {
	// Count is the requested number of blobs before the preset blob factor.
	Count int
	// Offset is the running blob index at the start of this layer.
	Offset int
	Bounds geom.Rect
	Radius geom.Range
	Wobble geom.Range
	// Alpha is the opacity range used by presets that do not define one.
	Alpha  geom.Range
	Points int
}

// EffectiveCount returns the number of blobs a layer will hold for the
// requested count under preset p. It is never below one.
func EffectiveCount(count int, p Preset) int {
	return max(1, int(math.Round(float64(count)*p.Modifiers().BlobFactor)))
}

// Compose builds one layer. The result depends only on the stream state at
// entry and the arguments.
func Compose(rng *rand.Rand, pal palette.Palette, preset Preset, p Params) Layer {
	mods := preset.Modifiers()
	opacity := p.Alpha
	if mods.Opacity != nil {
		opacity = *mods.Opacity
	}

	n := EffectiveCount(p.Count, preset)
	blobs := make([]blob.Blob, n)
	for i := range blobs {
		b := blob.Generate(rng, p.Bounds, p.Radius, p.Wobble, p.Points)
		b.Index = (p.Offset + i) % len(pal)
		b.Fill = pal.At(p.Offset + i).Saturate(mods.Saturation)
		b.Alpha = opacity.Sample(rng)
		if mods.Noise > 0 {
			b = b.Perturb(rng, mods.Noise)
		}
		blobs[i] = b
	}

	return Layer{
		Preset:    preset,
		Modifiers: mods,
		Blobs:     blobs,
	}
}
