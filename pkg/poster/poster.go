// Package poster turns a configuration into a scene of layered blobs.
//
// # Pipeline
//
// A render is one sequential pass:
//
//	Config -> Validate -> NewRand(seed) -> palette.Get -> layer.Compose (per layer) -> Scene
//
// The scene is then handed to the canvas renderer (package render) and the
// export sinks (package render/sink).
//
// # Determinism
//
// [Compose] creates a fresh random stream from Config.Seed and threads it
// through every layer in order. No state is shared across calls, so two
// calls with equal configurations produce equal scenes, and therefore equal
// image bytes.
//
//	cfg := poster.Default()
//	cfg.Seed = 7
//	scene, err := poster.Compose(cfg)
package poster

import (
	"github.com/matzehuels/genposter/pkg/poster/geom"
	"github.com/matzehuels/genposter/pkg/poster/layer"
	"github.com/matzehuels/genposter/pkg/poster/palette"
)

// Scene is the composed, not yet rasterized, poster.
type Scene struct {
	Palette    palette.Palette `json:"palette"`
	Layers     []layer.Layer   `json:"layers"`
	Background palette.Color   `json:"background"`
	Size       geom.Size       `json:"size"`
	Title      string          `json:"title,omitempty"`
	Subtitle   string          `json:"subtitle,omitempty"`
	Seed       int64           `json:"seed"`
}

// BlobCount returns the number of blobs across all layers.
func (s *Scene) BlobCount() int {
	n := 0
	for _, l := range s.Layers {
		n += len(l.Blobs)
	}
	return n
}

// Compose validates cfg and builds its scene.
func Compose(cfg Config) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	mode, _ := palette.ParseMode(string(cfg.Palette))
	preset, _ := layer.ParsePreset(string(cfg.Preset))

	pal, err := palette.Get(mode, cfg.Seed, cfg.PaletteSize)
	if err != nil {
		return nil, err
	}

	rng := NewRand(cfg.Seed)
	params := layer.Params{
		Count:  cfg.BlobsPerLayer,
		Bounds: cfg.Size.Bounds(),
		Radius: cfg.Radius,
		Wobble: cfg.Wobble,
		Alpha:  cfg.Alpha,
		Points: cfg.Points,
	}

	layers := make([]layer.Layer, cfg.Layers)
	for i := range layers {
		layers[i] = layer.Compose(rng, pal, preset, params)
		params.Offset += len(layers[i].Blobs)
	}

	return &Scene{
		Palette:    pal,
		Layers:     layers,
		Background: cfg.Background,
		Size:       cfg.Size,
		Title:      cfg.Title,
		Subtitle:   cfg.Subtitle,
		Seed:       cfg.Seed,
	}, nil
}
