package sink

import (
	"encoding/json"

	"github.com/matzehuels/genposter/pkg/errors"
	"github.com/matzehuels/genposter/pkg/poster"
	"github.com/matzehuels/genposter/pkg/poster/geom"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	outlines bool
}

// WithJSONOutlines includes every outline sample. Without it only the
// parameters needed to identify each blob are written.
func WithJSONOutlines() JSONOption { return func(r *jsonRenderer) { r.outlines = true } }

type jsonOutput struct {
	Seed       int64       `json:"seed"`
	Width      int         `json:"width"`
	Height     int         `json:"height"`
	Background string      `json:"background"`
	Title      string      `json:"title,omitempty"`
	Subtitle   string      `json:"subtitle,omitempty"`
	Palette    []string    `json:"palette"`
	Layers     []jsonLayer `json:"layers"`
}

type jsonLayer struct {
	Preset string     `json:"preset"`
	Stroke float64    `json:"stroke,omitempty"`
	Noise  float64    `json:"noise,omitempty"`
	Blobs  []jsonBlob `json:"blobs"`
}

type jsonBlob struct {
	Center  geom.Point   `json:"center"`
	Radius  float64      `json:"radius"`
	Wobble  float64      `json:"wobble"`
	Index   int          `json:"palette_index"`
	Fill    string       `json:"fill"`
	Alpha   float64      `json:"alpha"`
	Points  int          `json:"points"`
	Outline []geom.Point `json:"outline,omitempty"`
}

// RenderJSON serializes the composed scene.
func RenderJSON(s *poster.Scene, opts ...JSONOption) ([]byte, error) {
	if s == nil {
		return nil, errors.New(errors.ErrCodeEncoding, "nothing to encode: nil scene")
	}
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Seed:       s.Seed,
		Width:      s.Size.Width,
		Height:     s.Size.Height,
		Background: s.Background.Hex(),
		Title:      s.Title,
		Subtitle:   s.Subtitle,
		Palette:    s.Palette.Hex(),
		Layers:     make([]jsonLayer, len(s.Layers)),
	}
	for i, l := range s.Layers {
		jl := jsonLayer{
			Preset: string(l.Preset),
			Stroke: l.Modifiers.Stroke,
			Noise:  l.Modifiers.Noise,
			Blobs:  make([]jsonBlob, len(l.Blobs)),
		}
		for j, b := range l.Blobs {
			jb := jsonBlob{
				Center: b.Center,
				Radius: b.Radius,
				Wobble: b.Wobble,
				Index:  b.Index,
				Fill:   b.Fill.Hex(),
				Alpha:  b.Alpha,
				Points: len(b.Outline),
			}
			if r.outlines {
				jb.Outline = b.Outline
			}
			jl.Blobs[j] = jb
		}
		out.Layers[i] = jl
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncoding, err, "encode json")
	}
	return data, nil
}
