// Package geom holds the small value types shared by the poster packages.
//
// All coordinates are logical pixels with the origin in the top-left corner.
// The renderer scales logical pixels to device pixels at export time.
package geom

import "math/rand/v2"

// Point is a position on the logical canvas.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Range is a closed interval [Min, Max].
type Range struct {
	Min float64 `json:"min" toml:"min"`
	Max float64 `json:"max" toml:"max"`
}

// Span returns Max - Min.
func (r Range) Span() float64 { return r.Max - r.Min }

// Sample draws one value uniformly from the range using rng.
// Exactly one draw is consumed, even for degenerate ranges, so the stream
// position does not depend on the range values.
func (r Range) Sample(rng *rand.Rand) float64 {
	return r.Min + rng.Float64()*r.Span()
}

// Size is a canvas size in logical pixels.
type Size struct {
	Width  int `json:"width" toml:"width"`
	Height int `json:"height" toml:"height"`
}

// Bounds returns the full canvas rectangle.
func (s Size) Bounds() Rect {
	return Rect{Max: Point{X: float64(s.Width), Y: float64(s.Height)}}
}

// Rect is an axis-aligned rectangle given by its min and max corners.
type Rect struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// Dx returns the rectangle width.
func (r Rect) Dx() float64 { return r.Max.X - r.Min.X }

// Dy returns the rectangle height.
func (r Rect) Dy() float64 { return r.Max.Y - r.Min.Y }
