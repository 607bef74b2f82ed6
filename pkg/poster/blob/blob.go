// Package blob generates the wobbly closed shapes a poster is made of.
//
// A blob is a circle whose outline samples are pushed in and out by uniform
// radial noise. Generation consumes a caller-owned random stream in a fixed
// order, so replaying from the same stream state yields an identical blob:
//
//  1. center x, uniform in bounds
//  2. center y, uniform in bounds
//  3. base radius, uniform in the radius range
//  4. wobble amplitude, uniform in the wobble range
//  5. one noise draw u_i per outline sample, in angle order
//
// Sample i sits at angle 2*pi*i/points with radius r*(1 + w*(u_i - 0.5)).
package blob

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/genposter/pkg/poster/geom"
	"github.com/matzehuels/genposter/pkg/poster/palette"
)

// MinPoints is the smallest outline that still encloses an area.
const MinPoints = 3

// DefaultPoints is the outline resolution used when none is configured.
const DefaultPoints = 200

// Blob is a single generated filled shape. It is immutable once returned.
type Blob struct {
	Center  geom.Point    `json:"center"`
	Radius  float64       `json:"radius"`
	Wobble  float64       `json:"wobble"`
	Outline []geom.Point  `json:"outline"`
	Index   int           `json:"palette_index"`
	Fill    palette.Color `json:"fill"`
	Alpha   float64       `json:"alpha"`
}

// Generate draws one blob from rng. Ranges are assumed valid (min <= max);
// the poster configuration checks them once before any generation starts.
// points below MinPoints are raised to MinPoints.
func Generate(rng *rand.Rand, bounds geom.Rect, radius, wobble geom.Range, points int) Blob {
	points = max(points, MinPoints)

	cx := bounds.Min.X + rng.Float64()*bounds.Dx()
	cy := bounds.Min.Y + rng.Float64()*bounds.Dy()
	r := radius.Sample(rng)
	w := wobble.Sample(rng)

	radii := make([]float64, points)
	for i := range radii {
		radii[i] = r * (1 + w*(rng.Float64()-0.5))
	}

	return Blob{
		Center:  geom.Point{X: cx, Y: cy},
		Radius:  r,
		Wobble:  w,
		Outline: outline(cx, cy, radii),
	}
}

// Perturb applies a secondary radial noise pass of the given amplitude,
// consuming one draw per outline sample in angle order. The receiver is not
// modified; a new blob with a fresh outline is returned.
func (b Blob) Perturb(rng *rand.Rand, amplitude float64) Blob {
	radii := make([]float64, len(b.Outline))
	for i, p := range b.Outline {
		d := math.Hypot(p.X-b.Center.X, p.Y-b.Center.Y)
		radii[i] = d * (1 + amplitude*(rng.Float64()-0.5))
	}
	b.Outline = outline(b.Center.X, b.Center.Y, radii)
	return b
}

// Bounds returns the bounding box of the outline.
func (b Blob) Bounds() geom.Rect {
	if len(b.Outline) == 0 {
		return geom.Rect{Min: b.Center, Max: b.Center}
	}
	r := geom.Rect{Min: b.Outline[0], Max: b.Outline[0]}
	for _, p := range b.Outline[1:] {
		r.Min.X = min(r.Min.X, p.X)
		r.Min.Y = min(r.Min.Y, p.Y)
		r.Max.X = max(r.Max.X, p.X)
		r.Max.Y = max(r.Max.Y, p.Y)
	}
	return r
}

func outline(cx, cy float64, radii []float64) []geom.Point {
	n := len(radii)
	pts := make([]geom.Point, n)
	for i, r := range radii {
		theta := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = geom.Point{X: cx + r*math.Cos(theta), Y: cy + r*math.Sin(theta)}
	}
	return pts
}
