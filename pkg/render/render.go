package render

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/matzehuels/genposter/pkg/errors"
	"github.com/matzehuels/genposter/pkg/poster"
	"github.com/matzehuels/genposter/pkg/poster/blob"
	"github.com/matzehuels/genposter/pkg/poster/geom"
	"github.com/matzehuels/genposter/pkg/poster/layer"
	"github.com/matzehuels/genposter/pkg/poster/palette"
)

// MaxPixels bounds the raster area in device pixels.
const MaxPixels = 120_000_000

// Image is a rendered raster together with its resolution.
type Image struct {
	Pixels *image.NRGBA
	DPI    float64
}

// Bounds returns the raster bounds in device pixels.
func (img *Image) Bounds() image.Rectangle {
	return img.Pixels.Bounds()
}

// Option configures Render.
type Option func(*renderer)

type renderer struct {
	dpi      float64
	title    string
	subtitle string
}

// WithDPI sets the raster resolution (default poster.BaseDPI, one device
// pixel per logical pixel).
func WithDPI(dpi float64) Option {
	return func(r *renderer) { r.dpi = dpi }
}

// WithTitle draws a heading and an optional subtitle in the top-left corner.
func WithTitle(title, subtitle string) Option {
	return func(r *renderer) {
		r.title = title
		r.subtitle = subtitle
	}
}

// Render rasterizes layers onto a canvas of the given logical size filled
// with bg. Layers are drawn in order, blobs in order within a layer.
func Render(layers []layer.Layer, bg palette.Color, size geom.Size, opts ...Option) (*Image, error) {
	r := renderer{dpi: poster.BaseDPI}
	for _, opt := range opts {
		opt(&r)
	}

	if err := errors.ValidateSize(size.Width, size.Height); err != nil {
		return nil, err
	}
	if !(r.dpi > 0) {
		return nil, errors.Invalid("dpi must be positive, got %g", r.dpi)
	}
	scale := r.dpi / poster.BaseDPI
	pw := int(float64(size.Width)*scale + 0.5)
	ph := int(float64(size.Height)*scale + 0.5)
	if pw <= 0 || ph <= 0 {
		return nil, errors.Invalid("raster size %dx%d is empty at %g dpi", pw, ph, r.dpi)
	}
	if pw*ph > MaxPixels {
		return nil, errors.Invalid("raster size %dx%d exceeds %d pixels", pw, ph, MaxPixels)
	}

	dc := gg.NewContext(pw, ph)
	dc.SetColor(bg)
	dc.Clear()
	dc.Scale(scale, scale)

	for _, l := range layers {
		for _, b := range l.Blobs {
			drawBlob(dc, b, l.Modifiers.Stroke, scale)
		}
	}

	if r.title != "" || r.subtitle != "" {
		drawTitle(dc, size, bg, r.title, r.subtitle)
	}

	return &Image{
		Pixels: imaging.Clone(dc.Image()),
		DPI:    r.dpi,
	}, nil
}

// RenderScene rasterizes a composed scene at dpi, titles included.
func RenderScene(s *poster.Scene, dpi float64) (*Image, error) {
	return Render(s.Layers, s.Background, s.Size, WithDPI(dpi), WithTitle(s.Title, s.Subtitle))
}

func drawBlob(dc *gg.Context, b blob.Blob, stroke, scale float64) {
	if len(b.Outline) == 0 {
		return
	}
	dc.NewSubPath()
	dc.MoveTo(b.Outline[0].X, b.Outline[0].Y)
	for _, p := range b.Outline[1:] {
		dc.LineTo(p.X, p.Y)
	}
	dc.ClosePath()

	dc.SetRGBA(b.Fill.R, b.Fill.G, b.Fill.B, b.Alpha)
	if stroke <= 0 {
		dc.Fill()
		return
	}
	dc.FillPreserve()
	dc.SetRGBA(0.1, 0.1, 0.1, b.Alpha)
	dc.SetLineWidth(stroke * scale)
	dc.Stroke()
}

func drawTitle(dc *gg.Context, size geom.Size, bg palette.Color, title, subtitle string) {
	ink := 0.1
	if bg.Luminance() < 0.5 {
		ink = 0.95
	}
	dc.SetRGB(ink, ink, ink)
	dc.SetFontFace(basicfont.Face7x13)

	x := 0.05 * float64(size.Width)
	y := 0.05 * float64(size.Height)
	if title != "" {
		dc.DrawStringAnchored(title, x, y, 0, 1)
		y += 18
	}
	if subtitle != "" {
		dc.DrawStringAnchored(subtitle, x, y, 0, 1)
	}
}
