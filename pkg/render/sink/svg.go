package sink

import (
	"bytes"
	"fmt"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/genposter/pkg/errors"
	"github.com/matzehuels/genposter/pkg/poster"
	"github.com/matzehuels/genposter/pkg/poster/blob"
	"github.com/matzehuels/genposter/pkg/poster/palette"
)

// svgUnits is the number of viewBox units per logical pixel. svgo takes
// integer coordinates, so outlines are drawn on a finer grid.
const svgUnits = 10

// RenderSVG draws the scene as scalable vector outlines. Each layer becomes
// a group so editors keep the stacking order.
func RenderSVG(s *poster.Scene) ([]byte, error) {
	if s == nil {
		return nil, errors.New(errors.ErrCodeEncoding, "nothing to encode: nil scene")
	}
	if err := errors.ValidateSize(s.Size.Width, s.Size.Height); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	w, h := s.Size.Width, s.Size.Height
	canvas := svg.New(&buf)
	canvas.Startview(w, h, 0, 0, w*svgUnits, h*svgUnits)
	if s.Title != "" {
		canvas.Title(s.Title)
	}
	canvas.Rect(0, 0, w*svgUnits, h*svgUnits, "fill:"+s.Background.Hex())

	for i, l := range s.Layers {
		canvas.Gid(fmt.Sprintf("layer-%d", i))
		for _, b := range l.Blobs {
			xs, ys := svgOutline(b)
			canvas.Polygon(xs, ys, blobStyle(b, l.Modifiers.Stroke))
		}
		canvas.Gend()
	}

	writeSVGTitles(canvas, s)
	canvas.End()
	return buf.Bytes(), nil
}

func svgOutline(b blob.Blob) ([]int, []int) {
	xs := make([]int, len(b.Outline))
	ys := make([]int, len(b.Outline))
	for i, p := range b.Outline {
		xs[i] = int(p.X*svgUnits + 0.5)
		ys[i] = int(p.Y*svgUnits + 0.5)
	}
	return xs, ys
}

func blobStyle(b blob.Blob, stroke float64) string {
	style := fmt.Sprintf("fill:%s;fill-opacity:%.3f", b.Fill.Hex(), b.Alpha)
	if stroke > 0 {
		style += fmt.Sprintf(";stroke:#1a1a1a;stroke-opacity:%.3f;stroke-width:%.1f", b.Alpha, stroke*svgUnits)
	}
	return style
}

func writeSVGTitles(canvas *svg.SVG, s *poster.Scene) {
	ink := inkColor(s.Background)
	x := int(0.05 * float64(s.Size.Width) * svgUnits)
	y := int(0.05 * float64(s.Size.Height) * svgUnits)
	if s.Title != "" {
		y += 13 * svgUnits
		canvas.Text(x, y, s.Title, fmt.Sprintf("font-family:monospace;font-size:%dpx;fill:%s", 13*svgUnits, ink.Hex()))
	}
	if s.Subtitle != "" {
		y += 18 * svgUnits
		canvas.Text(x, y, s.Subtitle, fmt.Sprintf("font-family:monospace;font-size:%dpx;fill:%s", 10*svgUnits, ink.Hex()))
	}
}

// inkColor picks dark text on light backgrounds and light text on dark ones.
func inkColor(bg palette.Color) palette.Color {
	if bg.Luminance() < 0.5 {
		return palette.Color{R: 0.95, G: 0.95, B: 0.95}
	}
	return palette.Color{R: 0.1, G: 0.1, B: 0.1}
}
