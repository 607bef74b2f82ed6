package pipeline

import (
	"github.com/matzehuels/genposter/pkg/errors"
	"github.com/matzehuels/genposter/pkg/poster"
	"github.com/matzehuels/genposter/pkg/render"
	"github.com/matzehuels/genposter/pkg/render/sink"
)

// Export encodes scene in each format. img must be non-nil when PNG is
// requested; it is the scene rasterized at dpi.
func Export(scene *poster.Scene, img *render.Image, dpi float64, formats []string) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(formats))
	for _, format := range formats {
		var (
			data []byte
			err  error
		)
		switch format {
		case FormatPNG:
			data, err = sink.RenderPNG(img, dpi)
		case FormatSVG:
			data, err = sink.RenderSVG(scene)
		case FormatPDF:
			data, err = sink.RenderPDF(scene)
		case FormatJSON:
			data, err = sink.RenderJSON(scene)
		default:
			return nil, errors.Invalid("unsupported format: %s", format)
		}
		if err != nil {
			code := errors.GetCode(err)
			if code == "" {
				code = errors.ErrCodeEncoding
			}
			return nil, errors.Wrap(code, err, "render %s", format)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
