package sink

import (
	"bytes"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/matzehuels/genposter/pkg/buildinfo"
	"github.com/matzehuels/genposter/pkg/errors"
	"github.com/matzehuels/genposter/pkg/poster"
	"github.com/matzehuels/genposter/pkg/poster/palette"
)

// pointsPerPixel converts logical pixels (1/100 inch) to PDF points.
const pointsPerPixel = 72.0 / poster.BaseDPI

// RenderPDF draws the scene on a single vector page sized to the canvas.
// Document dates are pinned so equal scenes give equal bytes.
func RenderPDF(s *poster.Scene) ([]byte, error) {
	if s == nil {
		return nil, errors.New(errors.ErrCodeEncoding, "nothing to encode: nil scene")
	}
	if err := errors.ValidateSize(s.Size.Width, s.Size.Height); err != nil {
		return nil, err
	}

	w := float64(s.Size.Width) * pointsPerPixel
	h := float64(s.Size.Height) * pointsPerPixel
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(time.Unix(0, 0).UTC())
	pdf.SetModificationDate(time.Unix(0, 0).UTC())
	pdf.SetCreator(buildinfo.UserAgent(), true)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	if s.Title != "" {
		pdf.SetTitle(s.Title, true)
	}
	pdf.AddPage()

	setFill(pdf, s.Background)
	pdf.Rect(0, 0, w, h, "F")

	for _, l := range s.Layers {
		stroke := l.Modifiers.Stroke
		if stroke > 0 {
			pdf.SetDrawColor(26, 26, 26)
			pdf.SetLineWidth(stroke * pointsPerPixel)
		}
		for _, b := range l.Blobs {
			pts := make([]gofpdf.PointType, len(b.Outline))
			for i, p := range b.Outline {
				pts[i] = gofpdf.PointType{X: p.X * pointsPerPixel, Y: p.Y * pointsPerPixel}
			}
			pdf.SetAlpha(b.Alpha, "Normal")
			setFill(pdf, b.Fill)
			style := "F"
			if stroke > 0 {
				style = "FD"
			}
			pdf.Polygon(pts, style)
		}
	}
	pdf.SetAlpha(1, "Normal")

	if s.Title != "" || s.Subtitle != "" {
		r, g, b := inkColor(s.Background).Bytes()
		pdf.SetTextColor(int(r), int(g), int(b))
		x := 0.05 * w
		y := 0.05*h + 13*pointsPerPixel
		if s.Title != "" {
			pdf.SetFont("Courier", "B", 13*pointsPerPixel)
			pdf.Text(x, y, s.Title)
			y += 18 * pointsPerPixel
		}
		if s.Subtitle != "" {
			pdf.SetFont("Courier", "", 10*pointsPerPixel)
			pdf.Text(x, y, s.Subtitle)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncoding, err, "encode pdf")
	}
	return buf.Bytes(), nil
}

func setFill(pdf *gofpdf.Fpdf, c palette.Color) {
	r, g, b := c.Bytes()
	pdf.SetFillColor(int(r), int(g), int(b))
}
