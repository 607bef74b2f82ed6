// Package sink encodes rendered posters into output formats.
//
// # Formats
//
//   - [RenderPNG]: the rasterized poster with a pHYs chunk carrying its dpi
//   - [RenderSVG]: vector outlines via ajstarks/svgo
//   - [RenderPDF]: a single-page vector PDF via gofpdf
//   - [RenderJSON]: the composed scene, for inspection or re-rendering
//
// [Thumbnail] downsizes an encoded PNG for previews.
//
// The raster path goes through [render.Render]; the vector sinks draw the
// scene directly so their output does not depend on the raster resolution.
// All sinks are deterministic: the same scene produces the same bytes.
//
// [render.Render]: github.com/matzehuels/genposter/pkg/render.Render
package sink
