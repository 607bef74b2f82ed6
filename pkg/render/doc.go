// Package render rasterizes composed posters.
//
// # Overview
//
// [Render] takes the layers produced by the composer, a background color and
// the logical canvas size, and paints them with fogleman/gg:
//
//  1. the canvas is filled with the background
//  2. layers are drawn in order, blobs in order within each layer
//  3. each blob is filled with its palette color at its alpha, so later
//     blobs occlude earlier ones where opaque and blend where translucent
//  4. presets with a stroke outline each blob in near-black
//  5. optional titles are drawn last with the basicfont face
//
// # Resolution
//
// Blob coordinates are logical pixels at [poster.BaseDPI]. [WithDPI] scales
// the raster, so an 800x600 canvas at 300 dpi becomes a 2400x1800 image.
// Output formats live in the [sink] subpackage:
//
//	img, err := render.RenderScene(scene, 300)
//	png, err := sink.RenderPNG(img, 300)
//
// [sink]: github.com/matzehuels/genposter/pkg/render/sink
package render
