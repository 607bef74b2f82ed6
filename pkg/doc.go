// Package pkg provides the libraries behind genposter, a deterministic
// generative poster renderer.
//
// # Overview
//
// A poster is a stack of layers of soft, wobbly blobs on a flat background.
// Every random decision is drawn from a generator seeded by the
// configuration, so the same config always produces the same bytes. The pkg
// directory is organized into these areas:
//
//  1. [poster] - Composition (config, palettes, blobs, layers, presets)
//  2. [render] - Rasterization and the output [render/sink] encoders
//  3. [pipeline] - Orchestration (compose -> render -> export) with caching
//  4. [cache], [gallery] - Artifact caching and poster history
//  5. [server] - HTTP form and JSON API
//  6. [io], [errors], [observability], [retry], [buildinfo] - Support
//
// # Architecture
//
//	poster.Config (TOML/JSON file, flags or API request)
//	         ↓
//	    [poster] package (palette, blob outlines, layers)
//	         ↓
//	    [render] package (raster at the requested dpi)
//	         ↓
//	    [render/sink] package (PNG/SVG/PDF/JSON bytes)
//
// # Quick Start
//
//	import (
//	    "context"
//
//	    "github.com/matzehuels/genposter/pkg/pipeline"
//	    "github.com/matzehuels/genposter/pkg/poster"
//	)
//
//	cfg := poster.Default()
//	cfg.Seed = 42
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	defer runner.Close()
//
//	result, err := runner.Execute(context.Background(), pipeline.Options{
//	    Config:  cfg,
//	    Formats: []string{"png", "svg"},
//	})
//	png := result.Artifacts["png"]
//
// Composition alone needs no runner:
//
//	scene, err := poster.Compose(cfg)
//
// # Main Packages
//
// [poster] validates a [poster.Config] and composes it into a Scene. Its
// subpackages hold the building blocks: palette generation in four modes,
// blob outlines built from jittered polar points joined by smooth curves,
// and layer generation with style presets (minimal, vivid, noisetouch).
//
// [render] paints a Scene with fogleman/gg at any dpi. [render/sink]
// encodes the image as PNG (with a pHYs resolution chunk), SVG, PDF, or a
// JSON scene description, and produces thumbnails.
//
// [pipeline] runs the stages, caches encoded artifacts by config hash and
// exposes format helpers shared by the CLI and the server.
//
// [cache] provides file, Redis and no-op caches. [gallery] stores rendered
// poster entries in memory or MongoDB. [server] exposes both over HTTP.
//
// [io] reads and writes configs as TOML or JSON. [errors] carries
// machine-readable error codes. [observability] lets callers hook into
// pipeline and HTTP events. [retry] retries transient failures with
// backoff.
//
// [poster]: https://pkg.go.dev/github.com/matzehuels/genposter/pkg/poster
// [poster.Config]: https://pkg.go.dev/github.com/matzehuels/genposter/pkg/poster#Config
// [render]: https://pkg.go.dev/github.com/matzehuels/genposter/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/genposter/pkg/render/sink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/genposter/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/genposter/pkg/cache
// [gallery]: https://pkg.go.dev/github.com/matzehuels/genposter/pkg/gallery
// [server]: https://pkg.go.dev/github.com/matzehuels/genposter/pkg/server
// [io]: https://pkg.go.dev/github.com/matzehuels/genposter/pkg/io
// [errors]: https://pkg.go.dev/github.com/matzehuels/genposter/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/genposter/pkg/observability
// [retry]: https://pkg.go.dev/github.com/matzehuels/genposter/pkg/retry
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/genposter/pkg/buildinfo
package pkg
