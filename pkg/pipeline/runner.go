package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/genposter/pkg/cache"
	"github.com/matzehuels/genposter/pkg/errors"
	"github.com/matzehuels/genposter/pkg/observability"
	"github.com/matzehuels/genposter/pkg/poster"
	"github.com/matzehuels/genposter/pkg/render"
	"github.com/matzehuels/genposter/pkg/render/sink"
)

// Runner encapsulates pipeline execution with caching.
// The CLI, the studio and the server all render through a Runner.
//
// The Runner holds no per-render state; multiple goroutines can safely use
// the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete compose → raster → export pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()

	hash, err := cache.HashJSON(opts.Config)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash configuration")
	}
	w, h := opts.Config.PixelSize()
	result := &Result{ConfigHash: hash, Width: w, Height: h}

	// Stage 1: Compose
	composeStart := time.Now()
	hooks.OnComposeStart(ctx, opts.Config.Seed)
	scene, err := poster.Compose(opts.Config)
	result.Stats.ComposeTime = time.Since(composeStart)
	if err != nil {
		hooks.OnComposeComplete(ctx, opts.Config.Seed, 0, result.Stats.ComposeTime, err)
		return nil, err
	}
	result.Scene = scene
	result.Stats.BlobCount = scene.BlobCount()
	hooks.OnComposeComplete(ctx, opts.Config.Seed, result.Stats.BlobCount, result.Stats.ComposeTime, nil)

	r.Logger.Debug("composed poster",
		"seed", opts.Config.Seed,
		"layers", len(scene.Layers),
		"blobs", result.Stats.BlobCount,
		"duration", result.Stats.ComposeTime)

	// Cached artifacts short-circuit stages 2 and 3.
	if !opts.Refresh {
		if artifacts, ok := r.cachedArtifacts(ctx, hash, opts); ok {
			result.Artifacts = artifacts
			result.CacheInfo.ArtifactHit = true
			r.Logger.Debug("artifacts from cache", "formats", opts.Formats, "hash", hash[:12])
			return result, nil
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 2: Raster
	var img *render.Image
	if opts.NeedsRaster() {
		rasterStart := time.Now()
		hooks.OnRasterStart(ctx, w, h)
		img, err = render.RenderScene(scene, opts.Config.DPI)
		result.Stats.RasterTime = time.Since(rasterStart)
		hooks.OnRasterComplete(ctx, w, h, result.Stats.RasterTime, err)
		if err != nil {
			return nil, err
		}
		r.Logger.Debug("rasterized poster",
			"width", w,
			"height", h,
			"dpi", opts.Config.DPI,
			"duration", result.Stats.RasterTime)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 3: Export
	exportStart := time.Now()
	hooks.OnExportStart(ctx, opts.Formats)
	artifacts, err := Export(scene, img, opts.Config.DPI, opts.Formats)
	result.Stats.ExportTime = time.Since(exportStart)
	hooks.OnExportComplete(ctx, opts.Formats, totalSize(artifacts), result.Stats.ExportTime, err)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts

	r.Logger.Debug("encoded outputs",
		"formats", opts.Formats,
		"bytes", totalSize(artifacts),
		"duration", result.Stats.ExportTime)

	for format, data := range artifacts {
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	return result, nil
}

// cachedArtifacts returns every requested format from cache, or false if
// any one is missing.
func (r *Runner) cachedArtifacts(ctx context.Context, hash string, opts Options) (map[string][]byte, bool) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.Logger.Warn("cache read failed", "format", format, "err", err)
		}
		if err != nil || !hit {
			observability.Cache().OnCacheMiss(ctx, "artifact")
			return nil, false
		}
		observability.Cache().OnCacheHit(ctx, "artifact")
		artifacts[format] = data
	}
	return artifacts, true
}

// Thumbnail returns a cached preview of an encoded image no wider than
// width pixels.
func (r *Runner) Thumbnail(ctx context.Context, data []byte, width int) ([]byte, error) {
	key := r.Keyer.PreviewKey(cache.Hash(data), width)
	if thumb, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "preview")
		return thumb, nil
	}
	observability.Cache().OnCacheMiss(ctx, "preview")

	thumb, err := sink.Thumbnail(data, width)
	if err != nil {
		return nil, err
	}
	if err := r.Cache.Set(ctx, key, thumb, cache.TTLPreview); err == nil {
		observability.Cache().OnCacheSet(ctx, "preview", len(thumb))
	}
	return thumb, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func totalSize(artifacts map[string][]byte) int {
	n := 0
	for _, data := range artifacts {
		n += len(data)
	}
	return n
}
