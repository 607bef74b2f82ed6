package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports every event to a charmbracelet logger at debug level,
// failures at error level. It implements all three hook interfaces.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks writing to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnComposeStart(_ context.Context, seed int64) {
	h.logger.Debug("compose started", "seed", seed)
}

func (h *LogHooks) OnComposeComplete(_ context.Context, seed int64, blobs int, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("compose failed", "seed", seed, "err", err)
		return
	}
	h.logger.Debug("compose finished", "seed", seed, "blobs", blobs, "duration", d)
}

func (h *LogHooks) OnRasterStart(_ context.Context, w, hgt int) {
	h.logger.Debug("raster started", "width", w, "height", hgt)
}

func (h *LogHooks) OnRasterComplete(_ context.Context, w, hgt int, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("raster failed", "width", w, "height", hgt, "err", err)
		return
	}
	h.logger.Debug("raster finished", "width", w, "height", hgt, "duration", d)
}

func (h *LogHooks) OnExportStart(_ context.Context, formats []string) {
	h.logger.Debug("export started", "formats", formats)
}

func (h *LogHooks) OnExportComplete(_ context.Context, formats []string, n int, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("export failed", "formats", formats, "err", err)
		return
	}
	h.logger.Debug("export finished", "formats", formats, "bytes", n, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "kind", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "kind", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "kind", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, route string) {
	h.logger.Debug("request", "method", method, "route", route)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Info("response", "method", method, "route", route, "status", status, "duration", d)
}

// Install registers h for all three hook kinds.
func (h *LogHooks) Install() {
	Install(Hooks{Pipeline: h, Cache: h, HTTP: h})
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
