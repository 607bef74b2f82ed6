// Package observability lets front-ends watch the renderer without the
// renderer knowing who is watching.
//
// The pipeline, the caches and the HTTP server report events to whatever
// [Hooks] are installed. Until something is installed every event goes to
// [Noop]. The CLI installs [LogHooks] under --verbose:
//
//	observability.NewLogHooks(logger).Install()
//
// Emitting an event is a plain call on the current hooks:
//
//	observability.Pipeline().OnComposeStart(ctx, cfg.Seed)
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks receives one start and one complete event per stage of a
// render: compose, raster and export. Complete events carry the error the
// stage failed with, if any.
type PipelineHooks interface {
	OnComposeStart(ctx context.Context, seed int64)
	OnComposeComplete(ctx context.Context, seed int64, blobs int, duration time.Duration, err error)
	OnRasterStart(ctx context.Context, width, height int)
	OnRasterComplete(ctx context.Context, width, height int, duration time.Duration, err error)
	OnExportStart(ctx context.Context, formats []string)
	OnExportComplete(ctx context.Context, formats []string, bytes int, duration time.Duration, err error)
}

// CacheHooks receives artifact cache lookups. keyType is "artifact" or
// "preview".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives server requests. route is the matched chi pattern,
// not the raw path, so poster ids do not explode cardinality.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, status int, duration time.Duration)
}

// Noop implements every hook interface and discards all events.
type Noop struct{}

func (Noop) OnComposeStart(context.Context, int64)                                 {}
func (Noop) OnComposeComplete(context.Context, int64, int, time.Duration, error)   {}
func (Noop) OnRasterStart(context.Context, int, int)                               {}
func (Noop) OnRasterComplete(context.Context, int, int, time.Duration, error)      {}
func (Noop) OnExportStart(context.Context, []string)                               {}
func (Noop) OnExportComplete(context.Context, []string, int, time.Duration, error) {}
func (Noop) OnCacheHit(context.Context, string)                                    {}
func (Noop) OnCacheMiss(context.Context, string)                                   {}
func (Noop) OnCacheSet(context.Context, string, int)                               {}
func (Noop) OnRequest(context.Context, string, string)                             {}
func (Noop) OnResponse(context.Context, string, string, int, time.Duration)        {}

// Hooks is the set of receivers in effect.
type Hooks struct {
	Pipeline PipelineHooks
	Cache    CacheHooks
	HTTP     HTTPHooks
}

var current atomic.Pointer[Hooks]

func init() { Reset() }

// Install replaces the receivers that are non-nil in h and keeps the rest.
// It is safe to call while events are being emitted.
func Install(h Hooks) {
	for {
		old := current.Load()
		next := *old
		if h.Pipeline != nil {
			next.Pipeline = h.Pipeline
		}
		if h.Cache != nil {
			next.Cache = h.Cache
		}
		if h.HTTP != nil {
			next.HTTP = h.HTTP
		}
		if current.CompareAndSwap(old, &next) {
			return
		}
	}
}

// Reset puts [Noop] back for everything.
func Reset() {
	current.Store(&Hooks{Pipeline: Noop{}, Cache: Noop{}, HTTP: Noop{}})
}

// Pipeline returns the installed pipeline hooks.
func Pipeline() PipelineHooks { return current.Load().Pipeline }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return current.Load().Cache }

// HTTP returns the installed HTTP hooks.
func HTTP() HTTPHooks { return current.Load().HTTP }
