package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/c112110130-dot/waste-system-django-sub002/pkg/cache"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/export"
	"github.com/c112110130-dot/waste-system-django-sub002/pkg/render"
)

// Runner renders charts and exports them with artifact caching. Both the
// CLI and the server use it so cache keys are derived in one place.
//
// A Runner holds no per-request state and is safe for concurrent use.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Exporter *export.Coordinator
	Logger   *log.Logger
	TTL      time.Duration

	// EvictOnRelease deletes a chart's artifacts from the cache once the
	// chart is superseded or its session closes.
	EvictOnRelease bool

	now func() time.Time
}

// NewRunner creates a runner. A nil keyer uses cache.DefaultKeyer, a nil
// cache disables caching.
func NewRunner(c cache.Cache, keyer cache.Keyer, exporter *export.Coordinator, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNull()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:    c,
		Keyer:    keyer,
		Exporter: exporter,
		Logger:   logger,
		TTL:      cache.DefaultTTL,
		now:      time.Now,
	}
}

// WithKeyer returns a copy of r that derives keys with k, e.g. a
// session-scoped keyer.
func (r *Runner) WithKeyer(k cache.Keyer) *Runner {
	cp := *r
	cp.Keyer = k
	return &cp
}

// Execute renders opts.Render into sess, replacing its current chart, and
// exports the result in every requested format. Exports stop at the first
// failure; outputs produced before it are returned with the error.
func (r *Runner) Execute(ctx context.Context, sess *render.Session, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	renderStart := time.Now()
	chart, err := sess.Render(ctx, opts.Render)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result := &Result{Chart: chart}
	result.Stats.RenderTime = time.Since(renderStart)

	exportStart := time.Now()
	req := opts.ExportRequest(chart)
	for _, kind := range opts.Formats {
		art, cached, err := r.ExportWithCacheInfo(ctx, kind, req)
		if err != nil {
			return result, fmt.Errorf("export %s: %w", kind, err)
		}
		result.Outputs = append(result.Outputs, Output{Artifact: art, Cached: cached})
	}
	result.Stats.ExportTime = time.Since(exportStart)

	r.Logger.Debug("pipeline finished",
		"formats", opts.Formats,
		"cached", result.CacheHits(),
		"render", result.Stats.RenderTime,
		"export", result.Stats.ExportTime)
	return result, nil
}

// ArtifactKey returns the cache key of one export, or "" when the export
// must not be cached.
func (r *Runner) ArtifactKey(kind export.Kind, req export.Request) string {
	ch := req.Chart
	if kind == export.KindPrint || ch == nil || ch.Released() || ch.Options == nil {
		return ""
	}
	chartKey := r.Keyer.ChartKey(chartIdentity{Options: ch.Options, Table: ch.Table})
	opts := ArtifactKeyOpts(kind, req)
	if r.Exporter != nil {
		opts.Font = r.Exporter.FontPath()
		if kind == export.KindRaster || kind == export.KindDocument {
			opts.Scale = r.Exporter.RasterScale()
		}
	}
	return r.Keyer.ArtifactKey(chartKey, opts)
}

// ExportWithCacheInfo exports req as kind and reports whether the bytes
// came from the cache. Cache failures are logged and otherwise ignored.
func (r *Runner) ExportWithCacheInfo(ctx context.Context, kind export.Kind, req export.Request) (*export.Artifact, bool, error) {
	if r.Exporter == nil {
		return nil, false, errors.New("pipeline: no exporter configured")
	}

	key := ""
	if r.Exporter.Has(kind) {
		key = r.ArtifactKey(kind, req)
	}
	if key != "" {
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.Logger.Warn("artifact cache read", "kind", kind, "error", err)
		}
		if hit {
			return &export.Artifact{
				Kind:        kind,
				Filename:    export.Filename(req.Chart.Dataset.Title, r.now(), string(kind)),
				ContentType: export.ContentTypes[kind],
				Data:        data,
			}, true, nil
		}
	}

	art, err := r.Exporter.Export(ctx, kind, req)
	if err != nil {
		return nil, false, err
	}
	if key != "" && !art.Skipped {
		if err := r.Cache.Set(ctx, key, art.Data, r.TTL); err != nil && !errors.Is(err, context.Canceled) {
			r.Logger.Warn("artifact cache write", "kind", kind, "error", err)
		} else if err == nil && r.EvictOnRelease {
			req.Chart.OnRelease(func() { r.evict(key) })
		}
	}
	return art, false, nil
}

// evictTimeout bounds a release-time cache delete.
const evictTimeout = 5 * time.Second

func (r *Runner) evict(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), evictTimeout)
	defer cancel()
	if err := r.Cache.Delete(ctx, key); err != nil {
		r.Logger.Warn("artifact cache evict", "key", key, "error", err)
	}
}

// Export is ExportWithCacheInfo without the cache flag.
func (r *Runner) Export(ctx context.Context, kind export.Kind, req export.Request) (*export.Artifact, error) {
	art, _, err := r.ExportWithCacheInfo(ctx, kind, req)
	return art, err
}
