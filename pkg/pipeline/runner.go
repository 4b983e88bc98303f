package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/sankey/pkg/cache"
	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/flow"
	"github.com/matzehuels/sankey/pkg/observability"
	"github.com/matzehuels/sankey/pkg/render/sankey/sink"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
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

// Execute validates g, then renders every requested format. Artifacts are
// served from the cache when all of them are present, unless opts.Refresh
// is set.
func (r *Runner) Execute(ctx context.Context, g flow.Graph, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{
		ID: uuid.New(),
		Stats: Stats{
			NodeCount: g.NodeCount(),
			EdgeCount: g.EdgeCount(),
		},
	}

	graphHash, err := GraphHash(g)
	if err != nil {
		return nil, err
	}
	result.GraphHash = graphHash

	if !opts.Refresh {
		if artifacts, ok := r.cachedArtifacts(ctx, graphHash, opts); ok {
			result.Artifacts = artifacts
			result.CacheHit = true
			opts.Logger.Debug("served from cache", "id", result.ID, "formats", opts.Formats)
			return result, nil
		}
	}

	if err := validate(ctx, g); err != nil {
		return nil, err
	}

	renderStart := time.Now()
	artifacts, err := Render(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	for format, data := range artifacts {
		key := r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, TTLArtifact); err != nil {
			opts.Logger.Warn("cache write failed", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	opts.Logger.Info("rendered outputs",
		"id", result.ID,
		"viz", opts.VizType,
		"formats", opts.Formats,
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"duration", result.Stats.RenderTime)

	return result, nil
}

func (r *Runner) cachedArtifacts(ctx context.Context, graphHash string, opts Options) (map[string][]byte, bool) {
	hooks := observability.Cache()
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			hooks.OnCacheMiss(ctx, "artifact")
			return nil, false
		}
		hooks.OnCacheHit(ctx, "artifact")
		artifacts[format] = data
	}
	return artifacts, true
}

// Layout computes the layout document for g, consulting the cache first.
func (r *Runner) Layout(ctx context.Context, g flow.Graph, opts Options) (sink.Document, bool, error) {
	opts.SetLayoutDefaults()
	r.applyLogger(&opts)

	graphHash, err := GraphHash(g)
	if err != nil {
		return sink.Document{}, false, err
	}
	key := r.Keyer.LayoutKey(graphHash, opts.LayoutKeyOpts())
	hooks := observability.Cache()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var doc sink.Document
			if err := json.Unmarshal(data, &doc); err == nil {
				hooks.OnCacheHit(ctx, "layout")
				return doc, true, nil
			}
			// Undecodable entries fall through to a recompute.
		}
		hooks.OnCacheMiss(ctx, "layout")
	}

	if err := validate(ctx, g); err != nil {
		return sink.Document{}, false, err
	}
	doc, err := ComputeLayout(ctx, g, opts)
	if err != nil {
		return sink.Document{}, false, err
	}

	if data, err := json.Marshal(doc); err == nil {
		if err := r.Cache.Set(ctx, key, data, TTLLayout); err == nil {
			hooks.OnCacheSet(ctx, "layout", len(data))
		}
	}
	return doc, false, nil
}

// GraphHash returns the content hash of g's canonical JSON form.
func GraphHash(g flow.Graph) (string, error) {
	data, err := json.Marshal(g)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "hash graph")
	}
	return cache.Hash(data), nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// String returns a one-line summary of the result.
func (res *Result) String() string {
	return fmt.Sprintf("%s: %d nodes, %d edges, %d artifacts (cache hit: %v)",
		res.ID, res.Stats.NodeCount, res.Stats.EdgeCount, len(res.Artifacts), res.CacheHit)
}
