package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/codeviz/pkg/cache"
	"github.com/matzehuels/codeviz/pkg/errors"
	"github.com/matzehuels/codeviz/pkg/extract"
	"github.com/matzehuels/codeviz/pkg/graph"
	"github.com/matzehuels/codeviz/pkg/observability"
	"github.com/matzehuels/codeviz/pkg/render"
)

// Cache key types reported to observability hooks.
const (
	keyTypeGraph    = "graph"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so caching behaves the same everywhere.
//
// The Runner holds no per-run state; multiple goroutines can share one.
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

// Execute runs extraction and rendering for one source text.
func (r *Runner) Execute(ctx context.Context, code string, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{Name: opts.Name}
	result.Stats.SourceBytes = len(code)

	extractStart := time.Now()
	g, hit, err := r.Extract(ctx, code, opts)
	if err != nil {
		return nil, err
	}
	result.Graph = g
	result.Stats.Stats = g.Stats()
	result.Stats.ExtractTime = time.Since(extractStart)
	result.CacheInfo.ExtractHit = hit

	r.Logger.Debug("extracted graph",
		"source", opts.Name,
		"nodes", result.Stats.Nodes,
		"edges", result.Stats.Edges,
		"cache_hit", hit,
		"duration", result.Stats.ExtractTime)

	renderStart := time.Now()
	artifacts, hash, hit, err := r.render(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.GraphHash = hash
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit

	r.Logger.Debug("rendered outputs",
		"source", opts.Name,
		"formats", opts.Formats,
		"cache_hit", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Extract validates code and returns its graph, reporting whether it came
// from the cache.
func (r *Runner) Extract(ctx context.Context, code string, opts Options) (graph.Graph, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return graph.Graph{}, false, err
	}
	if err := errors.ValidateSource([]byte(code), opts.MaxBytes); err != nil {
		return graph.Graph{}, false, err
	}

	hooks := observability.Cache()
	key := r.Keyer.GraphKey(cache.Hash([]byte(code)), opts.graphKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if g, err := graph.UnmarshalGraph(data); err == nil {
				hooks.OnCacheHit(ctx, keyTypeGraph)
				return g, true, nil
			}
		} else if err != nil {
			r.Logger.Warn("cache read failed", "err", err)
		}
	}
	hooks.OnCacheMiss(ctx, keyTypeGraph)

	pipelineHooks := observability.Pipeline()
	pipelineHooks.OnExtractStart(ctx, opts.Name, len(code))
	start := time.Now()
	g := extract.ParseWithOptions(code, opts.extractOpts())
	pipelineHooks.OnExtractComplete(ctx, opts.Name, len(g.Nodes), len(g.Edges), time.Since(start), nil)

	if data, err := graph.MarshalGraph(g); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLGraph); err != nil {
			r.Logger.Warn("cache write failed", "err", err)
		} else {
			hooks.OnCacheSet(ctx, keyTypeGraph, len(data))
		}
	}
	return g, false, nil
}

// Render produces artifacts for every requested format, reporting whether
// all of them came from the cache.
func (r *Runner) Render(ctx context.Context, g graph.Graph, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	artifacts, _, hit, err := r.render(ctx, g, opts)
	return artifacts, hit, err
}

func (r *Runner) render(ctx context.Context, g graph.Graph, opts Options) (map[string][]byte, string, bool, error) {
	graphJSON, err := graph.MarshalGraph(g)
	if err != nil {
		return nil, "", false, fmt.Errorf("serialize graph: %w", err)
	}
	graphHash := cache.Hash(graphJSON)
	hooks := observability.Cache()

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if format == render.FormatJSON {
			artifacts[format] = graphJSON
			continue
		}
		if _, dup := artifacts[format]; dup {
			continue
		}
		key := r.Keyer.ArtifactKey(graphHash, opts.artifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			hooks.OnCacheHit(ctx, keyTypeArtifact)
			artifacts[format] = data
			continue
		}
		hooks.OnCacheMiss(ctx, keyTypeArtifact)
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, graphHash, true, nil
	}

	pipelineHooks := observability.Pipeline()
	pipelineHooks.OnRenderStart(ctx, missing)
	start := time.Now()
	for _, format := range missing {
		data, err := RenderFormat(ctx, g, graphJSON, format, opts)
		if err != nil {
			pipelineHooks.OnRenderComplete(ctx, missing, time.Since(start), err)
			return nil, "", false, err
		}
		artifacts[format] = data

		key := r.Keyer.ArtifactKey(graphHash, opts.artifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache write failed", "err", err)
		} else {
			hooks.OnCacheSet(ctx, keyTypeArtifact, len(data))
		}
	}
	pipelineHooks.OnRenderComplete(ctx, missing, time.Since(start), nil)

	return artifacts, graphHash, false, nil
}

// ExecuteBatch runs Execute for every input with at most opts.Jobs running
// at once. Results are returned in input order. A failing input does not
// stop the batch: its Result carries Err. The returned error is non-nil
// only when ctx is cancelled.
func (r *Runner) ExecuteBatch(ctx context.Context, inputs []Input, opts Options) ([]*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	results := make([]*Result, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Jobs)

	for i, in := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			runOpts := opts
			runOpts.Name = in.Name
			res, err := r.Execute(gctx, in.Code, runOpts)
			if err != nil {
				res = &Result{Name: in.Name, Err: err}
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
