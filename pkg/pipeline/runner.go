package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/termmap/pkg/cache"
	"github.com/matzehuels/termmap/pkg/graph"
	"github.com/matzehuels/termmap/pkg/lambda"
	"github.com/matzehuels/termmap/pkg/reduction"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and the logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same Runner
// with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// MemoSize bounds the successor memo created for each run. Zero disables
	// memoisation. A memo never outlives the run that filled it.
	MemoSize int
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

// WithMemo enables a per-run successor memo of the given size.
func (r *Runner) WithMemo(size int) (*Runner, error) {
	if size <= 0 {
		return nil, fmt.Errorf("memo size must be positive, got %d", size)
	}
	r.MemoSize = size
	return r, nil
}

// Execute runs the complete parse → build → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{RunID: uuid.NewString()}
	logger := opts.Logger.With("run", result.RunID[:8])

	// Stage 1: Parse
	parseStart := time.Now()
	term, lctx, err := Parse(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Term, result.Context = term, lctx
	result.Stats.TermSize = lambda.Size(term)
	result.Stats.ParseTime = time.Since(parseStart)
	logger.Debug("parsed term", "size", result.Stats.TermSize, "free", lctx.Len(), "duration", result.Stats.ParseTime)

	// Stage 2: Build
	buildStart := time.Now()
	hit, err := r.buildStage(ctx, result, opts)
	if err != nil {
		return nil, err
	}
	result.CacheInfo.LayoutHit = hit
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.NodeCount = len(result.Layout.Nodes())
	result.Stats.EdgeCount = len(result.Layout.Edges())
	result.Truncated = result.Layout.Truncated

	logger.Info("built "+opts.VizType,
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"cached", hit,
		"duration", result.Stats.BuildTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, result.Layout, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	logger.Debug("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

func (r *Runner) buildStage(ctx context.Context, result *Result, opts Options) (bool, error) {
	key := opts.LayoutKey(r.Keyer, result.Term, result.Context)

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if cached, err := graph.Unmarshal(data); err == nil {
				r.setLayout(result, cached)
				return true, nil
			}
		}
	}

	layout, m, g, err := GenerateLayout(ctx, result.Term, result.Context, r.memo(), opts)
	if err != nil {
		return false, err
	}
	result.Map, result.Graph = m, g
	r.setLayout(result, layout)

	if !layout.Truncated {
		if data, err := graph.Marshal(layout); err == nil {
			_ = r.Cache.Set(ctx, key, data, TTLLayout)
		}
	}
	return false, nil
}

func (r *Runner) setLayout(result *Result, l graph.Layout) {
	result.Layout = l
	if data, err := graph.Marshal(l); err == nil {
		result.LayoutHash = cache.Hash(data)
	}
}

// GenerateLayout is a convenience wrapper that parses and builds without
// rendering or caching.
func (r *Runner) GenerateLayout(ctx context.Context, opts Options) (graph.Layout, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForParse(); err != nil {
		return graph.Layout{}, err
	}
	if err := opts.ValidateForBuild(); err != nil {
		return graph.Layout{}, err
	}

	term, lctx, err := Parse(ctx, opts)
	if err != nil {
		return graph.Layout{}, err
	}
	layout, _, _, err := GenerateLayout(ctx, term, lctx, r.memo(), opts)
	return layout, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, layout graph.Layout, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	layoutData, err := graph.Marshal(layout)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	allCached := !opts.Refresh
	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		if !allCached {
			break
		}
		if format == FormatJSON {
			artifacts[format] = layoutData
			continue
		}
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
		}
	}
	if allCached && len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil
	}

	rendered, err := Render(ctx, layout, opts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		// JSON is the layout itself, cached by the build stage.
		if format == FormatJSON {
			continue
		}
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, key, data, TTLArtifact)
	}
	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, layout graph.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, layout, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// memo returns a fresh successor memo, or nil when memoisation is off.
func (r *Runner) memo() reduction.Memo {
	if r.MemoSize <= 0 {
		return nil
	}
	memo, err := cache.NewMemo[[]reduction.Successor](r.MemoSize)
	if err != nil {
		r.Logger.Warn("successor memo disabled", "err", err)
		return nil
	}
	return memo
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
