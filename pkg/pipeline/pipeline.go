// Package pipeline runs the parse → build → render pipeline for term maps
// and reduction graphs.
//
// The CLI, the HTTP API and the explorer all go through this package so they
// share defaults, validation, caching and instrumentation.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: read the term source, expanding macros and naming free variables
//  2. Build: compile a term map or explore the reduction graph, producing a
//     positioned [graph.Layout]
//  3. Render: emit the layout as JSON, DOT, SVG, PNG or PDF
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  `(\x. x) y`,
//	    VizType: pipeline.VizTypeMap,
//	    Formats: []string{"svg"},
//	})
//	svg := result.Artifacts["svg"]
//
// Reduction graphs that hit an exploration budget are not an error for the
// pipeline: the partial layout is returned with Truncated set, and the run
// logs a warning.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/termmap/pkg/cache"
	terrors "github.com/matzehuels/termmap/pkg/errors"
	"github.com/matzehuels/termmap/pkg/graph"
	"github.com/matzehuels/termmap/pkg/lambda"
	"github.com/matzehuels/termmap/pkg/reduction"
	"github.com/matzehuels/termmap/pkg/termmap"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// Visualization types.
const (
	VizTypeMap       = graph.KindMap
	VizTypeReduction = graph.KindReduction
)

// DefaultVizType is the default visualization type.
const DefaultVizType = VizTypeMap

// DefaultPNGScale is the scale of PNG output.
const DefaultPNGScale = 2.0

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// ValidVizTypes is the set of supported visualization types.
var ValidVizTypes = map[string]bool{
	VizTypeMap:       true,
	VizTypeReduction: true,
}

// TTLs of cached outputs. Layouts depend only on the term and options, so
// they never go stale; artifacts expire to bound disk usage.
const (
	TTLLayout   time.Duration = 0
	TTLArtifact               = 7 * 24 * time.Hour
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Parse options
	Source string   `json:"term"`
	Free   []string `json:"free,omitempty"` // Names of free variables, outermost first

	// Build options
	VizType     string  `json:"viz_type,omitempty"`
	DistanceX   float64 `json:"dx,omitempty"`
	DistanceY   float64 `json:"dy,omitempty"`
	MaxVertices int     `json:"max_vertices,omitempty"`
	MaxEdges    int     `json:"max_edges,omitempty"`
	MaxLevel    int     `json:"max_level,omitempty"`
	MaxPaths    int     `json:"max_paths,omitempty"`

	// Render options
	Formats   []string `json:"formats,omitempty"`
	Highlight []string `json:"highlight,omitempty"` // Redex ids coloured in static renders
	Detailed  bool     `json:"detailed,omitempty"`
	Refresh   bool     `json:"refresh,omitempty"` // Bypass cached layouts and artifacts

	// Runtime options (not serialized)
	Logger *log.Logger   `json:"-"`
	Macros lambda.Macros `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the run in logs and API responses.
	RunID string

	// Term and Context are the parsed input.
	Term    lambda.Term
	Context *lambda.Context

	// Map is set for map runs, Graph for reduction runs. Both are nil when
	// the layout came from the cache.
	Map   *termmap.Map
	Graph *reduction.Graph

	// Layout is the wire document and LayoutHash its content hash.
	Layout     graph.Layout
	LayoutHash string

	// Truncated reports a reduction graph cut short by a budget.
	Truncated bool

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	TermSize   int
	NodeCount  int
	EdgeCount  int
	ParseTime  time.Duration
	BuildTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return terrors.New(terrors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: json, dot, svg, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(vizType string) error {
	if !ValidVizTypes[vizType] {
		return terrors.New(terrors.ErrCodeInvalidVizType, "invalid viz_type: %q (must be one of: map, reduction)", vizType)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForParse(); err != nil {
		return err
	}
	if err := o.ValidateForBuild(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForParse checks the term source and free variable names.
func (o *Options) ValidateForParse() error {
	if err := terrors.ValidateTermSource(o.Source); err != nil {
		return err
	}
	for _, name := range o.Free {
		if err := terrors.ValidateMacroName(name); err != nil {
			return terrors.Wrap(terrors.ErrCodeInvalidInput, err, "free variable %q", name)
		}
	}
	o.setLogger()
	return nil
}

// SetBuildDefaults sets default values for map and reduction building.
func (o *Options) SetBuildDefaults() {
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if o.DistanceX <= 0 {
		o.DistanceX = termmap.DefaultDistanceX
	}
	if o.DistanceY <= 0 {
		o.DistanceY = termmap.DefaultDistanceY
	}
	if o.MaxVertices <= 0 {
		o.MaxVertices = reduction.DefaultMaxVertices
	}
	if o.MaxEdges <= 0 {
		o.MaxEdges = reduction.DefaultMaxEdges
	}
	if o.MaxLevel < 0 {
		o.MaxLevel = 0
	}
	if o.MaxPaths <= 0 {
		o.MaxPaths = reduction.DefaultMaxPaths
	}
	o.setLogger()
}

// ValidateForBuild validates and sets defaults for building.
func (o *Options) ValidateForBuild() error {
	o.SetBuildDefaults()
	return ValidateVizType(o.VizType)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// IsReduction returns true if this is a reduction graph run.
func (o *Options) IsReduction() bool { return o.VizType == VizTypeReduction }

// MapOptions returns the term map builder options.
func (o *Options) MapOptions() termmap.Options {
	return termmap.Options{DistanceX: o.DistanceX, DistanceY: o.DistanceY}
}

// ReductionOptions returns the reduction explorer options with memo.
func (o *Options) ReductionOptions(memo reduction.Memo) reduction.Options {
	return reduction.Options{
		MaxVertices: o.MaxVertices,
		MaxEdges:    o.MaxEdges,
		MaxLevel:    o.MaxLevel,
		Memo:        memo,
	}
}

// LayoutKey returns the cache key of the layout of term under lctx. Layouts
// carry labels, so the key includes binder and free-variable names.
func (o *Options) LayoutKey(k cache.Keyer, term lambda.Term, lctx *lambda.Context) string {
	key := lambda.NamedKey(term) + " " + lctx.String()
	if o.IsReduction() {
		return k.ReductionKey(key, cache.ReductionKeyOpts{
			Free:        o.Free,
			MaxVertices: o.MaxVertices,
			MaxEdges:    o.MaxEdges,
			MaxLevel:    o.MaxLevel,
		})
	}
	return k.MapKey(key, cache.MapKeyOpts{Free: o.Free, DistanceX: o.DistanceX, DistanceY: o.DistanceY})
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	style := ""
	if o.Detailed {
		style = "detailed"
	}
	for _, h := range o.Highlight {
		style += "+" + h
	}
	return cache.ArtifactKeyOpts{Format: format, Style: style}
}
