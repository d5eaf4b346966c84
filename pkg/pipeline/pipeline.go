// Package pipeline runs the extract → render pipeline shared by the CLI and
// the HTTP API.
//
// # Stages
//
//  1. Extract: validate the source text and build a positioned graph
//  2. Render: produce artifacts in the requested formats (json, svg, png,
//     pdf, dot, mermaid)
//
// Both stages are cached through a [cache.Cache]: graphs by source hash,
// artifacts by graph hash and render options.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache.NewMemoryCache(0, time.Hour), nil, logger)
//	result, err := runner.Execute(ctx, code, pipeline.Options{
//	    Formats: []string{"svg", "mermaid"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
//
// Run a stage on its own:
//
//	g, hit, err := runner.Extract(ctx, code, opts)
//	artifacts, hit, err := runner.Render(ctx, g, opts)
package pipeline

import (
	"runtime"
	"time"

	"github.com/matzehuels/codeviz/pkg/cache"
	"github.com/matzehuels/codeviz/pkg/errors"
	"github.com/matzehuels/codeviz/pkg/extract"
	"github.com/matzehuels/codeviz/pkg/graph"
	"github.com/matzehuels/codeviz/pkg/render"
	"github.com/matzehuels/codeviz/pkg/source"
)

// Defaults shared by CLI and API.
const (
	// DefaultFormat is rendered when Options.Formats is empty.
	DefaultFormat = render.FormatJSON

	// DefaultScale is the PNG resolution multiplier.
	DefaultScale = 2.0
)

// Options configures a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Extract options
	Name         string `json:"name,omitempty"` // Display name for logs
	MaxBytes     int64  `json:"max_bytes,omitempty"`
	MaxLineBytes int    `json:"max_line_bytes,omitempty"`
	Refresh      bool   `json:"refresh,omitempty"` // Skip cache reads

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`
	Free     bool     `json:"free,omitempty"` // Let Graphviz place nodes
	Scale    float64  `json:"scale,omitempty"`

	// Jobs bounds concurrent work in ExecuteBatch. Zero means one per CPU.
	Jobs int `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks formats and fills in defaults.
// Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.MaxBytes == 0 {
		o.MaxBytes = source.DefaultMaxBytes
	}
	if o.MaxLineBytes == 0 {
		o.MaxLineBytes = extract.DefaultMaxLineBytes
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Jobs <= 0 {
		o.Jobs = runtime.NumCPU()
	}
	o.validated = true
	return nil
}

// ValidateFormats checks that every format is supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := errors.ValidateFormat(f, render.Formats); err != nil {
			return err
		}
	}
	return nil
}

func (o *Options) extractOpts() extract.Options {
	return extract.Options{MaxLineBytes: o.MaxLineBytes}
}

func (o *Options) graphKeyOpts() cache.GraphKeyOpts {
	return cache.GraphKeyOpts{MaxLineBytes: o.MaxLineBytes}
}

func (o *Options) artifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format, Detailed: o.Detailed, Free: o.Free}
	if format == render.FormatPNG {
		opts.Scale = o.Scale
	}
	return opts
}

// Input is one named source for ExecuteBatch.
type Input struct {
	Name string
	Code string
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Name string

	// Graph is the extracted graph.
	Graph graph.Graph

	// GraphHash is the content hash of the graph JSON.
	GraphHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo

	// Err is set by ExecuteBatch when this input failed.
	Err error
}

// Stats contains pipeline execution statistics.
type Stats struct {
	graph.Stats
	SourceBytes int
	ExtractTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each stage.
type CacheInfo struct {
	ExtractHit bool // Graph came from cache
	RenderHit  bool // Every artifact came from cache
}
