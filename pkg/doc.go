// Package pkg provides the core libraries for codeviz source diagrams.
//
// # Overview
//
// codeviz turns program text into a node/edge diagram of its imports,
// classes, functions and variables. The pkg directory is organized by
// stage:
//
//  1. [extract] - Line-oriented declaration and relationship extraction
//  2. [layout] - Column layout grouped by visual class
//  3. [graph] - Graph types, JSON serialization and validation
//  4. [render] - DOT/SVG/PNG/PDF and Mermaid output
//  5. [pipeline] - Orchestration (extract → render) with caching
//  6. [cache], [store] - Result caching and saved diagrams
//
// # Architecture
//
//	Source text (file, stdin, upload, bundled example)
//	         ↓
//	    [source] package (size and extension limits)
//	         ↓
//	    [extract] package (nodes, edges, fallback help node)
//	         ↓
//	    [layout] package (deterministic positions)
//	         ↓
//	    [render] package (JSON, DOT, Mermaid, SVG, PNG, PDF)
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/codeviz/pkg/extract"
//	    "github.com/matzehuels/codeviz/pkg/render/mermaid"
//	)
//
//	g := extract.Parse("class App {}\nfunction main() { new App(); }")
//	fmt.Println(mermaid.Generate(g))
//
// For cached, multi-format runs use a [pipeline.Runner]:
//
//	runner := pipeline.NewRunner(cache.NewMemoryCache(0, time.Hour), nil, logger)
//	res, err := runner.Execute(ctx, code, pipeline.Options{Formats: []string{"svg", "mermaid"}})
//
// # Supporting Packages
//
//   - [source]: Loading files, stdin and uploads; directory discovery
//   - [source/watch]: Debounced file watching
//   - [examples]: Bundled sample programs
//   - [errors]: Structured error codes shared by the CLI and API
//   - [observability]: Hooks for logging and metrics
//   - [buildinfo]: Version information
package pkg
