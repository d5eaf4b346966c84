package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/codeviz/pkg/errors"
	"github.com/matzehuels/codeviz/pkg/graph"
	"github.com/matzehuels/codeviz/pkg/render"
	"github.com/matzehuels/codeviz/pkg/render/mermaid"
	"github.com/matzehuels/codeviz/pkg/render/nodelink"
)

// RenderFormat produces a single artifact for g. graphJSON is the
// serialized graph, returned as-is for the json format.
func RenderFormat(ctx context.Context, g graph.Graph, graphJSON []byte, format string, opts Options) ([]byte, error) {
	dotOpts := nodelink.Options{Detailed: opts.Detailed, Free: opts.Free}

	var (
		data []byte
		err  error
	)
	switch format {
	case render.FormatJSON:
		if graphJSON == nil {
			graphJSON, err = graph.MarshalGraph(g)
		}
		data = graphJSON
	case render.FormatDOT:
		data = []byte(nodelink.ToDOT(g, dotOpts))
	case render.FormatMermaid:
		data = []byte(mermaid.Generate(g))
	case render.FormatSVG:
		data, err = nodelink.RenderSVG(ctx, nodelink.ToDOT(g, dotOpts))
	case render.FormatPNG:
		scale := opts.Scale
		if scale <= 0 {
			scale = DefaultScale
		}
		data, err = nodelink.RenderPNG(ctx, nodelink.ToDOT(g, dotOpts), scale)
	case render.FormatPDF:
		data, err = nodelink.RenderPDF(ctx, nodelink.ToDOT(g, dotOpts))
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return data, nil
}
