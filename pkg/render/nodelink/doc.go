// Package nodelink renders code graphs as node-link diagrams.
//
// # Overview
//
// This package produces directed graph pictures using Graphviz: nodes appear
// as rounded boxes filled with their kind's color and edges are arrows
// labeled with the relation (calls, creates, uses).
//
// # Usage
//
// Convert a graph to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Positions
//
// By default every node is pinned (pos="x,y!") at the coordinates computed
// by the column layout, so the picture matches the JSON graph. Set
// [Options].Free to let Graphviz place nodes itself.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
