package render

import "github.com/matzehuels/codeviz/pkg/graph"

// Output formats.
const (
	FormatJSON    = "json"
	FormatSVG     = "svg"
	FormatPNG     = "png"
	FormatPDF     = "pdf"
	FormatDOT     = "dot"
	FormatMermaid = "mermaid"
)

// Formats lists every output format.
var Formats = []string{FormatJSON, FormatSVG, FormatPNG, FormatPDF, FormatDOT, FormatMermaid}

// Extension returns the file extension for a format.
func Extension(format string) string {
	switch format {
	case FormatMermaid:
		return ".mmd"
	case FormatDOT:
		return ".dot"
	}
	return "." + format
}

// ContentType returns the MIME type for a format.
func ContentType(format string) string {
	switch format {
	case FormatJSON:
		return "application/json"
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	case FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

// Swatch is a fill/stroke pair for one node kind.
type Swatch struct {
	Fill   string
	Stroke string
}

// EdgeColor is the stroke used for every edge.
const EdgeColor = "#a3a3a3"

var palette = map[graph.Kind]Swatch{
	graph.KindFunction: {Fill: "#dbeafe", Stroke: "#3b82f6"},
	graph.KindClass:    {Fill: "#ede9fe", Stroke: "#8b5cf6"},
	graph.KindVariable: {Fill: "#ffedd5", Stroke: "#f97316"},
	graph.KindImport:   {Fill: "#dcfce7", Stroke: "#22c55e"},
	graph.KindHelp:     {Fill: "#f3f4f6", Stroke: "#9ca3af"},
}

// Color returns the swatch for a node kind. Unknown kinds get the help
// swatch.
func Color(k graph.Kind) Swatch {
	if s, ok := palette[k]; ok {
		return s
	}
	return palette[graph.KindHelp]
}

// LegendEntry describes one kind for display.
type LegendEntry struct {
	Kind        graph.Kind
	Name        string
	Description string
	Swatch      Swatch
}

// Legend returns the kinds shown in diagram legends, in display order.
func Legend() []LegendEntry {
	entries := []struct {
		kind graph.Kind
		desc string
	}{
		{graph.KindFunction, "Functions and methods"},
		{graph.KindClass, "Classes and objects"},
		{graph.KindVariable, "Variables and constants"},
		{graph.KindImport, "Import/require statements"},
	}
	out := make([]LegendEntry, len(entries))
	for i, e := range entries {
		out[i] = LegendEntry{Kind: e.kind, Name: e.kind.Title(), Description: e.desc, Swatch: Color(e.kind)}
	}
	return out
}
