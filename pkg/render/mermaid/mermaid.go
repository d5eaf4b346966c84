// Package mermaid renders code graphs as Mermaid flowcharts.
//
// The output is plain text suitable for Markdown code fences:
//
//	graph LR
//	  node_1["Function: foo"]:::function
//	  node_1 -->|creates| node_2
package mermaid

import (
	"fmt"
	"strings"

	"github.com/matzehuels/codeviz/pkg/graph"
	"github.com/matzehuels/codeviz/pkg/render"
)

// Generate produces a left-to-right Mermaid flowchart. Each node kind gets
// a classDef using the render palette; edges are labeled with their
// relation.
func Generate(g graph.Graph) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	used := make(map[graph.Kind]bool)
	for _, n := range g.Nodes {
		used[n.Kind()] = true
		fmt.Fprintf(&sb, "  %s[\"%s\"]:::%s\n", n.ID, escape(n.Data.Label), n.Kind())
	}

	for _, e := range g.Edges {
		fmt.Fprintf(&sb, "  %s -->|%s| %s\n", e.Source, e.Label, e.Target)
	}

	for _, k := range graph.Kinds {
		if !used[k] {
			continue
		}
		sw := render.Color(k)
		fmt.Fprintf(&sb, "  classDef %s fill:%s,stroke:%s,color:#171717\n", k, sw.Fill, sw.Stroke)
	}
	if len(g.Edges) > 0 {
		fmt.Fprintf(&sb, "  linkStyle default stroke:%s\n", render.EdgeColor)
	}
	return sb.String()
}

// escape replaces characters that end a quoted Mermaid label.
func escape(s string) string {
	return strings.NewReplacer(`"`, "#quot;", "\n", " ").Replace(s)
}
