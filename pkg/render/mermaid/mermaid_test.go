package mermaid

import (
	"strings"
	"testing"

	"github.com/matzehuels/codeviz/pkg/graph"
)

func TestGenerate(t *testing.T) {
	foo := graph.NewNode("node_1", graph.KindFunction, "foo", graph.Position{})
	bar := graph.NewNode("node_2", graph.KindClass, "Bar", graph.Position{})
	g := graph.Graph{
		Nodes: []graph.Node{foo, bar},
		Edges: []graph.Edge{graph.NewEdge(foo.ID, bar.ID, graph.RelCreates)},
	}

	out := Generate(g)

	if !strings.HasPrefix(out, "graph LR\n") {
		t.Errorf("Generate() should start with graph LR, got %q", out)
	}
	for _, want := range []string{
		`node_1["Function: foo"]:::function`,
		`node_2["Class: Bar"]:::class`,
		"node_1 -->|creates| node_2",
		"classDef function fill:#dbeafe,stroke:#3b82f6",
		"classDef class fill:#ede9fe,stroke:#8b5cf6",
		"linkStyle default stroke:#a3a3a3",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Generate() missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "classDef variable") {
		t.Error("Generate() should only define classes for kinds present")
	}
}

func TestGenerateEscapesLabels(t *testing.T) {
	n := graph.NewNode("node_1", graph.KindImport, `"quoted"`, graph.Position{})
	out := Generate(graph.Graph{Nodes: []graph.Node{n}})
	if !strings.Contains(out, `["Import: #quot;quoted#quot;"]`) {
		t.Errorf("Generate() did not escape quotes:\n%s", out)
	}
	if strings.Contains(out, "linkStyle") {
		t.Error("Generate() should omit linkStyle without edges")
	}
}
