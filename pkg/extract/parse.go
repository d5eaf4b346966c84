package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/codeviz/pkg/graph"
	"github.com/matzehuels/codeviz/pkg/layout"
)

// DefaultMaxLineBytes bounds the work done per line. Longer lines are
// truncated before matching.
const DefaultMaxLineBytes = 64 << 10

// Options tunes extraction. The zero value uses the defaults.
type Options struct {
	// MaxLineBytes truncates lines longer than this many bytes before
	// matching. Zero means DefaultMaxLineBytes; negative disables the limit.
	MaxLineBytes int
}

// Parse extracts a positioned graph from source text with default options.
// It never fails: input with no recognizable declarations yields the
// placeholder graph from [Fallback].
func Parse(code string) graph.Graph {
	return ParseWithOptions(code, Options{})
}

// ParseWithOptions is Parse with explicit options.
func ParseWithOptions(code string, opts Options) graph.Graph {
	lines := splitLines(code, opts.maxLineBytes())

	symbols := newSymbolTable()
	nodes := extractNodes(lines, symbols)
	if len(nodes) == 0 {
		return Fallback()
	}

	return graph.Graph{
		Nodes: layout.Columns(nodes),
		Edges: inferEdges(lines, symbols),
	}
}

// Fallback returns the graph produced for input without declarations: one
// help node, no edges.
func Fallback() graph.Graph {
	return graph.Graph{Nodes: []graph.Node{graph.HelpNode()}, Edges: []graph.Edge{}}
}

// extractNodes runs the declaration pass, recording every declared name in
// symbols.
func extractNodes(lines []string, symbols *symbolTable) []graph.Node {
	var nodes []graph.Node
	for i, line := range lines {
		for _, r := range rules {
			name, ok := r.match(line)
			if !ok {
				continue
			}
			id := graph.NodeID(len(nodes) + 1)
			nodes = append(nodes, graph.NewNode(id, r.kind, name, r.position(i)))
			symbols.set(name, id)
			break
		}
	}
	return nodes
}

func (o Options) maxLineBytes() int {
	if o.MaxLineBytes == 0 {
		return DefaultMaxLineBytes
	}
	return o.MaxLineBytes
}

// splitLines splits on "\n", drops a trailing "\r" from each line and
// truncates lines longer than limit at a rune boundary.
func splitLines(code string, limit int) []string {
	lines := strings.Split(code, "\n")
	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if limit > 0 && len(line) > limit {
			cut := limit
			for cut > 0 && !utf8.RuneStart(line[cut]) {
				cut--
			}
			line = line[:cut]
		}
		lines[i] = line
	}
	return lines
}
