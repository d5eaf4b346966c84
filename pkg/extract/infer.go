package extract

import (
	"regexp"
	"strings"

	"github.com/matzehuels/codeviz/pkg/graph"
)

// target is a symbol prepared for the relationship pass.
type target struct {
	symbol
	call      *regexp.Regexp // \b<name>\s*\(
	newExpr   string         // "new <name>"
	declFunc  string         // "function <name>"
	declConst string         // "const <name> ="
}

func prepareTargets(symbols []symbol) []target {
	out := make([]target, len(symbols))
	for i, s := range symbols {
		out[i] = target{
			symbol:    s,
			call:      regexp.MustCompile(`\b` + regexp.QuoteMeta(s.name) + `\s*\(`),
			newExpr:   "new " + s.name,
			declFunc:  "function " + s.name,
			declConst: "const " + s.name + " =",
		}
	}
	return out
}

// declaredOn reports whether the line carries a declaration of t that can
// act as the source of a relationship.
func (t target) declaredOn(line string) bool {
	return strings.Contains(line, t.declFunc) || strings.Contains(line, t.declConst)
}

// relation classifies how line refers to t. The checks run in priority
// order: call, instantiation, usage.
func (t target) relation(line string) (graph.Relation, bool) {
	if !strings.Contains(line, t.name) {
		return "", false
	}
	if t.isCalled(line) {
		return graph.RelCalls, true
	}
	if strings.Contains(line, t.newExpr) {
		return graph.RelCreates, true
	}
	if !strings.Contains(line, "import") {
		return graph.RelUses, true
	}
	return "", false
}

// isCalled reports whether some "<name>(" on the line is not the tail of
// "new <name>(".
func (t target) isCalled(line string) bool {
	for _, loc := range t.call.FindAllStringIndex(line, -1) {
		if !followsNew(line[:loc[0]]) {
			return true
		}
	}
	return false
}

// followsNew reports whether prefix ends in "new" plus at least one space.
func followsNew(prefix string) bool {
	trimmed := strings.TrimRight(prefix, " \t\r\n\f")
	if len(trimmed) == len(prefix) || !strings.HasSuffix(trimmed, "new") {
		return false
	}
	rest := trimmed[:len(trimmed)-len("new")]
	if rest == "" {
		return true
	}
	c := rest[len(rest)-1]
	return !isIdentByte(c)
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

// edgeList keeps edges in emission order. Re-emitting an existing id
// replaces that edge in its original position.
type edgeList struct {
	edges []graph.Edge
	index map[string]int
}

func newEdgeList() *edgeList {
	return &edgeList{edges: []graph.Edge{}, index: make(map[string]int)}
}

func (l *edgeList) add(e graph.Edge) {
	if i, ok := l.index[e.ID]; ok {
		l.edges[i] = e
		return
	}
	l.index[e.ID] = len(l.edges)
	l.edges = append(l.edges, e)
}

// inferEdges runs the relationship pass over all lines.
func inferEdges(lines []string, symbols *symbolTable) []graph.Edge {
	targets := prepareTargets(symbols.entries())
	edges := newEdgeList()

	var callers []target
	for _, line := range lines {
		callers = callers[:0]
		for _, t := range targets {
			if t.declaredOn(line) {
				callers = append(callers, t)
			}
		}
		if len(callers) == 0 {
			continue
		}

		for _, t := range targets {
			caller, ok := firstCaller(callers, t.name)
			if !ok {
				continue
			}
			rel, ok := t.relation(line)
			if !ok {
				continue
			}
			edges.add(graph.NewEdge(caller.id, t.id, rel))
		}
	}
	return edges.edges
}

// firstCaller returns the first caller candidate that is not the target
// itself.
func firstCaller(callers []target, name string) (target, bool) {
	for _, c := range callers {
		if c.name != name {
			return c, true
		}
	}
	return target{}, false
}
