// Package layout assigns screen positions to diagram nodes.
//
// [Columns] groups nodes by visual class and stacks each group in its own
// column. The result depends only on node order, so identical input always
// produces identical positions.
package layout

import "github.com/matzehuels/codeviz/pkg/graph"

// Column geometry.
const (
	OriginX     = 100.0
	OriginY     = 100.0
	ColumnWidth = 250.0
	RowHeight   = 120.0
)

// DefaultGroup is the group of nodes without a visual class.
const DefaultGroup = "default"

// Columns returns a copy of nodes with positions assigned by group.
//
// Groups are keyed by ClassName (DefaultGroup when empty) and ordered by
// first appearance. Group g is placed at x = OriginX + g*ColumnWidth; the
// i-th node within it at y = OriginY + i*RowHeight. Output order is group
// by group, preserving input order within each group. All other fields are
// copied unchanged.
func Columns(nodes []graph.Node) []graph.Node {
	var order []string
	groups := make(map[string][]graph.Node)
	for _, n := range nodes {
		key := Group(n)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], n)
	}

	out := make([]graph.Node, 0, len(nodes))
	for g, key := range order {
		x := OriginX + float64(g)*ColumnWidth
		for i, n := range groups[key] {
			n.Position = graph.Position{X: x, Y: OriginY + float64(i)*RowHeight}
			out = append(out, n)
		}
	}
	return out
}

// Group returns the layout group of a node.
func Group(n graph.Node) string {
	if n.ClassName == "" {
		return DefaultGroup
	}
	return n.ClassName
}
