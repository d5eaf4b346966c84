package graph

import (
	"fmt"
	"strconv"
	"strings"
)

// =============================================================================
// Kinds - Declaration Categories
// =============================================================================

// Kind is the closed category of a node.
type Kind string

// Node kinds. KindHelp is reserved for the placeholder emitted when nothing
// was recognized.
const (
	KindImport   Kind = "import"
	KindClass    Kind = "class"
	KindFunction Kind = "function"
	KindVariable Kind = "variable"
	KindHelp     Kind = "help"
)

// Kinds lists every node kind in legend order.
var Kinds = []Kind{KindFunction, KindClass, KindVariable, KindImport, KindHelp}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindImport, KindClass, KindFunction, KindVariable, KindHelp:
		return true
	}
	return false
}

// Title returns the capitalized kind name used in labels ("Function").
func (k Kind) Title() string {
	if k == "" {
		return ""
	}
	return strings.ToUpper(string(k[:1])) + string(k[1:])
}

// Description returns the static prose shown with nodes of this kind.
func (k Kind) Description() string {
	switch k {
	case KindImport:
		return "Imported module or component"
	case KindClass:
		return "A blueprint for creating objects"
	case KindFunction:
		return "Reusable block of code that performs a specific task"
	case KindVariable:
		return "Storage location for data"
	case KindHelp:
		return HelpDescription
	}
	return ""
}

// RenderType returns the renderer tag for nodes of this kind.
// Classes, functions and the placeholder get the detail rendering.
func (k Kind) RenderType() RenderType {
	switch k {
	case KindClass, KindFunction, KindHelp:
		return RenderTooltip
	}
	return RenderDefault
}

// ClassName returns the kind-derived visual class ("node-function").
// The placeholder has no visual class.
func (k Kind) ClassName() string {
	if k == KindHelp || k == "" {
		return ""
	}
	return "node-" + string(k)
}

// =============================================================================
// Relations - Edge Labels
// =============================================================================

// Relation is the closed category of an edge.
type Relation string

// Edge relations.
const (
	RelCalls   Relation = "calls"
	RelCreates Relation = "creates"
	RelUses    Relation = "uses"
)

// Relations lists every relation in inference priority order.
var Relations = []Relation{RelCalls, RelCreates, RelUses}

// Valid reports whether r is one of the declared relations.
func (r Relation) Valid() bool {
	switch r {
	case RelCalls, RelCreates, RelUses:
		return true
	}
	return false
}

// =============================================================================
// RenderType - Renderer Selection
// =============================================================================

// RenderType selects how a diagram widget draws a node.
type RenderType string

// Render types.
const (
	RenderDefault RenderType = "default" // plain box
	RenderTooltip RenderType = "tooltip" // box with kind and description
)

// =============================================================================
// Node / Edge / Graph
// =============================================================================

// Placeholder node constants.
const (
	HelpNodeID      = "help_node"
	HelpLabel       = "No code elements detected"
	HelpDescription = "Try adding JavaScript/TypeScript code with functions, classes, variables, or imports"
)

// Position is a 2D screen-space coordinate.
type Position struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// NodeData is the payload shown by the renderer.
type NodeData struct {
	Label       string `json:"label" bson:"label"`
	Type        Kind   `json:"type" bson:"type"`
	Description string `json:"description" bson:"description"`
}

// Node is a recognized declaration (or the placeholder).
type Node struct {
	ID        string     `json:"id" bson:"id"`
	Type      RenderType `json:"type" bson:"type"`
	Data      NodeData   `json:"data" bson:"data"`
	Position  Position   `json:"position" bson:"position"`
	ClassName string     `json:"className,omitempty" bson:"class_name,omitempty"`
}

// Kind returns the node's declaration kind.
func (n Node) Kind() Kind { return n.Data.Type }

// NewNode builds a node of kind k with the standard label, description,
// render type and visual class.
func NewNode(id string, k Kind, name string, pos Position) Node {
	return Node{
		ID:   id,
		Type: k.RenderType(),
		Data: NodeData{
			Label:       k.Title() + ": " + name,
			Type:        k,
			Description: k.Description(),
		},
		Position:  pos,
		ClassName: k.ClassName(),
	}
}

// HelpNode returns the placeholder node used when nothing was recognized.
func HelpNode() Node {
	return Node{
		ID:   HelpNodeID,
		Type: KindHelp.RenderType(),
		Data: NodeData{
			Label:       HelpLabel,
			Type:        KindHelp,
			Description: HelpDescription,
		},
		Position: Position{X: 400, Y: 200},
	}
}

// Edge is a directed relationship between two nodes.
type Edge struct {
	ID     string   `json:"id" bson:"id"`
	Source string   `json:"source" bson:"source"`
	Target string   `json:"target" bson:"target"`
	Label  Relation `json:"label" bson:"label"`
}

// NewEdge builds an edge with the id derived from its endpoints.
func NewEdge(source, target string, rel Relation) Edge {
	return Edge{ID: EdgeID(source, target), Source: source, Target: target, Label: rel}
}

// Graph is the extraction result: nodes in detection order and edges in
// inference order.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// NodeID returns the id of the n-th detected node (1-based).
func NodeID(n int) string { return "node_" + strconv.Itoa(n) }

// EdgeID returns the id of the edge from source to target.
func EdgeID(source, target string) string { return fmt.Sprintf("edge_%s_%s", source, target) }

// IsPlaceholder reports whether g is the single-help-node fallback.
func (g Graph) IsPlaceholder() bool {
	return len(g.Nodes) == 1 && g.Nodes[0].Kind() == KindHelp && len(g.Edges) == 0
}

// Stats summarizes a graph by kind and relation.
type Stats struct {
	Nodes     int              `json:"nodes"`
	Edges     int              `json:"edges"`
	Kinds     map[Kind]int     `json:"kinds,omitempty"`
	Relations map[Relation]int `json:"relations,omitempty"`
}

// Stats counts nodes per kind and edges per relation.
func (g Graph) Stats() Stats {
	s := Stats{
		Nodes:     len(g.Nodes),
		Edges:     len(g.Edges),
		Kinds:     make(map[Kind]int),
		Relations: make(map[Relation]int),
	}
	for _, n := range g.Nodes {
		s.Kinds[n.Kind()]++
	}
	for _, e := range g.Edges {
		s.Relations[e.Label]++
	}
	return s
}
