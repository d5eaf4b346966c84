// Package graph provides the wire types for code diagrams.
//
// This package defines the canonical format for codeviz's graph data, used
// for JSON files, API responses, caching, saved diagrams and every renderer.
// The extraction engine (pkg/extract) produces a [Graph]; renderers
// (pkg/render/...) consume one.
//
// # Core Types
//
//   - [Graph]: ordered nodes and edges
//   - [Node]: a recognized declaration with a render tag, payload and position
//   - [Edge]: an inferred relationship between two nodes
//   - [Kind], [Relation], [RenderType]: closed enumerations
//
// # Serialization
//
// Graphs use the node/edge JSON shape expected by diagram widgets:
//
//	{
//	  "nodes": [{
//	    "id": "node_1",
//	    "type": "tooltip",
//	    "data": {"label": "Function: foo", "type": "function", "description": "..."},
//	    "position": {"x": 100, "y": 100},
//	    "className": "node-function"
//	  }],
//	  "edges": [{"id": "edge_node_1_node_2", "source": "node_1", "target": "node_2", "label": "creates"}]
//	}
//
// Common operations:
//
//	g, _ := graph.ReadGraphFile("diagram.json")
//	graph.WriteGraphFile(g, "output.json")
//	data, _ := graph.MarshalGraph(g)
//	parsed, _ := graph.UnmarshalGraph(data)
//
// # Concurrency
//
// Graph values carry no internal state; copies may be used freely across
// goroutines as long as the slices are not mutated concurrently.
package graph
