// Package extract turns raw source text into a positioned code diagram.
//
// Extraction is heuristic and line oriented. It does not build a syntax tree,
// resolve scopes or check types. It recognizes four kinds of declaration with
// regular expressions and infers relationships from textual co-occurrence.
//
// # Passes
//
// A call to [Parse] makes two passes over the lines of its input:
//
//  1. Declarations: each line is tested against an ordered rule list
//     (import, class, function, variable). The first rule that matches
//     produces a node and records the declared name in a symbol table.
//     At most one declaration is recognized per line.
//  2. Relationships: each line is tested against every known symbol. A
//     symbol followed by "(" is a call, "new <name>" is an instantiation,
//     and any other mention outside an import line is a usage. The
//     relationship is attributed to another symbol whose declaration
//     ("function <name>" or "const <name> =") appears on the same line.
//
// Call sites on lines other than the caller's own declaration line are not
// detected. This mirrors how small snippets are usually written
// ("const app = express();") and keeps the scan linear.
//
// # Layout
//
// Nodes are positioned by [layout.Columns]: one column per visual class.
//
// # Fallback
//
// When nothing is recognized the result is a single placeholder node
// ([graph.HelpNode]) and no edges.
//
// # Concurrency
//
// Parse has no shared state and is safe for concurrent use.
package extract
