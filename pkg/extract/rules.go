package extract

import (
	"regexp"
	"strings"

	"github.com/matzehuels/codeviz/pkg/graph"
)

const ident = `[a-zA-Z_$][a-zA-Z0-9_$]*`

var (
	importRE   = regexp.MustCompile(`import\s+(\{[^}]+\}|\*\s+as\s+` + ident + `|` + ident + `)`)
	classRE    = regexp.MustCompile(`class\s+(` + ident + `)`)
	functionRE = regexp.MustCompile(`function\s+(` + ident + `)|const\s+(` + ident + `)\s*=\s*\(.*\)\s*=>`)
	variableRE = regexp.MustCompile(`(?:const|let|var)\s+(` + ident + `)`)
)

// rule recognizes one kind of declaration on a single line.
type rule struct {
	kind  graph.Kind
	match func(line string) (name string, ok bool)

	// Provisional placement before layout: x is fixed per kind,
	// y advances by step per source line.
	x, step float64
}

func (r rule) position(lineIndex int) graph.Position {
	return graph.Position{X: r.x, Y: 100 + float64(lineIndex)*r.step}
}

// rules are tried in order; the first match claims the line.
var rules = []rule{
	{kind: graph.KindImport, match: matchImport, x: 100, step: 50},
	{kind: graph.KindClass, match: matchClass, x: 300, step: 60},
	{kind: graph.KindFunction, match: matchFunction, x: 500, step: 40},
	{kind: graph.KindVariable, match: matchVariable, x: 700, step: 30},
}

// matchImport returns the imported binding text: a brace list, a namespace
// import ("* as React") or a default import identifier.
func matchImport(line string) (string, bool) {
	m := importRE.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

func matchClass(line string) (string, bool) {
	m := classRE.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// matchFunction recognizes function declarations and arrow functions bound
// with const.
func matchFunction(line string) (string, bool) {
	m := functionRE.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	if m[1] != "" {
		return m[1], true
	}
	return m[2], m[2] != ""
}

// matchVariable ignores lines containing an arrow so that callbacks bound
// to variables are not reported twice.
func matchVariable(line string) (string, bool) {
	if strings.Contains(line, "=>") {
		return "", false
	}
	m := variableRE.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}
