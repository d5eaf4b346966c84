// Package examples bundles sample programs for trying out extraction.
//
// The samples are embedded in the binary and exposed in a stable order.
// Lookups accept either the display name or its slug, case-insensitively:
//
//	ex, err := examples.Get("basic-class-example")
//	g := extract.Parse(ex.Source)
package examples

import (
	"embed"
	"path"
	"strings"

	"github.com/matzehuels/codeviz/pkg/errors"
)

//go:embed samples/*
var samples embed.FS

// Example is a bundled sample program.
type Example struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Filename string `json:"filename"`
	Source   string `json:"source,omitempty"`
}

var catalog = []struct {
	name, file string
}{
	{"Simple React Component", "simple-react-component.jsx"},
	{"Basic Class Example", "basic-class-example.js"},
	{"API Client", "api-client.js"},
	{"Node.js Server", "nodejs-server.js"},
}

// All returns every bundled example with its source, in catalog order.
func All() []Example {
	out := make([]Example, 0, len(catalog))
	for _, c := range catalog {
		out = append(out, load(c.name, c.file))
	}
	return out
}

// Names returns the display names in catalog order.
func Names() []string {
	out := make([]string, len(catalog))
	for i, c := range catalog {
		out[i] = c.name
	}
	return out
}

// Get looks up an example by display name or slug, ignoring case.
func Get(name string) (Example, error) {
	want := strings.TrimSpace(name)
	for _, c := range catalog {
		if strings.EqualFold(c.name, want) || strings.EqualFold(Slug(c.name), want) {
			return load(c.name, c.file), nil
		}
	}
	return Example{}, errors.New(errors.ErrCodeExampleNotFound, "unknown example %q (available: %s)", name, strings.Join(Names(), ", "))
}

// Slug converts a display name to its URL-safe form ("Node.js Server" ->
// "nodejs-server").
func Slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case r == '.':
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func load(name, file string) Example {
	data, err := samples.ReadFile(path.Join("samples", file))
	if err != nil {
		// The catalog and the embedded directory are built together.
		panic("examples: missing embedded sample " + file)
	}
	return Example{
		Name:     name,
		Slug:     Slug(name),
		Filename: file,
		Source:   strings.TrimSuffix(string(data), "\n"),
	}
}
