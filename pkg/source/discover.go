package source

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/matzehuels/codeviz/pkg/errors"
)

// DefaultExclude lists directories skipped by Discover.
var DefaultExclude = []string{"node_modules/**", ".git/**", "dist/**"}

// DefaultInclude returns "**/*<ext>" for every accepted extension.
func DefaultInclude() []string {
	out := make([]string, len(AcceptedExtensions))
	for i, ext := range AcceptedExtensions {
		out[i] = "**/*" + ext
	}
	return out
}

type pattern struct {
	raw  string
	glob glob.Glob
}

func compilePatterns(raw []string) ([]pattern, error) {
	out := make([]pattern, 0, len(raw))
	for _, p := range raw {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid pattern %q", p)
		}
		out = append(out, pattern{raw: p, glob: g})
	}
	return out, nil
}

// matchAny reports whether rel matches a pattern. A leading "**/" also
// matches files at the root, so "**/*.js" matches "app.js".
func matchAny(rel string, patterns []pattern) bool {
	for _, p := range patterns {
		if p.glob.Match(rel) {
			return true
		}
		if !strings.Contains(rel, "/") && strings.HasPrefix(p.raw, "**/") {
			if g, err := glob.Compile(strings.TrimPrefix(p.raw, "**/"), '/'); err == nil && g.Match(rel) {
				return true
			}
		}
	}
	return false
}

// Discover walks root and returns the files matching include and not
// matching exclude, sorted. Patterns are matched against slash-separated
// paths relative to root. Nil include or exclude selects DefaultInclude or
// DefaultExclude; excluded directories are not descended into.
func Discover(root string, include, exclude []string) ([]string, error) {
	if include == nil {
		include = DefaultInclude()
	}
	if exclude == nil {
		exclude = DefaultExclude
	}
	inc, err := compilePatterns(include)
	if err != nil {
		return nil, err
	}
	exc, err := compilePatterns(exclude)
	if err != nil {
		return nil, err
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}

		if d.IsDir() {
			if matchAny(rel+"/**", exc) {
				return filepath.SkipDir
			}
			return nil
		}
		if matchAny(rel, exc) || !matchAny(rel, inc) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
