// Package source loads program text for extraction.
//
// Input comes from files, standard input or HTTP uploads. Every path applies
// the same limits: a size ceiling (2 MiB by default) and an accept list of
// file extensions. Violations are reported as structured errors
// (INPUT_TOO_LARGE, UNSUPPORTED_FILE) so the CLI and API can present them
// consistently.
//
// [Discover] walks a directory for batch runs and the watch subpackage
// re-triggers work when files change.
package source

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/codeviz/pkg/errors"
)

// DefaultMaxBytes is the default size ceiling for a single input.
const DefaultMaxBytes int64 = 2 << 20

// StdinName is the path that selects standard input.
const StdinName = "-"

// AcceptedExtensions lists the file types accepted for upload by default.
var AcceptedExtensions = []string{".js", ".jsx", ".ts", ".tsx", ".py", ".java", ".c", ".cpp", ".html", ".css"}

// Source is loaded program text.
type Source struct {
	Name string // Base name used for display and output naming
	Path string // Filesystem path; empty for readers and stdin
	Code string
}

// LoadOptions configures input limits.
type LoadOptions struct {
	// MaxBytes is the size ceiling. Zero means DefaultMaxBytes; negative
	// disables the ceiling.
	MaxBytes int64

	// Accept overrides AcceptedExtensions.
	Accept []string

	// AnyExtension skips the extension check.
	AnyExtension bool
}

func (o LoadOptions) maxBytes() int64 {
	if o.MaxBytes == 0 {
		return DefaultMaxBytes
	}
	return o.MaxBytes
}

func (o LoadOptions) accept() []string {
	if o.AnyExtension {
		return nil
	}
	if len(o.Accept) > 0 {
		return o.Accept
	}
	return AcceptedExtensions
}

// Load reads the file at path, or standard input when path is "-".
func Load(path string, opts LoadOptions) (Source, error) {
	if path == StdinName {
		opts.AnyExtension = true
		return Read(bufio.NewReader(os.Stdin), "stdin", opts)
	}

	name := filepath.Base(path)
	if err := errors.ValidateFilename(name, opts.accept()); err != nil {
		return Source{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Source{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "file not found: %s", path)
		}
		return Source{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return Source{}, errors.New(errors.ErrCodeInvalidPath, "%s is a directory", path)
	}
	if limit := opts.maxBytes(); limit > 0 && info.Size() > limit {
		return Source{}, errors.New(errors.ErrCodeInputTooLarge, "%s is %d bytes (max %d)", name, info.Size(), limit)
	}

	f, err := os.Open(path)
	if err != nil {
		return Source{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	src, err := Read(f, name, opts)
	if err != nil {
		return Source{}, err
	}
	src.Path = path
	return src, nil
}

// Read reads source text from r. The name is checked against the accept
// list unless opts.AnyExtension is set. Read does not close r.
func Read(r io.Reader, name string, opts LoadOptions) (Source, error) {
	if err := errors.ValidateFilename(name, opts.accept()); err != nil {
		return Source{}, err
	}

	limit := opts.maxBytes()
	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return Source{}, fmt.Errorf("read %s: %w", name, err)
	}
	if err := errors.ValidateSource(data, limit); err != nil {
		return Source{}, err
	}
	return Source{Name: name, Code: string(data)}, nil
}
