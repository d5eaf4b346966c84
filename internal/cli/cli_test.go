package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/codeviz/internal/config"
	"github.com/matzehuels/codeviz/pkg/cache"
	"github.com/matzehuels/codeviz/pkg/errors"
	"github.com/matzehuels/codeviz/pkg/extract"
	"github.com/matzehuels/codeviz/pkg/graph"
)

const sample = "function main() {\n  const s = new Server();\n}\nclass Server {}\n"

// isolate points the config and cache directories at temporary ones and
// returns the cache home.
func isolate(t *testing.T) string {
	t.Helper()
	cacheHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", cacheHome)
	return cacheHome
}

// runCLI executes the root command and returns what the command wrote to
// its output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, log.ErrorLevel)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// captureStdout redirects status output to a buffer for the test.
func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })
	return &buf
}

func plain(s string) string { return ansi.ReplaceAllString(s, "") }

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty uses config", "", nil},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "svg,pdf,png", []string{"svg", "pdf", "png"}},
		{"spaces and case", " SVG , mermaid ", []string{"svg", "mermaid"}},
		{"blank entries", "dot,,json,", []string{"dot", "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		input   string
		formats []string
		want    map[string]string
	}{
		{"single format exact", "diagram.out", "app.js", []string{"svg"}, map[string]string{"svg": "diagram.out"}},
		{"single format from input", "", "app.js", []string{"svg"}, map[string]string{"svg": "app.svg"}},
		{"multiple with base", "out/app", "app.js", []string{"svg", "mermaid"}, map[string]string{"svg": "out/app.svg", "mermaid": "out/app.mmd"}},
		{"base extension replaced", "out/app.svg", "app.js", []string{"svg", "dot"}, map[string]string{"svg": "out/app.svg", "dot": "out/app.dot"}},
		{"stdin", "", "stdin", []string{"json"}, map[string]string{"json": "codeviz.json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputPaths(tt.output, tt.input, tt.formats)
			if len(got) != len(tt.want) {
				t.Fatalf("outputPaths() = %v, want %v", got, tt.want)
			}
			for f, p := range tt.want {
				if got[f] != p {
					t.Errorf("outputPaths()[%s] = %q, want %q", f, got[f], p)
				}
			}
		})
	}
}

func TestNewCacheBackends(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.Dir = t.TempDir()
	logger := log.NewWithOptions(io.Discard, log.Options{})

	tests := []struct {
		backend string
		check   func(cache.Cache) bool
	}{
		{config.BackendNone, func(c cache.Cache) bool { _, ok := c.(*cache.NullCache); return ok }},
		{config.BackendMemory, func(c cache.Cache) bool { _, ok := c.(*cache.MemoryCache); return ok }},
		{config.BackendFile, func(c cache.Cache) bool { _, ok := c.(*cache.FileCache); return ok }},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			c, err := newCache(context.Background(), cfg, tt.backend, logger)
			if err != nil {
				t.Fatalf("newCache(%s) error: %v", tt.backend, err)
			}
			defer c.Close()
			if !tt.check(c) {
				t.Errorf("newCache(%s) returned %T", tt.backend, c)
			}
		})
	}
}

func TestNewKeyer(t *testing.T) {
	cfg := config.Default()
	if k := newKeyer(cfg, config.BackendFile); k != nil {
		t.Errorf("newKeyer() without prefix = %T, want nil", k)
	}

	cfg.Cache.Prefix = "team-a"
	if k := newKeyer(cfg, config.BackendRedis); k != nil {
		t.Errorf("newKeyer() for redis = %T, want nil", k)
	}
	k := newKeyer(cfg, config.BackendMemory)
	if k == nil {
		t.Fatal("newKeyer() with prefix = nil")
	}
	if key := k.GraphKey("abc", cache.GraphKeyOpts{}); !strings.HasPrefix(key, "team-a") {
		t.Errorf("GraphKey() = %q, want team-a prefix", key)
	}
}

func TestStatsLine(t *testing.T) {
	tests := []struct {
		name   string
		code   string
		cached bool
		want   string
	}{
		{
			name: "kinds and relations",
			code: "function load() {}\nfunction save() {}\nfunction main() { load(); save(); }\nclass Store {}\n",
			want: "3 functions · 1 class · 2 calls · fresh",
		},
		{
			name:   "cached",
			code:   "import x from 'x';\nimport y from 'y';\n",
			cached: true,
			want:   "2 imports · cached",
		},
		{
			name: "placeholder",
			code: "// nothing here\n",
			want: "no declarations · fresh",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureStdout(t)
			printStats(extract.Parse(tt.code).Stats(), tt.cached)
			if got := strings.TrimSpace(plain(out.String())); got != tt.want {
				t.Errorf("printStats() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGraphCommand(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "app.js", sample)

	t.Run("stdout", func(t *testing.T) {
		out, err := runCLI(t, "graph", path)
		if err != nil {
			t.Fatalf("graph error: %v", err)
		}
		g, err := graph.UnmarshalGraph([]byte(out))
		if err != nil {
			t.Fatalf("output is not a graph: %v\n%s", err, out)
		}
		if len(g.Nodes) != 3 || len(g.Edges) != 1 {
			t.Errorf("graph has %d nodes, %d edges; want 3, 1", len(g.Nodes), len(g.Edges))
		}
	})

	t.Run("output file", func(t *testing.T) {
		status := captureStdout(t)
		target := filepath.Join(dir, "out", "app.json")
		if _, err := runCLI(t, "graph", path, "-o", target, "--no-cache"); err != nil {
			t.Fatalf("graph -o error: %v", err)
		}
		want := "1 function · 1 class · 1 variable · 1 creates · fresh"
		if got := plain(status.String()); !strings.Contains(got, want) {
			t.Errorf("status output = %q, want it to contain %q", got, want)
		}
		g, err := graph.ReadGraphFile(target)
		if err != nil {
			t.Fatalf("ReadGraphFile: %v", err)
		}
		if g.Edges[0].Label != graph.RelCreates {
			t.Errorf("edge label = %q, want creates", g.Edges[0].Label)
		}
	})

	t.Run("too large", func(t *testing.T) {
		_, err := runCLI(t, "graph", path, "--max-bytes", "10")
		if !errors.Is(err, errors.ErrCodeInputTooLarge) {
			t.Errorf("graph --max-bytes 10 error = %v, want INPUT_TOO_LARGE", err)
		}
	})

	t.Run("unsupported file", func(t *testing.T) {
		bad := writeFile(t, dir, "notes.txt", sample)
		if _, err := runCLI(t, "graph", bad); err == nil {
			t.Error("graph on .txt succeeded, want error")
		}
	})
}

func TestRenderCommand(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "app.js", sample)
	base := filepath.Join(dir, "out", "app")

	if _, err := runCLI(t, "render", path, "-f", "dot,mermaid,json", "-o", base, "--free"); err != nil {
		t.Fatalf("render error: %v", err)
	}

	for _, ext := range []string{".dot", ".mmd", ".json"} {
		data, err := os.ReadFile(base + ext)
		if err != nil {
			t.Fatalf("missing %s output: %v", ext, err)
		}
		if len(data) == 0 {
			t.Errorf("%s output is empty", ext)
		}
	}
	mmd, _ := os.ReadFile(base + ".mmd")
	if !strings.HasPrefix(string(mmd), "graph LR") {
		t.Errorf("mermaid output = %q", mmd)
	}
	dot, _ := os.ReadFile(base + ".dot")
	if strings.Contains(string(dot), "pos=") {
		t.Error("--free DOT output should not pin positions")
	}

	_, err := runCLI(t, "render", path, "-f", "gif")
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("render -f gif error = %v, want INVALID_FORMAT", err)
	}
}

func TestBatchCommand(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	writeFile(t, dir, "app.js", sample)
	writeFile(t, dir, "lib/util.ts", "export function helper() {}\n")
	writeFile(t, dir, "node_modules/dep/index.js", sample)
	writeFile(t, dir, "README.md", "# readme\n")
	outDir := filepath.Join(t.TempDir(), "diagrams")

	if _, err := runCLI(t, "batch", dir, "-f", "json,mermaid", "--out-dir", outDir, "-j", "2"); err != nil {
		t.Fatalf("batch error: %v", err)
	}

	for _, want := range []string{"app.json", "app.mmd", "lib/util.json", "lib/util.mmd"} {
		if _, err := os.Stat(filepath.Join(outDir, want)); err != nil {
			t.Errorf("missing %s: %v", want, err)
		}
	}
	if _, err := os.Stat(filepath.Join(outDir, "node_modules")); !os.IsNotExist(err) {
		t.Error("node_modules should be excluded")
	}

	t.Run("include filter", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "ts-only")
		if _, err := runCLI(t, "batch", dir, "-f", "json", "--include", "**/*.ts", "--out-dir", out); err != nil {
			t.Fatalf("batch error: %v", err)
		}
		if _, err := os.Stat(filepath.Join(out, "app.json")); !os.IsNotExist(err) {
			t.Error("app.js should not match **/*.ts")
		}
		if _, err := os.Stat(filepath.Join(out, "lib", "util.json")); err != nil {
			t.Errorf("missing lib/util.json: %v", err)
		}
	})

	t.Run("failures reported", func(t *testing.T) {
		t.Setenv("CODEVIZ_MAX_BYTES", "20")
		_, err := runCLI(t, "batch", dir, "-f", "json", "--out-dir", t.TempDir())
		if err == nil || !strings.Contains(err.Error(), "files failed") {
			t.Errorf("batch error = %v, want failure count", err)
		}
	})
}

func TestExamplesCommand(t *testing.T) {
	isolate(t)
	out, err := runCLI(t, "examples")
	if err != nil {
		t.Fatalf("examples error: %v", err)
	}
	for _, name := range []string{"Basic Class Example", "api-client", "Nodes"} {
		if !strings.Contains(out, name) {
			t.Errorf("examples output missing %q", name)
		}
	}

	out, err = runCLI(t, "examples", "show", "basic-class-example")
	if err != nil {
		t.Fatalf("examples show error: %v", err)
	}
	if !strings.HasPrefix(out, "class Animal {") {
		t.Errorf("examples show output = %q", out)
	}

	out, err = runCLI(t, "examples", "show", "Basic Class Example", "--graph")
	if err != nil {
		t.Fatalf("examples show --graph error: %v", err)
	}
	g, err := graph.UnmarshalGraph([]byte(out))
	if err != nil {
		t.Fatalf("output is not a graph: %v", err)
	}
	if len(g.Nodes) == 0 || g.Nodes[0].ID != "node_1" {
		t.Errorf("graph nodes = %+v, want node_1 first", g.Nodes)
	}

	_, err = runCLI(t, "examples", "show", "nope")
	if !errors.Is(err, errors.ErrCodeExampleNotFound) {
		t.Errorf("unknown example error = %v, want EXAMPLE_NOT_FOUND", err)
	}
}

func TestConfigFlag(t *testing.T) {
	isolate(t)
	_, err := runCLI(t, "--config", filepath.Join(t.TempDir(), "missing.toml"), "examples")
	if err == nil {
		t.Error("missing explicit config should fail")
	}

	path := writeFile(t, t.TempDir(), "config.toml", "[render]\nformats = [\"mermaid\"]\n")
	src := writeFile(t, t.TempDir(), "app.js", sample)
	if _, err := runCLI(t, "--config", path, "render", src); err != nil {
		t.Fatalf("render with config error: %v", err)
	}
	if _, err := os.Stat(strings.TrimSuffix(src, ".js") + ".mmd"); err != nil {
		t.Errorf("configured format not rendered: %v", err)
	}
}

func TestCacheCommands(t *testing.T) {
	cacheHome := isolate(t)

	out, err := runCLI(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path error: %v", err)
	}
	if want := filepath.Join(cacheHome, appName); strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), want)
	}

	src := writeFile(t, t.TempDir(), "app.js", sample)
	if _, err := runCLI(t, "graph", src); err != nil {
		t.Fatalf("graph error: %v", err)
	}
	if _, err := runCLI(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear error: %v", err)
	}

	fc, err := cache.NewFileCache(filepath.Join(cacheHome, appName))
	if err != nil {
		t.Fatal(err)
	}
	if n, _ := fc.Clear(); n != 0 {
		t.Errorf("%d entries left after cache clear", n)
	}
}
