package pipeline

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/codeviz/pkg/cache"
	"github.com/matzehuels/codeviz/pkg/errors"
	"github.com/matzehuels/codeviz/pkg/extract"
	"github.com/matzehuels/codeviz/pkg/graph"
	"github.com/matzehuels/codeviz/pkg/source"
)

const sample = "function main() {\n  const s = new Server();\n}\nclass Server {}\n"

func TestValidateFormats(t *testing.T) {
	tests := []struct {
		formats []string
		wantErr bool
	}{
		{[]string{"json"}, false},
		{[]string{"svg", "png", "pdf", "dot", "mermaid"}, false},
		{nil, false},
		{[]string{"svg", "invalid"}, true},
		{[]string{"SVG"}, true}, // case-sensitive
		{[]string{""}, true},
	}

	for _, tt := range tests {
		err := ValidateFormats(tt.formats)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormats(%v) error = %v, wantErr %v", tt.formats, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormats(%v) code = %s, want INVALID_FORMAT", tt.formats, errors.GetCode(err))
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.MaxBytes != source.DefaultMaxBytes {
		t.Errorf("MaxBytes = %d, want %d", opts.MaxBytes, source.DefaultMaxBytes)
	}
	if opts.MaxLineBytes != extract.DefaultMaxLineBytes {
		t.Errorf("MaxLineBytes = %d, want %d", opts.MaxLineBytes, extract.DefaultMaxLineBytes)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != DefaultFormat {
		t.Errorf("Formats = %v, want [%s]", opts.Formats, DefaultFormat)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale = %v, want %v", opts.Scale, DefaultScale)
	}
	if opts.Jobs <= 0 {
		t.Error("Jobs should be defaulted")
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Formats: []string{"dot"}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}
	opts.Formats = []string{"bogus"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("Second call should be a no-op: %v", err)
	}
}

func TestExecute(t *testing.T) {
	r := NewRunner(cache.NewMemoryCache(0, time.Hour), nil, nil)
	ctx := context.Background()

	res, err := r.Execute(ctx, sample, Options{Formats: []string{"json", "dot", "mermaid"}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	want := extract.Parse(sample)
	if len(res.Graph.Nodes) != len(want.Nodes) || len(res.Graph.Edges) != len(want.Edges) {
		t.Fatalf("graph = %d nodes %d edges, want %d/%d",
			len(res.Graph.Nodes), len(res.Graph.Edges), len(want.Nodes), len(want.Edges))
	}
	if res.Stats.Nodes != 3 || res.Stats.Edges != 1 {
		t.Errorf("Stats = %+v", res.Stats.Stats)
	}
	if res.Stats.SourceBytes != len(sample) {
		t.Errorf("SourceBytes = %d", res.Stats.SourceBytes)
	}
	if res.CacheInfo.ExtractHit || res.CacheInfo.RenderHit {
		t.Error("first run should miss the cache")
	}

	g, err := graph.UnmarshalGraph(res.Artifacts["json"])
	if err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if g.Nodes[0].ID != "node_1" {
		t.Errorf("json artifact first node = %s", g.Nodes[0].ID)
	}
	if res.GraphHash != cache.Hash(res.Artifacts["json"]) {
		t.Error("GraphHash should hash the json artifact")
	}
	if !strings.HasPrefix(string(res.Artifacts["dot"]), "digraph G {") {
		t.Errorf("dot artifact:\n%s", res.Artifacts["dot"])
	}
	if !strings.HasPrefix(string(res.Artifacts["mermaid"]), "graph LR") {
		t.Errorf("mermaid artifact:\n%s", res.Artifacts["mermaid"])
	}

	again, err := r.Execute(ctx, sample, Options{Formats: []string{"json", "dot", "mermaid"}})
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !again.CacheInfo.ExtractHit || !again.CacheInfo.RenderHit {
		t.Errorf("second run CacheInfo = %+v, want all hits", again.CacheInfo)
	}
	if string(again.Artifacts["dot"]) != string(res.Artifacts["dot"]) {
		t.Error("cached artifact differs")
	}
}

func TestExtractRefreshSkipsCache(t *testing.T) {
	c := newCountingCache()
	r := NewRunner(c, nil, nil)
	ctx := context.Background()

	if _, _, err := r.Extract(ctx, sample, Options{}); err != nil {
		t.Fatal(err)
	}
	_, hit, err := r.Extract(ctx, sample, Options{Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("Refresh should bypass cache reads")
	}
	if c.gets != 1 {
		t.Errorf("cache reads = %d, want 1", c.gets)
	}
	if c.sets != 2 {
		t.Errorf("cache writes = %d, want 2", c.sets)
	}
}

func TestExtractOptionsChangeKey(t *testing.T) {
	r := NewRunner(cache.NewMemoryCache(0, 0), nil, nil)
	ctx := context.Background()

	if _, _, err := r.Extract(ctx, sample, Options{}); err != nil {
		t.Fatal(err)
	}
	_, hit, err := r.Extract(ctx, sample, Options{MaxLineBytes: 8})
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("different MaxLineBytes should not share a cache entry")
	}
}

func TestExtractTooLarge(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, _, err := r.Extract(context.Background(), strings.Repeat("x", 100), Options{MaxBytes: 10})
	if !errors.Is(err, errors.ErrCodeInputTooLarge) {
		t.Errorf("err = %v, want INPUT_TOO_LARGE", err)
	}
}

func TestExtractFallback(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	g, _, err := r.Extract(context.Background(), "", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !g.IsPlaceholder() {
		t.Errorf("empty source should produce the placeholder graph, got %+v", g)
	}
}

func TestRenderInvalidFormat(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, _, err := r.Render(context.Background(), extract.Parse(sample), Options{Formats: []string{"gif"}})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
}

func TestRenderFormatOptionsAffectDOT(t *testing.T) {
	g := extract.Parse(sample)
	pinned, err := RenderFormat(context.Background(), g, nil, "dot", Options{})
	if err != nil {
		t.Fatal(err)
	}
	free, err := RenderFormat(context.Background(), g, nil, "dot", Options{Free: true})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(pinned), "pos=") || strings.Contains(string(free), "pos=") {
		t.Error("Free should drop pinned positions")
	}
}

func TestExecuteBatch(t *testing.T) {
	r := NewRunner(cache.NewMemoryCache(0, 0), nil, nil)
	inputs := []Input{
		{Name: "a.js", Code: "function a() {}"},
		{Name: "big.js", Code: strings.Repeat("x", 64)},
		{Name: "c.js", Code: "class C {}\nclass D {}"},
	}

	results, err := r.ExecuteBatch(context.Background(), inputs, Options{MaxBytes: 32, Jobs: 2, Formats: []string{"mermaid"}})
	if err != nil {
		t.Fatalf("ExecuteBatch: %v", err)
	}
	if len(results) != len(inputs) {
		t.Fatalf("got %d results, want %d", len(results), len(inputs))
	}
	for i, res := range results {
		if res.Name != inputs[i].Name {
			t.Errorf("results[%d].Name = %s, want %s", i, res.Name, inputs[i].Name)
		}
	}
	if results[0].Err != nil || results[0].Stats.Nodes != 1 {
		t.Errorf("a.js result = %+v", results[0])
	}
	if !errors.Is(results[1].Err, errors.ErrCodeInputTooLarge) {
		t.Errorf("big.js Err = %v, want INPUT_TOO_LARGE", results[1].Err)
	}
	if results[2].Err != nil || results[2].Stats.Kinds[graph.KindClass] != 2 {
		t.Errorf("c.js result = %+v", results[2])
	}
}

func TestExecuteBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRunner(nil, nil, nil)
	_, err := r.ExecuteBatch(ctx, []Input{{Name: "a.js", Code: "function a() {}"}}, Options{})
	if err == nil {
		t.Error("cancelled context should fail the batch")
	}
}

// countingCache wraps a MemoryCache and counts calls.
type countingCache struct {
	*cache.MemoryCache
	mu         sync.Mutex
	gets, sets int
}

func newCountingCache() *countingCache {
	return &countingCache{MemoryCache: cache.NewMemoryCache(0, 0)}
}

func (c *countingCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	c.gets++
	c.mu.Unlock()
	return c.MemoryCache.Get(ctx, key)
}

func (c *countingCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	c.mu.Lock()
	c.sets++
	c.mu.Unlock()
	return c.MemoryCache.Set(ctx, key, data, ttl)
}
