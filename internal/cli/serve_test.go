package cli

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/matzehuels/codeviz/internal/config"
	"github.com/matzehuels/codeviz/pkg/store"
)

func TestServeOptsApply(t *testing.T) {
	tests := []struct {
		name        string
		opts        serveOpts
		backend     string
		wantBackend string
		wantAddr    string
	}{
		{"defaults to memory", serveOpts{}, "", config.BackendMemory, ":8080"},
		{"keeps configured backend", serveOpts{}, config.BackendFile, config.BackendFile, ":8080"},
		{"redis flag wins", serveOpts{redisAddr: "localhost:6379"}, config.BackendFile, config.BackendRedis, ":8080"},
		{"addr flag", serveOpts{addr: ":9090"}, "", config.BackendMemory, ":9090"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Cache.Backend = tt.backend
			tt.opts.apply(cfg)
			if cfg.Cache.Backend != tt.wantBackend {
				t.Errorf("backend = %q, want %q", cfg.Cache.Backend, tt.wantBackend)
			}
			if cfg.Server.Addr != tt.wantAddr {
				t.Errorf("addr = %q, want %q", cfg.Server.Addr, tt.wantAddr)
			}
		})
	}
}

func TestServeOptsMongo(t *testing.T) {
	cfg := config.Default()
	serveOpts{mongoURI: "mongodb://db:27017", mongoDatabase: "diagrams", timeout: time.Minute}.apply(cfg)
	if cfg.Server.MongoURI != "mongodb://db:27017" || cfg.Server.MongoDatabase != "diagrams" {
		t.Errorf("mongo settings = %q/%q", cfg.Server.MongoURI, cfg.Server.MongoDatabase)
	}
	if cfg.Server.Timeout != time.Minute {
		t.Errorf("timeout = %v, want 1m", cfg.Server.Timeout)
	}
	if got := storeKind(cfg); got != "mongo" {
		t.Errorf("storeKind() = %q, want mongo", got)
	}
}

func TestOpenStoreMemory(t *testing.T) {
	st, err := openStore(context.Background(), config.Default())
	if err != nil {
		t.Fatalf("openStore() error: %v", err)
	}
	defer st.Close(context.Background())
	if _, ok := st.(*store.MemoryStore); !ok {
		t.Errorf("openStore() = %T, want *store.MemoryStore", st)
	}
}

func TestServeCommandShutdown(t *testing.T) {
	isolate(t)
	ctx, cancel := context.WithCancel(context.Background())

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"serve", "--addr", "127.0.0.1:0"})

	done := make(chan error, 1)
	go func() { done <- root.ExecuteContext(ctx) }()

	time.Sleep(200 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("serve returned %v after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not shut down")
	}
}
