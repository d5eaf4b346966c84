package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewMissingDirectory(t *testing.T) {
	_, err := New([]string{filepath.Join(t.TempDir(), "missing", "a.js")}, Options{})
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestStopIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.js")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	w, err := New([]string{path}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Stop(); err != nil {
		t.Errorf("first Stop() = %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Errorf("second Stop() = %v", err)
	}
}

func TestWatcherBatchesChanges(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "a.js")
	other := filepath.Join(dir, "b.js")
	for _, p := range []string{watched, other} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	w, err := New([]string{watched}, Options{Debounce: 50 * time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	got := make(chan []string, 4)
	w.Start(context.Background(), func(files []string) { got <- files })

	for i := 0; i < 3; i++ {
		if err := os.WriteFile(watched, []byte("const x = 1;"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(other, []byte("ignored"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	want, _ := filepath.Abs(watched)
	select {
	case files := <-got:
		if len(files) != 1 || files[0] != want {
			t.Errorf("callback files = %v, want [%s]", files, want)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change callback")
	}
}

func TestWatcherContextCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.js")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	w, err := New([]string{path}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx, func([]string) {})
	cancel()

	select {
	case <-w.done:
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not exit after cancel")
	}
	if err := w.Stop(); err != nil {
		t.Errorf("Stop() = %v", err)
	}
}
