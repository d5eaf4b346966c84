// Package watch re-triggers work when source files change.
//
// A [Watcher] observes a fixed set of files through their parent
// directories (so editors that replace files on save are handled), collects
// changes during a quiet period and reports them in one batch.
package watch

import (
	"context"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a batch is reported.
const DefaultDebounce = 300 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	Debounce time.Duration
	Logger   *log.Logger
}

// Watcher reports changes to a set of files.
type Watcher struct {
	fs       *fsnotify.Watcher
	files    map[string]bool
	debounce time.Duration
	logger   *log.Logger

	mu      sync.Mutex
	pending map[string]bool
	timer   *time.Timer

	stopOnce sync.Once
	cancel   context.CancelFunc
	done     chan struct{}
}

// New creates a watcher for files. Every file must exist.
func New(files []string, opts Options) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	w := &Watcher{
		fs:       fsw,
		files:    make(map[string]bool, len(files)),
		debounce: opts.Debounce,
		logger:   opts.Logger,
		pending:  make(map[string]bool),
		done:     make(chan struct{}),
	}

	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fsw.Close()
			return nil, err
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// Start begins watching. The callback receives the absolute paths changed
// during each quiet period, sorted. It runs on the watcher's goroutine, so
// batches never overlap.
func (w *Watcher) Start(ctx context.Context, callback func(files []string)) {
	ctx, w.cancel = context.WithCancel(ctx)
	go w.loop(ctx, callback)
}

// Stop ends watching and releases resources. It is safe to call more than
// once and before Start.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		if w.cancel != nil {
			w.cancel()
			<-w.done
		}
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		err = w.fs.Close()
	})
	return err
}

func (w *Watcher) loop(ctx context.Context, callback func([]string)) {
	defer close(w.done)
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debug("file changed", "path", ev.Name, "op", ev.Op.String())
			w.mu.Lock()
			w.pending[ev.Name] = true
			if w.timer != nil {
				w.timer.Stop()
			}
			w.timer = time.AfterFunc(w.debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
			w.mu.Unlock()

		case <-fire:
			if files := w.drain(); len(files) > 0 && callback != nil {
				callback(files)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	return w.files[filepath.Clean(ev.Name)]
}

func (w *Watcher) drain() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	files := make([]string, 0, len(w.pending))
	for f := range w.pending {
		files = append(files, f)
	}
	w.pending = make(map[string]bool)
	sort.Strings(files)
	return files
}
