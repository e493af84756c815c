// Package watch bridges filesystem change notifications to catalog
// rebuilds. The bridge runs concurrently with the playback loop; the only
// contact point is the atomic catalog store, so neither side ever blocks on
// the other.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/visiona/signage/internal/content"
)

// defaultDebounce coalesces rapid successive filesystem events into one
// rebuild. Not required for correctness, just avoids redundant builds while
// files are still being copied in.
const defaultDebounce = 250 * time.Millisecond

// Bridge watches the content directory and installs freshly built catalogs
// into the store
type Bridge struct {
	builder  *content.Builder
	store    *content.Store
	dir      string
	debounce time.Duration

	watcher *fsnotify.Watcher
	wg      sync.WaitGroup
	stopCh  chan struct{}

	mu        sync.Mutex
	isRunning bool
	rebuilds  uint64
}

// New creates a bridge for the given content directory
func New(builder *content.Builder, store *content.Store, dir string) *Bridge {
	return &Bridge{
		builder:  builder,
		store:    store,
		dir:      dir,
		debounce: defaultDebounce,
	}
}

// Rebuild synchronously builds a catalog and atomically installs it.
// Used for the startup build, for forced rebuilds from the playback loop,
// and by the watcher goroutine after a debounced change burst. A build
// failure leaves the previous catalog active.
func (b *Bridge) Rebuild(ctx context.Context) error {
	cat, err := b.builder.Build(ctx)
	if err != nil {
		return fmt.Errorf("catalog rebuild failed: %w", err)
	}

	b.store.Install(cat)

	b.mu.Lock()
	b.rebuilds++
	b.mu.Unlock()

	return nil
}

// Start begins watching the content directory. Change notifications are
// debounced, then the catalog is rebuilt and installed.
func (b *Bridge) Start(ctx context.Context) error {
	b.mu.Lock()
	if b.isRunning {
		b.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	b.isRunning = true
	b.mu.Unlock()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(b.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", b.dir, err)
	}

	b.watcher = watcher
	b.stopCh = make(chan struct{})

	slog.Info("content watcher started", "dir", b.dir, "debounce", b.debounce)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.run(ctx, watcher.Events, watcher.Errors)
	}()

	return nil
}

// Stop shuts the watcher down and waits for its goroutine. Idempotent.
func (b *Bridge) Stop() error {
	b.mu.Lock()
	if !b.isRunning {
		b.mu.Unlock()
		return nil
	}
	b.isRunning = false
	b.mu.Unlock()

	close(b.stopCh)
	err := b.watcher.Close()
	b.wg.Wait()

	b.mu.Lock()
	rebuilds := b.rebuilds
	b.mu.Unlock()

	slog.Info("content watcher stopped", "rebuilds", rebuilds)
	return err
}

// Rebuilds returns how many catalogs this bridge has installed
func (b *Bridge) Rebuilds() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rebuilds
}

// run consumes notification events until shutdown. Split out with explicit
// channels so tests can drive it without a real filesystem watcher.
func (b *Bridge) run(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error) {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case <-b.stopCh:
			return

		case ev, ok := <-events:
			if !ok {
				return
			}
			slog.Debug("content change detected", "op", ev.Op.String(), "name", ev.Name)
			if timer == nil {
				timer = time.NewTimer(b.debounce)
				fire = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(b.debounce)
			}

		case err, ok := <-errs:
			if !ok {
				return
			}
			slog.Error("watcher error", "error", err)

		case <-fire:
			timer = nil
			fire = nil
			if err := b.Rebuild(ctx); err != nil {
				slog.Error("hot reload failed, keeping previous catalog", "error", err)
			}
		}
	}
}
