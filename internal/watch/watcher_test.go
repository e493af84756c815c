package watch

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/visiona/signage/internal/config"
	"github.com/visiona/signage/internal/content"
	"github.com/visiona/signage/internal/video"
)

func writePNG(t *testing.T, path string) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 255, A: 255}), image.Point{}, draw.Src)

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode %s: %v", path, err)
	}
}

func testBridge(t *testing.T, dir string) (*Bridge, *content.Store) {
	t.Helper()

	store := content.NewStore()
	builder := content.NewBuilder(dir, 32, 24, &video.SyntheticOpener{Width: 32, Height: 24},
		config.QR{BoxSize: 5, Border: 2, Margin: 20})
	return New(builder, store, dir), store
}

func TestRebuildInstallsCatalog(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"))

	b, store := testBridge(t, dir)

	if err := b.Rebuild(context.Background()); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}

	cat, gen := store.Current()
	if cat.Len() != 1 {
		t.Errorf("expected 1 slide after rebuild, got %d", cat.Len())
	}
	if gen != 1 {
		t.Errorf("expected generation 1, got %d", gen)
	}
	if b.Rebuilds() != 1 {
		t.Errorf("Rebuilds() = %d, expected 1", b.Rebuilds())
	}
}

// TestRebuildFailureKeepsPreviousCatalog validates that an unreadable content
// directory leaves the last good catalog in place
func TestRebuildFailureKeepsPreviousCatalog(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"))

	b, store := testBridge(t, dir)
	if err := b.Rebuild(context.Background()); err != nil {
		t.Fatalf("initial rebuild failed: %v", err)
	}
	_, wantGen := store.Current()

	if err := os.RemoveAll(dir); err != nil {
		t.Fatalf("failed to remove content dir: %v", err)
	}

	if err := b.Rebuild(context.Background()); err == nil {
		t.Fatal("Rebuild must fail when the directory is unreadable")
	}

	cat, gen := store.Current()
	if gen != wantGen {
		t.Errorf("failed rebuild must not install: generation %d, expected %d", gen, wantGen)
	}
	if cat.Len() != 1 {
		t.Errorf("previous catalog lost: %d slides", cat.Len())
	}
}

// TestRunDebouncesEventBursts validates coalescing: a burst of change events
// closer together than the debounce window yields exactly one rebuild
func TestRunDebouncesEventBursts(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"))

	b, _ := testBridge(t, dir)
	b.debounce = 50 * time.Millisecond
	b.stopCh = make(chan struct{})

	events := make(chan fsnotify.Event)
	errs := make(chan error)

	done := make(chan struct{})
	go func() {
		defer close(done)
		b.run(context.Background(), events, errs)
	}()

	for i := 0; i < 5; i++ {
		events <- fsnotify.Event{Name: filepath.Join(dir, "a.png"), Op: fsnotify.Write}
		time.Sleep(5 * time.Millisecond)
	}

	// Let the debounce window elapse and the single rebuild land.
	deadline := time.Now().Add(2 * time.Second)
	for b.Rebuilds() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	close(b.stopCh)
	<-done

	if got := b.Rebuilds(); got != 1 {
		t.Errorf("burst of 5 events should coalesce into 1 rebuild, got %d", got)
	}
}

// TestRunSeparatedEventsRebuildEachTime validates that changes further apart
// than the debounce window each trigger their own rebuild
func TestRunSeparatedEventsRebuildEachTime(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"))

	b, _ := testBridge(t, dir)
	b.debounce = 20 * time.Millisecond
	b.stopCh = make(chan struct{})

	events := make(chan fsnotify.Event)
	errs := make(chan error)

	done := make(chan struct{})
	go func() {
		defer close(done)
		b.run(context.Background(), events, errs)
	}()

	for i := 0; i < 2; i++ {
		events <- fsnotify.Event{Name: filepath.Join(dir, "a.png"), Op: fsnotify.Write}

		deadline := time.Now().Add(2 * time.Second)
		for b.Rebuilds() != uint64(i+1) && time.Now().Before(deadline) {
			time.Sleep(10 * time.Millisecond)
		}
	}

	close(b.stopCh)
	<-done

	if got := b.Rebuilds(); got != 2 {
		t.Errorf("2 separated events should rebuild twice, got %d", got)
	}
}

func TestStartStopLifecycle(t *testing.T) {
	dir := t.TempDir()
	b, _ := testBridge(t, dir)

	if err := b.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := b.Start(context.Background()); err == nil {
		t.Error("second Start must be rejected while running")
	}

	if err := b.Stop(); err != nil {
		t.Errorf("Stop failed: %v", err)
	}
	if err := b.Stop(); err != nil {
		t.Errorf("Stop must be idempotent, got %v", err)
	}
}

// TestStartEndToEndReload validates the whole pipeline against a real
// filesystem: dropping a new image into the watched directory installs a
// fresh catalog
func TestStartEndToEndReload(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"))

	b, store := testBridge(t, dir)
	b.debounce = 50 * time.Millisecond

	if err := b.Rebuild(context.Background()); err != nil {
		t.Fatalf("initial rebuild failed: %v", err)
	}
	if err := b.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer b.Stop()

	writePNG(t, filepath.Join(dir, "b.png"))

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cat, _ := store.Current(); cat.Len() == 2 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}

	cat, _ := store.Current()
	t.Errorf("catalog never picked up the new file: %d slides", cat.Len())
}
