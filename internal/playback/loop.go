// Package playback drives the render/timing loop as an explicit state
// machine. One logical thread of control advances through the catalog,
// holds still images, streams videos, and invokes the transition engine,
// cooperatively polling input and cancellation at frame-rate granularity.
package playback

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"sync"
	"time"

	"github.com/visiona/signage/internal/config"
	"github.com/visiona/signage/internal/content"
	"github.com/visiona/signage/internal/display"
	"github.com/visiona/signage/internal/render"
	"github.com/visiona/signage/internal/types"
	"github.com/visiona/signage/internal/video"
)

const (
	noContentMessage = "No valid slides found. Retrying..."
	errorMessage     = "Invalid configuration. Retrying..."

	statsLogInterval = 5 * time.Second
)

var errorTextColor = color.RGBA{R: 255, A: 255}

// Rebuilder forces a synchronous catalog rebuild and install. The hot-reload
// bridge implements it; the loop calls it after no-content and error-retry
// pauses.
type Rebuilder interface {
	Rebuild(ctx context.Context) error
}

// Deps are the collaborators wired into the loop
type Deps struct {
	Store     *content.Store
	Surface   display.Surface
	Opener    video.Opener
	Engine    *render.Engine
	Overlay   *render.Overlay
	Rebuilder Rebuilder
}

// Loop is the playback state machine
type Loop struct {
	store     *content.Store
	surface   display.Surface
	opener    video.Opener
	engine    *render.Engine
	overlay   *render.Overlay
	rebuilder Rebuilder

	holdDuration  time.Duration
	retryDelay    time.Duration
	frameInterval time.Duration
	transDuration time.Duration
	transFPS      int
	enabled       []render.Kind

	scratch *image.RGBA

	mu             sync.Mutex
	state          types.PlaybackState
	cursor         int
	gen            uint64
	catalogLen     int
	buildID        string
	framesShown    uint64
	transitionsRun uint64
	videosPlayed   uint64
	rebuildsForced uint64
	runtimeErrors  uint64
}

// New creates the playback loop from a validated configuration
func New(cfg *config.Config, deps Deps) *Loop {
	width, height := deps.Surface.Size()

	enabled := make([]render.Kind, 0, len(cfg.Transition.Enabled))
	for _, name := range cfg.Transition.Enabled {
		// Validated already; ParseKind cannot fail here.
		kind, _ := render.ParseKind(name)
		enabled = append(enabled, kind)
	}

	return &Loop{
		store:         deps.Store,
		surface:       deps.Surface,
		opener:        deps.Opener,
		engine:        deps.Engine,
		overlay:       deps.Overlay,
		rebuilder:     deps.Rebuilder,
		holdDuration:  time.Duration(cfg.SlideDurationS * float64(time.Second)),
		retryDelay:    time.Duration(cfg.ErrorRetryDelayS * float64(time.Second)),
		frameInterval: time.Second / time.Duration(cfg.Display.FPS),
		transDuration: time.Duration(cfg.Transition.DurationS * float64(time.Second)),
		transFPS:      cfg.Transition.FPS,
		enabled:       enabled,
		scratch:       image.NewRGBA(image.Rect(0, 0, width, height)),
		state:         types.StateNoContent,
	}
}

// Run drives playback until ctx is cancelled or a quit input event is
// observed. Processing errors never terminate the loop; they route through
// the error-retry state and a forced catalog rebuild.
func (l *Loop) Run(ctx context.Context) error {
	slog.Info("playback loop started",
		"hold", l.holdDuration,
		"transition", l.transDuration,
		"transitions", l.enabled,
	)

	// The stats goroutine must not outlive Run, even when playback stops
	// on a quit event rather than cancellation. Cancel before waiting, or a
	// quit-key return would block on a goroutine still parked on the parent
	// context.
	ctx, cancel := context.WithCancel(ctx)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		l.logStats(ctx)
	}()
	defer func() {
		cancel()
		wg.Wait()
	}()

	for {
		if ctx.Err() != nil {
			slog.Info("playback loop stopping", "reason", "context cancelled")
			return nil
		}

		// Catalog reference is read once per slide decision point, never
		// mid-frame; a reload landing mid-transition takes effect here.
		cat, gen := l.store.Current()
		l.syncCursor(cat, gen)

		var err error
		if cat.Empty() {
			err = l.noContent(ctx)
		} else {
			err = l.playCurrent(ctx, cat)
		}

		switch {
		case err == nil:
		case errors.Is(err, types.ErrQuit):
			slog.Info("playback loop stopping", "reason", "quit requested")
			return nil
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			slog.Info("playback loop stopping", "reason", "context cancelled")
			return nil
		default:
			// Recovered at the loop boundary: log, show the generic error
			// screen, force a rebuild, keep going.
			l.mu.Lock()
			l.runtimeErrors++
			state := l.state
			l.mu.Unlock()

			slog.Error("runtime render error",
				"state", state,
				"error", err,
			)

			switch rerr := l.errorRetry(ctx); {
			case rerr == nil:
			case errors.Is(rerr, types.ErrQuit):
				slog.Info("playback loop stopping", "reason", "quit requested")
				return nil
			case errors.Is(rerr, context.Canceled) || errors.Is(rerr, context.DeadlineExceeded):
				slog.Info("playback loop stopping", "reason", "context cancelled")
				return nil
			default:
				// The retry screen itself failed, e.g. a transient present
				// error. Only quit and cancellation terminate the loop; pause
				// one frame interval and go around again.
				slog.Error("error-retry screen failed", "error", rerr)
				select {
				case <-ctx.Done():
					slog.Info("playback loop stopping", "reason", "context cancelled")
					return nil
				case <-time.After(l.frameInterval):
				}
			}
		}
	}
}

// Stats returns a snapshot of loop counters
func (l *Loop) Stats() types.LoopStats {
	l.mu.Lock()
	defer l.mu.Unlock()

	return types.LoopStats{
		State:           l.state,
		Cursor:          l.cursor,
		CatalogLen:      l.catalogLen,
		FramesPresented: l.framesShown,
		TransitionsRun:  l.transitionsRun,
		VideosPlayed:    l.videosPlayed,
		RebuildsForced:  l.rebuildsForced,
		RuntimeErrors:   l.runtimeErrors,
		CatalogBuildID:  l.buildID,
	}
}

// syncCursor re-clamps the cursor against the observed catalog, so a
// shrinking catalog can never yield an out-of-range read. The clamp must
// not depend on the generation: the store writes the catalog pointer and
// the generation counter separately, so a fresh, shorter catalog can
// arrive paired with a stale generation.
func (l *Loop) syncCursor(cat *types.Catalog, gen uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.catalogLen = cat.Len()
	l.buildID = cat.BuildID

	if l.cursor >= cat.Len() {
		l.cursor = 0
	}
	if gen != l.gen {
		l.gen = gen
		slog.Debug("catalog generation observed",
			"generation", gen,
			"build_id", cat.BuildID,
			"slides", cat.Len(),
			"cursor", l.cursor,
		)
	}
}

// playCurrent processes exactly one slide (including any trailing
// transition) and advances the cursor
func (l *Loop) playCurrent(ctx context.Context, cat *types.Catalog) error {
	l.mu.Lock()
	cursor := l.cursor
	l.mu.Unlock()

	slide := cat.Slides[cursor]

	var err error
	switch slide.Kind {
	case types.KindImage:
		err = l.showImage(ctx, cat, cursor, slide)
	case types.KindVideo:
		err = l.playVideo(ctx, cat, slide)
	}
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.cursor = (l.cursor + 1) % cat.Len()
	l.mu.Unlock()
	return nil
}

// showImage presents a still image, holds it for the configured duration
// without blocking longer than one frame interval, then transitions when
// the next slide is also an image
func (l *Loop) showImage(ctx context.Context, cat *types.Catalog, cursor int, slide types.Slide) error {
	l.setState(types.StateShowingImage)

	if err := l.present(slide.Surface, cat); err != nil {
		return err
	}

	if err := l.wait(ctx, l.holdDuration); err != nil {
		return err
	}

	next := cat.Slides[(cursor+1)%cat.Len()]
	if next.Kind != types.KindImage || cat.Len() < 2 {
		return nil
	}

	l.setState(types.StateTransitioning)
	kind := l.engine.Pick(l.enabled)
	spec := render.Spec{
		Kind:      kind,
		Duration:  l.transDuration,
		FrameRate: l.transFPS,
	}

	slog.Debug("transition starting",
		"kind", kind,
		"from", slide.Name,
		"to", next.Name,
		"steps", spec.Steps(false),
	)

	err := l.engine.Run(ctx, slide.Surface, next.Surface, spec, func(frame *image.RGBA) error {
		if qerr := l.pollQuit(); qerr != nil {
			return qerr
		}
		return l.present(frame, cat)
	})
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.transitionsRun++
	l.mu.Unlock()
	return nil
}

// playVideo streams decoded frames sequentially until the source is
// exhausted, pacing presentation at the display frame rate
func (l *Loop) playVideo(ctx context.Context, cat *types.Catalog, slide types.Slide) error {
	l.setState(types.StatePlayingVideo)

	src, err := l.opener.Open(slide.Path)
	if err != nil {
		return err
	}
	defer src.Close()

	ticker := time.NewTicker(l.frameInterval)
	defer ticker.Stop()

	for {
		if err := l.pollQuit(); err != nil {
			return err
		}

		frame, err := src.Next()
		if errors.Is(err, types.ErrStreamExhausted) {
			break
		}
		if err != nil {
			return err
		}

		if err := l.present(frame.Surface, cat); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}

	l.mu.Lock()
	l.videosPlayed++
	l.mu.Unlock()

	slog.Debug("video finished",
		"path", slide.Path,
		"frames", src.Stats().FramesDecoded,
	)
	return nil
}

// noContent shows the empty-catalog screen for the retry delay, then forces
// a rebuild
func (l *Loop) noContent(ctx context.Context) error {
	l.setState(types.StateNoContent)
	return l.messageAndRetry(ctx, noContentMessage)
}

// errorRetry shows the generic error screen for the retry delay, then
// forces a rebuild
func (l *Loop) errorRetry(ctx context.Context) error {
	l.setState(types.StateErrorRetry)
	return l.messageAndRetry(ctx, errorMessage)
}

func (l *Loop) messageAndRetry(ctx context.Context, msg string) error {
	l.overlay.Message(l.scratch, msg, errorTextColor)
	if err := l.surface.Present(l.scratch); err != nil {
		return err
	}

	l.mu.Lock()
	l.framesShown++
	l.mu.Unlock()

	if err := l.wait(ctx, l.retryDelay); err != nil {
		return err
	}

	l.mu.Lock()
	l.rebuildsForced++
	l.mu.Unlock()

	if l.rebuilder != nil {
		if err := l.rebuilder.Rebuild(ctx); err != nil {
			slog.Error("forced rebuild failed", "error", err)
		}
	}
	return nil
}

// present copies the frame into the scratch buffer, applies the overlays
// and hands it to the surface. Transition frames stay untouched: overlays
// are composited on the copy only.
func (l *Loop) present(frame *image.RGBA, cat *types.Catalog) error {
	draw.Draw(l.scratch, l.scratch.Bounds(), frame, frame.Bounds().Min, draw.Src)
	l.overlay.Apply(l.scratch, cat.Footer, cat.QR)

	if err := l.surface.Present(l.scratch); err != nil {
		return err
	}

	l.mu.Lock()
	l.framesShown++
	l.mu.Unlock()
	return nil
}

// wait holds for d while polling input and cancellation every frame
// interval. It never sleeps the whole duration in one call.
func (l *Loop) wait(ctx context.Context, d time.Duration) error {
	ticker := time.NewTicker(l.frameInterval)
	defer ticker.Stop()

	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if err := l.pollQuit(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

// pollQuit drains pending input events; quit-style events stop playback
func (l *Loop) pollQuit() error {
	for _, ev := range l.surface.Poll() {
		if ev.IsQuit() {
			slog.Debug("quit event observed", "event", ev)
			return types.ErrQuit
		}
	}
	return nil
}

func (l *Loop) setState(s types.PlaybackState) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != s {
		slog.Debug("playback state change", "from", l.state, "to", s)
		l.state = s
	}
}

// logStats emits a periodic counters snapshot, mirroring the pipeline
// stats line the frame consumer logs upstream
func (l *Loop) logStats(ctx context.Context) {
	ticker := time.NewTicker(statsLogInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s := l.Stats()
			slog.Debug("playback stats",
				"state", s.State,
				"cursor", s.Cursor,
				"catalog_len", s.CatalogLen,
				"frames_presented", s.FramesPresented,
				"transitions", s.TransitionsRun,
				"videos", s.VideosPlayed,
				"rebuilds_forced", s.RebuildsForced,
				"runtime_errors", s.RuntimeErrors,
				"build_id", s.CatalogBuildID,
			)
		}
	}
}
