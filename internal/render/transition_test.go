package render

import (
	"context"
	"errors"
	"image"
	"image/color"
	"math/rand"
	"testing"
	"time"
)

func testEngine(w, h int, seed int64, fast bool) *Engine {
	return NewEngine(w, h, rand.New(rand.NewSource(seed)), fast)
}

func TestParseKind(t *testing.T) {
	for _, name := range []string{"fade", "slide", "dissolve", "zoom"} {
		if _, err := ParseKind(name); err != nil {
			t.Errorf("ParseKind(%q) failed: %v", name, err)
		}
	}
	if _, err := ParseKind("wipe"); err == nil {
		t.Error("ParseKind should reject unknown kinds")
	}
}

func TestPickStaysWithinEnabledSet(t *testing.T) {
	e := testEngine(8, 8, 1, false)

	enabled := []Kind{Dissolve, Zoom}
	seen := map[Kind]bool{}
	for i := 0; i < 50; i++ {
		kind := e.Pick(enabled)
		if kind != Dissolve && kind != Zoom {
			t.Fatalf("Pick returned %q outside the enabled set", kind)
		}
		seen[kind] = true
	}
	if len(seen) != 2 {
		t.Error("50 picks from a 2-kind set should have hit both kinds")
	}
}

// TestRunProducesAllSteps validates that a full run hands exactly N frames
// to present, terminating on a pure toFrame
func TestRunProducesAllSteps(t *testing.T) {
	e := testEngine(16, 12, 2, false)
	from := solid(16, 12, color.RGBA{R: 255, A: 255})
	to := solid(16, 12, color.RGBA{B: 255, A: 255})

	spec := Spec{Kind: Fade, Duration: 10 * time.Millisecond, FrameRate: 1000}

	var frames int
	var last *image.RGBA
	err := e.Run(context.Background(), from, to, spec, func(f *image.RGBA) error {
		frames++
		last = cloneRGBA(f)
		return nil
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if expected := spec.Steps(false); frames != expected {
		t.Errorf("presented %d frames, expected %d", frames, expected)
	}
	if !framesEqual(last, to) {
		t.Error("terminal frame must equal toFrame")
	}
}

// TestRunCancellationMidTransition validates mid-transition cancellation: a
// cancel observed at step 10 of a 30-step zoom halts frame production
// within one frame interval; no further frames are produced.
func TestRunCancellationMidTransition(t *testing.T) {
	e := testEngine(32, 24, 3, false)
	from := checker(32, 24, 1)
	to := checker(32, 24, 2)

	// 30 steps at a fast cadence so the test stays quick.
	spec := Spec{Kind: Zoom, Duration: 30 * time.Millisecond, FrameRate: 1000}
	if spec.Steps(false) != 30 {
		t.Fatalf("expected a 30-step spec, got %d", spec.Steps(false))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var frames int
	err := e.Run(ctx, from, to, spec, func(*image.RGBA) error {
		frames++
		if frames == 10 {
			cancel()
		}
		return nil
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run should surface the cancellation, got %v", err)
	}
	if frames != 10 {
		t.Errorf("no frames may be produced after cancellation: got %d, expected 10", frames)
	}
}

// TestRunStopsOnPresentError validates that a quit observed inside the
// present callback abandons the remaining steps immediately
func TestRunStopsOnPresentError(t *testing.T) {
	e := testEngine(8, 8, 4, false)
	from := solid(8, 8, color.RGBA{A: 255})
	to := solid(8, 8, color.RGBA{R: 255, A: 255})

	quit := errors.New("quit")
	spec := Spec{Kind: Slide, Duration: 20 * time.Millisecond, FrameRate: 1000}

	var frames int
	err := e.Run(context.Background(), from, to, spec, func(*image.RGBA) error {
		frames++
		if frames == 3 {
			return quit
		}
		return nil
	})

	if !errors.Is(err, quit) {
		t.Fatalf("Run should propagate the present error, got %v", err)
	}
	if frames != 3 {
		t.Errorf("expected exactly 3 presented frames, got %d", frames)
	}
}

// TestRunFastModeClampsSteps validates reduced-step mode for constrained
// hardware
func TestRunFastModeClampsSteps(t *testing.T) {
	e := testEngine(8, 8, 5, true)
	from := solid(8, 8, color.RGBA{A: 255})
	to := solid(8, 8, color.RGBA{G: 255, A: 255})

	spec := Spec{Kind: Dissolve, Duration: 2 * time.Second, FrameRate: 1000}

	var frames int
	err := e.Run(context.Background(), from, to, spec, func(*image.RGBA) error {
		frames++
		return nil
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if frames != fastSteps {
		t.Errorf("fast mode should clamp to %d steps, got %d", fastSteps, frames)
	}
}
