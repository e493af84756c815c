package render

import (
	"context"
	"fmt"
	"image"
	"math/rand"
	"time"
)

// Kind identifies a transition algorithm
type Kind string

const (
	Fade     Kind = "fade"
	Slide    Kind = "slide"
	Dissolve Kind = "dissolve"
	Zoom     Kind = "zoom"
)

// ParseKind maps a configuration name onto a transition kind
func ParseKind(name string) (Kind, error) {
	switch Kind(name) {
	case Fade, Slide, Dissolve, Zoom:
		return Kind(name), nil
	default:
		return "", fmt.Errorf("unknown transition kind %q", name)
	}
}

// Spec parameterizes one transition engine invocation
type Spec struct {
	Kind      Kind
	Duration  time.Duration
	FrameRate int
}

// fastSteps is the fixed step count used in reduced-step mode on
// constrained hardware
const fastSteps = 6

// Steps converts duration x frame rate into the integer step count.
// The result is never below 1; in fast mode it is clamped to fastSteps.
func (s Spec) Steps(fast bool) int {
	n := int(s.Duration.Seconds() * float64(s.FrameRate))
	if n < 1 {
		n = 1
	}
	if fast && n > fastSteps {
		n = fastSteps
	}
	return n
}

// dissolveBlock is the square block edge used by the dissolve transition.
// The original replaced individual pixels; blocks keep the exactly-once
// coverage guarantee at tractable cost.
const dissolveBlock = 8

// animator renders the intermediate frames of one transition. frame(i, n)
// returns the composited frame for step i of n; the returned buffer is
// owned by the animator and only valid until the next call.
type animator interface {
	frame(i, n int) *image.RGBA
}

// Engine renders frame-by-frame transitions between two display-sized
// surfaces. It is driven by the playback loop and blocks the caller until
// the sequence completes or cancellation is observed.
type Engine struct {
	width  int
	height int
	rng    *rand.Rand
	fast   bool
}

// NewEngine creates a transition engine for the given display size.
// The rand source is injectable so tests can fix permutations and
// algorithm selection deterministically.
func NewEngine(width, height int, rng *rand.Rand, fast bool) *Engine {
	return &Engine{
		width:  width,
		height: height,
		rng:    rng,
		fast:   fast,
	}
}

// Pick selects a transition kind uniformly at random from the enabled set
func (e *Engine) Pick(enabled []Kind) Kind {
	return enabled[e.rng.Intn(len(enabled))]
}

// Run produces the finite frame sequence from 'from' to 'to' and hands each
// composited frame to present, paced at spec.FrameRate. It returns when the
// sequence completes, when ctx is cancelled, or when present returns an
// error (quit observed mid-transition). Cancellation is honored within one
// frame interval; remaining steps are abandoned.
//
// Progress runs over (i+1)/n so the terminal frame is always pure 'to',
// including the degenerate n=1 case.
func (e *Engine) Run(ctx context.Context, from, to *image.RGBA, spec Spec, present func(*image.RGBA) error) error {
	n := spec.Steps(e.fast)
	anim := e.newAnimator(spec.Kind, from, to)

	interval := time.Second / time.Duration(spec.FrameRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := present(anim.frame(i, n)); err != nil {
			return err
		}

		// Pace the final frame too; the caller re-presents the settled
		// slide immediately after.
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}

	return nil
}

func (e *Engine) newAnimator(kind Kind, from, to *image.RGBA) animator {
	switch kind {
	case Slide:
		return newSlideAnimator(from, to)
	case Dissolve:
		return newDissolveAnimator(from, to, dissolveBlock, e.rng)
	case Zoom:
		return newZoomAnimator(from, to)
	default:
		return newFadeAnimator(from, to)
	}
}
