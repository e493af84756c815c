package video

import (
	"errors"
	"testing"

	"github.com/visiona/signage/internal/types"
)

func TestSyntheticSourceExhausts(t *testing.T) {
	o := &SyntheticOpener{Width: 16, Height: 12, FrameCount: 3}

	src, err := o.Open("/v.mp4")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer src.Close()

	for i := 0; i < 3; i++ {
		frame, err := src.Next()
		if err != nil {
			t.Fatalf("Next %d failed: %v", i, err)
		}
		if frame.Seq != uint64(i+1) {
			t.Errorf("frame %d has seq %d", i, frame.Seq)
		}
		if b := frame.Surface.Bounds(); b.Dx() != 16 || b.Dy() != 12 {
			t.Errorf("frame %d is %dx%d, expected 16x12", i, b.Dx(), b.Dy())
		}
		if frame.TraceID == "" {
			t.Errorf("frame %d missing trace id", i)
		}
	}

	if _, err := src.Next(); !errors.Is(err, types.ErrStreamExhausted) {
		t.Errorf("expected stream exhaustion, got %v", err)
	}

	stats := src.Stats()
	if stats.FramesDecoded != 3 || !stats.Exhausted {
		t.Errorf("stats = %+v", stats)
	}
}

func TestSyntheticSourceClosedStopsDecoding(t *testing.T) {
	o := &SyntheticOpener{Width: 8, Height: 8, FrameCount: 10}

	src, err := o.Open("/v.mp4")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	src.Close()

	if _, err := src.Next(); !errors.Is(err, types.ErrStreamExhausted) {
		t.Errorf("closed source must report exhaustion, got %v", err)
	}
}

func TestSyntheticOpenerInjectedFailure(t *testing.T) {
	boom := errors.New("no decoder")
	o := &SyntheticOpener{ProbeErrs: map[string]error{"/bad.mp4": boom}}

	if _, err := o.Open("/bad.mp4"); !errors.Is(err, boom) {
		t.Errorf("Open should surface the injected failure, got %v", err)
	}
	if o.Opens() != 0 {
		t.Errorf("a failed open must not count, got %d", o.Opens())
	}
}
