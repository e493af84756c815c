package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/visiona/signage/internal/config"
)

func testOverlay(t *testing.T) *Overlay {
	t.Helper()

	footer := config.Footer{
		FontSize:  24,
		TextColor: []int{255, 255, 255},
		BGColor:   []int{0, 0, 255, 128},
		Margin:    20,
	}
	qr := config.QR{BoxSize: 5, Border: 2, Margin: 20}

	o, err := NewOverlay(footer, qr)
	if err != nil {
		t.Fatalf("NewOverlay failed: %v", err)
	}
	return o
}

func TestApplyWithoutOverlaysLeavesFrameUntouched(t *testing.T) {
	o := testOverlay(t)

	frame := checker(120, 80, 13)
	want := cloneRGBA(frame)

	o.Apply(frame, nil, nil)

	if !framesEqual(frame, want) {
		t.Error("Apply with no footer and no QR must not modify the frame")
	}
}

// TestApplyFooterPanel validates the bottom-left anchored panel: its pixels
// are tinted by the semi-transparent background while regions outside the
// panel stay untouched
func TestApplyFooterPanel(t *testing.T) {
	o := testOverlay(t)

	frame := solid(400, 300, color.RGBA{A: 255}) // black
	o.Apply(frame, []string{"Hello", "World"}, nil)

	// Panel interior: 2 lines * 29px + padding, anchored 20px from
	// left/bottom. Sample just inside the bottom-left anchor.
	inside := frame.RGBAAt(25, 300-25)
	if inside.B == 0 {
		t.Errorf("pixel inside footer panel should carry the blue background, got %v", inside)
	}

	// Far corners stay untouched.
	if got := frame.RGBAAt(399, 0); got.B != 0 || got.R != 0 {
		t.Errorf("pixel outside footer panel modified: %v", got)
	}
	if got := frame.RGBAAt(5, 5); got.B != 0 {
		t.Errorf("top-left pixel modified: %v", got)
	}
}

// TestApplyFooterPanelWidthTracksWidestLine validates that a longer line
// widens the panel
func TestApplyFooterPanelWidthTracksWidestLine(t *testing.T) {
	o := testOverlay(t)

	narrow := solid(600, 200, color.RGBA{A: 255})
	wide := solid(600, 200, color.RGBA{A: 255})

	o.Apply(narrow, []string{"hi"}, nil)
	o.Apply(wide, []string{"a considerably longer footer line"}, nil)

	width := func(frame *image.RGBA) int {
		y := 200 - 30 // inside the single-line panel
		w := 0
		for x := 0; x < 600; x++ {
			if frame.RGBAAt(x, y).B > 0 {
				w++
			}
		}
		return w
	}

	if wn, ww := width(narrow), width(wide); ww <= wn {
		t.Errorf("panel width should track the widest line: narrow=%d wide=%d", wn, ww)
	}
}

// TestApplyFooterPanelPadding validates the fixed panel padding: 20px of
// background on each side of the text and a panel exactly
// lines*lineHeight + 10px tall
func TestApplyFooterPanelPadding(t *testing.T) {
	o := testOverlay(t)

	frame := solid(600, 200, color.RGBA{A: 255})
	o.Apply(frame, []string{"."}, nil)

	// Even a near-empty line yields at least the 40px of horizontal padding.
	y := 200 - 30
	width := 0
	for x := 0; x < 600; x++ {
		if frame.RGBAAt(x, y).B > 0 {
			width++
		}
	}
	if width < 40 {
		t.Errorf("panel width %d below the 2x20px padding floor", width)
	}

	// Panel height: 1 line * (24+5) + 10 = 39px.
	height := 0
	for yy := 0; yy < 200; yy++ {
		if frame.RGBAAt(25, yy).B > 0 {
			height++
		}
	}
	if height != 39 {
		t.Errorf("panel height = %d, expected 39", height)
	}
}

func TestApplyQRBottomRight(t *testing.T) {
	o := testOverlay(t)

	qr := solid(30, 30, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	frame := solid(200, 100, color.RGBA{A: 255})

	o.Apply(frame, nil, qr)

	// QR occupies [150,180) x [50,80) with the 20px margin.
	if got := frame.RGBAAt(165, 65); got.R != 255 {
		t.Errorf("pixel inside QR region should be white, got %v", got)
	}
	if got := frame.RGBAAt(165, 30); got.R != 0 {
		t.Errorf("pixel above QR region modified: %v", got)
	}
	if got := frame.RGBAAt(199, 99); got.R != 0 {
		t.Errorf("margin corner should stay clear, got %v", got)
	}
}

func TestApplyFooterAndQRAreIndependent(t *testing.T) {
	o := testOverlay(t)

	qr := solid(20, 20, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	frame := solid(400, 200, color.RGBA{A: 255})

	o.Apply(frame, []string{"line"}, qr)

	if got := frame.RGBAAt(25, 175); got.B == 0 {
		t.Error("footer panel missing when both overlays are present")
	}
	if got := frame.RGBAAt(370, 170); got.R != 255 {
		t.Error("QR missing when both overlays are present")
	}
}

func TestMessageClearsAndCenters(t *testing.T) {
	o := testOverlay(t)

	frame := checker(300, 150, 21)
	o.Message(frame, "No valid slides found. Retrying...", color.RGBA{R: 255, A: 255})

	if got := frame.RGBAAt(2, 2); got.R != 0 || got.G != 0 || got.B != 0 {
		t.Errorf("Message should clear the frame to black, got corner %v", got)
	}

	// Some pixel near the vertical center must carry the text color.
	found := false
	for y := 60; y < 90 && !found; y++ {
		for x := 0; x < 300; x++ {
			if frame.RGBAAt(x, y).R > 100 {
				found = true
				break
			}
		}
	}
	if !found {
		t.Error("Message text not drawn near the frame center")
	}
}
