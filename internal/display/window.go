package display

import (
	"fmt"
	"image"
	"log/slog"

	"gocv.io/x/gocv"

	"github.com/visiona/signage/internal/config"
	"github.com/visiona/signage/internal/types"
)

const escapeKey = 27

// Window presents frames through an OpenCV highgui window. This is the
// production surface; failing to open it is the one unrecoverable condition
// in the system.
type Window struct {
	win    *gocv.Window
	width  int
	height int
	bgr    gocv.Mat
}

// NewWindow opens the on-screen window. An error here is fatal to the
// process: with no display surface there is nothing left to do.
func NewWindow(cfg config.Display) (*Window, error) {
	win := gocv.NewWindow(cfg.WindowTitle)
	if !win.IsOpen() {
		return nil, fmt.Errorf("failed to open display window %q", cfg.WindowTitle)
	}

	if cfg.Fullscreen {
		win.SetWindowProperty(gocv.WindowPropertyFullscreen, gocv.WindowFullscreen)
	} else {
		win.ResizeWindow(cfg.Width, cfg.Height)
	}

	slog.Info("display window opened",
		"title", cfg.WindowTitle,
		"width", cfg.Width,
		"height", cfg.Height,
		"fullscreen", cfg.Fullscreen,
	)

	return &Window{
		win:    win,
		width:  cfg.Width,
		height: cfg.Height,
		bgr:    gocv.NewMat(),
	}, nil
}

func (w *Window) Size() (int, int) {
	return w.width, w.height
}

func (w *Window) Present(frame *image.RGBA) error {
	mat, err := gocv.ImageToMatRGBA(frame)
	if err != nil {
		return fmt.Errorf("failed to convert frame: %w", err)
	}
	defer mat.Close()

	gocv.CvtColor(mat, &w.bgr, gocv.ColorRGBAToBGR)
	w.win.IMShow(w.bgr)
	return nil
}

// Poll pumps the window event loop for one millisecond and maps pressed
// keys onto input events. ESC and q both quit; everything else is ignored.
func (w *Window) Poll() []types.InputEvent {
	if !w.win.IsOpen() {
		return []types.InputEvent{types.EventQuit}
	}

	switch key := w.win.WaitKey(1); key {
	case escapeKey:
		return []types.InputEvent{types.EventEscapePressed}
	case 'q', 'Q':
		return []types.InputEvent{types.EventCustomQuitCombo}
	default:
		return nil
	}
}

func (w *Window) Close() error {
	w.bgr.Close()
	return w.win.Close()
}
