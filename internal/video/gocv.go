package video

import (
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/visiona/signage/internal/render"
	"github.com/visiona/signage/internal/types"
)

// FileOpener opens local video files through OpenCV. It is the production
// Opener; one instance is shared by the catalog builder (Probe) and the
// playback loop (Open).
type FileOpener struct {
	width  int
	height int
}

// NewFileOpener creates an opener producing frames at the display resolution
func NewFileOpener(width, height int) *FileOpener {
	return &FileOpener{width: width, height: height}
}

// Probe validates that the file opens as a video and immediately releases
// the decoder
func (o *FileOpener) Probe(path string) error {
	vc, err := gocv.OpenVideoCapture(path)
	if err != nil {
		return fmt.Errorf("failed to open video: %w", err)
	}
	defer vc.Close()

	if !vc.IsOpened() {
		return fmt.Errorf("invalid video format")
	}
	return nil
}

// Open starts a sequential decode of the file
func (o *FileOpener) Open(path string) (Source, error) {
	vc, err := gocv.OpenVideoCapture(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open video: %w", err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("invalid video format")
	}

	return &fileSource{
		path:   path,
		vc:     vc,
		width:  o.width,
		height: o.height,
		bgr:    gocv.NewMat(),
		rgba:   gocv.NewMat(),
	}, nil
}

// fileSource decodes one video file frame by frame.
//
// Frames are presented at the display frame rate regardless of the source's
// native rate; no frame-rate matching is attempted (documented behavior).
type fileSource struct {
	path   string
	width  int
	height int

	mu        sync.Mutex
	vc        *gocv.VideoCapture
	bgr       gocv.Mat
	rgba      gocv.Mat
	seq       uint64
	exhausted bool
	closed    bool
}

func (s *fileSource) Next() (*types.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.exhausted {
		return nil, types.ErrStreamExhausted
	}

	if ok := s.vc.Read(&s.bgr); !ok || s.bgr.Empty() {
		s.exhausted = true
		return nil, types.ErrStreamExhausted
	}

	gocv.CvtColor(s.bgr, &s.rgba, gocv.ColorBGRToRGBA)

	img, err := s.rgba.ToImage()
	if err != nil {
		return nil, fmt.Errorf("failed to convert frame: %w", err)
	}

	surface, ok := img.(*image.RGBA)
	if !ok {
		return nil, fmt.Errorf("unexpected frame image type %T", img)
	}
	if surface.Bounds().Dx() != s.width || surface.Bounds().Dy() != s.height {
		surface = render.Stretch(surface, s.width, s.height)
	}

	s.seq++
	return &types.Frame{
		Seq:       s.seq,
		Timestamp: time.Now(),
		Width:     s.width,
		Height:    s.height,
		Surface:   surface,
		TraceID:   uuid.New().String(),
	}, nil
}

func (s *fileSource) Stats() types.StreamStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return types.StreamStats{
		FramesDecoded: s.seq,
		Width:         s.width,
		Height:        s.height,
		Path:          s.path,
		Exhausted:     s.exhausted,
	}
}

func (s *fileSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	s.bgr.Close()
	s.rgba.Close()
	return s.vc.Close()
}
