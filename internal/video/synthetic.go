package video

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/visiona/signage/internal/types"
)

// SyntheticOpener serves solid-color frame sequences for testing, so the
// playback loop and catalog builder can be exercised without a real decoder.
type SyntheticOpener struct {
	Width      int
	Height     int
	FrameCount int
	// Fill is the frame color; zero value means black
	Fill color.RGBA
	// ProbeErrs maps paths to injected validation failures
	ProbeErrs map[string]error

	mu     sync.Mutex
	probes int
	opens  int
}

func (o *SyntheticOpener) Probe(path string) error {
	o.mu.Lock()
	o.probes++
	o.mu.Unlock()

	if err, ok := o.ProbeErrs[path]; ok {
		return err
	}
	return nil
}

func (o *SyntheticOpener) Open(path string) (Source, error) {
	if err := o.Probe(path); err != nil {
		return nil, fmt.Errorf("failed to open video: %w", err)
	}

	o.mu.Lock()
	o.opens++
	o.mu.Unlock()

	return &syntheticSource{
		path:      path,
		width:     o.Width,
		height:    o.Height,
		remaining: o.FrameCount,
		fill:      o.Fill,
	}, nil
}

// Probes returns how many validation opens were requested
func (o *SyntheticOpener) Probes() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.probes
}

// Opens returns how many playback opens were requested
func (o *SyntheticOpener) Opens() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.opens
}

type syntheticSource struct {
	path      string
	width     int
	height    int
	fill      color.RGBA
	remaining int
	seq       uint64
	closed    bool
}

func (s *syntheticSource) Next() (*types.Frame, error) {
	if s.closed || s.remaining <= 0 {
		return nil, types.ErrStreamExhausted
	}
	s.remaining--
	s.seq++

	surface := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	fill := s.fill
	fill.A = 255
	draw.Draw(surface, surface.Bounds(), image.NewUniform(fill), image.Point{}, draw.Src)

	return &types.Frame{
		Seq:       s.seq,
		Timestamp: time.Now(),
		Width:     s.width,
		Height:    s.height,
		Surface:   surface,
		TraceID:   uuid.New().String(),
	}, nil
}

func (s *syntheticSource) Stats() types.StreamStats {
	return types.StreamStats{
		FramesDecoded: s.seq,
		Width:         s.width,
		Height:        s.height,
		Path:          s.path,
		Exhausted:     s.remaining <= 0,
	}
}

func (s *syntheticSource) Close() error {
	s.closed = true
	return nil
}
