package display

import (
	"image"
	"sync"

	"github.com/visiona/signage/internal/types"
)

// Memory is an in-process surface for tests and headless runs. It records
// presented frames and replays scripted input events.
type Memory struct {
	width  int
	height int

	mu        sync.Mutex
	presented int
	last      *image.RGBA
	keepAll   bool
	frames    []*image.RGBA
	events    []types.InputEvent
	// PresentErr, when set, is returned by every subsequent Present call
	PresentErr error
	// EventAfter injects quit-style events once presented reaches the given
	// count; zero means never
	EventAfter      int
	EventAfterValue types.InputEvent
}

// NewMemory creates a memory surface of the given size
func NewMemory(width, height int) *Memory {
	return &Memory{width: width, height: height}
}

// KeepFrames makes the surface retain a copy of every presented frame
func (m *Memory) KeepFrames() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keepAll = true
}

// PushEvents queues input events returned by subsequent Poll calls
func (m *Memory) PushEvents(events ...types.InputEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
}

func (m *Memory) Size() (int, int) {
	return m.width, m.height
}

func (m *Memory) Present(frame *image.RGBA) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.PresentErr != nil {
		return m.PresentErr
	}

	m.presented++
	cp := image.NewRGBA(frame.Bounds())
	copy(cp.Pix, frame.Pix)
	m.last = cp
	if m.keepAll {
		m.frames = append(m.frames, cp)
	}

	if m.EventAfter > 0 && m.presented >= m.EventAfter {
		m.events = append(m.events, m.EventAfterValue)
		m.EventAfter = 0
	}
	return nil
}

func (m *Memory) Poll() []types.InputEvent {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.events) == 0 {
		return nil
	}
	out := m.events
	m.events = nil
	return out
}

func (m *Memory) Close() error {
	return nil
}

// Presented returns how many frames were presented
func (m *Memory) Presented() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.presented
}

// Last returns a copy of the most recently presented frame, or nil
func (m *Memory) Last() *image.RGBA {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// Frames returns the retained frames (KeepFrames must have been enabled)
func (m *Memory) Frames() []*image.RGBA {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frames
}
