package types

import (
	"image"
	"time"
)

// Frame represents a single full-screen frame ready for presentation
type Frame struct {
	// Seq is the monotonic sequence number within its source
	Seq uint64
	// Timestamp is when the frame was decoded/composited
	Timestamp time.Time
	// Width in pixels
	Width int
	// Height in pixels
	Height int
	// Surface holds the pixel data, always exactly Width x Height
	Surface *image.RGBA
	// TraceID is a unique identifier for tracing a frame across the pipeline
	TraceID string
}

// SlideKind discriminates the slide variants
type SlideKind int

const (
	// KindImage is a still image slide, fully decoded at catalog build time
	KindImage SlideKind = iota
	// KindVideo is a video slide, decoded lazily per playback
	KindVideo
)

func (k SlideKind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindVideo:
		return "video"
	default:
		return "unknown"
	}
}

// Slide is one unit of displayable content.
//
// Invariant: for KindImage, Surface is exactly the display's width x height.
// For KindVideo, only Path is set; the decoder is opened per playback.
type Slide struct {
	Kind SlideKind
	// Name is the source file name, used for diagnostics
	Name string
	// Surface is the decoded, display-sized pixel buffer (KindImage only)
	Surface *image.RGBA
	// Path is the absolute path to the video file (KindVideo only)
	Path string
}

// NewImageSlide creates an image slide from a display-sized surface
func NewImageSlide(name string, surface *image.RGBA) Slide {
	return Slide{Kind: KindImage, Name: name, Surface: surface}
}

// NewVideoSlide creates a video slide referencing a validated file
func NewVideoSlide(name, path string) Slide {
	return Slide{Kind: KindVideo, Name: name, Path: path}
}

// Catalog is the ordered, immutable collection of slides plus overlays.
//
// A catalog is built wholesale and never mutated afterwards; consumers hold
// a read-only reference while the active catalog may be replaced underneath
// them via an atomic swap (see content.Store).
type Catalog struct {
	// BuildID uniquely identifies this build for log correlation
	BuildID string
	// BuiltAt is when the build completed
	BuiltAt time.Time
	// Slides in lexicographic filename order
	Slides []Slide
	// Footer holds the non-blank footer lines, order preserved (may be empty)
	Footer []string
	// QR is the QR overlay bitmap, nil when no qr_url.txt is present
	QR image.Image
	// LoadErrors records the per-item failures skipped during the build
	LoadErrors []LoadError
}

// Len returns the number of slides
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Slides)
}

// Empty reports the "no content" condition. An empty catalog is a valid,
// defined state, not an error.
func (c *Catalog) Empty() bool {
	return c.Len() == 0
}
