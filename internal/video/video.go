// Package video provides sequential, pull-based access to decoded video
// frames, scaled to the display resolution.
//
// The playback loop paces presentation itself, so sources are pull-based:
// Next blocks briefly for one decode and returns the next display-sized
// frame. Decoding internals are opaque to the rest of the pipeline.
package video

import "github.com/visiona/signage/internal/types"

// Source is an open, sequential frame decoder. Frames come back already
// stretch-scaled to the display resolution. Next returns
// types.ErrStreamExhausted when the source has no more frames.
type Source interface {
	Next() (*types.Frame, error)
	Stats() types.StreamStats
	Close() error
}

// Opener opens and validates video files. Probe performs a validation-only
// open and releases all decoder resources before returning; the real decode
// happens lazily per playback via Open.
type Opener interface {
	Open(path string) (Source, error)
	Probe(path string) error
}
