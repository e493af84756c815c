package types

import (
	"errors"
	"fmt"
)

// ErrQuit signals that a quit input event was observed. It is used by the
// playback loop to distinguish an orderly user-initiated stop from a failure.
var ErrQuit = errors.New("quit requested")

// ErrStreamExhausted signals that a sequential frame source has no more
// frames. Analogous to io.EOF but scoped to the video boundary.
var ErrStreamExhausted = errors.New("stream exhausted")

// LoadError describes a single skipped item during a catalog build.
//
// Load errors are always recovered locally: the offending item is dropped,
// the error is recorded on the catalog and logged, and the scan continues.
type LoadError struct {
	// Stage identifies the pipeline stage that failed (e.g. "image_decode",
	// "video_probe", "footer", "qr")
	Stage string
	// Item is the file name or identifier that failed
	Item string
	// Err is the underlying cause
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Stage, e.Item, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError wraps a per-item failure with its stage and identifier
func NewLoadError(stage, item string, err error) *LoadError {
	return &LoadError{Stage: stage, Item: item, Err: err}
}
