package types

// InputEvent is a discrete input event consumed by the playback loop.
// Anything the display backend cannot map onto one of these is ignored
// before it reaches the loop.
type InputEvent int

const (
	// EventQuit is a window-close / process-level quit request
	EventQuit InputEvent = iota
	// EventEscapePressed is the designated escape key
	EventEscapePressed
	// EventCustomQuitCombo is the configured quit key combination
	EventCustomQuitCombo
)

func (e InputEvent) String() string {
	switch e {
	case EventQuit:
		return "quit"
	case EventEscapePressed:
		return "escape"
	case EventCustomQuitCombo:
		return "quit_combo"
	default:
		return "unknown"
	}
}

// IsQuit reports whether the event terminates playback
func (e InputEvent) IsQuit() bool {
	switch e {
	case EventQuit, EventEscapePressed, EventCustomQuitCombo:
		return true
	default:
		return false
	}
}

// PlaybackState identifies the playback loop's current state
type PlaybackState string

const (
	// StateShowingImage holds a still image for the configured duration
	StateShowingImage PlaybackState = "showing_image"
	// StatePlayingVideo streams decoded video frames sequentially
	StatePlayingVideo PlaybackState = "playing_video"
	// StateTransitioning runs one transition engine invocation
	StateTransitioning PlaybackState = "transitioning"
	// StateNoContent displays the empty-catalog message and retries
	StateNoContent PlaybackState = "no_content"
	// StateErrorRetry displays a generic error message and retries
	StateErrorRetry PlaybackState = "error_retry"
)

// LoopStats is a snapshot of playback loop counters
type LoopStats struct {
	State           PlaybackState
	Cursor          int
	CatalogLen      int
	FramesPresented uint64
	TransitionsRun  uint64
	VideosPlayed    uint64
	RebuildsForced  uint64
	RuntimeErrors   uint64
	CatalogBuildID  string
}

// StreamStats contains sequential frame source statistics
type StreamStats struct {
	FramesDecoded uint64
	Width         int
	Height        int
	Path          string
	Exhausted     bool
}
