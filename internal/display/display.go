// Package display defines the boundary to the full-screen output surface
// and its input events. Driver negotiation stays behind this port; the core
// only emits composited RGBA frames and consumes discrete input events.
package display

import (
	"image"

	"github.com/visiona/signage/internal/types"
)

// Surface is a full-screen presentation target.
//
// Present takes a frame exactly Size() wide and tall. Poll drains whatever
// input events arrived since the last call; it must not block longer than
// roughly one frame interval so cancellation stays responsive.
type Surface interface {
	Size() (width, height int)
	Present(frame *image.RGBA) error
	Poll() []types.InputEvent
	Close() error
}
