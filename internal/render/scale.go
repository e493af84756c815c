package render

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// Stretch scales src to exactly width x height, without preserving the
// aspect ratio. Non-uniform stretch is the documented behavior for slide
// surfaces and video frames; no alternative scaling mode is exercised.
func Stretch(src image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	b := src.Bounds()
	if b.Dx() == width && b.Dy() == height {
		xdraw.Draw(dst, dst.Bounds(), src, b.Min, xdraw.Src)
		return dst
	}
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}

// stretchInto scales src into the given rect of dst, compositing over the
// existing pixels. Used by the zoom transition for its centered layers.
func stretchInto(dst *image.RGBA, rect image.Rectangle, src *image.RGBA) {
	if rect.Empty() {
		return
	}
	b := src.Bounds()
	if rect.Dx() == b.Dx() && rect.Dy() == b.Dy() {
		xdraw.Draw(dst, rect, src, b.Min, xdraw.Src)
		return
	}
	xdraw.ApproxBiLinear.Scale(dst, rect, src, b, xdraw.Src, nil)
}

// cloneRGBA returns a deep copy of src
func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}
