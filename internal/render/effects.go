package render

import (
	"image"
	"image/draw"
	"math/rand"
)

// --- Fade ---

// fadeAnimator blends 'from' over 'to' with linearly decaying alpha:
// alpha_i = 255 * (1 - (i+1)/n), fully opaque 'from' at the start and pure
// 'to' at the final step.
type fadeAnimator struct {
	from, to *image.RGBA
	buf      *image.RGBA
}

func newFadeAnimator(from, to *image.RGBA) *fadeAnimator {
	return &fadeAnimator{
		from: from,
		to:   to,
		buf:  image.NewRGBA(from.Bounds()),
	}
}

func (a *fadeAnimator) frame(i, n int) *image.RGBA {
	alpha := uint32(255 * (n - 1 - i) / n)
	inv := 255 - alpha

	fp, tp, bp := a.from.Pix, a.to.Pix, a.buf.Pix
	for p := 0; p < len(bp); p++ {
		bp[p] = uint8((uint32(fp[p])*alpha + uint32(tp[p])*inv + 127) / 255)
	}
	return a.buf
}

// --- Slide ---

// slideAnimator implements the horizontal push: 'from' exits through the
// left edge while 'to' enters from the right.
type slideAnimator struct {
	from, to *image.RGBA
	buf      *image.RGBA
}

func newSlideAnimator(from, to *image.RGBA) *slideAnimator {
	return &slideAnimator{
		from: from,
		to:   to,
		buf:  image.NewRGBA(from.Bounds()),
	}
}

func (a *slideAnimator) frame(i, n int) *image.RGBA {
	b := a.buf.Bounds()
	w, h := b.Dx(), b.Dy()

	offset := w * (i + 1) / n
	if offset > w {
		offset = w
	}

	// Visible tail of 'from' on the left, leading edge of 'to' on the right.
	draw.Draw(a.buf, image.Rect(0, 0, w-offset, h), a.from, image.Pt(offset, 0), draw.Src)
	draw.Draw(a.buf, image.Rect(w-offset, 0, w, h), a.to, image.Pt(0, 0), draw.Src)
	return a.buf
}

// --- Dissolve ---

// dissolveAnimator partitions the frame into square blocks, shuffles them
// once at transition start, and replaces one contiguous chunk of the
// permutation per step. Every block is replaced exactly once, so the final
// working buffer equals 'to' pixel-for-pixel.
type dissolveAnimator struct {
	to    *image.RGBA
	work  *image.RGBA
	perm  []int
	cols  int
	block int
}

func newDissolveAnimator(from, to *image.RGBA, block int, rng *rand.Rand) *dissolveAnimator {
	b := from.Bounds()
	cols := (b.Dx() + block - 1) / block
	rows := (b.Dy() + block - 1) / block

	return &dissolveAnimator{
		to:    to,
		work:  cloneRGBA(from),
		perm:  rng.Perm(cols * rows),
		cols:  cols,
		block: block,
	}
}

func (a *dissolveAnimator) frame(i, n int) *image.RGBA {
	total := len(a.perm)
	start := i * total / n
	end := (i + 1) * total / n

	b := a.work.Bounds()
	for _, idx := range a.perm[start:end] {
		x0 := (idx % a.cols) * a.block
		y0 := (idx / a.cols) * a.block
		rect := image.Rect(x0, y0, x0+a.block, y0+a.block).Intersect(b)
		draw.Draw(a.work, rect, a.to, rect.Min, draw.Src)
	}
	return a.work
}

// --- Zoom ---

// zoomAnimator shrinks 'from' by (1-p) and grows 'to' by p, both centered
// on a cleared black background. The outgoing frame stays on top until it
// reaches zero size.
type zoomAnimator struct {
	from, to *image.RGBA
	buf      *image.RGBA
}

func newZoomAnimator(from, to *image.RGBA) *zoomAnimator {
	return &zoomAnimator{
		from: from,
		to:   to,
		buf:  image.NewRGBA(from.Bounds()),
	}
}

func (a *zoomAnimator) frame(i, n int) *image.RGBA {
	b := a.buf.Bounds()
	w, h := b.Dx(), b.Dy()
	p := float64(i+1) / float64(n)

	// Clear to black
	for idx := range a.buf.Pix {
		if idx%4 == 3 {
			a.buf.Pix[idx] = 255
		} else {
			a.buf.Pix[idx] = 0
		}
	}

	stretchInto(a.buf, centered(w, h, int(float64(w)*p), int(float64(h)*p)), a.to)
	stretchInto(a.buf, centered(w, h, int(float64(w)*(1-p)), int(float64(h)*(1-p))), a.from)
	return a.buf
}

// centered returns a sw x sh rectangle centered on the w x h frame midpoint
func centered(w, h, sw, sh int) image.Rectangle {
	x0 := (w - sw) / 2
	y0 := (h - sh) / 2
	return image.Rect(x0, y0, x0+sw, y0+sh)
}
