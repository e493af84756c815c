package content

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/visiona/signage/internal/render"
	"github.com/visiona/signage/internal/types"
)

// Prober validates that a video file opens successfully. The real decoder
// is opened lazily per playback; Probe must release all decoder resources
// before returning.
type Prober interface {
	Probe(path string) error
}

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

var videoExts = map[string]bool{
	".mp4": true,
}

// classify returns the slide kind for a file name, or false for files that
// are not slide content (footer.txt, qr_url.txt, anything unsupported)
func classify(name string) (types.SlideKind, bool) {
	ext := strings.ToLower(filepath.Ext(name))
	switch {
	case imageExts[ext]:
		return types.KindImage, true
	case videoExts[ext]:
		return types.KindVideo, true
	default:
		return 0, false
	}
}

// loadSlide turns one directory entry into a slide. Images are decoded and
// stretch-scaled to exactly the display resolution; videos are
// validation-opened through the prober and decoded lazily per playback.
func (b *Builder) loadSlide(kind types.SlideKind, path, name string) (types.Slide, *types.LoadError) {
	switch kind {
	case types.KindImage:
		f, err := os.Open(path)
		if err != nil {
			return types.Slide{}, types.NewLoadError("image_open", name, err)
		}
		defer f.Close()

		img, _, err := image.Decode(f)
		if err != nil {
			return types.Slide{}, types.NewLoadError("image_decode", name, err)
		}

		return types.NewImageSlide(name, render.Stretch(img, b.width, b.height)), nil

	case types.KindVideo:
		if err := b.prober.Probe(path); err != nil {
			return types.Slide{}, types.NewLoadError("video_probe", name, err)
		}
		return types.NewVideoSlide(name, path), nil

	default:
		return types.Slide{}, types.NewLoadError("classify", name, fmt.Errorf("unsupported slide kind"))
	}
}
