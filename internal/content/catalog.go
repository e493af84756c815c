package content

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/visiona/signage/internal/config"
	"github.com/visiona/signage/internal/types"
)

const (
	footerFile = "footer.txt"
	qrFile     = "qr_url.txt"
)

// Builder scans the content directory and produces immutable catalogs.
// Partial success is the normal case: invalid entries are skipped, recorded
// and logged, never fatal.
type Builder struct {
	dir    string
	width  int
	height int
	prober Prober
	qrCfg  config.QR
}

// NewBuilder creates a catalog builder for a content directory and display size
func NewBuilder(dir string, width, height int, prober Prober, qrCfg config.QR) *Builder {
	return &Builder{
		dir:    dir,
		width:  width,
		height: height,
		prober: prober,
		qrCfg:  qrCfg,
	}
}

// Build enumerates the content directory in lexicographic order and builds
// a complete catalog. Only a directory enumeration failure is returned as
// an error; every per-item failure is recovered locally. A catalog with
// zero slides is valid and signals the no-content condition.
func (b *Builder) Build(ctx context.Context) (*types.Catalog, error) {
	started := time.Now()

	entries, err := os.ReadDir(b.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read content dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	// ReadDir sorts by filename already; keep the sort explicit since slide
	// ordering is a documented contract.
	sort.Strings(names)

	cat := &types.Catalog{
		BuildID: uuid.New().String(),
		Slides:  make([]types.Slide, 0, len(names)),
	}

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		kind, ok := classify(name)
		if !ok {
			continue
		}

		slide, lerr := b.loadSlide(kind, filepath.Join(b.dir, name), name)
		if lerr != nil {
			cat.LoadErrors = append(cat.LoadErrors, *lerr)
			slog.Error("skipping invalid slide",
				"stage", lerr.Stage,
				"item", lerr.Item,
				"error", lerr.Err,
				"build_id", cat.BuildID,
			)
			continue
		}
		cat.Slides = append(cat.Slides, slide)
	}

	cat.Footer = b.loadFooter(cat)
	cat.QR = b.loadQR(cat)
	cat.BuiltAt = time.Now()

	slog.Info("catalog built",
		"build_id", cat.BuildID,
		"slides", len(cat.Slides),
		"skipped", len(cat.LoadErrors),
		"footer_lines", len(cat.Footer),
		"qr", cat.QR != nil,
		"duration", time.Since(started),
	)

	return cat, nil
}

// loadFooter reads footer.txt if present, one overlay line per non-blank
// input line, order preserved
func (b *Builder) loadFooter(cat *types.Catalog) []string {
	path := filepath.Join(b.dir, footerFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			b.recordOverlayError(cat, "footer", footerFile, err)
		}
		return nil
	}

	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

// loadQR reads qr_url.txt if present and produces the QR overlay bitmap
func (b *Builder) loadQR(cat *types.Catalog) image.Image {
	path := filepath.Join(b.dir, qrFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			b.recordOverlayError(cat, "qr", qrFile, err)
		}
		return nil
	}

	url := strings.TrimSpace(string(data))
	if url == "" {
		return nil
	}

	img, err := generateQR(url, b.qrCfg.BoxSize, b.qrCfg.Border)
	if err != nil {
		b.recordOverlayError(cat, "qr", qrFile, err)
		return nil
	}
	return img
}

func (b *Builder) recordOverlayError(cat *types.Catalog, stage, item string, err error) {
	lerr := types.NewLoadError(stage, item, err)
	cat.LoadErrors = append(cat.LoadErrors, *lerr)
	slog.Error("skipping invalid overlay",
		"stage", stage,
		"item", item,
		"error", err,
		"build_id", cat.BuildID,
	)
}
