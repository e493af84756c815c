package content

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	qrcode "github.com/skip2/go-qrcode"
)

// generateQR produces a square black-on-white QR bitmap for a UTF-8 string
// at boxSize pixels per module with a quiet zone of border modules.
//
// QR generation itself is delegated; this only adapts the configured module
// geometry, since the upstream library draws a fixed four-module border.
func generateQR(url string, boxSize, border int) (image.Image, error) {
	q, err := qrcode.New(url, qrcode.Low)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr: %w", err)
	}
	q.DisableBorder = true

	// Negative size selects a fixed |size| pixels per module.
	code := q.Image(-boxSize)

	pad := border * boxSize
	cb := code.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, cb.Dx()+2*pad, cb.Dy()+2*pad))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(out, cb.Add(image.Pt(pad, pad)), code, cb.Min, draw.Src)

	return out, nil
}
