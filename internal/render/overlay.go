package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/visiona/signage/internal/config"
)

// Fixed padding between the footer panel edge and its text: 20px on each
// side horizontally, 10px total vertically (5px above the first line).
const (
	innerPadX = 20
	innerPadY = 10
)

// Overlay draws the footer panel and the QR bitmap onto presented frames.
// Layout is pure with respect to its inputs; the same footer/QR yields the
// same geometry on every frame, so overlays stay stable through transitions.
type Overlay struct {
	face      font.Face
	lineH     int
	ascent    int
	textColor color.RGBA
	bgColor   color.RGBA
	margin    int
	qrMargin  int
}

// NewOverlay builds an overlay compositor from the footer/QR configuration.
// The bundled Go Regular typeface is used at the configured size.
func NewOverlay(footerCfg config.Footer, qrCfg config.QR) (*Overlay, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bundled font: %w", err)
	}

	face := truetype.NewFace(f, &truetype.Options{Size: float64(footerCfg.FontSize)})

	return &Overlay{
		face:      face,
		lineH:     footerCfg.FontSize + 5,
		ascent:    face.Metrics().Ascent.Ceil(),
		textColor: footerCfg.TextColorRGBA(),
		bgColor:   footerCfg.BGColorRGBA(),
		margin:    footerCfg.Margin,
		qrMargin:  qrCfg.Margin,
	}, nil
}

// Apply composites the footer block and QR bitmap onto frame in place.
// Footer and QR are independent; either, both, or neither may be present.
// This runs on every presented frame, including transition frames.
func (o *Overlay) Apply(frame *image.RGBA, footer []string, qr image.Image) {
	if len(footer) > 0 {
		o.drawFooter(frame, footer)
	}
	if qr != nil {
		o.drawQR(frame, qr)
	}
}

// drawFooter draws the semi-transparent panel sized to the widest line,
// anchored bottom-left, then the lines top-to-bottom inside it
func (o *Overlay) drawFooter(frame *image.RGBA, lines []string) {
	dc := gg.NewContextForRGBA(frame)
	dc.SetFontFace(o.face)

	maxW := 0.0
	for _, line := range lines {
		if w, _ := dc.MeasureString(line); w > maxW {
			maxW = w
		}
	}

	h := frame.Bounds().Dy()
	panelW := maxW + 2*innerPadX
	panelH := float64(len(lines)*o.lineH + innerPadY)
	panelX := float64(o.margin)
	panelY := float64(h-o.margin) - panelH

	dc.SetRGBA255(int(o.bgColor.R), int(o.bgColor.G), int(o.bgColor.B), int(o.bgColor.A))
	dc.DrawRectangle(panelX, panelY, panelW, panelH)
	dc.Fill()

	dc.SetColor(o.textColor)
	y := panelY + innerPadY/2 + float64(o.ascent)
	for _, line := range lines {
		dc.DrawString(line, panelX+innerPadX, y)
		y += float64(o.lineH)
	}
}

// drawQR blits the QR bitmap into the bottom-right corner, no panel
func (o *Overlay) drawQR(frame *image.RGBA, qr image.Image) {
	b := frame.Bounds()
	qb := qr.Bounds()

	x := b.Max.X - qb.Dx() - o.qrMargin
	y := b.Max.Y - qb.Dy() - o.qrMargin

	dc := gg.NewContextForRGBA(frame)
	dc.DrawImage(qr, x, y)
}

// Message clears frame to black and draws a single centered line. Used for
// the no-content and error-retry screens.
func (o *Overlay) Message(frame *image.RGBA, msg string, c color.RGBA) {
	dc := gg.NewContextForRGBA(frame)
	dc.SetRGB(0, 0, 0)
	dc.Clear()

	dc.SetFontFace(o.face)
	dc.SetColor(c)
	b := frame.Bounds()
	dc.DrawStringAnchored(msg, float64(b.Dx())/2, float64(b.Dy())/2, 0.5, 0.5)
}
