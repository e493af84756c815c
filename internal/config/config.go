package config

import (
	"fmt"
	"image/color"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the complete signaged configuration
type Config struct {
	ContentDir       string   `yaml:"content_dir"`
	ErrorLog         string   `yaml:"error_log"` // optional append-only JSON log file
	Display          Display  `yaml:"display"`
	SlideDurationS   float64  `yaml:"slide_duration_s"`
	ErrorRetryDelayS float64  `yaml:"error_retry_delay_s"`
	Transition       Trans    `yaml:"transition"`
	Footer           Footer   `yaml:"footer"`
	QR               QR       `yaml:"qr"`
}

// Display contains display surface settings
type Display struct {
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	FPS         int    `yaml:"fps"`
	Fullscreen  bool   `yaml:"fullscreen"`
	WindowTitle string `yaml:"window_title"`
}

// Trans contains transition engine settings
type Trans struct {
	DurationS float64  `yaml:"duration_s"`
	FPS       int      `yaml:"fps"`     // falls back to display fps when 0
	Enabled   []string `yaml:"enabled"` // subset of fade, slide, dissolve, zoom
	Fast      bool     `yaml:"fast"`    // reduced-step mode for constrained hardware
}

// Footer contains footer overlay settings
type Footer struct {
	FontSize  int   `yaml:"font_size"`
	TextColor []int `yaml:"text_color"` // [r, g, b]
	BGColor   []int `yaml:"bg_color"`   // [r, g, b, a]
	Margin    int   `yaml:"margin"`     // distance from left/bottom edges
}

// QR contains QR overlay settings
type QR struct {
	BoxSize int `yaml:"box_size"` // pixels per QR module
	Border  int `yaml:"border"`   // quiet zone width in modules
	Margin  int `yaml:"margin"`   // distance from right/bottom edges
}

// Load reads and parses a YAML configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// TextColor returns the footer text color as a color.RGBA
func (f Footer) TextColorRGBA() color.RGBA {
	return rgba(f.TextColor, color.RGBA{R: 255, G: 255, B: 255, A: 255})
}

// BGColorRGBA returns the footer panel color, including its alpha
func (f Footer) BGColorRGBA() color.RGBA {
	return rgba(f.BGColor, color.RGBA{B: 255, A: 128})
}

func rgba(c []int, fallback color.RGBA) color.RGBA {
	clamp := func(v int) uint8 {
		if v < 0 {
			return 0
		}
		if v > 255 {
			return 255
		}
		return uint8(v)
	}

	switch len(c) {
	case 3:
		return color.RGBA{R: clamp(c[0]), G: clamp(c[1]), B: clamp(c[2]), A: 255}
	case 4:
		return color.RGBA{R: clamp(c[0]), G: clamp(c[1]), B: clamp(c[2]), A: clamp(c[3])}
	default:
		return fallback
	}
}
