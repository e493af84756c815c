package config

import "fmt"

// knownTransitions is the full transition set; the enabled list must be a
// subset of it
var knownTransitions = map[string]bool{
	"fade":     true,
	"slide":    true,
	"dissolve": true,
	"zoom":     true,
}

// Validate checks the configuration for correctness and fills defaults.
// It mutates cfg in place, so a validated config is always runnable.
func Validate(cfg *Config) error {
	if cfg.ContentDir == "" {
		return fmt.Errorf("content_dir is required")
	}

	// Display defaults
	if cfg.Display.Width <= 0 {
		cfg.Display.Width = 1920
	}
	if cfg.Display.Height <= 0 {
		cfg.Display.Height = 1080
	}
	if cfg.Display.FPS <= 0 {
		cfg.Display.FPS = 30
	}
	if cfg.Display.FPS > 120 {
		return fmt.Errorf("display.fps must be <= 120, got %d", cfg.Display.FPS)
	}
	if cfg.Display.WindowTitle == "" {
		cfg.Display.WindowTitle = "signaged"
	}

	// Timing defaults
	if cfg.SlideDurationS <= 0 {
		cfg.SlideDurationS = 10
	}
	if cfg.ErrorRetryDelayS <= 0 {
		cfg.ErrorRetryDelayS = 30
	}

	// Transition defaults
	if cfg.Transition.DurationS <= 0 {
		cfg.Transition.DurationS = 1.0
	}
	if cfg.Transition.FPS <= 0 {
		cfg.Transition.FPS = cfg.Display.FPS
	}
	if len(cfg.Transition.Enabled) == 0 {
		cfg.Transition.Enabled = []string{"fade", "slide", "dissolve", "zoom"}
	}
	for _, name := range cfg.Transition.Enabled {
		if !knownTransitions[name] {
			return fmt.Errorf("transition.enabled: unknown transition %q (must be fade, slide, dissolve or zoom)", name)
		}
	}

	// Footer defaults
	if cfg.Footer.FontSize <= 0 {
		cfg.Footer.FontSize = 24
	}
	if cfg.Footer.Margin <= 0 {
		cfg.Footer.Margin = 20
	}
	if err := validateColor("footer.text_color", cfg.Footer.TextColor, 3); err != nil {
		return err
	}
	if err := validateColor("footer.bg_color", cfg.Footer.BGColor, 4); err != nil {
		return err
	}

	// QR defaults
	if cfg.QR.BoxSize <= 0 {
		cfg.QR.BoxSize = 5
	}
	if cfg.QR.Border < 0 {
		return fmt.Errorf("qr.border must be >= 0, got %d", cfg.QR.Border)
	}
	if cfg.QR.Border == 0 {
		cfg.QR.Border = 2
	}
	if cfg.QR.Margin <= 0 {
		cfg.QR.Margin = 20
	}

	return nil
}

// validateColor checks a color list is empty (defaulted later) or has the
// expected number of components, each in [0, 255]
func validateColor(key string, c []int, want int) error {
	if len(c) == 0 {
		return nil
	}
	if len(c) != want && !(want == 4 && len(c) == 3) {
		return fmt.Errorf("%s must have %d components, got %d", key, want, len(c))
	}
	for i, v := range c {
		if v < 0 || v > 255 {
			return fmt.Errorf("%s component %d out of range [0,255]: %d", key, i, v)
		}
	}
	return nil
}
