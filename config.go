package img2chars

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Scaling selects the resampling kernel used for the horizontal resample.
type Scaling string

const (
	ScalingNearest  Scaling = "NEAREST"
	ScalingBilinear Scaling = "BILINEAR"
	ScalingBicubic  Scaling = "BICUBIC"
	ScalingLanczos  Scaling = "LANCZOS"
)

// ParseScaling resolves a scaling algorithm name, case-insensitively.
func ParseScaling(name string) (Scaling, error) {
	switch Scaling(strings.ToUpper(strings.TrimSpace(name))) {
	case ScalingNearest:
		return ScalingNearest, nil
	case ScalingBilinear:
		return ScalingBilinear, nil
	case ScalingBicubic:
		return ScalingBicubic, nil
	case ScalingLanczos:
		return ScalingLanczos, nil
	default:
		return "", fmt.Errorf("unknown scaling algorithm %q (allowed: NEAREST, BILINEAR, BICUBIC, LANCZOS)", name)
	}
}

// Format selects the output file format a conversion targets. Both text
// and HTML line sequences are produced either way; Format is echoed into
// the result so the caller knows which one to persist.
type Format string

const (
	FormatText Format = "text"
	FormatHTML Format = "html"
)

// ParseFormat resolves an output format name, case-insensitively.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case FormatText:
		return FormatText, nil
	case FormatHTML:
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unknown output format %q (allowed: text, html)", name)
	}
}

// Default configuration values, used as fallbacks by the settings loader.
const (
	DefaultMaxDimension          = 300
	DefaultHorizontalCompression = 0.40
	DefaultVerticalCondensation  = 2
	DefaultCharacterSpacing      = 1
	DefaultPalette               = " .:-=+*#%@"
	DefaultBackgroundColor       = "#FFFFFF"
	DefaultFontSizePx            = 8
	DefaultFontFamily            = "monospace"
	DefaultBrightnessFactor      = 1.0
)

// Config holds all conversion parameters for a single run. It is read-only
// during a conversion; a Renderer never mutates it, so the same Config may
// be shared across concurrent conversions.
type Config struct {
	// MaxDimension is a soft limit on source width and height. Exceeding
	// it produces a warning, not a failure.
	MaxDimension int

	// HorizontalCompression scales the source width before sampling,
	// compensating for character cells being taller than wide. Must be
	// positive.
	HorizontalCompression float64

	// VerticalCondensation is the number of source rows merged into one
	// output row. Must be at least 1.
	VerticalCondensation int

	// CharacterSpacing is the number of filler spaces inserted after each
	// glyph. Must not be negative.
	CharacterSpacing int

	// InvertBrightness maps bright pixels to the dark end of the palette.
	InvertBrightness bool

	// Palette is the character ramp, darkest to brightest. An empty
	// palette is substituted with a single space and flagged with a
	// warning rather than rejected.
	Palette string

	// Scaling selects the resampling kernel for the horizontal resample.
	Scaling Scaling

	// Format selects which output the caller intends to persist.
	Format Format

	// BackgroundColor is the page background for HTML output, as a CSS
	// color string.
	BackgroundColor string

	// FontSizePx and FontFamily style the HTML document.
	FontSizePx int
	FontFamily string

	// BrightnessFactor multiplies every HTML color channel, clamped to
	// [0, 255]. Character selection always uses the raw pixel values.
	BrightnessFactor float64

	// PerPixelBackground gives every HTML cell its own background color,
	// visually resembling a pixelated image rather than classic ASCII art.
	PerPixelBackground bool
}

// DefaultConfig returns the documented fallback configuration.
func DefaultConfig() Config {
	return Config{
		MaxDimension:          DefaultMaxDimension,
		HorizontalCompression: DefaultHorizontalCompression,
		VerticalCondensation:  DefaultVerticalCondensation,
		CharacterSpacing:      DefaultCharacterSpacing,
		InvertBrightness:      false,
		Palette:               DefaultPalette,
		Scaling:               ScalingLanczos,
		Format:                FormatHTML,
		BackgroundColor:       DefaultBackgroundColor,
		FontSizePx:            DefaultFontSizePx,
		FontFamily:            DefaultFontFamily,
		BrightnessFactor:      DefaultBrightnessFactor,
		PerPixelBackground:    true,
	}
}

// Validate checks that config values are within their documented ranges.
// Out-of-range numerics are rejected here rather than clamped, so the
// pixel loop never sees a value that could fault.
func (c Config) Validate() error {
	if c.MaxDimension < 1 {
		return fmt.Errorf("maxDimension must be at least 1, got %d", c.MaxDimension)
	}
	if c.HorizontalCompression <= 0 {
		return fmt.Errorf("horizontalCompression must be positive, got %g", c.HorizontalCompression)
	}
	if c.VerticalCondensation < 1 {
		return fmt.Errorf("verticalCondensation must be at least 1, got %d", c.VerticalCondensation)
	}
	if c.CharacterSpacing < 0 {
		return fmt.Errorf("characterSpacing must not be negative, got %d", c.CharacterSpacing)
	}
	if _, err := ParseScaling(string(c.Scaling)); err != nil {
		return err
	}
	if _, err := ParseFormat(string(c.Format)); err != nil {
		return err
	}
	if c.BrightnessFactor < 0 {
		return fmt.Errorf("brightnessFactor must not be negative, got %g", c.BrightnessFactor)
	}
	if c.FontSizePx < 1 {
		return fmt.Errorf("fontSizePx must be at least 1, got %d", c.FontSizePx)
	}
	if strings.TrimSpace(c.FontFamily) == "" {
		return fmt.Errorf("fontFamily must not be empty")
	}
	if err := validateColor(c.BackgroundColor); err != nil {
		return err
	}
	return nil
}

// validateColor accepts any non-empty CSS color string, and additionally
// requires hex-form colors to actually parse.
func validateColor(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("backgroundColor must not be empty")
	}
	if strings.HasPrefix(s, "#") {
		if _, err := colorful.Hex(s); err != nil {
			return fmt.Errorf("invalid backgroundColor %q: %v", s, err)
		}
	}
	return nil
}
