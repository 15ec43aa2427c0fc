package main

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/charpaint/img2chars"
)

// Settings is the persisted counterpart of img2chars.Config, plus the
// output directory. Every key is optional; absent keys keep the documented
// fallbacks because the loader unmarshals over a prefilled struct.
type Settings struct {
	OutputDirectory             string  `yaml:"output_directory"`
	MaxImageDimension           int     `yaml:"max_image_dimension"`
	HorizontalCompressionFactor float64 `yaml:"horizontal_compression_factor"`
	VerticalCondensationFactor  int     `yaml:"vertical_condensation_factor"`
	CharacterSpacing            int     `yaml:"character_spacing"`
	InvertBrightness            bool    `yaml:"invert_brightness"`
	CustomCharacterSet          string  `yaml:"custom_character_set"`
	ImageScalingAlgorithm       string  `yaml:"image_scaling_algorithm"`
	OutputFormat                string  `yaml:"output_format"`
	HTMLBackgroundColor         string  `yaml:"html_background_color"`
	HTMLFontSizePx              int     `yaml:"html_font_size_px"`
	HTMLFontFamily              string  `yaml:"html_font_family"`
	HTMLBrightnessFactor        float64 `yaml:"html_brightness_factor"`
	HTMLPerPixelBackground      bool    `yaml:"html_per_pixel_background"`
}

func defaultSettings() Settings {
	cfg := img2chars.DefaultConfig()
	return Settings{
		OutputDirectory:             "ascii_output",
		MaxImageDimension:           cfg.MaxDimension,
		HorizontalCompressionFactor: cfg.HorizontalCompression,
		VerticalCondensationFactor:  cfg.VerticalCondensation,
		CharacterSpacing:            cfg.CharacterSpacing,
		InvertBrightness:            cfg.InvertBrightness,
		CustomCharacterSet:          cfg.Palette,
		ImageScalingAlgorithm:       string(cfg.Scaling),
		OutputFormat:                string(cfg.Format),
		HTMLBackgroundColor:         cfg.BackgroundColor,
		HTMLFontSizePx:              cfg.FontSizePx,
		HTMLFontFamily:              cfg.FontFamily,
		HTMLBrightnessFactor:        cfg.BrightnessFactor,
		HTMLPerPixelBackground:      cfg.PerPixelBackground,
	}
}

// loadSettings reads the settings file at path. A missing file yields the
// defaults without error; a malformed file is reported so the caller can
// fall back with a notice.
func loadSettings(path string) (Settings, error) {
	s := defaultSettings()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return defaultSettings(), fmt.Errorf("read settings: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return defaultSettings(), fmt.Errorf("parse settings: %w", err)
	}
	return s, nil
}

// save writes the settings back to path.
func (s Settings) save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// toConfig converts settings into a validated-shape Config. Unknown enum
// names fall back to the defaults; each fallback is reported as a notice
// rather than an error so a hand-edited file never blocks a run.
func (s Settings) toConfig() (img2chars.Config, []string) {
	var notices []string
	cfg := img2chars.DefaultConfig()

	cfg.MaxDimension = s.MaxImageDimension
	cfg.HorizontalCompression = s.HorizontalCompressionFactor
	cfg.VerticalCondensation = s.VerticalCondensationFactor
	cfg.CharacterSpacing = s.CharacterSpacing
	cfg.InvertBrightness = s.InvertBrightness
	cfg.Palette = s.CustomCharacterSet
	cfg.BackgroundColor = s.HTMLBackgroundColor
	cfg.FontSizePx = s.HTMLFontSizePx
	cfg.FontFamily = s.HTMLFontFamily
	cfg.BrightnessFactor = s.HTMLBrightnessFactor
	cfg.PerPixelBackground = s.HTMLPerPixelBackground

	if scaling, err := img2chars.ParseScaling(s.ImageScalingAlgorithm); err != nil {
		notices = append(notices, fmt.Sprintf("%v; using %s", err, cfg.Scaling))
	} else {
		cfg.Scaling = scaling
	}

	if format, err := img2chars.ParseFormat(s.OutputFormat); err != nil {
		notices = append(notices, fmt.Sprintf("%v; using %s", err, cfg.Format))
	} else {
		cfg.Format = format
	}

	return cfg, notices
}
