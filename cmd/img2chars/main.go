// Command img2chars converts images to character art, writing a text or
// HTML file per image. It owns everything the conversion library does not:
// argument parsing, the settings file, directory scanning, decoding, file
// emission, and the optional console preview.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/muesli/termenv"

	"github.com/charpaint/img2chars"
	"github.com/charpaint/img2chars/imageutil"
)

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
	".webp": true,
}

func main() {
	settingsPath := flag.String("config", "img2chars.yaml", "Settings file (YAML)")
	outDir := flag.String("out", "", "Output directory (overrides settings)")
	format := flag.String("format", "", "Output format: text|html")
	palette := flag.String("palette", "", "Character set, darkest to brightest")
	invert := flag.Bool("invert", false, "Invert brightness")
	widthScale := flag.Float64("width-scale", 0, "Horizontal compression factor")
	condense := flag.Int("condense", 0, "Vertical condensation factor")
	spacing := flag.Int("spacing", -1, "Spaces inserted after each glyph")
	scaling := flag.String("scaling", "", "Scaling algorithm: NEAREST|BILINEAR|BICUBIC|LANCZOS")
	brightness := flag.Float64("brightness", 0, "HTML brightness factor")
	preview := flag.Bool("preview", false, "Echo the text rendering to the console")
	saveConfig := flag.Bool("save-config", false, "Write the effective settings back to the settings file")
	workers := flag.Int("workers", 0, "Parallel conversions (0 = one per CPU)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: img2chars [options] <image-or-directory> [more images...]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	settings, err := loadSettings(*settingsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v; using defaults\n", err)
	}
	cfg, notices := settings.toConfig()
	for _, n := range notices {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", n)
	}

	// Flags override the settings file only when explicitly given.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "out":
			settings.OutputDirectory = *outDir
		case "format":
			parsed, err := img2chars.ParseFormat(*format)
			if err != nil {
				fatalf("%v", err)
			}
			cfg.Format = parsed
		case "palette":
			cfg.Palette = *palette
		case "invert":
			cfg.InvertBrightness = *invert
		case "width-scale":
			cfg.HorizontalCompression = *widthScale
		case "condense":
			cfg.VerticalCondensation = *condense
		case "spacing":
			cfg.CharacterSpacing = *spacing
		case "scaling":
			parsed, err := img2chars.ParseScaling(*scaling)
			if err != nil {
				fatalf("%v", err)
			}
			cfg.Scaling = parsed
		case "brightness":
			cfg.BrightnessFactor = *brightness
		}
	})

	if err := cfg.Validate(); err != nil {
		fatalf("invalid configuration: %v", err)
	}

	if *saveConfig {
		settings = settingsFromConfig(settings, cfg)
		if err := settings.save(*settingsPath); err != nil {
			fatalf("%v", err)
		}
		fmt.Fprintf(os.Stderr, "Configuration saved to %s\n", *settingsPath)
	}

	paths, err := collectImagePaths(flag.Args())
	if err != nil {
		fatalf("%v", err)
	}
	if len(paths) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := os.MkdirAll(settings.OutputDirectory, 0o755); err != nil {
		fatalf("create output directory: %v", err)
	}

	sources := make([]img2chars.Source, len(paths))
	for i, path := range paths {
		sources[i] = img2chars.Source{
			ID: path,
			Open: func() (img2chars.PixelSource, error) {
				return imageutil.LoadImage(path)
			},
		}
	}

	opts := []img2chars.Option{
		img2chars.WithDiagnostics(func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}),
	}
	if *workers > 0 {
		opts = append(opts, img2chars.WithWorkers(*workers))
	}
	renderer := img2chars.NewRenderer(opts...)

	fmt.Fprintf(os.Stderr, "Found %d image(s) to process.\n", len(paths))

	results, summary, err := renderer.ConvertAll(ctx, sources, cfg)
	if err != nil {
		fatalf("%v", err)
	}

	saved := 0
	for _, res := range results {
		if res == nil {
			continue
		}
		if *preview {
			echoPreview(res)
		}
		outPath, err := writeResult(settings.OutputDirectory, res)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error saving %s: %v\n", res.SourceID, err)
			continue
		}
		fmt.Fprintf(os.Stderr, "Saved %s\n", outPath)
		saved++
	}

	fmt.Fprintf(os.Stderr, "%d converted, %d failed, %d skipped; %d file(s) written.\n",
		summary.Converted, summary.Failed, summary.Skipped, saved)
	if summary.Converted == 0 {
		os.Exit(1)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// collectImagePaths expands each argument: directories are scanned
// (non-recursively) for files with a supported image extension, plain
// paths are taken as given.
func collectImagePaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
				paths = append(paths, filepath.Join(arg, entry.Name()))
			}
		}
	}
	return paths, nil
}

// writeResult persists one conversion as "<name> Ascii.txt" or
// "<name> Ascii.html" in the output directory.
func writeResult(dir string, res *img2chars.Result) (string, error) {
	base := filepath.Base(res.SourceID)
	name := strings.TrimSuffix(base, filepath.Ext(base))

	ext := "txt"
	if res.Format == img2chars.FormatHTML {
		ext = "html"
	}
	outPath := filepath.Join(dir, fmt.Sprintf("%s Ascii.%s", name, ext))

	f, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if res.Format == img2chars.FormatHTML {
		err = img2chars.WriteDocument(f, res)
	} else {
		err = img2chars.WriteText(f, res)
	}
	if err != nil {
		return "", err
	}
	return outPath, nil
}

// echoPreview prints the text rendering to stdout with a colored header
// when the terminal supports it.
func echoPreview(res *img2chars.Result) {
	profile := termenv.ColorProfile()
	header := termenv.String(fmt.Sprintf("--- Preview for: %s ---", filepath.Base(res.SourceID))).
		Foreground(profile.Color("#8387de")).
		Bold()
	fmt.Println(header)
	for _, line := range res.TextLines {
		fmt.Println(line)
	}
	fmt.Println(termenv.String("--- End of Preview ---").Faint())
}

// settingsFromConfig folds the effective config back into the settings for
// persistence.
func settingsFromConfig(s Settings, cfg img2chars.Config) Settings {
	s.MaxImageDimension = cfg.MaxDimension
	s.HorizontalCompressionFactor = cfg.HorizontalCompression
	s.VerticalCondensationFactor = cfg.VerticalCondensation
	s.CharacterSpacing = cfg.CharacterSpacing
	s.InvertBrightness = cfg.InvertBrightness
	s.CustomCharacterSet = cfg.Palette
	s.ImageScalingAlgorithm = string(cfg.Scaling)
	s.OutputFormat = string(cfg.Format)
	s.HTMLBackgroundColor = cfg.BackgroundColor
	s.HTMLFontSizePx = cfg.FontSizePx
	s.HTMLFontFamily = cfg.FontFamily
	s.HTMLBrightnessFactor = cfg.BrightnessFactor
	s.HTMLPerPixelBackground = cfg.PerPixelBackground
	return s
}
