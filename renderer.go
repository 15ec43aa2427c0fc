// Package img2chars converts raster images into character-art renderings,
// emitting plain-text glyph grids and colorized HTML span lines. The
// converter samples an in-memory pixel source, maps per-region brightness
// to a character from an ordered palette, and assembles output lines with
// configurable geometry and color correction. It performs no I/O of its
// own: callers supply pixels and persist results.
package img2chars

import (
	"fmt"
	"math"
	"runtime"
	"strings"

	"github.com/charpaint/img2chars/imageutil"
)

// PixelSource is an in-memory image with random-access RGB pixel reads.
// *imageutil.RGBAImage satisfies it.
type PixelSource interface {
	Width() int
	Height() int
	GetRGB(x, y int) imageutil.RGB
}

// DiagnosticFunc receives printf-style progress and warning messages.
// It must be safe to call from any worker goroutine; the renderer holds
// no lock while calling it.
type DiagnosticFunc func(format string, args ...any)

// Renderer converts images to character art. A Renderer holds no mutable
// per-conversion state, so a single instance may render concurrently from
// multiple goroutines.
type Renderer struct {
	workers int
	diag    DiagnosticFunc
	handler func(*Result)
}

// Option is a functional option for configuring a Renderer.
type Option func(*Renderer)

// NewRenderer creates a new Renderer with the given options.
// Defaults: no diagnostic sink, no result handler, one batch worker per
// logical CPU.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		workers: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.workers < 1 {
		r.workers = 1
	}
	return r
}

// WithDiagnostics sets the sink for warning and progress messages.
func WithDiagnostics(fn DiagnosticFunc) Option {
	return func(r *Renderer) {
		r.diag = fn
	}
}

// WithWorkers sets the number of goroutines used by ConvertAll.
func WithWorkers(n int) Option {
	return func(r *Renderer) {
		r.workers = n
	}
}

// WithResultHandler sets a callback invoked once per converted image
// during ConvertAll, in completion order. Delivery is decoupled from the
// workers, so a slow handler never stalls pixel processing.
func WithResultHandler(fn func(*Result)) Option {
	return func(r *Renderer) {
		r.handler = fn
	}
}

func (r *Renderer) logf(format string, args ...any) {
	if r.diag != nil {
		r.diag(format, args...)
	}
}

// Render converts a single image using cfg. The config is validated
// first; out-of-range values are rejected rather than clamped. Rendering
// is deterministic: the same source and config always produce
// byte-identical line sequences.
func (r *Renderer) Render(src PixelSource, cfg Config) (*Result, error) {
	return r.render("", src, cfg)
}

func (r *Renderer) render(id string, src PixelSource, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	res := &Result{
		SourceID:           id,
		Format:             cfg.Format,
		BackgroundColor:    cfg.BackgroundColor,
		FontSizePx:         cfg.FontSizePx,
		FontFamily:         cfg.FontFamily,
		PerPixelBackground: cfg.PerPixelBackground,
	}

	origWidth, origHeight := src.Width(), src.Height()
	if origWidth > cfg.MaxDimension || origHeight > cfg.MaxDimension {
		res.warnf(r, WarningLargeImage,
			"image dimensions %dx%d exceed recommended max of %dx%d; results may be poor",
			origWidth, origHeight, cfg.MaxDimension, cfg.MaxDimension)
	}

	newWidth := int(math.Round(float64(origWidth) * cfg.HorizontalCompression))
	if newWidth < 1 {
		newWidth = 1
	}

	// Pure width reduction; rows are merged later by the condensation
	// loop, never by the resampler.
	img := resampleWidth(src, newWidth, cfg.Scaling)
	width, height := img.Width(), img.Height()

	palette := NewPalette(cfg.Palette)
	if palette.Len() == 0 {
		res.warnf(r, WarningEmptyPalette,
			"character set is empty; using a single space")
		palette = NewPalette(" ")
	}

	condense := cfg.VerticalCondensation
	spacing := strings.Repeat(" ", cfg.CharacterSpacing)

	lineCount := (height + condense - 1) / condense
	res.TextLines = make([]string, 0, lineCount)
	res.HTMLLines = make([]string, 0, lineCount)

	var text, markup strings.Builder
	for y := 0; y < height; y += condense {
		text.Reset()
		markup.Reset()
		text.Grow(width * (1 + cfg.CharacterSpacing))
		markup.Grow(width * spanBytesEstimate)

		for x := 0; x < width; x++ {
			fg := img.GetRGB(x, y)

			// The glyph and its color come from the top row of the block;
			// the background shade averages the whole block. The
			// asymmetry is intentional: it smooths the backdrop without
			// blurring the glyph's own color.
			bg := blockAverage(img, x, y, condense, height)

			adjFG := adjustRGB(fg, cfg.BrightnessFactor)
			adjBG := adjustRGB(bg, cfg.BrightnessFactor)

			ch := palette.Select(fg.R, fg.G, fg.B, cfg.InvertBrightness)

			text.WriteRune(ch)
			appendGlyphSpan(&markup, ch, adjFG, adjBG, cfg.PerPixelBackground)

			if cfg.CharacterSpacing > 0 {
				text.WriteString(spacing)
				appendSpacerSpan(&markup, spacing, adjBG, cfg.PerPixelBackground)
			}
		}

		// Trim only the whitespace padding at the line edges. Raw spaces
		// can only ever sit outside span tags, so this cannot cut into
		// markup.
		res.TextLines = append(res.TextLines, strings.TrimSpace(text.String()))
		res.HTMLLines = append(res.HTMLLines, strings.TrimSpace(markup.String()))
	}

	return res, nil
}

// blockAverage computes the mean R/G/B over the condensation block of rows
// starting at y, clamped to the image bounds when the block runs past the
// last row.
func blockAverage(img PixelSource, x, y, condense, height int) imageutil.RGB {
	var sumR, sumG, sumB, count int
	for dy := 0; dy < condense; dy++ {
		if y+dy >= height {
			break
		}
		c := img.GetRGB(x, y+dy)
		sumR += int(c.R)
		sumG += int(c.G)
		sumB += int(c.B)
		count++
	}
	if count == 0 {
		return imageutil.RGB{}
	}
	return imageutil.RGB{
		R: uint8(sumR / count),
		G: uint8(sumG / count),
		B: uint8(sumB / count),
	}
}

// adjustRGB multiplies each channel by factor, truncates, and clamps to
// [0, 255].
func adjustRGB(c imageutil.RGB, factor float64) imageutil.RGB {
	return imageutil.RGB{
		R: adjustChannel(c.R, factor),
		G: adjustChannel(c.G, factor),
		B: adjustChannel(c.B, factor),
	}
}

func adjustChannel(v uint8, factor float64) uint8 {
	adjusted := int(float64(v) * factor)
	if adjusted > 255 {
		return 255
	}
	if adjusted < 0 {
		return 0
	}
	return uint8(adjusted)
}

func (res *Result) warnf(r *Renderer, typ WarningType, format string, args ...any) {
	w := Warning{Type: typ, Message: fmt.Sprintf(format, args...)}
	res.Warnings = append(res.Warnings, w)
	if res.SourceID != "" {
		r.logf("%s: %s", res.SourceID, w.Message)
	} else {
		r.logf("%s", w.Message)
	}
}
