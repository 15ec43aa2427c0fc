package img2chars

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charpaint/img2chars/imageutil"
)

// testConfig returns a config with neutral geometry: no compression, no
// condensation, no spacing, nearest-neighbor sampling.
func testConfig(palette string) Config {
	cfg := DefaultConfig()
	cfg.HorizontalCompression = 1.0
	cfg.VerticalCondensation = 1
	cfg.CharacterSpacing = 0
	cfg.Palette = palette
	cfg.Scaling = ScalingNearest
	return cfg
}

func TestRenderRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig("AB")
	cfg.VerticalCondensation = 0

	img := imageutil.CreateSolidImage(2, 2, imageutil.RGB{})
	_, err := NewRenderer().Render(img, cfg)
	assert.Error(t, err)
}

func TestRenderAllBlackTrimsToEmptyLines(t *testing.T) {
	// Every cell maps to the darkest character, a space, so each line
	// collapses to the empty string after the whitespace trim.
	img := imageutil.CreateSolidImage(2, 2, imageutil.RGB{})
	res, err := NewRenderer().Render(img, testConfig(" .:-=+*#%@"))
	require.NoError(t, err)

	require.Len(t, res.TextLines, 2)
	for _, line := range res.TextLines {
		assert.Equal(t, "", line)
	}
}

func TestRenderPureRedSelectsFirstOfTwo(t *testing.T) {
	img := imageutil.CreateSolidImage(1, 1, imageutil.RGB{R: 255})
	res, err := NewRenderer().Render(img, testConfig("AB"))
	require.NoError(t, err)

	require.Len(t, res.TextLines, 1)
	assert.Equal(t, "A", res.TextLines[0])
}

func TestRenderInversion(t *testing.T) {
	white := imageutil.CreateSolidImage(1, 1, imageutil.RGB{R: 255, G: 255, B: 255})

	cfg := testConfig("AB")
	res, err := NewRenderer().Render(white, cfg)
	require.NoError(t, err)
	assert.Equal(t, "B", res.TextLines[0])

	cfg.InvertBrightness = true
	res, err = NewRenderer().Render(white, cfg)
	require.NoError(t, err)
	assert.Equal(t, "A", res.TextLines[0])
}

func TestRenderIdempotent(t *testing.T) {
	img := imageutil.CreateGradientImage(12, 8)
	cfg := DefaultConfig()
	r := NewRenderer()

	first, err := r.Render(img, cfg)
	require.NoError(t, err)
	second, err := r.Render(img, cfg)
	require.NoError(t, err)

	assert.Equal(t, first.TextLines, second.TextLines)
	assert.Equal(t, first.HTMLLines, second.HTMLLines)
}

func TestRenderLineCountInvariant(t *testing.T) {
	// text_lines.length == ceil(resizedHeight / verticalCondensation)
	for _, tt := range []struct {
		height, condense, want int
	}{
		{5, 1, 5},
		{5, 2, 3},
		{5, 3, 2},
		{5, 5, 1},
		{5, 7, 1},
		{6, 2, 3},
		{1, 4, 1},
	} {
		img := imageutil.CreateVerticalGradientImage(3, tt.height)
		cfg := testConfig("#")
		cfg.VerticalCondensation = tt.condense

		res, err := NewRenderer().Render(img, cfg)
		require.NoError(t, err)
		assert.Len(t, res.TextLines, tt.want, "height %d condense %d", tt.height, tt.condense)
		assert.Len(t, res.HTMLLines, tt.want, "height %d condense %d", tt.height, tt.condense)
	}
}

func TestRenderWidthRounding(t *testing.T) {
	img := imageutil.CreateSolidImage(5, 1, imageutil.RGB{R: 255, G: 255, B: 255})
	cfg := testConfig("#")
	cfg.HorizontalCompression = 0.5

	res, err := NewRenderer().Render(img, cfg)
	require.NoError(t, err)
	// round(5 * 0.5) == 3, rounding half away from zero.
	assert.Equal(t, "###", res.TextLines[0])
}

func TestRenderWidthFloorsToOne(t *testing.T) {
	img := imageutil.CreateSolidImage(2, 1, imageutil.RGB{R: 255, G: 255, B: 255})
	cfg := testConfig("#")
	cfg.HorizontalCompression = 0.1

	res, err := NewRenderer().Render(img, cfg)
	require.NoError(t, err)
	assert.Equal(t, "#", res.TextLines[0])
}

func TestRenderCharacterSpacing(t *testing.T) {
	img := imageutil.CreateSolidImage(2, 1, imageutil.RGB{R: 255, G: 255, B: 255})
	cfg := testConfig("AB")
	cfg.CharacterSpacing = 2

	res, err := NewRenderer().Render(img, cfg)
	require.NoError(t, err)
	// Trailing filler is trimmed, interior filler survives.
	assert.Equal(t, "B  B", res.TextLines[0])
}

func TestRenderEmptyPaletteSubstitution(t *testing.T) {
	var logged []string
	r := NewRenderer(WithDiagnostics(func(format string, args ...any) {
		logged = append(logged, fmt.Sprintf(format, args...))
	}))

	img := imageutil.CreateSolidImage(3, 2, imageutil.RGB{R: 255, G: 255, B: 255})
	cfg := testConfig("")

	res, err := r.Render(img, cfg)
	require.NoError(t, err)

	require.Len(t, res.Warnings, 1)
	assert.Equal(t, WarningEmptyPalette, res.Warnings[0].Type)
	assert.NotEmpty(t, logged)

	for _, line := range res.TextLines {
		assert.Equal(t, "", line, "space-only lines trim to empty")
	}
}

func TestRenderLargeImageWarning(t *testing.T) {
	var logged []string
	r := NewRenderer(WithDiagnostics(func(format string, args ...any) {
		logged = append(logged, fmt.Sprintf(format, args...))
	}))

	img := imageutil.CreateSolidImage(4, 4, imageutil.RGB{R: 255, G: 255, B: 255})
	cfg := testConfig("#")
	cfg.MaxDimension = 2

	res, err := r.Render(img, cfg)
	require.NoError(t, err)

	require.Len(t, res.Warnings, 1)
	assert.Equal(t, WarningLargeImage, res.Warnings[0].Type)
	assert.Contains(t, res.Warnings[0].Message, "4x4")
	// Non-fatal: the image still renders in full.
	assert.Len(t, res.TextLines, 4)
	require.Len(t, logged, 1)
}

func TestRenderBrightnessClamp(t *testing.T) {
	img := imageutil.CreateSolidImage(1, 1, imageutil.RGB{R: 200, G: 200, B: 200})
	cfg := testConfig("#")
	cfg.BrightnessFactor = 2.0
	cfg.PerPixelBackground = true

	res, err := NewRenderer().Render(img, cfg)
	require.NoError(t, err)

	require.Len(t, res.HTMLLines, 1)
	assert.Contains(t, res.HTMLLines[0], "color:rgb(255,255,255)")
	assert.NotContains(t, res.HTMLLines[0], "400")
}

func TestRenderBackgroundBlockAverage(t *testing.T) {
	// Foreground samples only the top row of the block; the background
	// averages the whole block. One black row over one white row with a
	// condensation of 2 must give a black glyph on a mid-gray backdrop.
	img := imageutil.NewRGBAImage(1, 2)
	img.SetRGB(0, 0, imageutil.RGB{})
	img.SetRGB(0, 1, imageutil.RGB{R: 255, G: 255, B: 255})

	cfg := testConfig("AB")
	cfg.VerticalCondensation = 2
	cfg.PerPixelBackground = true

	res, err := NewRenderer().Render(img, cfg)
	require.NoError(t, err)

	require.Len(t, res.HTMLLines, 1)
	assert.Equal(t,
		`<span style="color:rgb(0,0,0); background-color:rgb(127,127,127);">A</span>`,
		res.HTMLLines[0])
	assert.Equal(t, "A", res.TextLines[0])
}

func TestRenderBlockClampedAtLastRow(t *testing.T) {
	// Height 3 with condensation 2: the second block covers only the
	// final row, so its background equals that row rather than an
	// average with out-of-bounds pixels.
	img := imageutil.NewRGBAImage(1, 3)
	img.SetRGB(0, 0, imageutil.RGB{})
	img.SetRGB(0, 1, imageutil.RGB{})
	img.SetRGB(0, 2, imageutil.RGB{R: 200, G: 200, B: 200})

	cfg := testConfig("AB")
	cfg.VerticalCondensation = 2
	cfg.PerPixelBackground = true

	res, err := NewRenderer().Render(img, cfg)
	require.NoError(t, err)

	require.Len(t, res.HTMLLines, 2)
	assert.Contains(t, res.HTMLLines[1], "background-color:rgb(200,200,200)")
}

func TestRenderEchoesHTMLConfig(t *testing.T) {
	img := imageutil.CreateSolidImage(1, 1, imageutil.RGB{})
	cfg := testConfig("#")
	cfg.Format = FormatHTML
	cfg.BackgroundColor = "#101010"
	cfg.FontSizePx = 12
	cfg.FontFamily = "Courier"
	cfg.PerPixelBackground = false

	res, err := NewRenderer().Render(img, cfg)
	require.NoError(t, err)

	assert.Equal(t, FormatHTML, res.Format)
	assert.Equal(t, "#101010", res.BackgroundColor)
	assert.Equal(t, 12, res.FontSizePx)
	assert.Equal(t, "Courier", res.FontFamily)
	assert.False(t, res.PerPixelBackground)
}

func TestRenderAllScalingAlgorithms(t *testing.T) {
	img := imageutil.CreateGradientImage(10, 4)
	for _, scaling := range []Scaling{ScalingNearest, ScalingBilinear, ScalingBicubic, ScalingLanczos} {
		t.Run(string(scaling), func(t *testing.T) {
			cfg := testConfig(" .:-=+*#%@")
			cfg.Scaling = scaling
			cfg.HorizontalCompression = 0.5

			res, err := NewRenderer().Render(img, cfg)
			require.NoError(t, err)
			require.Len(t, res.TextLines, 4)
			for _, line := range res.TextLines {
				assert.LessOrEqual(t, len([]rune(line)), 5)
			}
		})
	}
}

func TestRenderTextLineWidth(t *testing.T) {
	// Ignoring trimmed edge padding, each line carries one glyph per
	// resized column.
	img := imageutil.CreateSolidImage(7, 3, imageutil.RGB{R: 255, G: 255, B: 255})
	cfg := testConfig("AB")

	res, err := NewRenderer().Render(img, cfg)
	require.NoError(t, err)
	for _, line := range res.TextLines {
		assert.Equal(t, strings.Repeat("B", 7), line)
	}
}
