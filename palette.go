package img2chars

// Palette is an ordered sequence of characters from darkest to brightest,
// used to represent brightness levels. The zero value is an empty palette;
// the renderer substitutes a single-space palette before sampling, so
// Select is never called on an empty Palette.
type Palette []rune

// NewPalette builds a Palette from the characters of s in order.
func NewPalette(s string) Palette {
	return Palette([]rune(s))
}

// Len returns the number of characters in the palette.
func (p Palette) Len() int {
	return len(p)
}

// String returns the palette characters as a string.
func (p Palette) String() string {
	return string(p)
}

// Luminance computes the perceptual-weighted brightness of an RGB triple,
// normalized to [0, 1], using the ITU-R BT.601 channel weights.
func Luminance(r, g, b uint8) float64 {
	return (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 255
}

// Select maps an RGB triple to a palette character by luminance.
// With invert set, bright pixels map to the dark end of the palette.
// The index floor(L*n) is clamped to n-1 so that L == 1.0 selects the
// last character rather than running off the end.
func (p Palette) Select(r, g, b uint8, invert bool) rune {
	brightness := Luminance(r, g, b)
	if invert {
		brightness = 1 - brightness
	}

	level := int(brightness * float64(len(p)))
	if level > len(p)-1 {
		level = len(p) - 1
	}
	return p[level]
}
