package img2chars

// Result holds the output of converting a single image. The renderer hands
// it to the caller and keeps no reference afterwards.
type Result struct {
	// SourceID is an opaque handle for the image, typically its path.
	// The converter never interprets it.
	SourceID string

	// TextLines and HTMLLines always have equal length:
	// ceil(resizedHeight / VerticalCondensation). HTMLLines is only
	// meaningful when Format is FormatHTML, but is populated regardless.
	TextLines []string
	HTMLLines []string

	// Echoes of the HTML-relevant config fields, needed later when the
	// caller assembles the output document.
	Format             Format
	BackgroundColor    string
	FontSizePx         int
	FontFamily         string
	PerPixelBackground bool

	// Warnings collects the non-fatal conditions hit during conversion.
	Warnings []Warning
}

// WarningType categorizes non-fatal conversion conditions.
type WarningType string

const (
	// WarningLargeImage flags a source whose dimensions exceed the
	// configured soft maximum. Processing continues.
	WarningLargeImage WarningType = "large_image"

	// WarningEmptyPalette flags an empty character set that was
	// substituted with a single space.
	WarningEmptyPalette WarningType = "empty_palette"
)

// Warning represents a non-fatal condition encountered during conversion.
type Warning struct {
	Type    WarningType
	Message string
}
