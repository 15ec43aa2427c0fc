package img2chars

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/charpaint/img2chars/imageutil"
)

// spanBytesEstimate sizes the per-line builder: a glyph span with both
// color terms runs about 80 bytes.
const spanBytesEstimate = 80

// appendGlyphSpan writes one colored cell. The foreground color term is
// always present; the background term only in per-pixel mode. The glyph is
// HTML-escaped so palettes containing '<', '>' or '&' cannot corrupt the
// markup.
func appendGlyphSpan(b *strings.Builder, ch rune, fg, bg imageutil.RGB, perPixel bool) {
	b.WriteString(`<span style="color:rgb(`)
	writeRGB(b, fg)
	if perPixel {
		b.WriteString(`); background-color:rgb(`)
		writeRGB(b, bg)
	}
	b.WriteString(`);">`)
	b.WriteString(html.EscapeString(string(ch)))
	b.WriteString(`</span>`)
}

// appendSpacerSpan writes the filler after a glyph. In per-pixel mode the
// filler carries the cell's background color so the pixel grid stays
// unbroken; otherwise it is a plain space run.
func appendSpacerSpan(b *strings.Builder, spacing string, bg imageutil.RGB, perPixel bool) {
	if !perPixel {
		b.WriteString(spacing)
		return
	}
	b.WriteString(`<span style="background-color:rgb(`)
	writeRGB(b, bg)
	b.WriteString(`);">`)
	b.WriteString(spacing)
	b.WriteString(`</span>`)
}

func writeRGB(b *strings.Builder, c imageutil.RGB) {
	fmt.Fprintf(b, "%d,%d,%d", c.R, c.G, c.B)
}

// WriteText writes the plain-text rendering, one line per result line,
// newline-terminated.
func WriteText(w io.Writer, res *Result) error {
	for _, line := range res.TextLines {
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// WriteDocument wraps the HTML line sequence in a minimal document: a
// style block carrying the echoed background/font configuration, and a pre
// block with the joined lines. Spans are forced to inline-block sizing so
// glyph cells render uniformly.
func WriteDocument(w io.Writer, res *Result) error {
	var doc strings.Builder
	doc.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>ASCII Art</title>\n")
	doc.WriteString("<style>\n")
	fmt.Fprintf(&doc,
		"body { background-color: %s; color: #000000; font-family: '%s'; font-size: %dpx; margin: 0; padding: 0; }\n",
		res.BackgroundColor, res.FontFamily, res.FontSizePx)
	doc.WriteString("pre { word-wrap: break-word; white-space: pre-wrap; margin: 0; line-height: 1; }\n")
	doc.WriteString("span { display: inline-block; min-width: 1ch; }\n")
	doc.WriteString("</style>\n</head>\n<body>\n<pre>\n")

	if _, err := io.WriteString(w, doc.String()); err != nil {
		return err
	}
	for _, line := range res.HTMLLines {
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</pre>\n</body>\n</html>\n")
	return err
}
