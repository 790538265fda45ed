package img2comment

import (
	"fmt"
	"strings"
)

const (
	headerBanner = "// Automatically generated from PNG image"
	sizeFormat   = "// Original size: %dx%d pixels"
	footerBanner = "// End of ASCII representation"
	errorFormat  = "// Error during processing: %s"
)

// GlyphDocument is the final text artifact: a two line header, one line
// per glyph row, and a footer.
type GlyphDocument struct {
	Lines []string
}

// Assemble wraps rendered lines with the generated-file banner and the
// original pixel size. The banner uses "// " whatever the target language.
func Assemble(lines []string, width, height int) GlyphDocument {
	doc := make([]string, 0, len(lines)+3)
	doc = append(doc, headerBanner, fmt.Sprintf(sizeFormat, width, height))
	doc = append(doc, lines...)
	doc = append(doc, footerBanner)
	return GlyphDocument{Lines: doc}
}

// ErrorDocument is the single line written in place of a rendering when
// conversion fails.
func ErrorDocument(err error) GlyphDocument {
	msg := strings.Join(strings.Fields(err.Error()), " ")
	return GlyphDocument{Lines: []string{fmt.Sprintf(errorFormat, msg)}}
}

// Body returns the glyph rows without header and footer.
func (d GlyphDocument) Body() []string {
	if len(d.Lines) < 3 {
		return nil
	}
	return d.Lines[2 : len(d.Lines)-1]
}

// String joins the lines with newlines. There is no trailing newline.
func (d GlyphDocument) String() string {
	return strings.Join(d.Lines, "\n")
}
