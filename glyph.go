package img2comment

import "strings"

const (
	// GlyphBlack is drawn for Black pixels.
	GlyphBlack = '*'
	// GlyphWhite is drawn for White pixels.
	GlyphWhite = ' '
)

// RenderLines turns each row of m into prefix followed by one glyph per
// pixel.
func RenderLines(m BinaryMatrix, prefix string) []string {
	lines := make([]string, 0, m.Height)
	var sb strings.Builder
	for y := 0; y < m.Height; y++ {
		sb.Reset()
		sb.Grow(len(prefix) + m.Width)
		sb.WriteString(prefix)
		for _, v := range m.Row(y) {
			if v == White {
				sb.WriteByte(GlyphWhite)
			} else {
				sb.WriteByte(GlyphBlack)
			}
		}
		lines = append(lines, sb.String())
	}
	return lines
}
