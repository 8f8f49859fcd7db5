package catalog

import "strings"

// Glyph is a presentation marker embedded in labels. The catalog treats it as
// an opaque byte; renderers substitute their own symbols.
type Glyph byte

const (
	GlyphSign Glyph = 0x10 + iota
	GlyphUser
	GlyphCopy
	GlyphZip
	GlyphLock
	GlyphWarn
	GlyphStar
	GlyphBronze
	GlyphSilver
	GlyphGold
	GlyphPlatinum
	GlyphLocked
	GlyphOwner
)

// Label prefixes text with a glyph marker.
func Label(g Glyph, text string) string {
	return string([]byte{byte(g), ' '}) + text
}

// TrophyGlyph maps a trophy grade to its marker. Unknown grades yield a blank.
func TrophyGlyph(grade int) Glyph {
	switch grade {
	case 1:
		return GlyphPlatinum
	case 2:
		return GlyphGold
	case 3:
		return GlyphSilver
	case 4:
		return GlyphBronze
	default:
		return ' '
	}
}

// ReplaceGlyphs substitutes every marker in s using table. Markers missing from
// the table are removed.
func ReplaceGlyphs(s string, table map[Glyph]string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < byte(GlyphSign) || c > byte(GlyphOwner) {
			b.WriteByte(c)
			continue
		}
		b.WriteString(table[Glyph(c)])
	}
	return b.String()
}
