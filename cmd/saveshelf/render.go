package main

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"saveshelf/internal/catalog"
)

var unicodeGlyphs = map[catalog.Glyph]string{
	catalog.GlyphSign:     "✎",
	catalog.GlyphUser:     "☺",
	catalog.GlyphCopy:     "⧉",
	catalog.GlyphZip:      "▣",
	catalog.GlyphLock:     "⚿",
	catalog.GlyphWarn:     "⚠",
	catalog.GlyphStar:     "★",
	catalog.GlyphBronze:   "B",
	catalog.GlyphSilver:   "S",
	catalog.GlyphGold:     "G",
	catalog.GlyphPlatinum: "P",
	catalog.GlyphLocked:   "🔒",
	catalog.GlyphOwner:    "●",
}

var asciiGlyphs = map[catalog.Glyph]string{
	catalog.GlyphSign:     ">",
	catalog.GlyphUser:     ">",
	catalog.GlyphCopy:     ">",
	catalog.GlyphZip:      ">",
	catalog.GlyphLock:     ">",
	catalog.GlyphWarn:     "!",
	catalog.GlyphStar:     "*",
	catalog.GlyphBronze:   "B",
	catalog.GlyphSilver:   "S",
	catalog.GlyphGold:     "G",
	catalog.GlyphPlatinum: "P",
	catalog.GlyphLocked:   "x",
	catalog.GlyphOwner:    "o",
}

// isTerminal reports whether writer is an interactive terminal.
func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func glyphTable(writer io.Writer) map[catalog.Glyph]string {
	if isTerminal(writer) {
		return unicodeGlyphs
	}
	return asciiGlyphs
}

// renderEntries lays out entries as a table. Indexes refer to catalog order
// so they stay valid when the rows are sorted.
func renderEntries(writer io.Writer, c *catalog.Catalog, entries []*catalog.Entry) string {
	index := make(map[*catalog.Entry]int, c.Len())
	for i, e := range c.Entries() {
		index[e] = i
	}

	tw := table.NewWriter()
	if isTerminal(writer) {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleLight)
	}
	tw.AppendHeader(table.Row{"#", "Kind", "Title", "Name", "Flags", "Location"})
	glyphs := glyphTable(writer)
	for _, e := range entries {
		name := catalog.ReplaceGlyphs(e.Name, glyphs)
		if e.Has(catalog.FlagOwner) {
			name = glyphs[catalog.GlyphOwner] + " " + name
		}
		tw.AppendRow(table.Row{index[e], e.Kind().String(), e.TitleKey(), name, e.Flags().String(), e.Location})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 4, WidthMax: 48},
	})
	return tw.Render()
}

// renderCommands writes one line per command with its options indented below.
func renderCommands(writer io.Writer, cmds []*catalog.Command) string {
	glyphs := glyphTable(writer)
	var sb strings.Builder
	n := 0
	for _, cmd := range cmds {
		label := catalog.ReplaceGlyphs(cmd.Label, glyphs)
		if cmd.Separator {
			sb.WriteString(label)
			sb.WriteByte('\n')
			continue
		}
		n++
		sb.WriteString(strconv.Itoa(n))
		sb.WriteString(". ")
		sb.WriteString(label)
		if cmd.Opcode != catalog.OpNone {
			sb.WriteString("  [" + cmd.Opcode.String() + "]")
		}
		sb.WriteByte('\n')
		for _, opt := range cmd.Options {
			sb.WriteString("     - ")
			sb.WriteString(catalog.ReplaceGlyphs(opt.Label, glyphs))
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
