package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTitleKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{name: "nine characters", key: "PCSE00001"},
		{name: "short key", key: "NPXX1"},
		{name: "empty", key: "", wantErr: true},
		{name: "too long", key: "PCSE000012", wantErr: true},
		{name: "path separator", key: "PCSE/0001", wantErr: true},
		{name: "backslash", key: `PCSE\0001`, wantErr: true},
		{name: "dot dot", key: "..", wantErr: true},
		{name: "space", key: "PCSE 0001", wantErr: true},
		{name: "non ascii", key: "PCSÉ0001", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTitleKey(tt.key)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTitleKey)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewEntryAllowsEmptyKeyOnlyForAggregatesAndArchives(t *testing.T) {
	_, err := NewEntry(KindSave, FlagPSV, "Game", "")
	assert.ErrorIs(t, err, ErrInvalidTitleKey)

	_, err = NewEntry(KindOnlineOffering, FlagPSV|FlagRemote, "Game", "")
	assert.ErrorIs(t, err, ErrInvalidTitleKey)

	archive, err := NewEntry(KindArchiveBackup, FlagArchive, "backup.zip", "")
	require.NoError(t, err)
	assert.Empty(t, archive.TitleKey())

	menu, err := NewEntry(KindMenuAggregate, FlagAggregate, "Bulk Save Management", "")
	require.NoError(t, err)
	assert.Equal(t, KindMenuAggregate, menu.Kind())
}

func TestSetCommandsBuildsOnce(t *testing.T) {
	entry, err := NewEntry(KindSave, FlagPSV|FlagLocal, "Game", "PCSE00001")
	require.NoError(t, err)

	cmds, ok := entry.Commands()
	assert.False(t, ok, "commands must be absent before the build")
	assert.Nil(t, cmds)

	require.NoError(t, entry.SetCommands(nil))
	cmds, ok = entry.Commands()
	assert.True(t, ok)
	assert.NotNil(t, cmds)
	assert.Empty(t, cmds)

	err = entry.SetCommands([]*Command{NewAction(GlyphSign, "Resign", OpResignSave)})
	assert.ErrorIs(t, err, ErrBuildAlreadyDone)

	cmds, _ = entry.Commands()
	assert.Empty(t, cmds, "second build must not replace the first list")
}

func TestFlags(t *testing.T) {
	flags := FlagPSV | FlagOwner | FlagLocal
	assert.True(t, flags.Has(FlagPSV|FlagLocal))
	assert.False(t, flags.Has(FlagPSV|FlagRemovable))
	assert.Equal(t, "psv|owner|local", flags.String())
	assert.Equal(t, "none", Flags(0).String())
}

func TestLabelAndReplaceGlyphs(t *testing.T) {
	label := Label(GlyphCopy, "Copy save game")
	assert.Equal(t, byte(GlyphCopy), label[0])

	rendered := ReplaceGlyphs(label, map[Glyph]string{GlyphCopy: "[copy]"})
	assert.Equal(t, "[copy] Copy save game", rendered)

	sep := NewSeparator("File Backup")
	assert.True(t, sep.Separator)
	assert.Equal(t, OpNone, sep.Opcode)
	assert.Equal(t, "----- * File Backup * -----", ReplaceGlyphs(sep.Label, map[Glyph]string{GlyphStar: "*"}))

	assert.Equal(t, "x", ReplaceGlyphs(string([]byte{byte(GlyphWarn)})+"x", nil))
}

func TestNewOptionDefaultsToUnselected(t *testing.T) {
	value := []byte{byte(OpCopySaveRemovable), 1}
	opt := NewOption("Copy Save to Backup Storage", value...)
	assert.Equal(t, -1, opt.Selected)
	value[1] = 9
	assert.Equal(t, []byte{byte(OpCopySaveRemovable), 1}, opt.Value, "option must own its value")
}
