package catalog

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustEntry(t *testing.T, name, key string) *Entry {
	t.Helper()
	entry, err := NewEntry(KindSave, FlagPSV, name, key)
	require.NoError(t, err)
	return entry
}

// buildCatalog creates len(shape) entries; entry i gets len(shape[i]) commands
// and command j gets shape[i][j] options. A nil row leaves the entry unbuilt.
func buildCatalog(t *testing.T, shape [][]int) *Catalog {
	t.Helper()
	c := New("test")
	for i, row := range shape {
		entry := mustEntry(t, fmt.Sprintf("Game %d", i), fmt.Sprintf("PCSE%05d", i))
		if row != nil {
			cmds := make([]*Command, 0, len(row))
			for j, optionCount := range row {
				cmd := NewAction(GlyphCopy, fmt.Sprintf("cmd %d", j), OpCopySaveRemovable)
				for k := 0; k < optionCount; k++ {
					cmd.WithOptions(NewOption(fmt.Sprintf("opt %d", k), byte(OpCopySaveRemovable), byte(k)))
				}
				cmds = append(cmds, cmd)
			}
			require.NoError(t, entry.SetCommands(cmds))
		}
		c.Append(entry)
	}
	return c
}

func TestReleaseCountsEveryNodeOnce(t *testing.T) {
	tests := []struct {
		name  string
		shape [][]int
	}{
		{name: "empty catalog", shape: nil},
		{name: "unbuilt entries", shape: [][]int{nil, nil, nil}},
		{name: "empty command lists", shape: [][]int{{}, {}}},
		{name: "commands without options", shape: [][]int{{0, 0, 0}}},
		{name: "mixed depth", shape: [][]int{{2, 0, 3}, nil, {}, {1}, {4, 4}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := buildCatalog(t, tt.shape)

			want := ReleaseStats{Entries: len(tt.shape)}
			for _, row := range tt.shape {
				want.Commands += len(row)
				for _, options := range row {
					want.Options += options
				}
			}

			got := c.Release()
			assert.Equal(t, want, got)
			assert.Equal(t, want.Entries+want.Commands+want.Options, got.Total())
			assert.Zero(t, c.Len())

			again := c.Release()
			assert.Equal(t, ReleaseStats{}, again, "second release must be a no-op")
		})
	}
}

func TestReleaseDoesNotFollowBulkRef(t *testing.T) {
	c := buildCatalog(t, [][]int{{1}, {2}})
	menu, err := NewEntry(KindMenuAggregate, FlagAggregate, "Bulk", "")
	require.NoError(t, err)
	menu.Bulk = &BulkRef{Catalog: c, Start: 0, End: c.Len()}

	menus := New("menus")
	menus.Append(menu)

	stats := menus.Release()
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, 2, c.Len(), "dropping the aggregate must not free the referenced catalog")

	stats = c.Release()
	assert.Equal(t, ReleaseStats{Entries: 2, Commands: 2, Options: 3}, stats)
}

func TestReleaseReportsSharedNodes(t *testing.T) {
	shared := NewAction(GlyphCopy, "shared", OpCopySaveLocal)
	a := mustEntry(t, "A", "PCSE00001")
	b := mustEntry(t, "B", "PCSE00002")
	require.NoError(t, a.SetCommands([]*Command{shared}))
	require.NoError(t, b.SetCommands([]*Command{shared}))

	c := New("shared")
	c.Append(a, b)
	stats := c.Release()
	assert.Equal(t, 1, stats.Commands)
	assert.Equal(t, 1, stats.Shared)
}

func TestSortedByNameIsStableAndCaseInsensitive(t *testing.T) {
	c := New("sort")
	first := mustEntry(t, "alpha", "PCSE00001")
	second := mustEntry(t, "Beta", "PCSE00002")
	third := mustEntry(t, "ALPHA", "PCSE00003")
	fourth := mustEntry(t, "gamma", "PCSE00004")
	c.Append(fourth, second, first, third)

	sorted := c.SortedByName()
	assert.Equal(t, []*Entry{first, third, second, fourth}, sorted)
	assert.Equal(t, []*Entry{fourth, second, first, third}, c.Entries(), "catalog order must not change")
}

func TestBulkRefClipsRange(t *testing.T) {
	c := buildCatalog(t, [][]int{nil, nil, nil})
	ref := &BulkRef{Catalog: c, Start: 1, End: 10}
	assert.Equal(t, 2, ref.Len())
	assert.Nil(t, (&BulkRef{Catalog: c, Start: 3, End: 2}).Entries())
	var nilRef *BulkRef
	assert.Zero(t, nilRef.Len())
}
