package catalog

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// Catalog is an ordered list of entries produced by one aggregation run.
type Catalog struct {
	Name    string
	entries []*Entry
}

// New returns an empty catalog.
func New(name string) *Catalog {
	return &Catalog{Name: name}
}

// Append adds entries in order and returns the index of the first one.
func (c *Catalog) Append(entries ...*Entry) int {
	start := len(c.entries)
	for _, entry := range entries {
		if entry != nil {
			c.entries = append(c.entries, entry)
		}
	}
	return start
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.entries) }

// At returns the entry at index i or nil when out of range.
func (c *Catalog) At(i int) *Entry {
	if i < 0 || i >= len(c.entries) {
		return nil
	}
	return c.entries[i]
}

// Entries returns the entries in scan order. The slice is a copy; entries are shared.
func (c *Catalog) Entries() []*Entry {
	return slices.Clone(c.entries)
}

// SortedByName returns entries in case-insensitive name order. The sort is
// stable and leaves the catalog order untouched.
func (c *Catalog) SortedByName() []*Entry {
	type keyed struct {
		key   string
		entry *Entry
	}
	folder := cases.Fold()
	items := make([]keyed, len(c.entries))
	for i, entry := range c.entries {
		items[i] = keyed{key: folder.String(entry.Name), entry: entry}
	}
	slices.SortStableFunc(items, func(a, b keyed) int {
		return strings.Compare(a.key, b.key)
	})
	out := make([]*Entry, len(items))
	for i, item := range items {
		out[i] = item.entry
	}
	return out
}

// BulkRef is a non-owning view of a contiguous run of catalog entries, used by
// menu aggregates for apply-to-all commands.
type BulkRef struct {
	Catalog *Catalog
	Start   int
	End     int
}

// Entries resolves the referenced range. Ranges that fall outside the catalog
// are clipped.
func (r *BulkRef) Entries() []*Entry {
	if r == nil || r.Catalog == nil {
		return nil
	}
	start := max(r.Start, 0)
	end := min(r.End, len(r.Catalog.entries))
	if start >= end {
		return nil
	}
	return slices.Clone(r.Catalog.entries[start:end])
}

// Len returns the number of referenced entries.
func (r *BulkRef) Len() int {
	return len(r.Entries())
}
