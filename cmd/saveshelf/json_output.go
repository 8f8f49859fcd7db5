package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"saveshelf/internal/catalog"
)

type entryView struct {
	Index        int    `json:"index"`
	Kind         string `json:"kind"`
	TitleKey     string `json:"title_key,omitempty"`
	Name         string `json:"name"`
	Flags        string `json:"flags"`
	Location     string `json:"location,omitempty"`
	DirectoryKey string `json:"directory_key,omitempty"`
	NumericTag   int64  `json:"numeric_tag,omitempty"`
	BulkEntries  int    `json:"bulk_entries,omitempty"`
}

func newEntryView(index int, e *catalog.Entry) entryView {
	return entryView{
		Index:        index,
		Kind:         e.Kind().String(),
		TitleKey:     e.TitleKey(),
		Name:         catalog.ReplaceGlyphs(e.Name, nil),
		Flags:        e.Flags().String(),
		Location:     e.Location,
		DirectoryKey: e.DirectoryKey,
		NumericTag:   e.NumericTag,
		BulkEntries:  e.Bulk.Len(),
	}
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
