package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"saveshelf/internal/catalog"
	"saveshelf/internal/library"
)

func listNames() string {
	names := make([]string, 0, len(library.Lists))
	for _, l := range library.Lists {
		names = append(names, string(l))
	}
	return strings.Join(names, ", ")
}

func parseListArg(args []string) (library.List, error) {
	if len(args) == 0 {
		return library.UserSaves, nil
	}
	list, ok := library.ParseList(strings.ToLower(strings.TrimSpace(args[0])))
	if !ok {
		return "", fmt.Errorf("unknown list %q (expected one of: %s)", args[0], listNames())
	}
	return list, nil
}

func parseIndexArg(raw string, c *catalog.Catalog) (*catalog.Entry, error) {
	idx, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid entry index %q", raw)
	}
	entry := c.At(idx)
	if entry == nil {
		return nil, fmt.Errorf("entry %d not found (catalog has %d entries)", idx, c.Len())
	}
	return entry, nil
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var sorted bool
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list [list]",
		Short: "List catalog entries",
		Long:  "List catalog entries. Lists: " + listNames() + ". Defaults to user.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := parseListArg(args)
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			c := ctx.library(cfg).Build(cmd.Context(), list)
			defer c.Release()

			entries := c.Entries()
			if sorted {
				entries = c.SortedByName()
			}

			if jsonOut {
				index := make(map[*catalog.Entry]int, c.Len())
				for i, e := range c.Entries() {
					index[e] = i
				}
				views := make([]entryView, 0, len(entries))
				for _, e := range entries {
					views = append(views, newEntryView(index[e], e))
				}
				return writeJSON(cmd, views)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintf(out, "No entries in %s list\n", list)
				return nil
			}
			fmt.Fprintln(out, renderEntries(out, c, entries))
			return nil
		},
	}

	cmd.Flags().BoolVar(&sorted, "sort", false, "Sort entries by name")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}
