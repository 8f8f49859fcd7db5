package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"saveshelf/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check configured paths, databases and services",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cmd.Context(), cfg)

			out := cmd.OutOrStdout()
			tw := table.NewWriter()
			if isTerminal(out) {
				tw.SetStyle(table.StyleRounded)
			} else {
				tw.SetStyle(table.StyleLight)
			}
			tw.AppendHeader(table.Row{"Check", "State", "Detail"})
			for _, r := range results {
				state := "ok"
				switch {
				case !r.Passed && r.Optional:
					state = "unavailable"
				case !r.Passed:
					state = "FAILED"
				}
				tw.AppendRow(table.Row{r.Name, state, r.Detail})
			}
			fmt.Fprintln(out, tw.Render())

			if n := preflight.Failed(results); n > 0 {
				return fmt.Errorf("%d required check(s) failed", n)
			}
			return nil
		},
	}
}
