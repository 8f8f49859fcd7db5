package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"saveshelf/internal/catalog"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <list> <index>",
		Short: "Show the actions available for an entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := parseListArg(args[:1])
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			c := ctx.library(cfg).Build(cmd.Context(), list)
			defer c.Release()

			entry, err := parseIndexArg(args[1], c)
			if err != nil {
				return err
			}
			builder, err := ctx.builder(cfg)
			if err != nil {
				return err
			}
			cmds, err := builder.Ensure(cmd.Context(), entry)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n\n", catalog.ReplaceGlyphs(entry.Name, glyphTable(out)))
			if len(cmds) == 0 {
				fmt.Fprintln(out, "No actions available")
				return nil
			}
			fmt.Fprint(out, renderCommands(out, cmds))
			return nil
		},
	}
}

func newDetailsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "details <list> <index>",
		Short: "Show the metadata of an entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := parseListArg(args[:1])
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			c := ctx.library(cfg).Build(cmd.Context(), list)
			defer c.Release()

			entry, err := parseIndexArg(args[1], c)
			if err != nil {
				return err
			}
			builder, err := ctx.builder(cfg)
			if err != nil {
				return err
			}
			text, err := builder.Details(cmd.Context(), entry)
			if err != nil {
				return fmt.Errorf("read details: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, catalog.ReplaceGlyphs(text, glyphTable(out)))
			return nil
		},
	}
}
