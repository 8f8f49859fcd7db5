package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"saveshelf/internal/library"
	"saveshelf/internal/onlinecache"
	"saveshelf/internal/scan"
)

const cacheFilePattern = "*.txt"

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached online save lists",
	}
	cacheCmd.AddCommand(newCacheStatusCommand(ctx))
	cacheCmd.AddCommand(newCacheRefreshCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))
	return cacheCmd
}

type cacheFile struct {
	name    string
	size    int64
	modTime time.Time
}

func listCacheFiles(dir string) ([]cacheFile, error) {
	matches, err := filepath.Glob(filepath.Join(dir, cacheFilePattern))
	if err != nil {
		return nil, err
	}
	files := make([]cacheFile, 0, len(matches))
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		files = append(files, cacheFile{name: filepath.Base(path), size: info.Size(), modTime: info.ModTime()})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].name < files[j].name })
	return files, nil
}

func newCacheStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show cached list files and their freshness",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			files, err := listCacheFiles(cfg.Paths.CacheDir)
			if err != nil {
				return fmt.Errorf("list cache: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(files) == 0 {
				fmt.Fprintf(out, "Cache %s is empty\n", cfg.Paths.CacheDir)
				return nil
			}
			maxAge := time.Duration(cfg.Online.CacheMaxAgeHours) * time.Hour
			if maxAge <= 0 {
				maxAge = onlinecache.DefaultMaxAge
			}
			now := time.Now()
			tw := table.NewWriter()
			tw.SetStyle(table.StyleLight)
			tw.AppendHeader(table.Row{"File", "Bytes", "Age", "State"})
			for _, f := range files {
				age := now.Sub(f.modTime)
				state := "fresh"
				if age > maxAge {
					state = "stale"
				}
				tw.AppendRow(table.Row{f.name, f.size, age.Truncate(time.Minute).String(), state})
			}
			fmt.Fprintln(out, tw.Render())
			return nil
		},
	}
}

func newCacheRefreshCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Refresh the online category lists",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.Online.Enabled {
				return errors.New("online catalog is disabled (set online.enabled = true)")
			}
			if force {
				if err := removeCategoryCaches(cfg.Paths.CacheDir); err != nil {
					return err
				}
			}
			c := ctx.library(cfg).Build(cmd.Context(), library.Online)
			stats := c.Release()
			fmt.Fprintf(cmd.OutOrStdout(), "Online list holds %d titles\n", stats.Entries)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Discard cached category lists before refreshing")
	return cmd
}

// removeCategoryCaches deletes the cached category lists so the next build
// fetches them again.
func removeCategoryCaches(dir string) error {
	for _, cat := range scan.DefaultOnlineCategories {
		path := onlinecache.CategoryCachePath(dir, cat.Flag)
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", path, err)
		}
	}
	return nil
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached list file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			files, err := listCacheFiles(cfg.Paths.CacheDir)
			if err != nil {
				return fmt.Errorf("list cache: %w", err)
			}
			for _, f := range files {
				if err := os.Remove(filepath.Join(cfg.Paths.CacheDir, f.name)); err != nil && !errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("remove %s: %w", f.name, err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached files\n", len(files))
			return nil
		},
	}
}
