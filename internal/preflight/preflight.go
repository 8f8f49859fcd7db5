package preflight

import (
	"context"
	"fmt"

	"saveshelf/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	// Optional marks checks whose failure leaves the rest of the catalog usable.
	Optional bool
	Detail   string
}

// RunAll executes every applicable check for cfg. The online check only runs
// when the online catalog is enabled.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Cache directory", cfg.Paths.CacheDir),
		optional(CheckReadable("Save data", cfg.Storage.SavedataDir)),
		optional(CheckReadable("PSP saves", cfg.Storage.PSPSavesDir)),
		optional(CheckReadable("Archives", cfg.Storage.ArchiveDir)),
	}
	for i, root := range cfg.Storage.RemovableRoots {
		results = append(results, optional(CheckReadable(fmt.Sprintf("Backup storage %d", i), root)))
	}
	results = append(results,
		optional(CheckDatabase(ctx, "Application database", cfg.Storage.AppDBPath)),
		optional(CheckDatabase(ctx, "Trophy database", cfg.Storage.TrophyDBPath)),
		CheckBinary("Mount helper", cfg.Mount.Helper),
	)
	if cfg.Online.Enabled {
		results = append(results, optional(CheckOnline(ctx, cfg.Online.BaseURL)))
	}
	return results
}

// Failed counts the required checks that did not pass.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if !r.Passed && !r.Optional {
			n++
		}
	}
	return n
}

func optional(r Result) Result {
	r.Optional = true
	return r
}
