package testsupport

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"saveshelf/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Application directories live under base/app and the mirrored device layout
// under base/device. Online access is disabled unless WithOnline is used.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	app := filepath.Join(base, "app")
	device := filepath.Join(base, "device")
	cfgVal.Paths.DataDir = app
	cfgVal.Paths.CacheDir = filepath.Join(app, "cache")
	cfgVal.Paths.LogDir = filepath.Join(app, "logs")
	cfgVal.Paths.PatchDir = filepath.Join(app, "patches")
	cfgVal.Storage.SavedataDir = filepath.Join(device, "ux0", "user", "00", "savedata")
	cfgVal.Storage.PSPSavesDir = filepath.Join(device, "ux0", "pspemu", "PSP", "SAVEDATA")
	cfgVal.Storage.ArchiveDir = filepath.Join(device, "ux0", "data")
	cfgVal.Storage.AppDBPath = filepath.Join(device, "ur0", "shell", "db", "app.db")
	cfgVal.Storage.TrophyDBPath = filepath.Join(device, "ur0", "user", "00", "trophy", "db", "trophy_local.db")
	cfgVal.Storage.RemovableRoots = nil
	cfgVal.Online.Enabled = false
	cfgVal.Mount.LockPath = filepath.Join(app, "mount.lock")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithAccount sets the owner account id on the test config.
func WithAccount(id string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Account.ID = id
	}
}

// WithRemovableRoots creates n removable backup roots under the base dir.
func WithRemovableRoots(n int) ConfigOption {
	return func(b *configBuilder) {
		roots := make([]string, 0, n)
		for i := 0; i < n; i++ {
			root := filepath.Join(b.baseDir, "removable", string(rune('a'+i)))
			if err := os.MkdirAll(root, 0o755); err != nil {
				b.t.Fatalf("mkdir removable root: %v", err)
			}
			roots = append(roots, root)
		}
		b.cfg.Storage.RemovableRoots = roots
	}
}

// WithOnline enables the online catalog against baseURL.
func WithOnline(baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Online.Enabled = true
		b.cfg.Online.BaseURL = baseURL
	}
}

// WithStubbedHelper writes a mount helper script that exits with code and
// points the config at it.
func WithStubbedHelper(code int) ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		target := filepath.Join(binDir, "save-mount")
		script := []byte("#!/bin/sh\nexit " + strconv.Itoa(code) + "\n")
		if err := os.WriteFile(target, script, 0o755); err != nil {
			b.t.Fatalf("write helper stub: %v", err)
		}
		b.cfg.Mount.Helper = target
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
