package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeStorage(); err != nil {
		return err
	}
	c.normalizeAccount()
	c.normalizeOnline()
	if err := c.normalizeMount(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir()
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.PatchDir) == "" {
		c.Paths.PatchDir = filepath.Join(c.Paths.DataDir, "patches")
	}
	if c.Paths.PatchDir, err = expandPath(c.Paths.PatchDir); err != nil {
		return fmt.Errorf("paths.patch_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeStorage() error {
	var err error
	fields := []struct {
		key   string
		value *string
	}{
		{"storage.savedata_dir", &c.Storage.SavedataDir},
		{"storage.psp_saves_dir", &c.Storage.PSPSavesDir},
		{"storage.archive_dir", &c.Storage.ArchiveDir},
		{"storage.app_db_path", &c.Storage.AppDBPath},
		{"storage.trophy_db_path", &c.Storage.TrophyDBPath},
	}
	for _, field := range fields {
		if *field.value, err = expandPath(strings.TrimSpace(*field.value)); err != nil {
			return fmt.Errorf("%s: %w", field.key, err)
		}
	}

	roots := make([]string, 0, len(c.Storage.RemovableRoots))
	seen := make(map[string]struct{}, len(c.Storage.RemovableRoots))
	for _, root := range c.Storage.RemovableRoots {
		trimmed := strings.TrimSpace(root)
		if trimmed == "" {
			continue
		}
		expanded, err := expandPath(trimmed)
		if err != nil {
			return fmt.Errorf("storage.removable_roots: %w", err)
		}
		if _, exists := seen[expanded]; exists {
			continue
		}
		seen[expanded] = struct{}{}
		roots = append(roots, expanded)
	}
	c.Storage.RemovableRoots = roots
	return nil
}

func (c *Config) normalizeAccount() {
	c.Account.ID = strings.ToLower(strings.TrimSpace(c.Account.ID))
	if c.Account.ID == "" {
		if value, ok := os.LookupEnv("SAVESHELF_ACCOUNT_ID"); ok {
			c.Account.ID = strings.ToLower(strings.TrimSpace(value))
		}
	}
	c.Account.ID = strings.TrimPrefix(c.Account.ID, "0x")
}

func (c *Config) normalizeOnline() {
	c.Online.BaseURL = strings.TrimSpace(c.Online.BaseURL)
	if c.Online.BaseURL == "" {
		c.Online.BaseURL = defaultOnlineBaseURL
	}
	if !strings.HasSuffix(c.Online.BaseURL, "/") {
		c.Online.BaseURL += "/"
	}
	if c.Online.CacheMaxAgeHours == 0 {
		c.Online.CacheMaxAgeHours = defaultCacheMaxAgeHours
	}
	if c.Online.DownloadTimeout == 0 {
		c.Online.DownloadTimeout = defaultDownloadTimeout
	}
}

func (c *Config) normalizeMount() error {
	c.Mount.Helper = strings.TrimSpace(c.Mount.Helper)
	if len(c.Mount.Profiles) == 0 {
		c.Mount.Profiles = append([]string(nil), DefaultMountProfiles...)
	}
	var err error
	if strings.TrimSpace(c.Mount.LockPath) == "" {
		c.Mount.LockPath = filepath.Join(c.Paths.DataDir, defaultLockFileName)
	}
	if c.Mount.LockPath, err = expandPath(strings.TrimSpace(c.Mount.LockPath)); err != nil {
		return fmt.Errorf("mount.lock_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
