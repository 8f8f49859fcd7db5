package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains application-owned directories.
type Paths struct {
	DataDir  string `toml:"data_dir"`
	CacheDir string `toml:"cache_dir"`
	LogDir   string `toml:"log_dir"`
	PatchDir string `toml:"patch_dir"`
}

// Storage describes where save artifacts live on the mirrored device layout.
type Storage struct {
	SavedataDir    string   `toml:"savedata_dir"`
	PSPSavesDir    string   `toml:"psp_saves_dir"`
	RemovableRoots []string `toml:"removable_roots"`
	ArchiveDir     string   `toml:"archive_dir"`
	AppDBPath      string   `toml:"app_db_path"`
	TrophyDBPath   string   `toml:"trophy_db_path"`
}

// Account identifies the current user for ownership checks.
type Account struct {
	ID string `toml:"id"`
}

// Online contains the remote save catalog settings.
type Online struct {
	Enabled          bool   `toml:"enabled"`
	BaseURL          string `toml:"base_url"`
	CacheMaxAgeHours int    `toml:"cache_max_age_hours"`
	DownloadTimeout  int    `toml:"download_timeout"`
}

// Mount contains protected container mount settings.
type Mount struct {
	Helper   string   `toml:"helper"`
	Profiles []string `toml:"profiles"`
	LockPath string   `toml:"lock_path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for saveshelf.
//
// Configuration sections by subsystem:
//   - Paths: data, cache, log and patch script directories
//   - Storage: save roots, removable backup roots and metadata databases
//   - Account: owner account identifier
//   - Online: remote save catalog and cache freshness
//   - Mount: protected container mount helper and profiles
//   - Logging: log format, level, and retention
type Config struct {
	Paths   Paths   `toml:"paths"`
	Storage Storage `toml:"storage"`
	Account Account `toml:"account"`
	Online  Online  `toml:"online"`
	Mount   Mount   `toml:"mount"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("saveshelf.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the application-owned directories. Save roots are
// never created; a missing root is reported by the scanners as unavailable.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.CacheDir, c.Paths.LogDir, c.Paths.PatchDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// AccountID returns the parsed owner account identifier. The boolean is false
// when no account is configured.
func (c *Config) AccountID() (uint64, bool) {
	value := strings.TrimSpace(c.Account.ID)
	if value == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(value, 16, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// MountProfiles returns the configured access profiles in priority order.
func (c *Config) MountProfiles() ([]uint32, error) {
	out := make([]uint32, 0, len(c.Mount.Profiles))
	for _, raw := range c.Mount.Profiles {
		value, err := parseProfile(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, value)
	}
	return out, nil
}

func parseProfile(raw string) (uint32, error) {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	trimmed = strings.TrimPrefix(trimmed, "0x")
	value, err := strconv.ParseUint(trimmed, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("mount.profiles: invalid profile %q", raw)
	}
	return uint32(value), nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultCacheDir() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "saveshelf")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.cache/saveshelf"
	}
	return filepath.Join(home, ".cache", "saveshelf")
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
