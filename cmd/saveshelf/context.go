package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"saveshelf/internal/commands"
	"saveshelf/internal/config"
	"saveshelf/internal/library"
	"saveshelf/internal/logging"
	"saveshelf/internal/mount"
	"saveshelf/internal/onlinecache"
	"saveshelf/internal/scan"
)

type commandContext struct {
	configFlag *string
	quiet      *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger

	refresherOnce sync.Once
	refresher     *onlinecache.Refresher
}

func newCommandContext(configFlag *string, quiet *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		quiet:      quiet,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// loggerFor returns the process logger, falling back to a console logger when
// the configured one cannot be opened.
func (c *commandContext) loggerFor(cfg *config.Config) *slog.Logger {
	c.loggerOnce.Do(func() {
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			logger, _ = logging.New(logging.Options{Level: "info", Format: "console"})
			logging.WarnWithContext(logger, "configured logger unavailable", "logger_fallback",
				logging.Error(err),
				logging.String(logging.FieldImpact, "logs are written to stderr only"),
			)
		}
		if c.quiet != nil && *c.quiet {
			logger = logging.WithLevelOverride(logger, slog.LevelError)
		}
		if cfg != nil && cfg.Paths.LogDir != "" {
			now := time.Now()
			logging.CleanupOldLogs(logger, cfg.Paths.LogDir, cfg.Logging.RetentionDays, logging.LogFilePath(cfg.Paths.LogDir, now), now)
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) onlineRefresher(cfg *config.Config, logger *slog.Logger) *onlinecache.Refresher {
	c.refresherOnce.Do(func() {
		timeout := time.Duration(cfg.Online.DownloadTimeout) * time.Second
		maxAge := time.Duration(cfg.Online.CacheMaxAgeHours) * time.Hour
		c.refresher = onlinecache.NewRefresher(onlinecache.NewHTTPFetcher(timeout, logger), maxAge, logger)
	})
	return c.refresher
}

func (c *commandContext) library(cfg *config.Config) *library.Library {
	logger := c.loggerFor(cfg)
	id, ok := cfg.AccountID()
	opts := library.Options{
		Sources: library.Sources{
			SavedataDir:    cfg.Storage.SavedataDir,
			PSPSavesDir:    cfg.Storage.PSPSavesDir,
			RemovableRoots: cfg.Storage.RemovableRoots,
			ArchiveDir:     cfg.Storage.ArchiveDir,
			AppDBPath:      cfg.Storage.AppDBPath,
			TrophyDBPath:   cfg.Storage.TrophyDBPath,
		},
		Account:  scan.Account{ID: id, Set: ok},
		CacheDir: cfg.Paths.CacheDir,
		Logger:   logger,
	}
	if cfg.Online.Enabled {
		opts.Sources.OnlineBaseURL = cfg.Online.BaseURL
		opts.Refresher = c.onlineRefresher(cfg, logger)
	}
	return library.New(opts)
}

func (c *commandContext) builder(cfg *config.Config) (*commands.Builder, error) {
	logger := c.loggerFor(cfg)
	raw, err := cfg.MountProfiles()
	if err != nil {
		return nil, err
	}
	profiles := make([]mount.Profile, 0, len(raw))
	for _, p := range raw {
		profiles = append(profiles, mount.Profile(p))
	}
	mgr, err := mount.NewManager(mount.NewSystemPrimitive(cfg.Mount.Helper, logger), mount.Options{
		Root:     cfg.Storage.SavedataDir,
		Profiles: profiles,
		LockPath: cfg.Mount.LockPath,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("mount manager: %w", err)
	}
	opts := commands.Options{
		Destinations: commands.Destinations{
			RemovableRoots: cfg.Storage.RemovableRoots,
			UserSavesDir:   cfg.Storage.SavedataDir,
			PSPSavesDir:    cfg.Storage.PSPSavesDir,
			ArchiveDir:     cfg.Storage.ArchiveDir,
		},
		PatchDir: cfg.Paths.PatchDir,
		CacheDir: cfg.Paths.CacheDir,
		Mount:    mgr,
		Logger:   logger,
	}
	if cfg.Online.Enabled {
		opts.Refresher = c.onlineRefresher(cfg, logger)
	}
	return commands.New(opts), nil
}

// skipConfigAnnotation marks commands that load (or create) the config themselves.
const skipConfigAnnotation = "skipConfigLoad"

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[skipConfigAnnotation] == "true" {
			return true
		}
	}
	return false
}
