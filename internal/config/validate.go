package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAccount(); err != nil {
		return err
	}
	if err := c.validateOnline(); err != nil {
		return err
	}
	if err := c.validateMount(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAccount() error {
	id := strings.TrimSpace(c.Account.ID)
	if id == "" {
		return nil
	}
	if len(id) != 16 {
		return fmt.Errorf("account.id must be 16 hex digits, got %q", id)
	}
	if _, err := strconv.ParseUint(id, 16, 64); err != nil {
		return fmt.Errorf("account.id must be 16 hex digits, got %q", id)
	}
	return nil
}

func (c *Config) validateOnline() error {
	if !c.Online.Enabled {
		return nil
	}
	parsed, err := url.Parse(c.Online.BaseURL)
	if err != nil {
		return fmt.Errorf("online.base_url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("online.base_url must use http or https, got %q", c.Online.BaseURL)
	}
	if parsed.Host == "" {
		return errors.New("online.base_url must include a host")
	}
	return ensurePositiveMap(map[string]int{
		"online.cache_max_age_hours": c.Online.CacheMaxAgeHours,
		"online.download_timeout":    c.Online.DownloadTimeout,
	})
}

func (c *Config) validateMount() error {
	if len(c.Mount.Profiles) == 0 {
		return errors.New("mount.profiles must include at least one profile")
	}
	_, err := c.MountProfiles()
	return err
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
