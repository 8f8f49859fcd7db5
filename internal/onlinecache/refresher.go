// Package onlinecache keeps local copies of remotely published manifests.
//
// A cache file that does not exist must be fetched; if that fetch fails the
// backend is unavailable. A cache file older than MaxAge is re-fetched, and a
// failed re-fetch falls back to the stale copy.
package onlinecache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"saveshelf/internal/catalog"
	"saveshelf/internal/logging"
	"saveshelf/internal/services"
)

// DefaultMaxAge is the freshness window for cached manifests.
const DefaultMaxAge = 24 * time.Hour

// Fetcher downloads urlPrefix+filename into destPath.
type Fetcher interface {
	Fetch(ctx context.Context, urlPrefix, filename, destPath string) error
}

// Source identifies a remote manifest.
type Source struct {
	URLPrefix string
	Filename  string
}

// URL returns the full remote location.
func (s Source) URL() string {
	return s.URLPrefix + s.Filename
}

// Refresher decides when a cached manifest must be re-fetched.
type Refresher struct {
	MaxAge  time.Duration
	Fetcher Fetcher
	Now     func() time.Time
	Logger  *slog.Logger
}

// NewRefresher builds a refresher with the default clock.
func NewRefresher(fetcher Fetcher, maxAge time.Duration, logger *slog.Logger) *Refresher {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &Refresher{
		MaxAge:  maxAge,
		Fetcher: fetcher,
		Now:     time.Now,
		Logger:  logging.NewComponentLogger(logger, "onlinecache"),
	}
}

// Refresh makes sure cachePath holds a usable copy of src and returns its path.
func (r *Refresher) Refresh(ctx context.Context, cachePath string, src Source) (string, error) {
	logger := logging.WithContext(ctx, r.logger())

	info, err := os.Stat(cachePath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return "", services.Wrap(services.ErrCatalogUnavailable, "onlinecache", "stat", cachePath, err)
		}
		logger.Debug("cache missing; fetching", logging.String("url", src.URL()), logging.String("path", cachePath))
		if err := r.fetch(ctx, cachePath, src); err != nil {
			return "", services.Wrap(services.ErrCatalogUnavailable, "onlinecache", "fetch", src.URL(), err)
		}
		return cachePath, nil
	}

	if !r.stale(info.ModTime()) {
		logger.Debug("cache fresh", logging.String("path", cachePath), logging.Duration("age", r.now().Sub(info.ModTime())))
		return cachePath, nil
	}

	if err := r.fetch(ctx, cachePath, src); err != nil {
		logging.WarnWithContext(logger, "cache refresh failed; serving stale copy", "cache_refresh_failed",
			logging.String("url", src.URL()),
			logging.String("path", cachePath),
			logging.Duration("age", r.now().Sub(info.ModTime())),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check network access or online.base_url"),
			logging.String(logging.FieldImpact, "online list may be outdated"),
		)
		return cachePath, nil
	}
	logger.Debug("cache refreshed", logging.String("path", cachePath))
	return cachePath, nil
}

// stale reports whether a file modified at modTime must be re-fetched.
func (r *Refresher) stale(modTime time.Time) bool {
	maxAge := r.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return modTime.Add(maxAge).Before(r.now())
}

func (r *Refresher) fetch(ctx context.Context, cachePath string, src Source) error {
	if r.Fetcher == nil {
		return services.Wrap(services.ErrFetchFailed, "onlinecache", "fetch", "no fetcher configured", nil)
	}
	if err := r.Fetcher.Fetch(ctx, src.URLPrefix, src.Filename, cachePath); err != nil {
		if errors.Is(err, services.ErrFetchFailed) {
			return err
		}
		return services.Wrap(services.ErrFetchFailed, "onlinecache", "fetch", src.URL(), err)
	}
	return nil
}

func (r *Refresher) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Refresher) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return logging.NewNop()
}

// CategoryCachePath returns the cache file for a category manifest, keyed by
// the category flag as four hex digits.
func CategoryCachePath(cacheDir string, category catalog.Flags) string {
	return filepath.Join(cacheDir, fmt.Sprintf("%04X_games.txt", uint16(category)))
}

// TitleCachePath returns the cache file for one title's offering list.
func TitleCachePath(cacheDir, titleKey string) string {
	return filepath.Join(cacheDir, titleKey+".txt")
}
