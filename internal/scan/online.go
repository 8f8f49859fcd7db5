package scan

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"saveshelf/internal/catalog"
	"saveshelf/internal/logging"
	"saveshelf/internal/manifest"
	"saveshelf/internal/onlinecache"
	"saveshelf/internal/services"
)

// CategoryManifest is the remote file listing one category's titles.
const CategoryManifest = "games.txt"

// OnlineCategory is one remotely published save category.
type OnlineCategory struct {
	Flag catalog.Flags
	// Path is appended to the base URL, with a trailing slash.
	Path string
}

// DefaultOnlineCategories are fetched in this order.
var DefaultOnlineCategories = []OnlineCategory{
	{Flag: catalog.FlagPSV, Path: "PSV/"},
	{Flag: catalog.FlagPSP, Path: "PSP/"},
}

// Refresher is the cache refresh capability used by OnlineScanner.
type Refresher interface {
	Refresh(ctx context.Context, cachePath string, src onlinecache.Source) (string, error)
}

// OnlineScanner lists remotely published saves. root is the base URL.
type OnlineScanner struct {
	Refresher  Refresher
	CacheDir   string
	Categories []OnlineCategory
	Logger     *slog.Logger
}

func (s *OnlineScanner) Name() string { return "online" }

func (s *OnlineScanner) Scan(ctx context.Context, root string) []*catalog.Entry {
	ctx, logger := scanLogger(ctx, s.Logger, s.Name())
	if strings.TrimSpace(root) == "" || s.Refresher == nil {
		logUnavailable(logger, root, services.Wrap(services.ErrSourceUnavailable, "scan", "online", "online catalog not configured", nil))
		return nil
	}
	if !strings.HasSuffix(root, "/") {
		root += "/"
	}
	categories := s.Categories
	if len(categories) == 0 {
		categories = DefaultOnlineCategories
	}

	var out []*catalog.Entry
	for _, cat := range categories {
		prefix := root + cat.Path
		cachePath := onlinecache.CategoryCachePath(s.CacheDir, cat.Flag)
		path, err := s.Refresher.Refresh(ctx, cachePath, onlinecache.Source{URLPrefix: prefix, Filename: CategoryManifest})
		if err != nil {
			logging.WarnWithContext(logger, "online category unavailable", "catalog_unavailable",
				logging.String("category", cat.Flag.String()),
				logging.String("url", prefix+CategoryManifest),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check network access or online.base_url"),
				logging.String(logging.FieldImpact, "category missing from the online list"),
			)
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			logUnavailable(logger, path, err)
			continue
		}
		out = append(out, ParseOnlineManifest(data, cat.Flag, prefix, logger)...)
	}
	return out
}

// ParseOnlineManifest turns a category manifest into OnlineOffering entries.
// Malformed lines and keys that are not valid title keys are skipped.
func ParseOnlineManifest(data []byte, category catalog.Flags, urlPrefix string, logger *slog.Logger) []*catalog.Entry {
	if logger == nil {
		logger = logging.NewNop()
	}
	var out []*catalog.Entry
	p := manifest.Parser{}
	for rec, err := range p.Records(data) {
		if err != nil {
			if !services.Recoverable(err) {
				logger.Error("manifest parser defect", logging.Error(err))
				break
			}
			logger.Debug("skipping manifest line", logging.Error(err))
			continue
		}
		entry, err := newEntry(catalog.KindOnlineOffering, category|catalog.FlagRemote, rec.Value, rec.Key)
		if err != nil {
			logger.Debug("skipping manifest record",
				logging.Int("line", rec.Line),
				logging.Error(err),
			)
			continue
		}
		entry.Location = urlPrefix + rec.Key + "/"
		out = append(out, entry)
	}
	return out
}
