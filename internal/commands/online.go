package commands

import (
	"context"
	"os"

	"saveshelf/internal/catalog"
	"saveshelf/internal/logging"
	"saveshelf/internal/manifest"
	"saveshelf/internal/onlinecache"
	"saveshelf/internal/services"
)

// TitleManifest is the remote file listing one title's saves.
const TitleManifest = "saves.txt"

// OnlineUnavailableNotice is shown when a title's save list cannot be loaded.
const OnlineUnavailableNotice = "Online Save List Unavailable!"

// onlineCommands lists downloadable saves for one title. The list is cached
// per title key and parsed with fixed-width keys.
func (b *Builder) onlineCommands(ctx context.Context, entry *catalog.Entry) []*catalog.Command {
	logger := logging.WithContext(ctx, b.logger)
	if b.refresher == nil {
		return []*catalog.Command{warning(OnlineUnavailableNotice)}
	}

	cachePath := onlinecache.TitleCachePath(b.cacheDir, entry.TitleKey())
	path, err := b.refresher.Refresh(ctx, cachePath, onlinecache.Source{URLPrefix: entry.Location, Filename: TitleManifest})
	if err != nil {
		logging.WarnWithContext(logger, "online save list unavailable", "catalog_unavailable",
			logging.String("url", entry.Location+TitleManifest),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check network access or online.base_url"),
			logging.String(logging.FieldImpact, "title listed without downloads"),
		)
		return []*catalog.Command{warning(OnlineUnavailableNotice)}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		logging.WarnWithContext(logger, "online save list unreadable", "cache_unreadable",
			logging.String("path", path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "title listed without downloads"),
		)
		return []*catalog.Command{warning(OnlineUnavailableNotice)}
	}

	cmds := []*catalog.Command{}
	p := manifest.Parser{KeyWidth: manifest.FixedKeyWidth}
	for rec, err := range p.Records(data) {
		if err != nil {
			if !services.Recoverable(err) {
				logger.Error("manifest parser defect", logging.Error(err))
				break
			}
			logger.Debug("skipping save list line", logging.Error(err))
			continue
		}
		cmd := catalog.NewAction(catalog.GlyphZip, rec.Value, catalog.OpNone).
			WithPayload([]byte(rec.Key)).
			WithOptions(b.removableOptions("Download to Backup Storage", catalog.OpDownloadRemovable)...)
		cmds = append(cmds, cmd)
	}
	return cmds
}
