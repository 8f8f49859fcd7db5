package scan

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"saveshelf/internal/catalog"
	"saveshelf/internal/logging"
)

// ArchiveExtensions lists the loose archive types that can be extracted.
var ArchiveExtensions = map[string]struct{}{
	".zip": {},
	".rar": {},
	".7z":  {},
}

// IsArchive reports whether name has an allowed archive extension, ignoring case.
func IsArchive(name string) bool {
	_, ok := ArchiveExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// ArchiveScanner lists loose archives directly inside root.
type ArchiveScanner struct {
	Logger *slog.Logger
}

func (s *ArchiveScanner) Name() string { return "archive" }

func (s *ArchiveScanner) Scan(ctx context.Context, root string) []*catalog.Entry {
	_, logger := scanLogger(ctx, s.Logger, s.Name())
	files, err := readRoot(root)
	if err != nil {
		logUnavailable(logger, root, err)
		return nil
	}

	var out []*catalog.Entry
	for _, f := range files {
		if !f.Type().IsRegular() || !IsArchive(f.Name()) {
			continue
		}
		entry, err := newEntry(catalog.KindArchiveBackup, catalog.FlagArchive, f.Name(), "")
		if err != nil {
			logSkipped(logger, filepath.Join(root, f.Name()), err)
			continue
		}
		entry.Location = filepath.Join(root, f.Name())
		entry.DirectoryKey = f.Name()
		logger.Debug("archive found", logging.String("path", entry.Location))
		out = append(out, entry)
	}
	return out
}
