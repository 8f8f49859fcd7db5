package scan

import (
	"context"
	"log/slog"
	"path/filepath"

	"saveshelf/internal/appdb"
	"saveshelf/internal/catalog"
	"saveshelf/internal/logging"
	"saveshelf/internal/sfo"
)

// StoreSaveScanner lists saves registered in the application database. root
// is the database path; each row's save directory is resolved under
// SandboxDir.
type StoreSaveScanner struct {
	SandboxDir string
	Account    Account
	Logger     *slog.Logger
}

func (s *StoreSaveScanner) Name() string { return "store" }

func (s *StoreSaveScanner) Scan(ctx context.Context, root string) []*catalog.Entry {
	ctx, logger := scanLogger(ctx, s.Logger, s.Name())
	db, err := appdb.Open(ctx, root)
	if err != nil {
		logUnavailable(logger, root, err)
		return nil
	}
	rows, err := db.StoreSaves(ctx)
	_ = db.Close()
	if err != nil {
		logUnavailable(logger, root, err)
		if len(rows) == 0 {
			return nil
		}
	}

	out := make([]*catalog.Entry, 0, len(rows))
	for _, row := range rows {
		container := filepath.Join(s.SandboxDir, row.SaveDir)
		flags := catalog.FlagPSV | catalog.FlagLocal
		if s.ownedSandbox(container) {
			flags |= catalog.FlagOwner
		}
		entry, err := newEntry(catalog.KindSave, flags, row.Title, row.TitleID)
		if err != nil {
			logSkipped(logger, root, err)
			continue
		}
		entry.DirectoryKey = row.SaveDir
		entry.Location = container
		entry.NumericTag = 1
		logger.Debug("save found",
			logging.String(logging.FieldTitleKey, entry.TitleKey()),
			logging.String("flags", entry.Flags().String()),
			logging.String("name", entry.Name),
		)
		out = append(out, entry)
	}
	return out
}

func (s *StoreSaveScanner) ownedSandbox(container string) bool {
	if !s.Account.Set {
		return false
	}
	meta, err := sfo.ParseFile(filepath.Join(container, VitaMetadataPath))
	if err != nil {
		return false
	}
	acct, ok := meta.AccountID()
	return ok && s.Account.Owns(acct)
}

// TrophyScanner lists trophy sets from the trophy database at root.
type TrophyScanner struct {
	Logger *slog.Logger
}

func (s *TrophyScanner) Name() string { return "trophy" }

func (s *TrophyScanner) Scan(ctx context.Context, root string) []*catalog.Entry {
	ctx, logger := scanLogger(ctx, s.Logger, s.Name())
	db, err := appdb.Open(ctx, root)
	if err != nil {
		logUnavailable(logger, root, err)
		return nil
	}
	titles, err := db.TrophyTitles(ctx)
	_ = db.Close()
	if err != nil {
		logUnavailable(logger, root, err)
		if len(titles) == 0 {
			return nil
		}
	}

	out := make([]*catalog.Entry, 0, len(titles))
	for _, t := range titles {
		entry, err := newEntry(catalog.KindTrophySet, catalog.FlagPSV|catalog.FlagTrophy, t.Title, titleKeyPrefix(t.NPCommID))
		if err != nil {
			logSkipped(logger, root, err)
			continue
		}
		entry.Location = root
		entry.DirectoryKey = t.NPCommID
		entry.NumericTag = t.ID
		out = append(out, entry)
	}
	return out
}
