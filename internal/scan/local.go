package scan

import (
	"context"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"saveshelf/internal/appdb"
	"saveshelf/internal/catalog"
	"saveshelf/internal/fileutil"
	"saveshelf/internal/logging"
	"saveshelf/internal/services"
	"saveshelf/internal/sfo"
)

// VitaMetadataPath is the metadata block inside a decrypted Vita save.
const VitaMetadataPath = "sce_sys/param.sfo"

// PSPMetadataFile is the metadata block inside a PSP save.
const PSPMetadataFile = "PARAM.SFO"

// VitaSaveScanner finds decrypted Vita saves one level below root.
type VitaSaveScanner struct {
	// Storage is FlagRemovable or FlagLocal.
	Storage catalog.Flags
	Account Account
	// AppDBPath names the application database used for display titles.
	AppDBPath string
	Logger    *slog.Logger
}

func (s *VitaSaveScanner) Name() string { return "vita" }

func (s *VitaSaveScanner) Scan(ctx context.Context, root string) []*catalog.Entry {
	ctx, logger := scanLogger(ctx, s.Logger, s.Name())
	dirs, err := readRoot(root)
	if err != nil {
		logUnavailable(logger, root, err)
		return nil
	}

	titles := openTitles(ctx, s.AppDBPath, logger)
	defer titles.Close()

	var out []*catalog.Entry
	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		container := filepath.Join(root, d.Name())
		metaPath := filepath.Join(container, VitaMetadataPath)
		if !fileutil.FileExists(metaPath) {
			continue
		}
		entry, err := s.entry(ctx, titles, container, metaPath)
		if err != nil {
			logSkipped(logger, metaPath, err)
			continue
		}
		logger.Debug("save found",
			logging.String(logging.FieldTitleKey, entry.TitleKey()),
			logging.String("flags", entry.Flags().String()),
			logging.String("name", entry.Name),
		)
		out = append(out, entry)
	}
	return out
}

func (s *VitaSaveScanner) entry(ctx context.Context, titles *titleLookup, container, metaPath string) (*catalog.Entry, error) {
	meta, err := sfo.ParseFile(metaPath)
	if err != nil {
		return nil, err
	}
	titleID, ok := meta.VitaTitleID()
	if !ok {
		return nil, services.Wrap(services.ErrMalformedRecord, "scan", "vita", "PARAMS carries no title id", nil)
	}
	flags := catalog.FlagPSV | s.Storage
	if acct, ok := meta.AccountID(); ok && s.Account.Owns(acct) {
		flags |= catalog.FlagOwner
	}
	name := titles.Title(ctx, titleID)
	entry, err := newEntry(catalog.KindSave, flags, name, titleKeyPrefix(titleID))
	if err != nil {
		return nil, err
	}
	entry.Location = container
	entry.DirectoryKey = meta.ParentDirectory()
	return entry, nil
}

// titleLookup resolves display titles from the application database when it
// is available and falls back to the title id.
type titleLookup struct {
	db     *appdb.DB
	logger *slog.Logger
}

func openTitles(ctx context.Context, path string, logger *slog.Logger) *titleLookup {
	t := &titleLookup{logger: logger}
	if strings.TrimSpace(path) == "" {
		return t
	}
	db, err := appdb.Open(ctx, path)
	if err != nil {
		logger.Debug("app database unavailable; using title ids as names", logging.Error(err))
		return t
	}
	t.db = db
	return t
}

func (t *titleLookup) Title(ctx context.Context, titleID string) string {
	if t == nil || t.db == nil {
		return titleID
	}
	title, ok, err := t.db.AppTitle(ctx, titleID)
	if err != nil {
		t.logger.Debug("title lookup failed", logging.String(logging.FieldTitleKey, titleID), logging.Error(err))
		return titleID
	}
	if !ok || title == "" {
		return titleID
	}
	return title
}

func (t *titleLookup) Close() {
	if t != nil && t.db != nil {
		_ = t.db.Close()
		t.db = nil
	}
}

// PSPSaveScanner finds PSP saves one level below root.
type PSPSaveScanner struct {
	Storage catalog.Flags
	Logger  *slog.Logger
}

func (s *PSPSaveScanner) Name() string { return "psp" }

func (s *PSPSaveScanner) Scan(ctx context.Context, root string) []*catalog.Entry {
	_, logger := scanLogger(ctx, s.Logger, s.Name())
	dirs, err := readRoot(root)
	if err != nil {
		logUnavailable(logger, root, err)
		return nil
	}

	var out []*catalog.Entry
	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		container := filepath.Join(root, d.Name())
		metaPath := filepath.Join(container, PSPMetadataFile)
		if !fileutil.FileExists(metaPath) {
			continue
		}
		entry, err := s.entry(container, metaPath)
		if err != nil {
			logSkipped(logger, metaPath, err)
			continue
		}
		logger.Debug("save found",
			logging.String(logging.FieldTitleKey, entry.TitleKey()),
			logging.String("name", entry.Name),
		)
		out = append(out, entry)
	}
	return out
}

func (s *PSPSaveScanner) entry(container, metaPath string) (*catalog.Entry, error) {
	meta, err := sfo.ParseFile(metaPath)
	if err != nil {
		return nil, err
	}
	dirKey := meta.String(sfo.KeySavedataDirectory)
	if dirKey == "" {
		return nil, services.Wrap(services.ErrMalformedRecord, "scan", "psp", "missing "+sfo.KeySavedataDirectory, nil)
	}
	name := meta.String(sfo.KeyTitle)
	if name == "" {
		name = dirKey
	}
	entry, err := newEntry(catalog.KindSave, catalog.FlagPSP|s.Storage, name, titleKeyPrefix(dirKey))
	if err != nil {
		return nil, err
	}
	entry.Location = container
	entry.DirectoryKey = dirKey
	return entry, nil
}

// BlockSize is the storage block used for save size tags.
const BlockSize = 1024

// EncryptedSaveScanner finds encrypted Vita saves exported to backup storage.
// root is an account directory named by the owner's 16-digit hex account id;
// below it each title directory holds save files paired with a sibling
// "<file>.bin" key file.
type EncryptedSaveScanner struct {
	Account Account
	Logger  *slog.Logger
}

func (s *EncryptedSaveScanner) Name() string { return "encrypted" }

func (s *EncryptedSaveScanner) Scan(ctx context.Context, root string) []*catalog.Entry {
	_, logger := scanLogger(ctx, s.Logger, s.Name())
	titles, err := readRoot(root)
	if err != nil {
		logUnavailable(logger, root, err)
		return nil
	}

	owner := false
	if acct, ok := ParseAccountDir(filepath.Base(root)); ok && s.Account.Owns(acct) {
		owner = true
	}

	var out []*catalog.Entry
	for _, t := range titles {
		if !t.IsDir() {
			continue
		}
		titleDir := filepath.Join(root, t.Name())
		files, err := readRoot(titleDir)
		if err != nil {
			logUnavailable(logger, titleDir, err)
			continue
		}
		for _, f := range files {
			if !f.Type().IsRegular() || strings.HasSuffix(f.Name(), ".bin") {
				continue
			}
			if !fileutil.FileExists(filepath.Join(titleDir, f.Name()+".bin")) {
				continue
			}
			flags := catalog.FlagPSV | catalog.FlagLocked | catalog.FlagRemovable
			if owner {
				flags |= catalog.FlagOwner
			}
			entry, err := newEntry(catalog.KindSave, flags,
				"(Encrypted) "+t.Name()+"/"+f.Name(), titleKeyPrefix(t.Name()))
			if err != nil {
				logSkipped(logger, filepath.Join(titleDir, f.Name()), err)
				continue
			}
			entry.Location = titleDir
			entry.DirectoryKey = f.Name()
			if info, err := f.Info(); err == nil {
				entry.NumericTag = (info.Size() + BlockSize - 1) / BlockSize
			}
			out = append(out, entry)
		}
	}
	return out
}

// ParseAccountDir parses a 16-digit hex account directory name.
func ParseAccountDir(name string) (uint64, bool) {
	if len(name) != 16 {
		return 0, false
	}
	id, err := strconv.ParseUint(name, 16, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
