package library

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"saveshelf/internal/catalog"
	"saveshelf/internal/logging"
	"saveshelf/internal/scan"
	"saveshelf/internal/services"
)

// List names one of the catalogs a Library can build.
type List string

const (
	UserSaves      List = "user"
	RemovableSaves List = "removable"
	Trophies       List = "trophies"
	Online         List = "online"
	Archives       List = "archives"
)

// Lists are all catalogs in display order.
var Lists = []List{UserSaves, RemovableSaves, Trophies, Online, Archives}

// ParseList resolves a list name.
func ParseList(name string) (List, bool) {
	for _, l := range Lists {
		if string(l) == name {
			return l, true
		}
	}
	return "", false
}

// Sources locates every backend root.
type Sources struct {
	SavedataDir    string
	PSPSavesDir    string
	RemovableRoots []string
	ArchiveDir     string
	AppDBPath      string
	TrophyDBPath   string
	// OnlineBaseURL is empty when the online catalog is disabled.
	OnlineBaseURL string
}

// Options configures a Library.
type Options struct {
	Sources   Sources
	Account   scan.Account
	Refresher scan.Refresher
	CacheDir  string
	Logger    *slog.Logger
}

// Library builds catalogs. It holds no catalog state between builds.
type Library struct {
	sources   Sources
	account   scan.Account
	refresher scan.Refresher
	cacheDir  string
	base      *slog.Logger
	logger    *slog.Logger
	newRunID  func() string
}

// New constructs a Library.
func New(opts Options) *Library {
	return &Library{
		sources:   opts.Sources,
		account:   opts.Account,
		refresher: opts.Refresher,
		cacheDir:  opts.CacheDir,
		base:      opts.Logger,
		logger:    logging.NewComponentLogger(opts.Logger, "library"),
		newRunID:  uuid.NewString,
	}
}

// category is one scanner group that may be prefixed with a menu aggregate.
type category struct {
	name string
	// menu holds the aggregate flags; zero means no aggregate.
	menu     catalog.Flags
	location string
	scans    []rootScan
}

type rootScan struct {
	scanner scan.Scanner
	root    string
}

// Build runs the scanners of list and returns the assembled catalog. An
// unavailable backend contributes nothing; an empty catalog is a valid result.
func (l *Library) Build(ctx context.Context, list List) *catalog.Catalog {
	runID := l.newRunID()
	ctx = services.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, l.logger)
	started := time.Now()

	c := catalog.New(string(list))
	for _, cat := range l.categories(list) {
		var entries []*catalog.Entry
		for _, rs := range cat.scans {
			entries = append(entries, rs.scanner.Scan(ctx, rs.root)...)
		}
		if len(entries) == 0 {
			logger.Debug("category empty", logging.String("category", cat.name))
			continue
		}
		if cat.menu != 0 {
			c.Append(l.menuEntry(c, cat, len(entries)))
		}
		c.Append(entries...)
		logger.Debug("category scanned",
			logging.String("category", cat.name),
			logging.Int("entries", len(entries)),
		)
	}

	logger.Info("catalog built",
		logging.String("list", string(list)),
		logging.Int("entries", c.Len()),
		logging.Duration("elapsed", time.Since(started)),
	)
	return c
}

// menuEntry creates the aggregate for a category whose n entries will be
// appended right after it.
func (l *Library) menuEntry(c *catalog.Catalog, cat category, n int) *catalog.Entry {
	// An empty key and a fixed kind never fail validation.
	entry, _ := catalog.NewEntry(catalog.KindMenuAggregate, catalog.FlagAggregate|cat.menu, menuName(cat.menu), "")
	entry.Location = cat.location
	start := c.Len() + 1
	entry.Bulk = &catalog.BulkRef{Catalog: c, Start: start, End: start + n}
	return entry
}

func menuName(flags catalog.Flags) string {
	switch {
	case flags.Has(catalog.FlagArchive):
		return "Extract Archives (RAR, Zip, 7z)"
	case flags.Has(catalog.FlagPSP):
		return "Bulk PSP Save Management"
	default:
		return "Bulk Save Management"
	}
}

func (l *Library) categories(list List) []category {
	s := l.sources
	switch list {
	case UserSaves:
		return []category{
			{
				name:     "local",
				menu:     catalog.FlagPSP | catalog.FlagLocal,
				location: s.PSPSavesDir,
				scans: []rootScan{
					{&scan.PSPSaveScanner{Storage: catalog.FlagLocal, Logger: l.base}, s.PSPSavesDir},
				},
			},
			{
				name:     "store",
				menu:     catalog.FlagPSV | catalog.FlagLocal,
				location: s.SavedataDir,
				scans: []rootScan{
					{&scan.StoreSaveScanner{SandboxDir: s.SavedataDir, Account: l.account, Logger: l.base}, s.AppDBPath},
				},
			},
			l.archiveCategory(),
		}
	case RemovableSaves:
		return []category{l.removableCategory()}
	case Trophies:
		return []category{{
			name:  "trophy",
			scans: []rootScan{{&scan.TrophyScanner{Logger: l.base}, s.TrophyDBPath}},
		}}
	case Online:
		return []category{{
			name: "online",
			scans: []rootScan{{
				&scan.OnlineScanner{Refresher: l.refresher, CacheDir: l.cacheDir, Logger: l.base},
				s.OnlineBaseURL,
			}},
		}}
	case Archives:
		return []category{l.archiveCategory()}
	default:
		return nil
	}
}

func (l *Library) archiveCategory() category {
	return category{
		name:     "archive",
		menu:     catalog.FlagArchive,
		location: l.sources.ArchiveDir,
		scans:    []rootScan{{&scan.ArchiveScanner{Logger: l.base}, l.sources.ArchiveDir}},
	}
}

// removableCategory scans every removable root for decrypted Vita saves, PSP
// saves and encrypted saves kept per account directory.
func (l *Library) removableCategory() category {
	vita := &scan.VitaSaveScanner{Storage: catalog.FlagRemovable, Account: l.account, AppDBPath: l.sources.AppDBPath, Logger: l.base}
	psp := &scan.PSPSaveScanner{Storage: catalog.FlagRemovable, Logger: l.base}
	encrypted := &scan.EncryptedSaveScanner{Account: l.account, Logger: l.base}

	var scans []rootScan
	for _, root := range l.sources.RemovableRoots {
		scans = append(scans, rootScan{vita, root}, rootScan{psp, root})
		for _, dir := range accountDirs(root) {
			scans = append(scans, rootScan{encrypted, dir})
		}
	}
	return category{
		name:  "removable",
		menu:  catalog.FlagPSV | catalog.FlagRemovable,
		scans: scans,
	}
}

// accountDirs returns the per-account directories directly below root.
func accountDirs(root string) []string {
	matches, err := filepath.Glob(filepath.Join(root, "*"))
	if err != nil {
		return nil
	}
	var out []string
	for _, m := range matches {
		if _, ok := scan.ParseAccountDir(filepath.Base(m)); ok {
			out = append(out, m)
		}
	}
	return out
}
