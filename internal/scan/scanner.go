package scan

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"saveshelf/internal/catalog"
	"saveshelf/internal/logging"
	"saveshelf/internal/services"
)

// Scanner produces entries from one backend root.
type Scanner interface {
	Name() string
	Scan(ctx context.Context, root string) []*catalog.Entry
}

// Account is the configured owner used for ownership flags.
type Account struct {
	ID  uint64
	Set bool
}

// Owns reports whether id belongs to the configured account.
func (a Account) Owns(id uint64) bool {
	return a.Set && a.ID == id
}

// readRoot lists a directory root after checking it can be read.
func readRoot(root string) ([]os.DirEntry, error) {
	if strings.TrimSpace(root) == "" {
		return nil, services.Wrap(services.ErrSourceUnavailable, "scan", "open", "no root configured", nil)
	}
	if err := unix.Access(root, unix.R_OK|unix.X_OK); err != nil {
		return nil, services.Wrap(services.ErrSourceUnavailable, "scan", "access", root, err)
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, services.Wrap(services.ErrSourceUnavailable, "scan", "read dir", root, err)
	}
	return entries, nil
}

// logUnavailable records a backend that contributes nothing. A missing root
// is routine; anything else is a warning.
func logUnavailable(logger *slog.Logger, root string, err error) {
	if errors.Is(err, fs.ErrNotExist) {
		logger.Info("source unavailable", logging.String("root", root), logging.Error(err))
		return
	}
	logging.WarnWithContext(logger, "source unavailable", "source_unavailable",
		logging.String("root", root),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check the path and its permissions"),
		logging.String(logging.FieldImpact, "backend contributes no entries"),
	)
}

// logSkipped records a single candidate that was left out.
func logSkipped(logger *slog.Logger, path string, err error) {
	logging.WarnWithContext(logger, "skipping malformed candidate", "candidate_skipped",
		logging.String("path", path),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "inspect or re-copy the save metadata"),
		logging.String(logging.FieldImpact, "entry missing from the catalog"),
	)
}

func scanLogger(ctx context.Context, base *slog.Logger, name string) (context.Context, *slog.Logger) {
	ctx = services.WithSource(ctx, name)
	return ctx, logging.WithContext(ctx, logging.NewComponentLogger(base, "scan"))
}

// titleKeyPrefix returns the leading title-key-sized part of id.
func titleKeyPrefix(id string) string {
	if len(id) > catalog.MaxTitleKeyLen {
		return id[:catalog.MaxTitleKeyLen]
	}
	return id
}

// newEntry wraps catalog.NewEntry so a bad key is reported as a malformed record.
func newEntry(kind catalog.Kind, flags catalog.Flags, name, titleKey string) (*catalog.Entry, error) {
	entry, err := catalog.NewEntry(kind, flags, name, titleKey)
	if err != nil {
		return nil, services.Wrap(services.ErrMalformedRecord, "scan", "entry", name, err)
	}
	return entry, nil
}
