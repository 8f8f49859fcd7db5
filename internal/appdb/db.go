package appdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"saveshelf/internal/services"
)

// DB is a read-only handle on one metadata store.
type DB struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

// retryOnBusy retries op while the store is locked by its owner process.
func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

// Open connects to the store at path in read-only mode. A missing file is
// reported as services.ErrSourceUnavailable.
func Open(ctx context.Context, path string) (*DB, error) {
	ctx = ensureContext(ctx)
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, services.Wrap(services.ErrSourceUnavailable, "appdb", "open", "no database path configured", nil)
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrSourceUnavailable, "appdb", "open", path, err)
		}
		return nil, services.Wrap(services.ErrSourceUnavailable, "appdb", "stat", path, err)
	}
	if info.IsDir() {
		return nil, services.Wrap(services.ErrSourceUnavailable, "appdb", "open", path+" is a directory", nil)
	}

	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, services.Wrap(services.ErrSourceUnavailable, "appdb", "open", path, err)
	}
	db.SetMaxOpenConns(1)
	if err := retryOnBusy(ctx, func() error { return db.PingContext(ctx) }); err != nil {
		_ = db.Close()
		return nil, services.Wrap(services.ErrSourceUnavailable, "appdb", "ping", path, err)
	}
	return &DB{db: db, path: path}, nil
}

func dsn(path string) string {
	return fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(5000)", path)
}

// Path returns the file backing the store.
func (d *DB) Path() string {
	if d == nil {
		return ""
	}
	return d.path
}

// Close releases the connection.
func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

func (d *DB) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	ctx = ensureContext(ctx)
	var rows *sql.Rows
	err := retryOnBusy(ctx, func() error {
		var qErr error
		rows, qErr = d.db.QueryContext(ctx, query, args...)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (d *DB) queryRow(ctx context.Context, dest []any, query string, args ...any) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		return d.db.QueryRowContext(ctx, query, args...).Scan(dest...)
	})
}
