package appdb

import (
	"context"
	"database/sql"
	"errors"

	"saveshelf/internal/services"
)

// SaveDirKey is the tbl_appinfo key under which an application records its
// save data directory.
const SaveDirKey = 278217076

// StoreSave is one application with save data registered in the app database.
type StoreSave struct {
	TitleID  string
	SaveDir  string
	Title    string
	IconPath string
}

const storeSavesQuery = `SELECT a.titleId, b.val, a.title, a.iconPath
FROM tbl_appinfo_icon AS a, tbl_appinfo AS b
WHERE (a.type = 0) AND (a.titleId = b.titleId) AND (a.titleId NOT LIKE 'NPX%') AND (b.key = ?)`

// StoreSaves lists applications that own a save data directory. Rows come
// back in store order.
func (d *DB) StoreSaves(ctx context.Context) ([]StoreSave, error) {
	rows, err := d.query(ctx, storeSavesQuery, SaveDirKey)
	if err != nil {
		return nil, services.Wrap(services.ErrSourceUnavailable, "appdb", "query saves", d.path, err)
	}
	defer rows.Close()

	var saves []StoreSave
	for rows.Next() {
		var (
			s    StoreSave
			icon sql.NullString
		)
		if err := rows.Scan(&s.TitleID, &s.SaveDir, &s.Title, &icon); err != nil {
			return saves, services.Wrap(services.ErrMalformedRecord, "appdb", "scan save row", d.path, err)
		}
		s.IconPath = icon.String
		saves = append(saves, s)
	}
	if err := rows.Err(); err != nil {
		return saves, services.Wrap(services.ErrSourceUnavailable, "appdb", "iterate saves", d.path, err)
	}
	return saves, nil
}

// AppTitle returns the display title registered for titleID.
func (d *DB) AppTitle(ctx context.Context, titleID string) (string, bool, error) {
	if d == nil {
		return "", false, nil
	}
	var title string
	err := d.queryRow(ctx, []any{&title}, "SELECT title FROM tbl_appinfo_icon WHERE titleId = ?", titleID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, services.Wrap(services.ErrSourceUnavailable, "appdb", "query title", titleID, err)
	}
	return title, true, nil
}
