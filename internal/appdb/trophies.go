package appdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"saveshelf/internal/services"
)

// Trophy grades as stored in tbl_trophy_flag.
const (
	GradePlatinum = 1
	GradeGold     = 2
	GradeSilver   = 3
	GradeBronze   = 4
)

// TrophyTitle is one trophy set.
type TrophyTitle struct {
	ID       int64
	NPCommID string
	Title    string
}

// Trophy is one trophy inside a set.
type Trophy struct {
	ID          int32
	NPCommID    string
	Title       string
	Description string
	Grade       int
	Unlocked    bool
}

// GradeCount is the total and unlocked count for one grade.
type GradeCount struct {
	Total    int
	Unlocked int
}

// TrophyTitleDetail holds the progress summary of a trophy set.
type TrophyTitleDetail struct {
	ID          int64
	Description string
	Total       int
	Unlocked    int
	Progress    int
	Platinum    GradeCount
	Gold        GradeCount
	Silver      GradeCount
	Bronze      GradeCount
}

// TrophyTitles lists trophy sets with status 0 in store order.
func (d *DB) TrophyTitles(ctx context.Context) ([]TrophyTitle, error) {
	rows, err := d.query(ctx, "SELECT id, npcommid, title FROM tbl_trophy_title WHERE status = 0")
	if err != nil {
		return nil, services.Wrap(services.ErrSourceUnavailable, "appdb", "query trophy titles", d.path, err)
	}
	defer rows.Close()

	var titles []TrophyTitle
	for rows.Next() {
		var t TrophyTitle
		if err := rows.Scan(&t.ID, &t.NPCommID, &t.Title); err != nil {
			return titles, services.Wrap(services.ErrMalformedRecord, "appdb", "scan trophy title", d.path, err)
		}
		titles = append(titles, t)
	}
	if err := rows.Err(); err != nil {
		return titles, services.Wrap(services.ErrSourceUnavailable, "appdb", "iterate trophy titles", d.path, err)
	}
	return titles, nil
}

// Trophies lists the trophies belonging to the set with row id titleID.
func (d *DB) Trophies(ctx context.Context, titleID int64) ([]Trophy, error) {
	rows, err := d.query(ctx,
		"SELECT npcommid, title, description, grade, unlocked, id FROM tbl_trophy_flag WHERE title_id = ?",
		titleID)
	if err != nil {
		return nil, services.Wrap(services.ErrSourceUnavailable, "appdb", "query trophies", fmt.Sprint(titleID), err)
	}
	defer rows.Close()

	var trophies []Trophy
	for rows.Next() {
		var (
			t           Trophy
			description sql.NullString
			unlocked    int
		)
		if err := rows.Scan(&t.NPCommID, &t.Title, &description, &t.Grade, &unlocked, &t.ID); err != nil {
			return trophies, services.Wrap(services.ErrMalformedRecord, "appdb", "scan trophy", d.path, err)
		}
		t.Description = description.String
		t.Unlocked = unlocked != 0
		trophies = append(trophies, t)
	}
	if err := rows.Err(); err != nil {
		return trophies, services.Wrap(services.ErrSourceUnavailable, "appdb", "iterate trophies", d.path, err)
	}
	return trophies, nil
}

const trophyDetailQuery = `SELECT id, description, trophy_num, unlocked_trophy_num, progress,
platinum_num, unlocked_platinum_num, gold_num, unlocked_gold_num, silver_num, unlocked_silver_num,
bronze_num, unlocked_bronze_num FROM tbl_trophy_title WHERE id = ?`

// TrophyTitleDetail returns the progress summary for the set with row id.
func (d *DB) TrophyTitleDetail(ctx context.Context, id int64) (TrophyTitleDetail, error) {
	var (
		out         TrophyTitleDetail
		description sql.NullString
	)
	err := d.queryRow(ctx, []any{
		&out.ID, &description, &out.Total, &out.Unlocked, &out.Progress,
		&out.Platinum.Total, &out.Platinum.Unlocked,
		&out.Gold.Total, &out.Gold.Unlocked,
		&out.Silver.Total, &out.Silver.Unlocked,
		&out.Bronze.Total, &out.Bronze.Unlocked,
	}, trophyDetailQuery, id)
	if errors.Is(err, sql.ErrNoRows) {
		return out, services.Wrap(services.ErrMalformedRecord, "appdb", "trophy detail", fmt.Sprintf("no trophy set with id %d", id), nil)
	}
	if err != nil {
		return out, services.Wrap(services.ErrSourceUnavailable, "appdb", "trophy detail", d.path, err)
	}
	out.Description = description.String
	return out, nil
}
