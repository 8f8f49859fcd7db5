package appdb_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"saveshelf/internal/appdb"
	"saveshelf/internal/services"
	"saveshelf/internal/testsupport"
)

func TestOpenMissingIsSourceUnavailable(t *testing.T) {
	_, err := appdb.Open(context.Background(), filepath.Join(t.TempDir(), "app.db"))
	if !errors.Is(err, services.ErrSourceUnavailable) {
		t.Fatalf("expected source unavailable, got %v", err)
	}
	if !services.Recoverable(err) {
		t.Fatal("expected missing store to be recoverable")
	}
}

func TestOpenDirectoryIsSourceUnavailable(t *testing.T) {
	_, err := appdb.Open(context.Background(), t.TempDir())
	if !errors.Is(err, services.ErrSourceUnavailable) {
		t.Fatalf("expected source unavailable, got %v", err)
	}
}

func TestStoreSavesAndTitles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.db")
	testsupport.CreateAppDB(t, path,
		testsupport.App{TitleID: "PCSE00001", Title: "First Game", SaveDir: "PCSE00001"},
		testsupport.App{TitleID: "PCSB00002", Title: "Second Game", SaveDir: "PCSB00002"},
		testsupport.App{TitleID: "NPXS10001", Title: "System App", SaveDir: "NPXS10001"},
		testsupport.App{TitleID: "PCSE00003", Title: "No Saves"},
		testsupport.App{TitleID: "PCSE00004", Title: "Wrong Type", SaveDir: "PCSE00004", Type: 1},
	)

	db, err := appdb.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer db.Close()

	saves, err := db.StoreSaves(context.Background())
	if err != nil {
		t.Fatalf("StoreSaves returned error: %v", err)
	}
	if len(saves) != 2 {
		t.Fatalf("expected 2 store saves, got %d: %+v", len(saves), saves)
	}
	if saves[0].TitleID != "PCSE00001" || saves[0].SaveDir != "PCSE00001" || saves[0].Title != "First Game" {
		t.Fatalf("unexpected first row %+v", saves[0])
	}
	if saves[1].TitleID != "PCSB00002" {
		t.Fatalf("unexpected second row %+v", saves[1])
	}

	title, ok, err := db.AppTitle(context.Background(), "PCSE00003")
	if err != nil || !ok || title != "No Saves" {
		t.Fatalf("unexpected AppTitle result %q %v %v", title, ok, err)
	}
	if _, ok, err := db.AppTitle(context.Background(), "PCSE99999"); err != nil || ok {
		t.Fatalf("expected missing title, got ok=%v err=%v", ok, err)
	}
}

func TestTrophyQueries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trophy_local.db")
	testsupport.CreateTrophyDB(t, path,
		testsupport.TrophySet{
			ID: 7, NPCommID: "NPWR00001_00", Title: "Sample Trophies", Description: "Set", Progress: 50,
			Trophies: []testsupport.Trophy{
				{ID: 0, Title: "All Done", Description: "Everything", Grade: appdb.GradePlatinum},
				{ID: 1, Title: "First Step", Description: "Start", Grade: appdb.GradeBronze, Unlocked: true},
			},
		},
		testsupport.TrophySet{ID: 8, NPCommID: "NPWR00002_00", Title: "Hidden", Status: 1},
	)

	db, err := appdb.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer db.Close()

	titles, err := db.TrophyTitles(context.Background())
	if err != nil {
		t.Fatalf("TrophyTitles returned error: %v", err)
	}
	if len(titles) != 1 || titles[0].ID != 7 || titles[0].NPCommID != "NPWR00001_00" {
		t.Fatalf("unexpected titles %+v", titles)
	}

	trophies, err := db.Trophies(context.Background(), 7)
	if err != nil {
		t.Fatalf("Trophies returned error: %v", err)
	}
	if len(trophies) != 2 {
		t.Fatalf("expected 2 trophies, got %d", len(trophies))
	}
	if trophies[0].Grade != appdb.GradePlatinum || trophies[0].Unlocked {
		t.Fatalf("unexpected first trophy %+v", trophies[0])
	}
	if trophies[1].ID != 1 || !trophies[1].Unlocked || trophies[1].Description != "Start" {
		t.Fatalf("unexpected second trophy %+v", trophies[1])
	}

	detail, err := db.TrophyTitleDetail(context.Background(), 7)
	if err != nil {
		t.Fatalf("TrophyTitleDetail returned error: %v", err)
	}
	if detail.Total != 2 || detail.Unlocked != 1 || detail.Progress != 50 {
		t.Fatalf("unexpected detail %+v", detail)
	}
	if detail.Platinum != (appdb.GradeCount{Total: 1}) || detail.Bronze != (appdb.GradeCount{Total: 1, Unlocked: 1}) {
		t.Fatalf("unexpected grade counts %+v", detail)
	}

	if _, err := db.TrophyTitleDetail(context.Background(), 99); !errors.Is(err, services.ErrMalformedRecord) {
		t.Fatalf("expected malformed record for unknown set, got %v", err)
	}
}

func TestQueryAgainstWrongSchemaFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.db")
	testsupport.CreateAppDB(t, path)

	db, err := appdb.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer db.Close()

	if _, err := db.TrophyTitles(context.Background()); !errors.Is(err, services.ErrSourceUnavailable) {
		t.Fatalf("expected source unavailable for missing table, got %v", err)
	}
}
