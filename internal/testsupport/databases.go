package testsupport

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// App is one row pair in the fixture application database.
type App struct {
	TitleID string
	Title   string
	SaveDir string
	Type    int
}

// TrophySet is one tbl_trophy_title row.
type TrophySet struct {
	ID          int64
	NPCommID    string
	Title       string
	Description string
	Status      int
	Progress    int
	Trophies    []Trophy
}

// Trophy is one tbl_trophy_flag row.
type Trophy struct {
	ID          int32
	Title       string
	Description string
	Grade       int
	Unlocked    bool
}

const appSchema = `
CREATE TABLE tbl_appinfo_icon (titleId TEXT, type INTEGER, title TEXT, iconPath TEXT);
CREATE TABLE tbl_appinfo (titleId TEXT, key INTEGER, val TEXT);
`

const trophySchema = `
CREATE TABLE tbl_trophy_title (
	id INTEGER PRIMARY KEY, npcommid TEXT, title TEXT, description TEXT, status INTEGER,
	trophy_num INTEGER, unlocked_trophy_num INTEGER, progress INTEGER,
	platinum_num INTEGER, unlocked_platinum_num INTEGER,
	gold_num INTEGER, unlocked_gold_num INTEGER,
	silver_num INTEGER, unlocked_silver_num INTEGER,
	bronze_num INTEGER, unlocked_bronze_num INTEGER
);
CREATE TABLE tbl_trophy_flag (
	title_id INTEGER, npcommid TEXT, title TEXT, description TEXT, grade INTEGER, unlocked INTEGER, id INTEGER
);
`

// saveDirKey mirrors appdb.SaveDirKey without importing it.
const saveDirKey = 278217076

// CreateAppDB writes a fixture application database at path.
func CreateAppDB(t testing.TB, path string, apps ...App) {
	t.Helper()

	db := openWritable(t, path, appSchema)
	defer db.Close()
	for _, app := range apps {
		mustExec(t, db, "INSERT INTO tbl_appinfo_icon (titleId, type, title, iconPath) VALUES (?, ?, ?, ?)",
			app.TitleID, app.Type, app.Title, "ur0:appmeta/"+app.TitleID+"/icon0.png")
		if app.SaveDir != "" {
			mustExec(t, db, "INSERT INTO tbl_appinfo (titleId, key, val) VALUES (?, ?, ?)",
				app.TitleID, saveDirKey, app.SaveDir)
		}
	}
}

// CreateTrophyDB writes a fixture trophy database at path.
func CreateTrophyDB(t testing.TB, path string, sets ...TrophySet) {
	t.Helper()

	db := openWritable(t, path, trophySchema)
	defer db.Close()
	for _, set := range sets {
		var counts [5][2]int
		for _, tr := range set.Trophies {
			if tr.Grade < 1 || tr.Grade > 4 {
				continue
			}
			counts[tr.Grade][0]++
			if tr.Unlocked {
				counts[tr.Grade][1]++
			}
			unlocked := 0
			if tr.Unlocked {
				unlocked = 1
			}
			mustExec(t, db, "INSERT INTO tbl_trophy_flag (title_id, npcommid, title, description, grade, unlocked, id) VALUES (?, ?, ?, ?, ?, ?, ?)",
				set.ID, set.NPCommID, tr.Title, tr.Description, tr.Grade, unlocked, tr.ID)
		}
		total, unlocked := 0, 0
		for g := 1; g <= 4; g++ {
			total += counts[g][0]
			unlocked += counts[g][1]
		}
		mustExec(t, db, `INSERT INTO tbl_trophy_title (id, npcommid, title, description, status,
			trophy_num, unlocked_trophy_num, progress,
			platinum_num, unlocked_platinum_num, gold_num, unlocked_gold_num,
			silver_num, unlocked_silver_num, bronze_num, unlocked_bronze_num)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			set.ID, set.NPCommID, set.Title, set.Description, set.Status,
			total, unlocked, set.Progress,
			counts[1][0], counts[1][1], counts[2][0], counts[2][1],
			counts[3][0], counts[3][1], counts[4][0], counts[4][1])
	}
}

func openWritable(t testing.TB, path, schema string) *sql.DB {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open fixture db %s: %v", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		t.Fatalf("create fixture schema: %v", err)
	}
	return db
}

func mustExec(t testing.TB, db *sql.DB, query string, args ...any) {
	t.Helper()
	if _, err := db.Exec(query, args...); err != nil {
		t.Fatalf("fixture exec %q: %v", query, err)
	}
}
