package testsupport

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"vidlang/internal/snapshot"
	"vidlang/internal/videolang"
)

// WriteSnapshot writes a JSON snapshot for videoID into dir and returns its path.
func WriteSnapshot(t testing.TB, dir, videoID string, descs []videolang.Descriptor) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	data, err := json.MarshalIndent(snapshot.Snapshot{VideoID: videoID, Languages: descs}, "", "  ")
	if err != nil {
		t.Fatalf("encode snapshot: %v", err)
	}
	path := filepath.Join(dir, videoID+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write snapshot %s: %v", path, err)
	}
	return path
}

// ExportRow is one video_languages row. Nil PK, Language, StandardPK and
// StandardLanguage are stored as NULL.
type ExportRow struct {
	VideoID          string
	Position         int
	PK               any
	Language         any
	SubtitleCount    int
	Dependent        bool
	StandardPK       any
	StandardLanguage any
}

// WriteExport creates a SQLite export at path holding rows. The database is
// built under a plain temp name and then moved, so path may contain
// characters the driver would read as DSN options.
func WriteExport(t testing.TB, path string, rows []ExportRow) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	staged := filepath.Join(t.TempDir(), "export.db")
	writeRows(t, staged, rows)
	if err := os.Rename(staged, path); err != nil {
		t.Fatalf("move export to %s: %v", path, err)
	}
	return path
}

func writeRows(t testing.TB, path string, rows []ExportRow) {
	t.Helper()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(snapshot.Schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	for _, r := range rows {
		dependent := 0
		if r.Dependent {
			dependent = 1
		}
		if _, err := db.Exec(
			`INSERT INTO video_languages (video_id, position, pk, language, subtitle_count, dependent, standard_pk, standard_language)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.VideoID, r.Position, r.PK, r.Language, r.SubtitleCount, dependent, r.StandardPK, r.StandardLanguage,
		); err != nil {
			t.Fatalf("insert row: %v", err)
		}
	}
}

// MustOpenStore opens a snapshot.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, path string) *snapshot.Store {
	t.Helper()

	store, err := snapshot.OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
