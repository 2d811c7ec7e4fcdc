package snapshot_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vidlang/internal/snapshot"
	"vidlang/internal/videolang"
)

func TestDecodeBareArray(t *testing.T) {
	snap, err := snapshot.Decode(strings.NewReader(`[
		{"language": "en", "subtitle_count": 12, "dependent": false, "pk": 101},
		{"language": "fr", "subtitle_count": 4, "dependent": true, "pk": "102", "standard_pk": 101}
	]`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if snap.VideoID != "" {
		t.Fatalf("expected no video id, got %q", snap.VideoID)
	}
	if len(snap.Languages) != 2 {
		t.Fatalf("expected 2 descriptors, got %d", len(snap.Languages))
	}
	fr := snap.Languages[1]
	if fr.PK != "102" || fr.StandardPK != "101" || !fr.Dependent || fr.SubtitleCount != 4 {
		t.Fatalf("unexpected descriptor: %+v", fr)
	}
	if snap.Languages[0].PK != "101" {
		t.Fatalf("numeric pk should decode to its decimal form, got %q", snap.Languages[0].PK)
	}
}

func TestDecodeObject(t *testing.T) {
	snap, err := snapshot.Decode(strings.NewReader(`{"video_id": "abc", "languages": [{"language": "de", "pk": 7}], "extra": true}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if snap.VideoID != "abc" || len(snap.Languages) != 1 || snap.Languages[0].Language != "de" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, err := snapshot.Decode(strings.NewReader("  ")); !errors.Is(err, snapshot.ErrEmptySnapshot) {
		t.Fatalf("expected ErrEmptySnapshot, got %v", err)
	}
	if _, err := snapshot.Decode(strings.NewReader(`[{"language": "en", "pk": {}}]`)); err == nil {
		t.Fatal("expected error for object pk")
	}
}

func TestDecodeYAML(t *testing.T) {
	doc := `
video_id: vid-9
languages:
  - language: en
    subtitle_count: 3
    pk: 1
  - language: fr
    dependent: true
    pk: fr-1
    standard_language: en
`
	snap, err := snapshot.DecodeYAML(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("DecodeYAML: %v", err)
	}
	if snap.VideoID != "vid-9" || len(snap.Languages) != 2 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if snap.Languages[0].PK != "1" || snap.Languages[1].PK != "fr-1" {
		t.Fatalf("unexpected pks: %q %q", snap.Languages[0].PK, snap.Languages[1].PK)
	}
	if snap.Languages[1].StandardLanguage != "en" {
		t.Fatalf("unexpected standard language %q", snap.Languages[1].StandardLanguage)
	}

	bare, err := snapshot.DecodeYAML(strings.NewReader("- language: ja\n  pk: 5\n"))
	if err != nil {
		t.Fatalf("DecodeYAML bare: %v", err)
	}
	if len(bare.Languages) != 1 || bare.Languages[0].Language != "ja" {
		t.Fatalf("unexpected bare snapshot: %+v", bare)
	}

	if _, err := snapshot.DecodeYAML(strings.NewReader("")); !errors.Is(err, snapshot.ErrEmptySnapshot) {
		t.Fatalf("expected ErrEmptySnapshot, got %v", err)
	}
	if _, err := snapshot.DecodeYAML(strings.NewReader("just a string")); err == nil {
		t.Fatal("expected error for scalar document")
	}
}

func TestLoadFileDispatchesOnExtension(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "video-1.json")
	yamlPath := filepath.Join(dir, "video-2.yml")
	if err := os.WriteFile(jsonPath, []byte(`[{"language": "en", "pk": 1}]`), 0o644); err != nil {
		t.Fatalf("write json: %v", err)
	}
	if err := os.WriteFile(yamlPath, []byte("- language: es\n  pk: 2\n"), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}

	jsonSnap, err := snapshot.LoadFile(jsonPath)
	if err != nil {
		t.Fatalf("LoadFile json: %v", err)
	}
	if jsonSnap.VideoID != "video-1" || jsonSnap.Languages[0].Language != "en" {
		t.Fatalf("unexpected json snapshot: %+v", jsonSnap)
	}

	yamlSnap, err := (snapshot.FileSource{Path: yamlPath}).Load(context.Background())
	if err != nil {
		t.Fatalf("FileSource.Load yaml: %v", err)
	}
	if yamlSnap.VideoID != "video-2" || yamlSnap.Languages[0].Language != "es" {
		t.Fatalf("unexpected yaml snapshot: %+v", yamlSnap)
	}

	if _, err := snapshot.LoadFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadedSnapshotBuildsIndex(t *testing.T) {
	snap, err := snapshot.Decode(strings.NewReader(`[
		{"language": "en", "subtitle_count": 10, "pk": 1},
		{"language": "fr", "subtitle_count": 5, "dependent": true, "pk": 2, "standard_pk": 1},
		{"language": "xx", "subtitle_count": 0, "pk": 3}
	]`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	idx, err := videolang.New(snap.Languages, nil)
	if err != nil {
		t.Fatalf("videolang.New: %v", err)
	}
	if idx.Len() != 2 {
		t.Fatalf("expected 2 retained tracks, got %d", idx.Len())
	}
	if _, ok := idx.FindForLanguagePair("fr", "en"); !ok {
		t.Fatal("expected fr translated from en")
	}
}
