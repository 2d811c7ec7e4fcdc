package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vidlang/internal/testsupport"
	"vidlang/internal/videolang"
)

const testSnapshot = `{
  "video_id": "abc123",
  "languages": [
    {"language": "en", "subtitle_count": 12, "dependent": false, "pk": 1},
    {"language": "fr", "subtitle_count": 10, "dependent": true, "pk": 2, "standard_pk": 1},
    {"language": "de", "subtitle_count": 4, "dependent": false, "pk": 3},
    {"language": "xx", "subtitle_count": 0, "dependent": false, "pk": 4},
    {"language": "es", "subtitle_count": 0, "dependent": false, "pk": 5}
  ]
}`

type cliTestEnv struct {
	baseDir      string
	configPath   string
	snapshotPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", base)
	for _, key := range []string{"VIDLANG_SNAPSHOT", "VIDLANG_DATABASE", "VIDLANG_LOG_DIR", "VIDLANG_LOG_LEVEL", "VIDLANG_LOG_FORMAT", "VIDLANG_PREFERRED_FROM", "VIDLANG_EXTRA_LANGUAGES"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	snapshotPath := filepath.Join(base, "video.json")
	if err := os.WriteFile(snapshotPath, []byte(testSnapshot), 0o644); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}

	configPath := filepath.Join(base, "config.toml")
	testsupport.WriteConfig(t, configPath, testsupport.NewConfig(t, testsupport.WithSnapshot(snapshotPath)))

	return &cliTestEnv{baseDir: base, configPath: configPath, snapshotPath: snapshotPath}
}

func (env *cliTestEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (env *cliTestEnv) runJSON(t *testing.T, v any, args ...string) {
	t.Helper()
	out, err := env.run(t, append([]string{"--json"}, args...)...)
	if err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	if err := json.Unmarshal([]byte(out), v); err != nil {
		t.Fatalf("decode %v output %q: %v", args, out, err)
	}
}

func TestTracksCommandListsRetainedTracks(t *testing.T) {
	env := setupCLITestEnv(t)

	var views []trackView
	env.runJSON(t, &views, "tracks")

	var pks []string
	for _, v := range views {
		pks = append(pks, v.PK)
	}
	if got, want := strings.Join(pks, ","), "1,2,3,5"; got != want {
		t.Fatalf("retained pks = %s, want %s", got, want)
	}
	if views[1].TranslatedFrom != "en" || views[1].StandardPK != "1" {
		t.Fatalf("fr track = %+v, want translated from en/1", views[1])
	}
	if views[0].Name != "English" {
		t.Fatalf("en name = %q", views[0].Name)
	}
}

func TestTracksCommandRendersTable(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := env.run(t, "tracks")
	if err != nil {
		t.Fatalf("tracks: %v", err)
	}
	for _, want := range []string{"PK", "SUBTITLES", "English", "French", "German", "Spanish"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "xx") {
		t.Fatalf("dropped track rendered:\n%s", out)
	}
}

func TestLookupCommands(t *testing.T) {
	env := setupCLITestEnv(t)

	var found []trackView
	env.runJSON(t, &found, "find", "fr")
	if len(found) != 1 || found[0].PK != "2" {
		t.Fatalf("find fr = %+v", found)
	}

	var none []trackView
	env.runJSON(t, &none, "find", "it")
	if none == nil || len(none) != 0 {
		t.Fatalf("find it = %#v, want empty array", none)
	}

	var pair trackView
	env.runJSON(t, &pair, "pair", "fr", "en")
	if pair.PK != "2" {
		t.Fatalf("pair fr en = %+v", pair)
	}

	var byPK trackView
	env.runJSON(t, &byPK, "pk", "3")
	if byPK.Language != "de" {
		t.Fatalf("pk 3 = %+v", byPK)
	}
}

func TestAbsentLookupsPrintNone(t *testing.T) {
	env := setupCLITestEnv(t)

	cases := [][]string{
		{"pair", "fr", "de"},
		{"pk", "99"},
		{"pk", "4"},
		{"find", "it"},
	}
	for _, args := range cases {
		out, err := env.run(t, args...)
		if err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		if strings.TrimSpace(out) != "none" {
			t.Fatalf("%v output = %q, want none", args, out)
		}
	}

	out, err := env.run(t, "--json", "pk", "99")
	if err != nil {
		t.Fatalf("pk 99 --json: %v", err)
	}
	if strings.TrimSpace(out) != "null" {
		t.Fatalf("pk 99 --json = %q, want null", out)
	}
}

func TestSuggestCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	var existing suggestionView
	env.runJSON(t, &existing, "suggest", "fr")
	if existing.From != "en" || existing.Translation == nil || existing.Translation.PK != "2" {
		t.Fatalf("suggest fr = %+v", existing)
	}
	if existing.SessionID == "" {
		t.Fatal("expected session id")
	}

	var preferred suggestionView
	env.runJSON(t, &preferred, "suggest", "es", "--from", "de")
	if preferred.From != "de" || preferred.Reference.PK != "3" {
		t.Fatalf("suggest es --from de = %+v", preferred)
	}

	var complete suggestionView
	env.runJSON(t, &complete, "suggest", "it")
	if complete.From != "en" || complete.Reference.PK != "1" || complete.Translation != nil {
		t.Fatalf("suggest it = %+v", complete)
	}

	out, err := env.run(t, "suggest", "it")
	if err != nil {
		t.Fatalf("suggest it: %v", err)
	}
	if !strings.Contains(out, "Translate it from en") {
		t.Fatalf("suggest text = %q", out)
	}
}

func TestChoicesCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	var choices []struct {
		Language string `json:"language"`
		Name     string `json:"name"`
	}
	env.runJSON(t, &choices, "choices")

	var names []string
	for _, c := range choices {
		names = append(names, c.Name)
	}
	if got, want := strings.Join(names, ","), "English,French,German,Spanish"; got != want {
		t.Fatalf("choices = %s, want %s", got, want)
	}
}

func TestSnapshotFlagOverridesConfig(t *testing.T) {
	env := setupCLITestEnv(t)

	other := filepath.Join(env.baseDir, "other.yaml")
	body := "video_id: other\nlanguages:\n  - language: pt\n    subtitle_count: 2\n    pk: p1\n"
	if err := os.WriteFile(other, []byte(body), 0o644); err != nil {
		t.Fatalf("write yaml snapshot: %v", err)
	}

	var views []trackView
	env.runJSON(t, &views, "--snapshot", other, "tracks")
	if len(views) != 1 || views[0].PK != "p1" || views[0].Language != "pt" {
		t.Fatalf("tracks from yaml = %+v", views)
	}
}

func TestLanguagesCommandIncludesExtras(t *testing.T) {
	env := setupCLITestEnv(t)
	t.Setenv("VIDLANG_EXTRA_LANGUAGES", "tlh")

	var views []languageView
	env.runJSON(t, &views, "languages")

	var sawEnglish, sawExtra bool
	for _, v := range views {
		switch v.Code {
		case "en":
			sawEnglish = v.ISO3 == "eng" && !v.Extra
		case "tlh":
			sawExtra = v.Extra
		}
	}
	if !sawEnglish || !sawExtra {
		t.Fatalf("languages missing en or tlh extra: %+v", views)
	}
}

func TestMissingSourceFails(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteConfig(t, env.configPath, testsupport.NewConfig(t))

	if _, err := env.run(t, "tracks"); err == nil {
		t.Fatal("expected error without a snapshot source")
	}
}

func TestConfigInitWritesSample(t *testing.T) {
	env := setupCLITestEnv(t)
	target := filepath.Join(env.baseDir, "nested", "vidlang.toml")

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"config", "init", "--path", target})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("sample not written: %v", err)
	}

	cmd = newRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"config", "init", "--path", target})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error when config exists without --overwrite")
	}

	out.Reset()
	cmd = newRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", target, "config", "validate"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config validate: %v", err)
	}
	if !strings.Contains(out.String(), "Configuration valid") {
		t.Fatalf("validate output = %q", out.String())
	}
}

func TestDatabaseSource(t *testing.T) {
	env := setupCLITestEnv(t)
	dbPath := testsupport.WriteExport(t, filepath.Join(env.baseDir, "export.db"), []testsupport.ExportRow{
		{VideoID: "v1", Position: 0, PK: "10", Language: "en", SubtitleCount: 5},
		{VideoID: "v1", Position: 1, PK: "11", Language: "fr", SubtitleCount: 5, Dependent: true, StandardLanguage: "en"},
		{VideoID: "v2", Position: 0, PK: "20", Language: "ja", SubtitleCount: 3},
	})
	testsupport.WriteConfig(t, env.configPath, testsupport.NewConfig(t, testsupport.WithDatabase(dbPath)))

	var videos []string
	env.runJSON(t, &videos, "videos")
	if got := strings.Join(videos, ","); got != "v1,v2" {
		t.Fatalf("videos = %s", got)
	}

	if _, err := env.run(t, "tracks"); err == nil {
		t.Fatal("expected error when the export holds several videos and --video is unset")
	}

	var pair trackView
	env.runJSON(t, &pair, "--video", "v1", "pair", "fr", "en")
	if pair.PK != "11" || pair.StandardPK != "10" {
		t.Fatalf("pair fr en = %+v", pair)
	}

	var views []trackView
	env.runJSON(t, &views, "--db", dbPath, "--video", "v2", "tracks")
	if len(views) != 1 || views[0].Language != "ja" {
		t.Fatalf("v2 tracks = %+v", views)
	}
}

func TestConfiguredDialogAndRegistry(t *testing.T) {
	env := setupCLITestEnv(t)
	snapshotPath := testsupport.WriteSnapshot(t, filepath.Join(env.baseDir, "snapshots"), "v9", []videolang.Descriptor{
		{Language: "en", SubtitleCount: 30, PK: "a"},
		{Language: "de", SubtitleCount: 8, PK: "b"},
		{Language: "tlh", SubtitleCount: 0, PK: "c"},
		{Language: "fr", SubtitleCount: 0, PK: "d"},
	})
	cfg := testsupport.NewConfig(t,
		testsupport.WithSnapshot(snapshotPath),
		testsupport.WithPreferredFrom("de"),
		testsupport.WithExtraLanguages("tlh"),
	)
	testsupport.WriteConfig(t, env.configPath, cfg)

	var views []trackView
	env.runJSON(t, &views, "tracks")
	if len(views) != 4 || views[2].Language != "tlh" {
		t.Fatalf("extra language track not retained: %+v", views)
	}

	var sug suggestionView
	env.runJSON(t, &sug, "suggest", "fr")
	if sug.From != "de" || sug.Reason != "preferred_language" || sug.Reference.PK != "b" {
		t.Fatalf("suggest fr with preferred de = %+v", sug)
	}
}

func TestDialogLogsShareSessionID(t *testing.T) {
	env := setupCLITestEnv(t)
	cfg := testsupport.NewConfig(t, testsupport.WithSnapshot(env.snapshotPath))
	cfg.Logging.Format = "json"
	cfg.Logging.Level = "debug"
	testsupport.WriteConfig(t, env.configPath, cfg)

	var sug suggestionView
	env.runJSON(t, &sug, "suggest", "it")
	if sug.SessionID == "" {
		t.Fatal("expected session id")
	}

	content, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "vidlang.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	tagged := map[string]bool{}
	for _, line := range strings.Split(strings.TrimSpace(string(content)), "\n") {
		var record map[string]any
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			t.Fatalf("decode log line %q: %v", line, err)
		}
		if record["session_id"] == sug.SessionID {
			tagged[record["msg"].(string)] = true
		}
	}
	for _, msg := range []string{"language index loaded", "start dialog opened", "reference language selected"} {
		if !tagged[msg] {
			t.Fatalf("log line %q missing session %s:\n%s", msg, sug.SessionID, content)
		}
	}
}

func TestMalformedSnapshotLogsWarning(t *testing.T) {
	env := setupCLITestEnv(t)
	bad := filepath.Join(env.baseDir, "bad.json")
	if err := os.WriteFile(bad, []byte(`[{"language": "en", "subtitle_count": 1}]`), 0o644); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	cfg := testsupport.NewConfig(t, testsupport.WithSnapshot(bad))
	cfg.Logging.Format = "json"
	cfg.Logging.Level = "warn"
	testsupport.WriteConfig(t, env.configPath, cfg)

	if _, err := env.run(t, "tracks"); err == nil || !strings.Contains(err.Error(), "build language index") {
		t.Fatalf("expected index build error, got %v", err)
	}

	content, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "vidlang.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	out := string(content)
	for _, want := range []string{`"event_type":"index_build_failed"`, `"error":"language descriptor 0: pk: missing required field"`, `"impact":"operation completed with warnings"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in log, got %s", want, out)
		}
	}
}
