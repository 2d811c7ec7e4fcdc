package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"vidlang/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with a unique temp log directory per
// test. Logging defaults to the error level to keep test output quiet.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Logging.Level = "error"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithSnapshot points the config at a snapshot file.
func WithSnapshot(path string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.Snapshot = path
		b.cfg.Paths.Database = ""
	}
}

// WithDatabase points the config at a SQLite export.
func WithDatabase(path string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.Database = path
		b.cfg.Paths.Snapshot = ""
	}
}

// WithPreferredFrom sets the dialog's preferred reference language.
func WithPreferredFrom(code string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Dialog.PreferredFrom = code
	}
}

// WithExtraLanguages adds codes to the recognized registry.
func WithExtraLanguages(codes ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Languages.ExtraRecognized = append(b.cfg.Languages.ExtraRecognized, codes...)
	}
}

// WriteConfig encodes cfg as TOML at path.
func WriteConfig(t testing.TB, path string, cfg *config.Config) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config %s: %v", path, err)
	}
}
