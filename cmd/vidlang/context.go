package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"vidlang/internal/config"
	"vidlang/internal/language"
	"vidlang/internal/logging"
	"vidlang/internal/snapshot"
	"vidlang/internal/videolang"
)

var errNoSource = errors.New("no snapshot source: pass --snapshot or --db, or set paths.snapshot or paths.database in the config")

type globalFlags struct {
	config   string
	snapshot string
	database string
	video    string
	json     bool
}

type commandContext struct {
	flags *globalFlags

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	closeLog   func() error
	loggerErr  error
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(strings.TrimSpace(c.flags.config))
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.closeLog, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// close releases the log file opened by ensureLogger, if any.
func (c *commandContext) close() error {
	if c.closeLog == nil {
		return nil
	}
	return c.closeLog()
}

func (c *commandContext) jsonOutput() bool {
	return c.flags.json
}

// loaded is an index together with where it came from.
type loaded struct {
	videoID string
	index   *videolang.Index
	cfg     *config.Config
	logger  *slog.Logger
}

// loadIndex resolves the snapshot source and builds the index. Log lines
// carry the session ID stored on ctx, if any.
func (c *commandContext) loadIndex(ctx context.Context) (*loaded, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	base, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	logger := logging.NewComponentLogger(logging.WithContext(ctx, base), "cli")
	start := time.Now()

	source, closeSource, err := c.resolveSource(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer closeSource()

	snap, err := source.Load(ctx)
	if err != nil {
		logging.WarnWithContext(logger, "snapshot load failed", "snapshot_load_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check --snapshot/--db and --video"),
			logging.String(logging.FieldImpact, "no language index for this command"),
		)
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	registry := language.NewRegistry(cfg.Languages.ExtraRecognized...)
	idx, err := videolang.New(snap.Languages, registry,
		videolang.WithLogger(logging.WithContext(ctx, base).With(logging.String(logging.FieldVideoID, snap.VideoID))))
	if err != nil {
		logging.WarnWithContext(logger, "language index rejected snapshot", "index_build_failed",
			logging.Error(err),
			logging.String(logging.FieldVideoID, snap.VideoID),
			logging.String(logging.FieldErrorHint, "fix the malformed track descriptor in the snapshot"),
		)
		return nil, fmt.Errorf("build language index: %w", err)
	}
	logger.Debug("language index loaded",
		logging.String(logging.FieldVideoID, snap.VideoID),
		logging.Int("tracks", idx.Len()),
		logging.Duration("elapsed", time.Since(start)),
	)
	return &loaded{videoID: snap.VideoID, index: idx, cfg: cfg, logger: base}, nil
}

// resolveSource picks the snapshot source. Flags beat config; a snapshot
// file beats a database.
func (c *commandContext) resolveSource(ctx context.Context, cfg *config.Config) (snapshot.Source, func(), error) {
	noop := func() {}

	snapshotPath := strings.TrimSpace(c.flags.snapshot)
	dbPath := strings.TrimSpace(c.flags.database)
	if snapshotPath == "" && dbPath == "" {
		snapshotPath = cfg.Paths.Snapshot
		dbPath = cfg.Paths.Database
	}

	if snapshotPath != "" {
		expanded, err := config.ExpandPath(snapshotPath)
		if err != nil {
			return nil, noop, fmt.Errorf("resolve snapshot path: %w", err)
		}
		return snapshot.FileSource{Path: expanded}, noop, nil
	}
	if dbPath == "" {
		return nil, noop, errNoSource
	}

	expanded, err := config.ExpandPath(dbPath)
	if err != nil {
		return nil, noop, fmt.Errorf("resolve database path: %w", err)
	}
	store, err := snapshot.OpenSQLite(expanded)
	if err != nil {
		return nil, noop, err
	}
	closeStore := func() { _ = store.Close() }

	videoID := strings.TrimSpace(c.flags.video)
	if videoID == "" {
		videos, err := store.Videos(ctx)
		if err != nil {
			closeStore()
			return nil, noop, err
		}
		if len(videos) != 1 {
			closeStore()
			return nil, noop, fmt.Errorf("export %s holds %d videos; choose one with --video", expanded, len(videos))
		}
		videoID = videos[0]
	}
	return snapshot.SQLiteSource{Store: store, VideoID: videoID}, closeStore, nil
}

func (c *commandContext) openStore() (*snapshot.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	dbPath := strings.TrimSpace(c.flags.database)
	if dbPath == "" {
		dbPath = cfg.Paths.Database
	}
	if dbPath == "" {
		return nil, errors.New("no database: pass --db or set paths.database in the config")
	}
	expanded, err := config.ExpandPath(dbPath)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	return snapshot.OpenSQLite(expanded)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
