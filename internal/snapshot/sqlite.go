package snapshot

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"vidlang/internal/videolang"
)

// Schema is the layout of the SQLite export. Exporters create it; Store only
// reads it.
//
//go:embed schema.sql
var Schema string

// ErrVideoNotFound reports a video with no rows in the export.
var ErrVideoNotFound = errors.New("video not found")

type notFoundError struct {
	videoID string
}

func (e *notFoundError) Error() string { return fmt.Sprintf("video %q: %v", e.videoID, ErrVideoNotFound) }

func (e *notFoundError) Unwrap() error { return ErrVideoNotFound }

func (e *notFoundError) ErrorKind() string { return "not_found" }

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Store reads snapshots from a SQLite export.
type Store struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens the export at path read-only.
func OpenSQLite(path string) (*Store, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite export: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("open sqlite export: %s is a directory", path)
	}

	dsn, err := readOnlyDSN(path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite export: %w", err)
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// readOnlyDSN builds a file: URI for path. The path is percent-escaped so
// '?' and '#' in file names are not read as URI delimiters.
func readOnlyDSN(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	slashed := filepath.ToSlash(abs)
	if !strings.HasPrefix(slashed, "/") {
		slashed = "/" + slashed
	}
	u := url.URL{
		Scheme:   "file",
		Path:     slashed,
		RawQuery: "mode=ro&_pragma=busy_timeout(5000)",
	}
	return u.String(), nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the export location.
func (s *Store) Path() string { return s.path }

// Videos lists the video IDs present in the export, sorted.
func (s *Store) Videos(ctx context.Context) ([]string, error) {
	var ids []string
	err := retryOnBusy(ctx, func() error {
		ids = ids[:0]
		rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT video_id FROM video_languages ORDER BY video_id`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	return ids, nil
}

// Descriptors returns the raw tracks of a video in export order.
func (s *Store) Descriptors(ctx context.Context, videoID string) ([]videolang.Descriptor, error) {
	var out []videolang.Descriptor
	err := retryOnBusy(ctx, func() error {
		out = out[:0]
		rows, err := s.db.QueryContext(ctx, `
            SELECT pk, language, subtitle_count, dependent, standard_pk, standard_language
            FROM video_languages
            WHERE video_id = ?
            ORDER BY position, row_id`, videoID)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			d, err := scanDescriptor(rows)
			if err != nil {
				return err
			}
			out = append(out, d)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("load video %q: %w", videoID, err)
	}
	if len(out) == 0 {
		return nil, &notFoundError{videoID: videoID}
	}
	return out, nil
}

func scanDescriptor(scanner interface{ Scan(dest ...any) error }) (videolang.Descriptor, error) {
	var (
		pk, lang, stdPK, stdLang sql.NullString
		count                    int
		dependent                int
	)
	if err := scanner.Scan(&pk, &lang, &count, &dependent, &stdPK, &stdLang); err != nil {
		return videolang.Descriptor{}, err
	}
	return videolang.Descriptor{
		Language:         lang.String,
		SubtitleCount:    count,
		Dependent:        dependent != 0,
		PK:               videolang.TrackID(pk.String),
		StandardPK:       videolang.TrackID(stdPK.String),
		StandardLanguage: stdLang.String,
	}, nil
}

// SQLiteSource loads one video's snapshot from a Store.
type SQLiteSource struct {
	Store   *Store
	VideoID string
}

// Load implements Source.
func (s SQLiteSource) Load(ctx context.Context) (*Snapshot, error) {
	descs, err := s.Store.Descriptors(ctx, s.VideoID)
	if err != nil {
		return nil, err
	}
	return &Snapshot{VideoID: s.VideoID, Languages: descs}, nil
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

func retryOnBusy(ctx context.Context, op func() error) error {
	if ctx == nil {
		ctx = context.Background()
	}
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
