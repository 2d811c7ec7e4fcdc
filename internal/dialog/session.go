package dialog

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"vidlang/internal/language"
	"vidlang/internal/logging"
	"vidlang/internal/videolang"
)

// Options tunes dialog behaviour.
type Options struct {
	// PreferredFrom is the reference language to suggest when the video has it.
	PreferredFrom string
}

// Session is one open start dialog over a fixed index.
type Session struct {
	id      string
	videoID string
	index   *videolang.Index
	opts    Options
	logger  *slog.Logger

	closeOnce sync.Once
}

// Open starts a dialog session for the video's index. A session ID already
// stored on ctx is reused so the caller's log lines and the dialog's share it;
// otherwise a new one is minted.
func Open(ctx context.Context, videoID string, index *videolang.Index, opts Options, logger *slog.Logger) *Session {
	id, ok := logging.SessionIDFromContext(ctx)
	if !ok {
		id = uuid.NewString()
	}
	s := &Session{
		id:      id,
		videoID: videoID,
		index:   index,
		opts:    opts,
		logger: logging.WithSession(logging.NewComponentLogger(logger, "dialog"), id).
			With(logging.String(logging.FieldVideoID, videoID)),
	}
	s.opts.PreferredFrom = s.resolveCode(opts.PreferredFrom)
	s.logger.Info("start dialog opened",
		logging.Int("tracks", index.Len()),
		logging.Strings("languages", index.Languages()),
	)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// VideoID returns the video the session was opened for.
func (s *Session) VideoID() string { return s.videoID }

// Index returns the session's language index.
func (s *Session) Index() *videolang.Index { return s.index }

// Close ends the session. Subsequent calls are no-ops.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.logger.Info("start dialog closed")
	})
}

// Choice is one entry of the language picker.
type Choice struct {
	Language       string `json:"language"`
	Name           string `json:"name"`
	Tracks         int    `json:"tracks"`
	Subtitles      int    `json:"subtitles"`
	HasOriginal    bool   `json:"has_original"`
	HasTranslation bool   `json:"has_translation"`
}

// Choices returns one picker entry per language, ordered by display name.
func (s *Session) Choices() []Choice {
	codes := s.index.Languages()
	language.SortByDisplayName(codes)

	choices := make([]Choice, 0, len(codes))
	for _, code := range codes {
		c := Choice{Language: code, Name: language.DisplayName(code)}
		for _, t := range s.index.FindForLanguage(code) {
			c.Tracks++
			c.Subtitles += t.SubtitleCount()
			if t.IsDependent() {
				c.HasTranslation = true
			} else {
				c.HasOriginal = true
			}
		}
		choices = append(choices, c)
	}
	return choices
}

// Versions returns the tracks for code with the most complete first. Tracks
// with equal subtitle counts keep their original order.
func (s *Session) Versions(code string) []*videolang.Track {
	tracks := s.index.FindForLanguage(s.resolveCode(code))
	slices.SortStableFunc(tracks, func(a, b *videolang.Track) int {
		return b.SubtitleCount() - a.SubtitleCount()
	})
	return tracks
}

// resolveCode maps a user-supplied code onto the spelling the index uses, so
// "EN" or "pt-br" select the video's "en" and "pt-BR" tracks. Codes the video
// has no track for are returned trimmed.
func (s *Session) resolveCode(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	if len(s.index.FindForLanguage(code)) > 0 {
		return code
	}
	for _, known := range s.index.Languages() {
		if strings.EqualFold(known, code) {
			return known
		}
	}
	return code
}
