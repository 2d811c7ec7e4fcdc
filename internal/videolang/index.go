package videolang

import (
	"log/slog"
	"sync"

	"vidlang/internal/language"
	"vidlang/internal/logging"
)

// Index is the read-only set of language tracks attached to a video.
type Index struct {
	tracks []*Track

	languageOnce sync.Once
	byLanguage   map[string][]*Track

	pkOnce sync.Once
	byPK   map[TrackID]*Track
}

// Option customizes index construction.
type Option func(*buildOptions)

type buildOptions struct {
	logger *slog.Logger
}

// WithLogger logs construction decisions (dropped tracks) to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *buildOptions) {
		o.logger = logger
	}
}

// New builds an index from raw descriptors. A track is retained when its
// language is recognized by registry or it has at least one subtitle. A nil
// registry uses language.Default(). Construction is all-or-nothing: the first
// malformed descriptor aborts with a *DescriptorError.
func New(descriptors []Descriptor, registry language.Registry, opts ...Option) (*Index, error) {
	options := buildOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	logger := logging.NewComponentLogger(options.logger, "videolang")
	if registry == nil {
		registry = language.Default()
	}

	all := make([]*Track, 0, len(descriptors))
	for i, d := range descriptors {
		if err := d.validate(i); err != nil {
			return nil, err
		}
		all = append(all, newTrack(d))
	}

	idx := &Index{tracks: make([]*Track, 0, len(all))}
	for _, t := range all {
		if !registry.IsRecognized(t.language) && t.subtitleCount <= 0 {
			logger.Debug("dropping language track",
				logging.String("language", t.language),
				logging.String("pk", t.id.String()),
				logging.String("reason", "unrecognized language without subtitles"),
			)
			continue
		}
		idx.tracks = append(idx.tracks, t)
	}
	for _, t := range idx.tracks {
		t.set = idx
	}

	logger.Debug("language index built",
		logging.Int("descriptors", len(descriptors)),
		logging.Int("retained", len(idx.tracks)),
	)
	return idx, nil
}

// Len returns the number of retained tracks.
func (x *Index) Len() int { return len(x.tracks) }

// Tracks returns a copy of the retained tracks in original order.
func (x *Index) Tracks() []*Track {
	out := make([]*Track, len(x.tracks))
	copy(out, x.tracks)
	return out
}

// ForEach calls visit for every retained track in original order.
func (x *Index) ForEach(visit func(*Track)) {
	for _, t := range x.tracks {
		visit(t)
	}
}

// FindForLanguage returns the retained tracks for code in original order.
// The result is never nil.
func (x *Index) FindForLanguage(code string) []*Track {
	x.languageOnce.Do(func() {
		x.byLanguage = make(map[string][]*Track)
		for _, t := range x.tracks {
			x.byLanguage[t.language] = append(x.byLanguage[t.language], t)
		}
	})
	matches := x.byLanguage[code]
	out := make([]*Track, len(matches))
	copy(out, matches)
	return out
}

// FindForLanguagePair returns the first track in language to that was
// translated from language from.
func (x *Index) FindForLanguagePair(to, from string) (*Track, bool) {
	for _, t := range x.FindForLanguage(to) {
		if !t.dependent {
			continue
		}
		if std, ok := t.StandardLanguage(); ok && std.language == from {
			return t, true
		}
	}
	return nil, false
}

// FindForPK returns the track with the given primary key. When keys collide
// the last retained track wins.
func (x *Index) FindForPK(id TrackID) (*Track, bool) {
	x.pkOnce.Do(func() {
		x.byPK = make(map[TrackID]*Track, len(x.tracks))
		for _, t := range x.tracks {
			x.byPK[t.id] = t
		}
	})
	t, ok := x.byPK[id]
	return t, ok
}

// Languages returns the distinct language codes of the retained tracks in
// order of first appearance.
func (x *Index) Languages() []string {
	seen := make(map[string]struct{}, len(x.tracks))
	out := make([]string, 0, len(x.tracks))
	for _, t := range x.tracks {
		if _, ok := seen[t.language]; ok {
			continue
		}
		seen[t.language] = struct{}{}
		out = append(out, t.language)
	}
	return out
}
