package videolang

// Track is one retained language track of a video.
type Track struct {
	language         string
	subtitleCount    int
	dependent        bool
	id               TrackID
	standardPK       TrackID
	standardLanguage string

	// set is the index that retained this track. It is not owned by the track.
	set *Index
}

func newTrack(d Descriptor) *Track {
	return &Track{
		language:         d.Language,
		subtitleCount:    d.SubtitleCount,
		dependent:        d.Dependent,
		id:               d.PK,
		standardPK:       d.StandardPK,
		standardLanguage: d.StandardLanguage,
	}
}

// Language returns the track's language code.
func (t *Track) Language() string { return t.language }

// SubtitleCount returns the number of subtitles authored for the track.
func (t *Track) SubtitleCount() int { return t.subtitleCount }

// IsDependent reports whether the track is a translation of another track.
func (t *Track) IsDependent() bool { return t.dependent }

// ID returns the track's primary key.
func (t *Track) ID() TrackID { return t.id }

// StandardLanguage resolves the track this one was translated from.
//
// Only dependent tracks have a standard track. The reference is resolved
// against the retained tracks of the owning index: by standard primary key
// when the descriptor carried one, otherwise by standard language code,
// preferring an original (non-dependent) track of that language.
func (t *Track) StandardLanguage() (*Track, bool) {
	if t == nil || !t.dependent || t.set == nil {
		return nil, false
	}
	if t.standardPK != "" {
		std, ok := t.set.FindForPK(t.standardPK)
		if !ok || std == t {
			return nil, false
		}
		return std, true
	}
	if t.standardLanguage == "" {
		return nil, false
	}
	var fallback *Track
	for _, candidate := range t.set.FindForLanguage(t.standardLanguage) {
		if candidate == t {
			continue
		}
		if !candidate.dependent {
			return candidate, true
		}
		if fallback == nil {
			fallback = candidate
		}
	}
	return fallback, fallback != nil
}

// TranslatedFrom returns the language code of the standard track, or "" when
// the track is an original or its standard track is not retained.
func (t *Track) TranslatedFrom() string {
	if std, ok := t.StandardLanguage(); ok {
		return std.language
	}
	return ""
}
