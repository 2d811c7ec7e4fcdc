package dialog

import (
	"vidlang/internal/logging"
	"vidlang/internal/videolang"
)

// Reasons reported on a Suggestion.
const (
	ReasonPreferredTranslation = "existing_translation_from_preferred"
	ReasonPreferredLanguage    = "preferred_language"
	ReasonExistingTranslation  = "existing_translation"
	ReasonMostCompleteOriginal = "most_complete_original"
)

// Suggestion is the preselected reference for translating into To.
type Suggestion struct {
	To     string
	From   string
	Reason string
	// Reference is the track in From to show alongside the editor.
	Reference *videolang.Track
	// Translation is the existing To track that continues from Reference,
	// nil when the user would start a new translation.
	Translation *videolang.Track
}

// SuggestReference picks the language a translation into to should be made
// from. The configured preferred language wins when the video has it; an
// existing translation into to keeps its source; otherwise the original track
// with the most subtitles is suggested.
func (s *Session) SuggestReference(to string) (Suggestion, bool) {
	to = s.resolveCode(to)

	if sug, ok := s.suggestPreferred(to); ok {
		return s.decided(sug), true
	}
	if sug, ok := s.suggestExistingTranslation(to); ok {
		return s.decided(sug), true
	}
	if sug, ok := s.suggestMostComplete(to); ok {
		return s.decided(sug), true
	}

	s.logger.Info("no reference language available",
		logging.Args(append(
			logging.DecisionAttrs("reference_language", "none", "no other language has subtitles"),
			logging.String("to", to),
		)...)...,
	)
	return Suggestion{}, false
}

func (s *Session) suggestPreferred(to string) (Suggestion, bool) {
	from := s.opts.PreferredFrom
	if from == "" || from == to {
		return Suggestion{}, false
	}
	if tr, ok := s.index.FindForLanguagePair(to, from); ok {
		ref, _ := tr.StandardLanguage()
		return Suggestion{To: to, From: from, Reason: ReasonPreferredTranslation, Reference: ref, Translation: tr}, true
	}
	if ref := bestSource(s.index.FindForLanguage(from)); ref != nil {
		return Suggestion{To: to, From: from, Reason: ReasonPreferredLanguage, Reference: ref}, true
	}
	return Suggestion{}, false
}

func (s *Session) suggestExistingTranslation(to string) (Suggestion, bool) {
	for _, tr := range s.index.FindForLanguage(to) {
		if !tr.IsDependent() {
			continue
		}
		if ref, ok := tr.StandardLanguage(); ok {
			return Suggestion{To: to, From: ref.Language(), Reason: ReasonExistingTranslation, Reference: ref, Translation: tr}, true
		}
	}
	return Suggestion{}, false
}

func (s *Session) suggestMostComplete(to string) (Suggestion, bool) {
	var best *videolang.Track
	s.index.ForEach(func(t *videolang.Track) {
		if t.Language() == to || t.IsDependent() || t.SubtitleCount() <= 0 {
			return
		}
		if best == nil || t.SubtitleCount() > best.SubtitleCount() {
			best = t
		}
	})
	if best == nil {
		return Suggestion{}, false
	}
	return Suggestion{To: to, From: best.Language(), Reason: ReasonMostCompleteOriginal, Reference: best}, true
}

// bestSource prefers the original track with the most subtitles, then any
// track with the most subtitles.
func bestSource(tracks []*videolang.Track) *videolang.Track {
	var original, fallback *videolang.Track
	for _, t := range tracks {
		if !t.IsDependent() && (original == nil || t.SubtitleCount() > original.SubtitleCount()) {
			original = t
		}
		if fallback == nil || t.SubtitleCount() > fallback.SubtitleCount() {
			fallback = t
		}
	}
	if original != nil {
		return original
	}
	return fallback
}

func (s *Session) decided(sug Suggestion) Suggestion {
	attrs := append(
		logging.DecisionAttrs("reference_language", sug.From, sug.Reason),
		logging.String("to", sug.To),
		logging.Bool("continues_translation", sug.Translation != nil),
	)
	if sug.Reference != nil {
		attrs = append(attrs, logging.String("reference_pk", sug.Reference.ID().String()))
	}
	if sug.Translation != nil {
		attrs = append(attrs, logging.String("translation_pk", sug.Translation.ID().String()))
	}
	s.logger.Info("reference language selected", logging.Args(attrs...)...)
	return sug
}
