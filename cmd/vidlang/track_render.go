package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"vidlang/internal/language"
	"vidlang/internal/videolang"
)

// trackView is the JSON shape of a track.
type trackView struct {
	PK             string `json:"pk"`
	Language       string `json:"language"`
	Name           string `json:"name"`
	SubtitleCount  int    `json:"subtitle_count"`
	Dependent      bool   `json:"dependent"`
	TranslatedFrom string `json:"translated_from,omitempty"`
	StandardPK     string `json:"standard_pk,omitempty"`
}

func newTrackView(t *videolang.Track) trackView {
	view := trackView{
		PK:            string(t.ID()),
		Language:      t.Language(),
		Name:          language.DisplayName(t.Language()),
		SubtitleCount: t.SubtitleCount(),
		Dependent:     t.IsDependent(),
	}
	if std, ok := t.StandardLanguage(); ok {
		view.TranslatedFrom = std.Language()
		view.StandardPK = string(std.ID())
	}
	return view
}

func trackViews(tracks []*videolang.Track) []trackView {
	views := make([]trackView, 0, len(tracks))
	for _, t := range tracks {
		views = append(views, newTrackView(t))
	}
	return views
}

func printTracks(cmd *cobra.Command, tracks []*videolang.Track, asJSON bool) error {
	if asJSON {
		return writeJSON(cmd, trackViews(tracks))
	}
	out := cmd.OutOrStdout()
	if len(tracks) == 0 {
		fmt.Fprintln(out, "none")
		return nil
	}
	rows := make([][]string, 0, len(tracks))
	for _, view := range trackViews(tracks) {
		from := view.TranslatedFrom
		if from == "" {
			from = "-"
		}
		rows = append(rows, []string{
			view.PK,
			view.Language,
			view.Name,
			strconv.Itoa(view.SubtitleCount),
			yesNo(view.Dependent),
			from,
		})
	}
	headers := []string{"PK", "Language", "Name", "Subtitles", "Dependent", "From"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft}
	fmt.Fprintln(out, renderTable(headers, rows, aligns, shouldColorize(out)))
	return nil
}

// printTrack prints a single optional lookup result.
func printTrack(cmd *cobra.Command, track *videolang.Track, found bool, asJSON bool) error {
	if asJSON {
		if !found {
			return writeJSON(cmd, nil)
		}
		return writeJSON(cmd, newTrackView(track))
	}
	if !found {
		fmt.Fprintln(cmd.OutOrStdout(), "none")
		return nil
	}
	return printTracks(cmd, []*videolang.Track{track}, false)
}
