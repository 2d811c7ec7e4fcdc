package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"vidlang/internal/dialog"
	"vidlang/internal/logging"
)

type suggestionView struct {
	To          string     `json:"to"`
	From        string     `json:"from"`
	Reason      string     `json:"reason"`
	SessionID   string     `json:"session_id"`
	Reference   trackView  `json:"reference"`
	Translation *trackView `json:"translation"`
}

// openDialog mints the session ID before loading the index so the index
// build and the dialog log under the same session.
func (c *commandContext) openDialog(cmd *cobra.Command, preferred string) (*dialog.Session, error) {
	ctx := logging.ContextWithSessionID(cmd.Context(), uuid.NewString())
	l, err := c.loadIndex(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(preferred) == "" {
		preferred = l.cfg.Dialog.PreferredFrom
	}
	return dialog.Open(ctx, l.videoID, l.index, dialog.Options{PreferredFrom: preferred}, l.logger), nil
}

func newSuggestCommand(ctx *commandContext) *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "suggest <to>",
		Short: "Suggest the reference language for a translation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := ctx.openDialog(cmd, from)
			if err != nil {
				return err
			}
			defer session.Close()

			sug, ok := session.SuggestReference(args[0])
			if ctx.jsonOutput() {
				if !ok {
					return writeJSON(cmd, nil)
				}
				view := suggestionView{
					To:        sug.To,
					From:      sug.From,
					Reason:    sug.Reason,
					SessionID: session.ID(),
					Reference: newTrackView(sug.Reference),
				}
				if sug.Translation != nil {
					tv := newTrackView(sug.Translation)
					view.Translation = &tv
				}
				return writeJSON(cmd, view)
			}

			out := cmd.OutOrStdout()
			if !ok {
				fmt.Fprintln(out, "none")
				return nil
			}
			fmt.Fprintf(out, "Translate %s from %s (%s)\n", sug.To, sug.From, sug.Reason)
			fmt.Fprintf(out, "Reference: %s, %d subtitles\n", sug.Reference.ID(), sug.Reference.SubtitleCount())
			if sug.Translation != nil {
				fmt.Fprintf(out, "Continues: %s, %d subtitles\n", sug.Translation.ID(), sug.Translation.SubtitleCount())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Preferred reference language (overrides dialog.preferred_from)")
	return cmd
}

func newChoicesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "choices",
		Short: "Show the start dialog's language picker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := ctx.openDialog(cmd, "")
			if err != nil {
				return err
			}
			defer session.Close()

			choices := session.Choices()
			if ctx.jsonOutput() {
				return writeJSON(cmd, choices)
			}
			out := cmd.OutOrStdout()
			if len(choices) == 0 {
				fmt.Fprintln(out, "none")
				return nil
			}
			rows := make([][]string, 0, len(choices))
			for _, c := range choices {
				rows = append(rows, []string{
					c.Language,
					c.Name,
					strconv.Itoa(c.Tracks),
					strconv.Itoa(c.Subtitles),
					yesNo(c.HasOriginal),
					yesNo(c.HasTranslation),
				})
			}
			headers := []string{"Language", "Name", "Tracks", "Subtitles", "Original", "Translation"}
			aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft}
			fmt.Fprintln(out, renderTable(headers, rows, aligns, shouldColorize(out)))
			return nil
		},
	}
}
