package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"vidlang/internal/language"
)

type languageView struct {
	Code  string `json:"code"`
	ISO3  string `json:"iso3"`
	Name  string `json:"name"`
	Extra bool   `json:"extra,omitempty"`
}

func newLanguagesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List recognized language codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			codes := language.Codes()
			var extras []string
			for _, code := range cfg.Languages.ExtraRecognized {
				if !slices.Contains(codes, code) {
					extras = append(extras, code)
				}
			}
			codes = append(codes, extras...)
			language.SortByDisplayName(codes)

			views := make([]languageView, 0, len(codes))
			for _, code := range codes {
				views = append(views, languageView{
					Code:  code,
					ISO3:  language.ToISO3(code),
					Name:  language.DisplayName(code),
					Extra: slices.Contains(extras, code),
				})
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, views)
			}
			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(views))
			for _, v := range views {
				source := "built-in"
				if v.Extra {
					source = "config"
				}
				rows = append(rows, []string{v.Code, v.ISO3, v.Name, source})
			}
			headers := []string{"Code", "ISO 639-2", "Name", "Source"}
			fmt.Fprintln(out, renderTable(headers, rows, nil, shouldColorize(out)))
			return nil
		},
	}
}
