package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vidlang/internal/videolang"
)

func newTracksCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "tracks",
		Short: "List the retained language tracks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := ctx.loadIndex(cmd.Context())
			if err != nil {
				return err
			}
			return printTracks(cmd, l.index.Tracks(), ctx.jsonOutput())
		},
	}
}

func newFindCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "find <code>",
		Short: "List tracks for a language code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := ctx.loadIndex(cmd.Context())
			if err != nil {
				return err
			}
			tracks := l.index.FindForLanguage(strings.TrimSpace(args[0]))
			return printTracks(cmd, tracks, ctx.jsonOutput())
		},
	}
}

func newPairCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "pair <to> <from>",
		Short: "Find the translation of one language into another",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := ctx.loadIndex(cmd.Context())
			if err != nil {
				return err
			}
			track, ok := l.index.FindForLanguagePair(strings.TrimSpace(args[0]), strings.TrimSpace(args[1]))
			return printTrack(cmd, track, ok, ctx.jsonOutput())
		},
	}
}

func newPKCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "pk <id>",
		Short: "Find a track by its identifier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := ctx.loadIndex(cmd.Context())
			if err != nil {
				return err
			}
			track, ok := l.index.FindForPK(videolang.TrackID(strings.TrimSpace(args[0])))
			return printTrack(cmd, track, ok, ctx.jsonOutput())
		},
	}
}

func newVideosCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "videos",
		Short: "List the videos held by a SQLite export",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			videos, err := store.Videos(cmd.Context())
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, videos)
			}
			out := cmd.OutOrStdout()
			if len(videos) == 0 {
				fmt.Fprintln(out, "none")
				return nil
			}
			for _, id := range videos {
				fmt.Fprintln(out, id)
			}
			return nil
		},
	}
}
