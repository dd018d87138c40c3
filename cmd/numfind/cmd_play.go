package main

import (
	"fmt"
	"io"

	"github.com/fralcy/find-smallest-number-game-sub000/internal/round"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/settings"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// roundFlags are shared by play and autoplay.
type roundFlags struct {
	opts  round.Options
	level int
}

func (f *roundFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.opts.Mode, "mode", "classic", "Game mode: classic or zen")
	fs.StringVar(&f.opts.Difficulty, "difficulty", "", "easy, normal or hard (default from settings)")
	fs.StringVar(&f.opts.Layout, "layout", "", "grid or free (default from settings)")
	fs.IntVar(&f.opts.Cells, "cells", round.DefaultCells, "Number of cells")
	fs.IntVar(&f.opts.Min, "min", round.DefaultMin, "Smallest value")
	fs.IntVar(&f.opts.Max, "max", round.DefaultMax, "Largest value")
	fs.IntVar(&f.opts.Time, "time", round.DefaultTime, "Time budget in seconds (classic)")
	fs.IntVar(&f.opts.Lives, "lives", 0, "Lives (zen, default 3)")
	fs.IntVar(&f.level, "level", 0, "Play a campaign level instead")
}

// withDefaults fills difficulty and layout from the player settings.
func (f roundFlags) withDefaults(s settings.Settings) round.Options {
	opts := f.opts
	if opts.Difficulty == "" {
		opts.Difficulty = s.Difficulty
	}
	if opts.Layout == "" {
		opts.Layout = s.Layout
	}
	return opts
}

var playFlags roundFlags

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a round in the terminal",
	Long: `Opens the board in the terminal. Click the numbers with the mouse in
ascending order; p pauses and q quits.

Examples:
  numfind play --difficulty hard --layout free --cells 16
  numfind play --mode zen
  numfind play --level 3`,
	Annotations: map[string]string{annotationTUI: "true"},
	RunE:        runPlay,
}

func init() {
	playFlags.register(playCmd.Flags())
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, appOptions{withSound: true})
	if err != nil {
		return err
	}
	defer a.Close()

	rc, err := a.roundConfig(ctx, playFlags.level, playFlags.withDefaults(a.settings.Get()))
	if err != nil {
		return err
	}
	rd, err := a.sessions.Create(rc, "")
	if err != nil {
		return err
	}

	ui, err := tui.New(rd, a.catalog, logger)
	if err != nil {
		return err
	}
	err = ui.Run(ctx)
	ui.Close()
	if err != nil {
		return err
	}

	if res, ok := rd.Result(); ok {
		printResult(cmd.OutOrStdout(), res, rd.Seed())
	}
	return nil
}

func printResult(w io.Writer, res round.Result, seed round.SeedRef) {
	fmt.Fprintf(w, "%s\n", res.Title)
	fmt.Fprintf(w, "  score:   %d\n", res.Score)
	fmt.Fprintf(w, "  stars:   %s\n", tui.Stars(res.Stars))
	fmt.Fprintf(w, "  found:   %d\n", res.NumbersFound)
	fmt.Fprintf(w, "  time:    %ds used, %ds left\n", res.UsedTime, res.TimeRemaining)
	fmt.Fprintf(w, "  opening: seed %s, client %q, nonce %d\n", shortHash(seed.ServerSeedHash), seed.ClientSeed, seed.Nonce)
}

func shortHash(h string) string {
	if len(h) > 16 {
		return h[:16]
	}
	return h
}
