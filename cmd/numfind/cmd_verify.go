package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fralcy/find-smallest-number-game-sub000/internal/engine"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/numberset"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/round"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/session"
	"github.com/spf13/cobra"
)

var (
	verifySeeds engine.Seeds
	verifyNonce uint64
	verifyOpts  round.Options
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Replay an opening board from revealed seeds",
	Long: `Recomputes the opening board of a round from the revealed server seed,
the client seed and the nonce, and prints the server seed hash to compare
with the commitment published before the round.

Example:
  numfind verify --server-seed 3f1c... --client-seed numfind --nonce 12 --difficulty hard`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if verifySeeds.Server == "" {
			return errors.New("--server-seed is required")
		}
		rc, err := verifyOpts.Config()
		if err != nil {
			return err
		}
		set, err := session.Replay(verifySeeds, verifyNonce, rc.Difficulty, rc.Layout)
		if err != nil {
			return err
		}
		printOpening(cmd.OutOrStdout(), verifySeeds, verifyNonce, rc.Layout, set)
		return nil
	},
}

func init() {
	f := verifyCmd.Flags()
	f.StringVar(&verifySeeds.Server, "server-seed", "", "Revealed server seed")
	f.StringVar(&verifySeeds.Client, "client-seed", "numfind", "Client seed")
	f.Uint64Var(&verifyNonce, "nonce", 1, "Round nonce")
	f.StringVar(&verifyOpts.Difficulty, "difficulty", "normal", "easy, normal or hard")
	f.StringVar(&verifyOpts.Layout, "layout", "grid", "grid or free")
	f.IntVar(&verifyOpts.Min, "min", round.DefaultMin, "Smallest value")
	f.IntVar(&verifyOpts.Max, "max", round.DefaultMax, "Largest value")
	f.IntVar(&verifyOpts.Cells, "cells", round.DefaultCells, "Number of cells")
}

// printOpening prints the board in slot order followed by the values sorted,
// which is the click order.
func printOpening(w io.Writer, seeds engine.Seeds, nonce uint64, layout numberset.Config, set numberset.Set) {
	fmt.Fprintf(w, "server seed hash: %s\n", engine.HashServerSeed(seeds.Server))
	fmt.Fprintf(w, "client seed:      %s\n", seeds.Client)
	fmt.Fprintf(w, "nonce:            %d\n", nonce)
	fmt.Fprintf(w, "layout:           %s\n\n", layout)

	cells := append([]numberset.Cell(nil), set.Cells...)
	sort.Slice(cells, func(i, j int) bool { return cells[i].Pos.Slot < cells[j].Pos.Slot })

	cols := set.Columns
	if cols <= 0 {
		cols = 1
	}
	var row []string
	for i, c := range cells {
		label := fmt.Sprintf("%4d", c.Value)
		if c.Decoy {
			label = fmt.Sprintf("%3d*", c.Value)
		}
		row = append(row, label)
		if set.Kind == numberset.KindFree {
			fmt.Fprintf(w, "%s  at (%.1f%%, %.1f%%)\n", label, c.Pos.X, c.Pos.Y)
			row = row[:0]
			continue
		}
		if len(row) == cols || i == len(cells)-1 {
			fmt.Fprintln(w, strings.Join(row, " "))
			row = row[:0]
		}
	}

	var mains []int
	for _, c := range set.Cells {
		if !c.Decoy {
			mains = append(mains, c.Value)
		}
	}
	sort.Ints(mains)
	fmt.Fprintf(w, "\nclick order: %v\n", mains)
	if len(mains) < set.Len() {
		fmt.Fprintln(w, "* decoy")
	}
}
