package main

import (
	"fmt"
	"os"

	"github.com/fralcy/find-smallest-number-game-sub000/internal/difficulty"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/engine"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/numberset"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/session"
	"github.com/spf13/cobra"
)

var (
	serverSeed string
	clientSeed string
	nonce      uint64
	level      string
	kind       string
	minValue   int
	maxValue   int
	cells      int
	floats     int
)

var rootCmd = &cobra.Command{
	Use:   "debug-round",
	Short: "Dump the random stream and opening board for a seed pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		lvl, ok := difficulty.Parse(level)
		if !ok {
			return fmt.Errorf("unknown difficulty %q", level)
		}
		layout, err := numberset.NewConfig(numberset.Kind(kind), minValue, maxValue, cells)
		if err != nil {
			return err
		}
		p := difficulty.For(lvl)

		fmt.Printf("server seed hash: %s\n", engine.HashServerSeed(serverSeed))
		fmt.Printf("decoys: %d (effective %d), jitter %.2f\n",
			p.DecoyCount, numberset.EffectiveDecoys(minValue, p.DecoyCount), p.FreeJitter)

		// raw floats as consumed by the generator
		fmt.Println("\nstream:")
		for i, f := range engine.Floats(serverSeed, clientSeed, nonce, 0, floats) {
			fmt.Printf("  [%2d] %.16f\n", i, f)
		}

		set, err := session.Replay(engine.Seeds{Server: serverSeed, Client: clientSeed}, nonce, lvl, layout)
		if err != nil {
			return err
		}
		fmt.Printf("\n%s, %d columns:\n", layout, set.Columns)
		for i, c := range set.Cells {
			fmt.Printf("  #%-3d value=%-4d slot=%-3d x=%5.1f y=%5.1f decoy=%t\n",
				i, c.Value, c.Pos.Slot, c.Pos.X, c.Pos.Y, c.Decoy)
		}
		return nil
	},
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&serverSeed, "server-seed", "e48cce04b6eb5ea077f2cb1f94add672d18bf2673a5fdacd17457463cd82e495", "Server seed")
	f.StringVar(&clientSeed, "client-seed", "numfind", "Client seed")
	f.Uint64Var(&nonce, "nonce", 1, "Nonce")
	f.StringVar(&level, "difficulty", "normal", "easy, normal or hard")
	f.StringVar(&kind, "layout", "grid", "grid or free")
	f.IntVar(&minValue, "min", 1, "Smallest value")
	f.IntVar(&maxValue, "max", 99, "Largest value")
	f.IntVar(&cells, "cells", 25, "Number of cells")
	f.IntVar(&floats, "floats", 8, "Raw floats to print")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
