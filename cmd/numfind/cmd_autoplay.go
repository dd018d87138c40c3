package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fralcy/find-smallest-number-game-sub000/internal/scripting"
	"github.com/spf13/cobra"
)

var (
	autoplayFlags  roundFlags
	autoplayScript string
	autoplayThink  time.Duration
)

var autoplayCmd = &cobra.Command{
	Use:   "autoplay",
	Short: "Let a bot script play a headless round",
	Long: `Runs a JavaScript bot against a round without a screen. The script
defines pick(state) and returns the index of the cell to click; null, undefined
or a negative number passes. stop() ends the run and log(...) is captured.

Without --script the built-in greedy bot plays.`,
	RunE: runAutoplay,
}

func init() {
	autoplayFlags.register(autoplayCmd.Flags())
	autoplayCmd.Flags().StringVar(&autoplayScript, "script", "", "Bot script file (default: built-in greedy bot)")
	autoplayCmd.Flags().DurationVar(&autoplayThink, "think", 0, "Pause after every click (default: the click debounce)")
}

func runAutoplay(cmd *cobra.Command, args []string) error {
	source := scripting.GreedyScript
	if autoplayScript != "" {
		raw, err := os.ReadFile(autoplayScript)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		source = string(raw)
	}

	ctx := cmd.Context()
	a, err := openApp(ctx, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	rc, err := a.roundConfig(ctx, autoplayFlags.level, autoplayFlags.withDefaults(a.settings.Get()))
	if err != nil {
		return err
	}
	rd, err := a.sessions.Create(rc, "")
	if err != nil {
		return err
	}

	sum, err := scripting.Play(ctx, source, rd, scripting.Options{
		Think:       autoplayThink,
		MaxClicks:   cfg.Script.MaxClicks,
		InitTimeout: cfg.GetInitTimeout(),
		CallTimeout: cfg.GetCallTimeout(),
		Logger:      logger,
	})
	printSummary(cmd.OutOrStdout(), sum)
	if err != nil {
		return err
	}
	if sum.Result != nil {
		printResult(cmd.OutOrStdout(), *sum.Result, rd.Seed())
	}
	return nil
}

func printSummary(w io.Writer, sum scripting.Summary) {
	for _, l := range sum.Logs {
		fmt.Fprintf(w, "[script %s] %s\n", l.Time.Format("15:04:05.000"), l.Message)
	}
	fmt.Fprintf(w, "clicks: %d (correct %d, wrong %d, ignored %d), passes: %d\n",
		sum.Clicks, sum.Correct, sum.Wrong, sum.Ignored, sum.Passes)
	if sum.Stopped {
		fmt.Fprintln(w, "bot stopped before the round ended")
	}
}
