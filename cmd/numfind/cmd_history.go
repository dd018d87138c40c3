package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fralcy/find-smallest-number-game-sub000/internal/campaign"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/store"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/tui"
	"github.com/spf13/cobra"
)

var errNoDatabase = errors.New("no database configured (set database.path, NUMFIND_DB or --db)")

var (
	historyQuery store.ResultsQuery
	historyBest  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List finished rounds",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()
		if a.db == nil {
			return errNoDatabase
		}

		if historyBest {
			scores, err := a.db.HighScores(cmd.Context())
			if err != nil {
				return err
			}
			printHighScores(cmd.OutOrStdout(), scores)
			return nil
		}

		list, err := a.db.ListResults(cmd.Context(), historyQuery)
		if err != nil {
			return err
		}
		printHistory(cmd.OutOrStdout(), list)
		return nil
	},
}

var campaignCmd = &cobra.Command{
	Use:   "campaign",
	Short: "Show campaign levels, unlock state and stars",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		progress, err := a.progress(cmd.Context())
		if err != nil {
			return err
		}
		printCampaign(cmd.OutOrStdout(), a.campaign.Status(progress), a.catalog.Get("campaign.locked"))
		return nil
	},
}

func init() {
	historyCmd.Flags().StringVar(&historyQuery.Mode, "mode", "", "Filter by mode")
	historyCmd.Flags().StringVar(&historyQuery.Difficulty, "difficulty", "", "Filter by difficulty")
	historyCmd.Flags().IntVar(&historyQuery.Page, "page", 1, "Page number")
	historyCmd.Flags().IntVar(&historyQuery.PerPage, "per-page", 20, "Rows per page")
	historyCmd.Flags().BoolVar(&historyBest, "best", false, "Show the best score per mode and difficulty")
}

func printHistory(w io.Writer, list *store.ResultsList) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tMODE\tDIFFICULTY\tLEVEL\tSCORE\tSTARS\tOUTCOME\tFOUND\tNONCE")
	for _, r := range list.Results {
		level := "-"
		if r.Level > 0 {
			level = fmt.Sprint(r.Level)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\t%d\t%d\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04"), r.Mode, r.Difficulty, level,
			r.Score, tui.Stars(r.Stars), r.Outcome, r.NumbersFound, r.Nonce)
	}
	tw.Flush()
	fmt.Fprintf(w, "page %d of %d (%d rounds)\n", list.Page, list.TotalPages, list.TotalCount)
}

func printHighScores(w io.Writer, scores []store.HighScore) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MODE\tDIFFICULTY\tBEST\tSTARS\tROUNDS")
	for _, s := range scores {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%d\n", s.Mode, s.Difficulty, s.BestScore, tui.Stars(s.BestStars), s.Rounds)
	}
	tw.Flush()
}

func printCampaign(w io.Writer, levels []campaign.LevelStatus, locked string) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LEVEL\tNAME\tDIFFICULTY\tBOARD\tTIME\tSTARS\tBEST")
	for _, l := range levels {
		stars := tui.Stars(l.BestStars)
		if !l.Unlocked {
			stars = locked
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s %d..%d x%d\t%ds\t%s\t%d\n",
			l.Number, l.Name, l.Difficulty, l.Layout, l.Min, l.Max, l.Cells, l.Time, stars, l.BestScore)
	}
	tw.Flush()
}
