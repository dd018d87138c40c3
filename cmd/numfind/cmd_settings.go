package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fralcy/find-smallest-number-game-sub000/internal/settings"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change player settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m := settings.Open(settings.AppName, logger)
		printSettings(cmd.OutOrStdout(), m.Get(), m.Persistent())
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:       "set <key> <value>",
	Short:     "Change one setting",
	Args:      cobra.ExactArgs(2),
	ValidArgs: settings.Keys(),
	RunE: func(cmd *cobra.Command, args []string) error {
		m := settings.Open(settings.AppName, logger)
		if err := m.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := m.Save(); err != nil {
			return err
		}
		if !m.Persistent() {
			logger.Warn("settings storage unavailable, the change lasts for this run only")
		}
		logger.Debug("setting changed", zap.String("key", args[0]))
		printSettings(cmd.OutOrStdout(), m.Get(), m.Persistent())
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
}

func printSettings(w io.Writer, s settings.Settings, persistent bool) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "language\t%s\n", s.Language)
	fmt.Fprintf(tw, "sound\t%t\n", s.SoundEnabled)
	fmt.Fprintf(tw, "volume\t%.2f\n", s.Volume)
	fmt.Fprintf(tw, "difficulty\t%s\n", s.Difficulty)
	fmt.Fprintf(tw, "layout\t%s\n", s.Layout)
	fmt.Fprintf(tw, "client_seed\t%s\n", s.ClientSeed)
	fmt.Fprintf(tw, "player\t%s\n", s.PlayerName)
	tw.Flush()
	if !persistent {
		fmt.Fprintln(w, "(settings are not persisted on this system)")
	}
}
