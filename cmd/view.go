package cmd

import (
	"github.com/spf13/cobra"

	"github.com/fakeyudi/huntsplit/internal/tui"
)

var (
	plainOutput bool
	viewMode    string
)

var viewCmd = &cobra.Command{
	Use:   "view [file]",
	Short: "Browse a hunt session and its transfers",
	Long: `Open the interactive viewer for a report file, or for the current session
when no file is given. Output that is not a terminal gets the plain summary.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := roundingMode(viewMode)
		if err != nil {
			return err
		}
		s, warnings, source, err := sessionFromArgs(cmd, args)
		if err != nil {
			return err
		}

		if plainOutput || !isTerminal(cmd.OutOrStdout()) {
			printSession(cmd.OutOrStdout(), s, mode)
			return nil
		}
		return tui.Run(s, source, mode, warnings)
	},
}

func init() {
	viewCmd.Flags().BoolVar(&plainOutput, "plain", false, "plain text output instead of TUI")
	viewCmd.Flags().StringVar(&viewMode, "mode", "", "Rounding mode: nearest or conserve (overrides config)")
	rootCmd.AddCommand(viewCmd)
}
