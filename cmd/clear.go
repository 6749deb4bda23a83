package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/huntsplit/internal/current"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the current session",
	Long: `Forget the current session. Saved history is left alone; use
'huntsplit history rm' for that.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := current.Open()
		if err != nil {
			return err
		}
		cleared, err := store.Clear()
		if err != nil {
			return err
		}
		if !cleared {
			fmt.Fprintln(cmd.OutOrStdout(), "No current session.")
			return nil
		}
		GetLogger("current").Debug("current session cleared", "path", store.Path())
		fmt.Fprintln(cmd.OutOrStdout(), "Current session cleared.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
}
