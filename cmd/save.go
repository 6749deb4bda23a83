package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Add the current session to history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rec, err := loadCurrent()
		if err != nil {
			return err
		}

		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		e, err := store.Save(cmd.Context(), rec.Session)
		if err != nil {
			return err
		}
		GetLogger("history").Info("session saved", "id", e.ID)
		fmt.Fprintf(cmd.OutOrStdout(), "Saved as %s\n", e.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(saveCmd)
}
