package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/huntsplit/internal/report"
	"github.com/fakeyudi/huntsplit/internal/settle"
)

var (
	historyLimit      int
	historyShowFormat string
	historyShowMode   string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved hunt sessions, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.List(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no saved sessions")
			return nil
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tSTARTED\tDURATION\tPLAYERS\tPROFIT")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
				shortID(e.ID),
				e.Session.StartTime.Format("2006-01-02 15:04"),
				e.Session.Duration,
				len(e.Session.Players),
				report.FormatAmount(settle.Summarize(e.Session).Profit),
			)
		}
		return tw.Flush()
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a saved session (id or unique id prefix)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := roundingMode(historyShowMode)
		if err != nil {
			return err
		}
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		e, err := store.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		format := historyShowFormat
		if format == "" {
			format = GetConfig().DefaultFormat
		}
		if strings.EqualFold(format, "plain") {
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s as %s\n\n", e.SavedAt.Local().Format("2006-01-02 15:04:05"), e.ID)
			printSession(cmd.OutOrStdout(), e.Session, mode)
			return nil
		}
		r, err := report.RendererFor(format)
		if err != nil {
			return err
		}
		data, err := r.Render(e.Session)
		if err != nil {
			return fmt.Errorf("render session: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var historyRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete a saved session",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		e, err := store.Delete(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", e.ID)
		return nil
	},
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of sessions to list (0 for all)")
	historyShowCmd.Flags().StringVar(&historyShowFormat, "format", "", "Output format: plain, text, json or markdown (overrides config)")
	historyShowCmd.Flags().StringVar(&historyShowMode, "mode", "", "Rounding mode for plain output: nearest or conserve")
	historyCmd.AddCommand(historyShowCmd, historyRmCmd)
	rootCmd.AddCommand(historyCmd)
}
