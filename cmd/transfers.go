package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/huntsplit/internal/report"
	"github.com/fakeyudi/huntsplit/internal/settle"
)

// copyToClipboard is swapped out in tests.
var copyToClipboard = clipboard.WriteAll

var (
	transfersTo   string
	transfersCopy bool
	transfersMode string
)

var transfersCmd = &cobra.Command{
	Use:   "transfers [file]",
	Short: "Print the transfer commands that settle a hunt session",
	Long: `Print one "transfer <amount> to <player>" command per line. Without a
file the current session is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := roundingMode(transfersMode)
		if err != nil {
			return err
		}
		s, _, _, err := sessionFromArgs(cmd, args)
		if err != nil {
			return err
		}

		transfers := settle.Calculator{Mode: mode}.Settle(s)
		if transfersTo != "" {
			p, err := lookupPlayer(s, transfersTo)
			if err != nil {
				return err
			}
			transfers = involving(transfers, p.Name)
		}

		if len(transfers) == 0 {
			if err := settle.Check(s); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "no transfers: %s\n", err)
			} else {
				fmt.Fprintln(cmd.ErrOrStderr(), "no transfers")
			}
			return nil
		}
		printCommands(cmd.OutOrStdout(), transfers)

		if transfersCopy {
			if err := copyToClipboard(settle.Commands(transfers)); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: could not copy to clipboard: %s\n", err)
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Copied %d commands to the clipboard.\n", len(transfers))
		}
		return nil
	},
}

// lookupPlayer finds name in s, suggesting close matches when it is missing.
func lookupPlayer(s *report.Session, name string) (report.Player, error) {
	if p, ok := s.Player(name); ok {
		return p, nil
	}
	msg := fmt.Sprintf("unknown player %q", name)
	if suggestions := s.Suggest(name); len(suggestions) > 0 {
		msg += " (did you mean " + strings.Join(quoteAll(suggestions), " or ") + "?)"
	}
	return report.Player{}, errors.New(msg)
}

func involving(transfers []settle.Transfer, name string) []settle.Transfer {
	var out []settle.Transfer
	for _, t := range transfers {
		if t.To == name || t.From == name {
			out = append(out, t)
		}
	}
	return out
}

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = fmt.Sprintf("%q", s)
	}
	return out
}

func init() {
	transfersCmd.Flags().StringVar(&transfersTo, "to", "", "Only print transfers involving this player")
	transfersCmd.Flags().BoolVar(&transfersCopy, "copy", false, "Also copy the commands to the clipboard")
	transfersCmd.Flags().StringVar(&transfersMode, "mode", "", "Rounding mode: nearest or conserve (overrides config)")
	rootCmd.AddCommand(transfersCmd)
}
