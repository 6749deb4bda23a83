package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/fakeyudi/huntsplit/internal/report"
	"github.com/fakeyudi/huntsplit/internal/settle"
)

var (
	headerColor = color.New(color.Bold, color.FgCyan)
	leaderColor = color.New(color.Bold, color.FgYellow)
	gainColor   = color.New(color.FgGreen)
	lossColor   = color.New(color.FgRed)
	dimColor    = color.New(color.Faint)
)

func signedAmount(n int64) string {
	s := report.FormatAmount(n)
	switch {
	case n > 0:
		return gainColor.Sprint(s)
	case n < 0:
		return lossColor.Sprint(s)
	}
	return s
}

// printSession writes a human-readable summary of s and its settlement.
func printSession(w io.Writer, s *report.Session, mode settle.Mode) {
	sum := settle.Summarize(s)

	headerColor.Fprintln(w, "## Summary")
	fmt.Fprintf(w, "  From:       %s\n", s.StartTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "  To:         %s\n", s.EndTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "  Duration:   %s\n", s.Duration)
	fmt.Fprintf(w, "  Loot type:  %s\n", s.LootType)
	fmt.Fprintf(w, "  Loot:       %s\n", report.FormatAmount(s.TotalLoot))
	fmt.Fprintf(w, "  Supplies:   %s\n", report.FormatAmount(s.TotalSupplies))
	fmt.Fprintf(w, "  Balance:    %s\n", signedAmount(s.TotalBalance))
	fmt.Fprintf(w, "  Profit:     %s (%.0f each)\n", signedAmount(sum.Profit), sum.ProfitPerPlayer)
	fmt.Fprintln(w)

	headerColor.Fprintf(w, "## Players (%d)\n", len(s.Players))
	if len(s.Players) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, p := range s.Players {
		name := p.Name
		if p.IsLeader {
			name = leaderColor.Sprint(p.Name + " (Leader)")
		}
		fmt.Fprintf(w, "  %s\n", name)
		fmt.Fprintf(w, "    loot %s  supplies %s  balance %s  damage %s  healing %s\n",
			report.FormatAmount(p.Loot), report.FormatAmount(p.Supplies), signedAmount(p.Balance),
			report.FormatAmount(p.Damage), report.FormatAmount(p.Healing))
	}
	fmt.Fprintln(w)

	transfers := settle.Calculator{Mode: mode}.Settle(s)
	headerColor.Fprintf(w, "## Transfers (%s)\n", mode)
	if len(transfers) == 0 {
		reason := "nothing to pay out"
		if err := settle.Check(s); err != nil {
			reason = err.Error()
		}
		fmt.Fprintf(w, "  (none: %s)\n", reason)
		return
	}
	for _, t := range transfers {
		fmt.Fprintf(w, "  %s\n", settle.Command(t))
	}
	if keeps, err := (settle.Calculator{Mode: mode}).LeaderShare(s); err == nil {
		paid, received := settle.LeaderFlow(transfers)
		line := fmt.Sprintf("  leader keeps %s, pays out %s", report.FormatAmount(keeps), report.FormatAmount(paid))
		if received > 0 {
			line += ", receives " + report.FormatAmount(received)
		}
		dimColor.Fprintln(w, line)
	}
}

// printCommands writes one transfer command per line.
func printCommands(w io.Writer, transfers []settle.Transfer) {
	for _, t := range transfers {
		fmt.Fprintln(w, settle.Command(t))
	}
}
