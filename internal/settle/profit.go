package settle

import (
	"fmt"
	"math"
	"strings"

	"github.com/fakeyudi/huntsplit/internal/report"
)

// Summary holds figures derived from a session for display.
type Summary struct {
	Profit           int64   `json:"profit"`             // TotalLoot - TotalSupplies
	ProfitPerPlayer  float64 `json:"profit_per_player"`  // Profit / players, 0 without players
	BalancePerPlayer float64 `json:"balance_per_player"` // TotalBalance / players, 0 without players
	Players          int     `json:"players"`
}

// Summarize computes the session profit figures.
func Summarize(s *report.Session) Summary {
	sum := Summary{
		Profit:  s.TotalLoot - s.TotalSupplies,
		Players: len(s.Players),
	}
	if n := len(s.Players); n > 0 {
		sum.ProfitPerPlayer = float64(sum.Profit) / float64(n)
		sum.BalancePerPlayer = float64(s.TotalBalance) / float64(n)
	}
	return sum
}

// ShouldReceive is the rounded supplies + balance share for p, shown for
// every player including the leader.
func ShouldReceive(s *report.Session, p report.Player) int64 {
	if len(s.Players) == 0 {
		return p.Supplies
	}
	return int64(math.Round(float64(p.Supplies) + float64(s.TotalBalance)/float64(len(s.Players))))
}

// Command formats a transfer as the in-game chat command. Transfers the
// leader does not send are prefixed with the sender's name.
func Command(t Transfer) string {
	if t.ToLeader {
		return fmt.Sprintf("%s: transfer %d to %s", t.From, t.Amount, t.To)
	}
	return fmt.Sprintf("transfer %d to %s", t.Amount, t.To)
}

// Commands formats every transfer, one command per line.
func Commands(transfers []Transfer) string {
	lines := make([]string, len(transfers))
	for i, t := range transfers {
		lines[i] = Command(t)
	}
	return strings.Join(lines, "\n")
}

// LeaderFlow splits transfers into what the leader sends and what the
// leader gets back.
func LeaderFlow(transfers []Transfer) (paid, received int64) {
	for _, t := range transfers {
		if t.ToLeader {
			received += t.Amount
		} else {
			paid += t.Amount
		}
	}
	return paid, received
}

// Total sums transfer amounts regardless of direction.
func Total(transfers []Transfer) int64 {
	var total int64
	for _, t := range transfers {
		total += t.Amount
	}
	return total
}
