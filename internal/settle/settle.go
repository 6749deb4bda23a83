// Package settle turns a parsed hunt session into the transfers the party
// leader has to send so every player gets their supplies back plus an even
// share of the session balance.
package settle

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/fakeyudi/huntsplit/internal/report"
)

// Reasons a settlement comes out empty. Settle never returns them; Check
// does, for callers that want to explain an empty result.
var (
	ErrNoPlayers = errors.New("session has no players")
	ErrNoLeader  = errors.New("no player is marked as leader")
)

// Mode selects how the per-player share is rounded.
type Mode string

const (
	// ModeNearest rounds supplies + share per transfer, half away from zero.
	// Rounding drift is not reconciled.
	ModeNearest Mode = "nearest"
	// ModeConserve floors the share to whole units and leaves the remainder
	// with the leader, so the session balance is conserved exactly.
	ModeConserve Mode = "conserve"
)

// ParseMode maps a config or flag value to a Mode. Empty means ModeNearest.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeNearest:
		return ModeNearest, nil
	case ModeConserve:
		return ModeConserve, nil
	}
	return "", fmt.Errorf("unknown rounding mode %q (want nearest or conserve)", s)
}

// Transfer is one payment instruction. Amount is never negative.
type Transfer struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount int64  `json:"amount"`

	// ToLeader marks a player paying the leader back after a loss hunt.
	ToLeader bool `json:"to_leader,omitempty"`
}

// Calculator computes settlements with a fixed rounding mode.
type Calculator struct {
	Mode Mode
}

// Settle uses ModeNearest.
func Settle(s *report.Session) []Transfer {
	return Calculator{Mode: ModeNearest}.Settle(s)
}

// Settle returns one transfer per non-leader player, in player order. With no
// players or no leader the result is empty. When several players are marked
// leader the first one pays. A player whose supplies plus share is negative
// (a loss hunt) pays the leader instead.
func (c Calculator) Settle(s *report.Session) []Transfer {
	if s == nil || Check(s) != nil {
		return []Transfer{}
	}
	leaderIdx := leaderIndex(s)
	leader := s.Players[leaderIdx]

	transfers := make([]Transfer, 0, len(s.Players)-1)
	for i, p := range s.Players {
		if i == leaderIdx {
			continue
		}
		owed := c.owed(s, p)
		if owed < 0 {
			transfers = append(transfers, Transfer{From: p.Name, To: leader.Name, Amount: -owed, ToLeader: true})
			continue
		}
		transfers = append(transfers, Transfer{From: leader.Name, To: p.Name, Amount: owed})
	}
	return transfers
}

func (c Calculator) owed(s *report.Session, p report.Player) int64 {
	n := int64(len(s.Players))
	if c.Mode == ModeConserve {
		return p.Supplies + floorDiv(s.TotalBalance, n)
	}
	share := float64(s.TotalBalance) / float64(n)
	return int64(math.Round(float64(p.Supplies) + share))
}

// LeaderShare is what stays with the leader after settling: their supplies
// plus their share of the balance, including any rounding remainder in
// ModeConserve.
func (c Calculator) LeaderShare(s *report.Session) (int64, error) {
	if err := Check(s); err != nil {
		return 0, err
	}
	leader := s.Players[leaderIndex(s)]
	n := int64(len(s.Players))
	if c.Mode == ModeConserve {
		share := floorDiv(s.TotalBalance, n)
		return leader.Supplies + share + (s.TotalBalance - share*n), nil
	}
	return int64(math.Round(float64(leader.Supplies) + float64(s.TotalBalance)/float64(n))), nil
}

// Check reports why a session cannot be settled, or nil if it can.
func Check(s *report.Session) error {
	if len(s.Players) == 0 {
		return ErrNoPlayers
	}
	if leaderIndex(s) < 0 {
		return ErrNoLeader
	}
	return nil
}

func leaderIndex(s *report.Session) int {
	for i, p := range s.Players {
		if p.IsLeader {
			return i
		}
	}
	return -1
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
