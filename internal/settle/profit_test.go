package settle_test

import (
	"testing"

	"github.com/fakeyudi/huntsplit/internal/report"
	"github.com/fakeyudi/huntsplit/internal/settle"
)

func TestSummarize(t *testing.T) {
	s := &report.Session{
		TotalLoot:     1250300,
		TotalSupplies: 410200,
		TotalBalance:  840100,
		Players:       []report.Player{{Name: "A"}, {Name: "B"}, {Name: "C"}},
	}
	got := settle.Summarize(s)
	if got.Profit != 840100 {
		t.Errorf("Profit = %d, want 840100", got.Profit)
	}
	if got.ProfitPerPlayer != 840100.0/3 {
		t.Errorf("ProfitPerPlayer = %v, want %v", got.ProfitPerPlayer, 840100.0/3)
	}
	if got.BalancePerPlayer != 840100.0/3 {
		t.Errorf("BalancePerPlayer = %v", got.BalancePerPlayer)
	}
	if got.Players != 3 {
		t.Errorf("Players = %d, want 3", got.Players)
	}

	empty := settle.Summarize(&report.Session{TotalLoot: 10, TotalSupplies: 4})
	if empty.Profit != 6 || empty.ProfitPerPlayer != 0 || empty.BalancePerPlayer != 0 {
		t.Errorf("Summarize without players = %+v", empty)
	}
}

func TestShouldReceive(t *testing.T) {
	s := &report.Session{
		TotalBalance: 1000,
		Players: []report.Player{
			{Name: "A", IsLeader: true, Supplies: 50},
			{Name: "B", Supplies: 200},
		},
	}
	if got := settle.ShouldReceive(s, s.Players[0]); got != 550 {
		t.Errorf("ShouldReceive(leader) = %d, want 550", got)
	}
	if got := settle.ShouldReceive(s, s.Players[1]); got != 700 {
		t.Errorf("ShouldReceive(B) = %d, want 700", got)
	}
}

func TestCommands(t *testing.T) {
	transfers := []settle.Transfer{
		{From: "A", To: "Healer Girl", Amount: 410233},
		{From: "A", To: "Sniper", Amount: 0},
	}
	if got := settle.Command(transfers[0]); got != "transfer 410233 to Healer Girl" {
		t.Errorf("Command = %q", got)
	}
	want := "transfer 410233 to Healer Girl\ntransfer 0 to Sniper"
	if got := settle.Commands(transfers); got != want {
		t.Errorf("Commands = %q, want %q", got, want)
	}
	if got := settle.Commands(nil); got != "" {
		t.Errorf("Commands(nil) = %q, want empty", got)
	}
	if got := settle.Total(transfers); got != 410233 {
		t.Errorf("Total = %d", got)
	}
}
