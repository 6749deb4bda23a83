// Package report parses party hunt session reports into structured records
// and renders them back out.
package report

import (
	"encoding/json"
	"fmt"
	"time"
)

// LootType is how the party split loot during the session.
type LootType string

const (
	LootLeader LootType = "Leader"
	LootMarket LootType = "Market"
	LootSplit  LootType = "Split"
)

// ParseLootType maps report text to a LootType. ok is false for values
// outside the closed set.
func ParseLootType(s string) (LootType, bool) {
	switch LootType(s) {
	case LootLeader, LootMarket, LootSplit:
		return LootType(s), true
	}
	return LootLeader, false
}

// UnmarshalJSON rejects loot types outside the closed set.
func (l *LootType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	lt, ok := ParseLootType(s)
	if !ok {
		return fmt.Errorf("unknown loot type %q", s)
	}
	*l = lt
	return nil
}

// Player holds one participant's statistics for a session.
type Player struct {
	Name     string `json:"name"`
	Loot     int64  `json:"loot"`
	Supplies int64  `json:"supplies"`
	Balance  int64  `json:"balance"`
	Damage   int64  `json:"damage"`
	Healing  int64  `json:"healing"`
	IsLeader bool   `json:"is_leader"`
}

// Session is a parsed hunt session: metadata plus players in report order.
type Session struct {
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Duration      string    `json:"duration"` // verbatim, e.g. "01:44h"
	LootType      LootType  `json:"loot_type"`
	TotalLoot     int64     `json:"total_loot"`
	TotalSupplies int64     `json:"total_supplies"`
	TotalBalance  int64     `json:"total_balance"`
	Players       []Player  `json:"players"`
}

// Leader returns the first player flagged as leader.
func (s *Session) Leader() (Player, bool) {
	for _, p := range s.Players {
		if p.IsLeader {
			return p, true
		}
	}
	return Player{}, false
}

// Player looks a participant up by exact name.
func (s *Session) Player(name string) (Player, bool) {
	for _, p := range s.Players {
		if p.Name == name {
			return p, true
		}
	}
	return Player{}, false
}
