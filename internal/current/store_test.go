package current_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/fakeyudi/huntsplit/internal/current"
	"github.com/fakeyudi/huntsplit/internal/report"
)

// generateSession produces an arbitrary Session. Times are truncated to
// second precision to match JSON round-trip fidelity.
func generateSession(t *rapid.T) *report.Session {
	sec := rapid.Int64Range(0, 1_700_000_000).Draw(t, "unix_sec")
	start := time.Unix(sec, 0).UTC()

	n := rapid.IntRange(0, 6).Draw(t, "num_players")
	players := make([]report.Player, n)
	for i := range players {
		players[i] = report.Player{
			Name:     rapid.StringN(1, 30, -1).Draw(t, "name"),
			Loot:     rapid.Int64().Draw(t, "loot"),
			Supplies: rapid.Int64().Draw(t, "supplies"),
			Balance:  rapid.Int64().Draw(t, "balance"),
			Damage:   rapid.Int64().Draw(t, "damage"),
			Healing:  rapid.Int64().Draw(t, "healing"),
			IsLeader: rapid.Bool().Draw(t, "is_leader"),
		}
	}

	return &report.Session{
		StartTime:     start,
		EndTime:       start.Add(time.Duration(rapid.IntRange(0, 86_400).Draw(t, "secs")) * time.Second),
		Duration:      rapid.StringN(0, 10, -1).Draw(t, "duration"),
		LootType:      rapid.SampledFrom([]report.LootType{report.LootLeader, report.LootMarket, report.LootSplit}).Draw(t, "loot_type"),
		TotalLoot:     rapid.Int64().Draw(t, "total_loot"),
		TotalSupplies: rapid.Int64().Draw(t, "total_supplies"),
		TotalBalance:  rapid.Int64().Draw(t, "total_balance"),
		Players:       players,
	}
}

// Feature: huntsplit, Property 7: Current session persistence round-trip
func TestCurrentPersistenceRoundTrip(t *testing.T) {
	store, err := current.OpenDir(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDir: %v", err)
	}

	rapid.Check(t, func(t *rapid.T) {
		original := generateSession(t)
		source := rapid.StringN(0, 40, -1).Draw(t, "source")

		if err := store.Put(current.Record{Source: source, Session: original}); err != nil {
			t.Fatalf("Put: %v", err)
		}
		rec, err := store.Get()
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		loaded := rec.Session

		if rec.Source != source {
			t.Errorf("source mismatch: got %q, want %q", rec.Source, source)
		}
		if rec.ParsedAt.IsZero() {
			t.Error("ParsedAt should default to the save time")
		}
		if !loaded.StartTime.Equal(original.StartTime) || !loaded.EndTime.Equal(original.EndTime) {
			t.Errorf("time mismatch: got %v-%v, want %v-%v", loaded.StartTime, loaded.EndTime, original.StartTime, original.EndTime)
		}
		if loaded.Duration != original.Duration || loaded.LootType != original.LootType {
			t.Errorf("metadata mismatch: got %q/%q, want %q/%q", loaded.Duration, loaded.LootType, original.Duration, original.LootType)
		}
		if loaded.TotalLoot != original.TotalLoot || loaded.TotalSupplies != original.TotalSupplies || loaded.TotalBalance != original.TotalBalance {
			t.Errorf("totals mismatch: got %+v, want %+v", loaded, original)
		}
		if len(loaded.Players) != len(original.Players) {
			t.Fatalf("Players length mismatch: got %d, want %d", len(loaded.Players), len(original.Players))
		}
		for i, p := range original.Players {
			if loaded.Players[i] != p {
				t.Errorf("Players[%d] mismatch: got %+v, want %+v", i, loaded.Players[i], p)
			}
		}
	})
}

func TestOpenUsesXDGDataHome(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)

	store, err := current.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if want := filepath.Join(tmp, "huntsplit", "current.json"); store.Path() != want {
		t.Errorf("Path = %q, want %q", store.Path(), want)
	}
}

func TestGetReturnsErrNoSession(t *testing.T) {
	store, err := current.OpenDir(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDir: %v", err)
	}
	if _, err := store.Get(); !errors.Is(err, current.ErrNoSession) {
		t.Errorf("expected ErrNoSession, got: %v", err)
	}
}

func TestPutKeepsWarnings(t *testing.T) {
	store, err := current.OpenDir(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDir: %v", err)
	}
	at := time.Date(2025, 7, 14, 20, 0, 0, 0, time.UTC)
	in := current.Record{
		Source:   "hunt.txt",
		ParsedAt: at,
		Warnings: []string{"line 9: Loot \"x\" is not a number, using 0"},
		Session:  &report.Session{Duration: "00:10h"},
	}
	if err := store.Put(in); err != nil {
		t.Fatalf("Put: %v", err)
	}
	rec, err := store.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !rec.ParsedAt.Equal(at) || len(rec.Warnings) != 1 || rec.Warnings[0] != in.Warnings[0] {
		t.Errorf("got %+v", rec)
	}
}

func TestPutRejectsNilSession(t *testing.T) {
	store, err := current.OpenDir(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDir: %v", err)
	}
	if err := store.Put(current.Record{Source: "x"}); err == nil {
		t.Error("expected an error for a nil session")
	}
}

func TestClear(t *testing.T) {
	store, err := current.OpenDir(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDir: %v", err)
	}
	if err := store.Put(current.Record{Session: &report.Session{Duration: "00:10h"}}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := os.Stat(store.Path()); err != nil {
		t.Fatalf("expected current.json on disk: %v", err)
	}

	cleared, err := store.Clear()
	if err != nil || !cleared {
		t.Fatalf("Clear = %v, %v; want true, nil", cleared, err)
	}
	if _, err := store.Get(); !errors.Is(err, current.ErrNoSession) {
		t.Errorf("expected ErrNoSession after Clear, got %v", err)
	}
	if cleared, err := store.Clear(); err != nil || cleared {
		t.Errorf("second Clear = %v, %v; want false, nil", cleared, err)
	}
}

func TestGetCorruptFile(t *testing.T) {
	store, err := current.OpenDir(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDir: %v", err)
	}
	for _, body := range []string{"{broken", `{"source":"x"}`} {
		if err := os.WriteFile(store.Path(), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := store.Get(); err == nil || errors.Is(err, current.ErrNoSession) {
			t.Errorf("%s: expected a decode error, got %v", body, err)
		}
	}
}

func TestOpenDirUnwritable(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("running as root; permission checks are ineffective")
	}

	tmp := t.TempDir()
	if err := os.Chmod(tmp, 0o000); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { os.Chmod(tmp, 0o755) })

	if _, err := current.OpenDir(filepath.Join(tmp, "huntsplit")); err == nil {
		t.Fatal("expected error creating store in unwritable directory, got nil")
	}
}
