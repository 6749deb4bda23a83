package cmd

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/fakeyudi/huntsplit/internal/report"
)

func TestSaveWithoutCurrentSession(t *testing.T) {
	setup(t)
	_, err := executeCommand(rootCmd, "save")
	if err == nil || !strings.Contains(err.Error(), "no current session") {
		t.Errorf("expected no current session error, got %v", err)
	}
}

func TestHistoryLifecycle(t *testing.T) {
	setup(t)
	rootCmd.SetIn(strings.NewReader(huntReport))
	if _, err := executeCommand(rootCmd, "parse", "--format", "json"); err != nil {
		t.Fatalf("parse: %v", err)
	}

	resetCommandFlags(rootCmd)
	out, err := executeCommand(rootCmd, "save")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	id := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(out), "Saved as "))
	if len(id) != 36 {
		t.Fatalf("expected a saved id, got %q", out)
	}

	resetCommandFlags(rootCmd)
	out, err = executeCommand(rootCmd, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, id[:8]) || !strings.Contains(out, "840,100") {
		t.Errorf("history listing missing entry:\n%s", out)
	}

	resetCommandFlags(rootCmd)
	out, err = executeCommand(rootCmd, "history", "show", id[:8], "--format", "json")
	if err != nil {
		t.Fatalf("history show: %v", err)
	}
	var s report.Session
	if err := json.Unmarshal([]byte(out), &s); err != nil {
		t.Fatalf("show --format json is not JSON: %v\n%s", err, out)
	}
	if len(s.Players) != 3 {
		t.Errorf("expected 3 players, got %d", len(s.Players))
	}

	resetCommandFlags(rootCmd)
	out, err = executeCommand(rootCmd, "history", "show", id, "--format", "plain")
	if err != nil {
		t.Fatalf("history show plain: %v", err)
	}
	if !strings.Contains(out, "transfer 410233 to Healer Girl") {
		t.Errorf("plain show missing transfers:\n%s", out)
	}

	resetCommandFlags(rootCmd)
	out, err = executeCommand(rootCmd, "history", "rm", id)
	if err != nil {
		t.Fatalf("history rm: %v", err)
	}
	if !strings.Contains(out, "Deleted "+id) {
		t.Errorf("unexpected rm output: %q", out)
	}

	resetCommandFlags(rootCmd)
	out, err = executeCommand(rootCmd, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "no saved sessions") {
		t.Errorf("expected empty history, got:\n%s", out)
	}
}

func TestParseSaveFlag(t *testing.T) {
	setup(t)
	rootCmd.SetIn(strings.NewReader(huntReport))
	out, err := executeCommand(rootCmd, "parse", "--save", "--format", "json")
	if err != nil {
		t.Fatalf("parse --save: %v", err)
	}
	if !strings.Contains(out, "Saved as ") {
		t.Errorf("expected save confirmation:\n%s", out)
	}

	resetCommandFlags(rootCmd)
	out, err = executeCommand(rootCmd, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if strings.Contains(out, "no saved sessions") {
		t.Errorf("expected the parsed session in history:\n%s", out)
	}
}

func TestHistoryShowUnknownID(t *testing.T) {
	setup(t)
	_, err := executeCommand(rootCmd, "history", "show", "deadbeef")
	if err == nil || !strings.Contains(err.Error(), "saved session not found") {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestClearCurrentSession(t *testing.T) {
	tmp := setup(t)
	path := writeReport(t, tmp, "hunt.txt", huntReport)
	if _, err := executeCommand(rootCmd, "parse", path, "--format", "json"); err != nil {
		t.Fatalf("parse: %v", err)
	}

	resetCommandFlags(rootCmd)
	out, err := executeCommand(rootCmd, "clear")
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if !strings.Contains(out, "Current session cleared.") {
		t.Errorf("unexpected clear output: %q", out)
	}

	resetCommandFlags(rootCmd)
	if _, err := executeCommand(rootCmd, "transfers"); err == nil || !strings.Contains(err.Error(), "no current session") {
		t.Errorf("expected no current session after clear, got %v", err)
	}

	resetCommandFlags(rootCmd)
	out, err = executeCommand(rootCmd, "clear")
	if err != nil {
		t.Fatalf("second clear: %v", err)
	}
	if !strings.Contains(out, "No current session.") {
		t.Errorf("unexpected second clear output: %q", out)
	}
}
