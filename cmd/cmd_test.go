package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const huntReport = `Session data: From 2025-07-14, 18:13:49 to 2025-07-14, 19:58:37
Session: 01:44h
Loot Type: Leader
Loot: 1,250,300
Supplies: 410,200
Balance: 840,100
Knight of Doom (Leader)
    Loot: 1,250,300
    Supplies: 180,000
    Balance: 1,070,300
    Damage: 2,345,678
    Healing: 456,789
Healer Girl
    Loot: 0
    Supplies: 130,200
    Balance: -130,200
    Damage: 120,000
    Healing: 1,987,654
Sniper
    Loot: 0
    Supplies: 100,000
    Balance: -100,000
    Damage: 1,800,500
    Healing: 50,000
`

// executeCommand runs a cobra command with the given args and captures combined output.
func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	_, err = root.ExecuteC()
	return buf.String(), err
}

// resetCommandFlags puts every subcommand flag back to its default so
// values do not leak between tests.
func resetCommandFlags(c *cobra.Command) {
	c.Flags().VisitAll(func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, sub := range c.Commands() {
		resetCommandFlags(sub)
	}
}

// setup isolates a test from real user state and returns its temp dir.
func setup(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)
	t.Setenv("HOME", tmp)
	t.Setenv("HUNTSPLIT_LOG_LEVEL", "")

	rootCmd.ResetFlags()
	resetCommandFlags(rootCmd)
	rootCmd.SetIn(strings.NewReader(""))
	return tmp
}

func writeReport(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func nonEmptyLines(s string) []string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}
