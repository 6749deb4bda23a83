package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/huntsplit/internal/config"
	"github.com/fakeyudi/huntsplit/internal/logging"
	"github.com/fakeyudi/huntsplit/internal/settle"
)

// cfg holds the merged configuration, populated in PersistentPreRunE.
var cfg config.Config

// logger is built from cfg in PersistentPreRunE and writes to stderr.
var logger = logging.Discard()

var rootCmd = &cobra.Command{
	Use:   "huntsplit",
	Short: "Parse hunt session reports and work out the loot split",
	Long: `huntsplit reads the "Session data" report copied from the game client,
works out how much the party leader owes every other player, and prints the
transfer commands ready to paste into the chat.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		global, err := config.LoadGlobal()
		if err != nil {
			return fmt.Errorf("loading global config: %w", err)
		}
		project, err := config.LoadProject()
		if err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
		cfg = config.Merge(global, project)

		l, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", err)
		}
		logger = l

		if !isTerminal(cmd.OutOrStdout()) {
			color.NoColor = true
		}
		return nil
	},
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetConfig returns the merged configuration for use by subcommands.
func GetConfig() config.Config {
	return cfg
}

// GetLogger returns the logger tagged with component.
func GetLogger(component string) *slog.Logger {
	return logging.Component(logger, component)
}

// roundingMode resolves the --mode flag, falling back to the configured
// rounding.
func roundingMode(flag string) (settle.Mode, error) {
	if flag != "" {
		return settle.ParseMode(flag)
	}
	mode, err := settle.ParseMode(cfg.Rounding)
	if err != nil {
		return "", fmt.Errorf("config rounding: %w", err)
	}
	return mode, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(f.Fd())
}
