package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/huntsplit/internal/report"
	"github.com/fakeyudi/huntsplit/internal/settle"
	"github.com/fakeyudi/huntsplit/internal/watch"
)

var watchMode string

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-print the transfers every time a report file changes",
	Long: `Watch a report file and print the settlement again whenever it is
rewritten. Each successful parse also becomes the current session.
Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := roundingMode(watchMode)
		if err != nil {
			return err
		}
		path := args[0]
		log := GetLogger("watch")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		handle := func(data []byte) {
			s, warnings, err := report.ParseText(string(data))
			if err != nil {
				log.Warn("report not parsed", "path", path, "err", err)
				fmt.Fprintf(cmd.ErrOrStderr(), "error: %s\n", err)
				return
			}
			for _, w := range warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
			}
			if err := saveCurrent(s, path, warnings); err != nil {
				log.Warn("current session not saved", "err", err)
			}
			printUpdate(cmd, s, mode)
		}

		if data, err := os.ReadFile(path); err == nil {
			handle(data)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s (Ctrl+C to stop)\n", path)

		w := &watch.Watcher{Path: path, Logger: logger}
		if err := w.Run(ctx, handle); err != nil {
			return err
		}
		if ctx.Err() != nil && cmd.Context().Err() == nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "Stopped.")
		}
		return nil
	},
}

// printUpdate writes a timestamped block of transfer commands.
func printUpdate(cmd *cobra.Command, s *report.Session, mode settle.Mode) {
	w := cmd.OutOrStdout()
	transfers := settle.Calculator{Mode: mode}.Settle(s)
	headerColor.Fprintf(w, "── %s  %s, %d players ──\n", time.Now().Format("15:04:05"), s.Duration, len(s.Players))
	if len(transfers) == 0 {
		reason := "nothing to pay out"
		if err := settle.Check(s); err != nil {
			reason = err.Error()
		}
		fmt.Fprintf(w, "(no transfers: %s)\n\n", reason)
		return
	}
	printCommands(w, transfers)
	fmt.Fprintln(w)
}

func init() {
	watchCmd.Flags().StringVar(&watchMode, "mode", "", "Rounding mode: nearest or conserve (overrides config)")
	rootCmd.AddCommand(watchCmd)
}
