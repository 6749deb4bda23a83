package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/huntsplit/internal/api"
)

var (
	serveAddr string
	serveMode string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve settlements and history over HTTP",
	Long: `Run the HTTP API. POST a report to /api/settlements to get the transfers
back as JSON; /api/history exposes the saved sessions.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := roundingMode(serveMode)
		if err != nil {
			return err
		}
		addr := serveAddr
		if addr == "" {
			addr = GetConfig().ListenAddr
		}

		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return api.NewServer(addr, store, mode, logger).Run(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config listen_addr)")
	serveCmd.Flags().StringVar(&serveMode, "mode", "", "Default rounding mode: nearest or conserve (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
