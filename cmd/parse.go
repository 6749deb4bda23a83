package cmd

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/huntsplit/internal/report"
)

var (
	parseFormat string
	parseOutput string
	parseSave   bool
	parseMode   string
)

var parseCmd = &cobra.Command{
	Use:   "parse [file|-]",
	Short: "Parse a hunt session report and make it the current session",
	Long: `Parse a hunt session report. With no file, or "-", the report text is
read from stdin. Files ending in .json or .md are read as huntsplit exports.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format := parseFormat
		if format == "" {
			format = GetConfig().DefaultFormat
		}
		plain := strings.EqualFold(format, "plain")
		var renderer report.SessionRenderer
		if !plain {
			r, err := report.RendererFor(format)
			if err != nil {
				return err
			}
			renderer = r
		}
		mode, err := roundingMode(parseMode)
		if err != nil {
			return err
		}

		path := ""
		if len(args) > 0 {
			path = args[0]
		}
		s, warnings, err := readSession(cmd, path)
		if err != nil {
			return err
		}
		GetLogger("parse").Debug("parsed report", "players", len(s.Players), "warnings", len(warnings))

		if err := saveCurrent(s, path, warnings); err != nil {
			return err
		}

		var out bytes.Buffer
		if plain {
			printSession(&out, s, mode)
		} else {
			data, err := renderer.Render(s)
			if err != nil {
				return fmt.Errorf("render session: %w", err)
			}
			out.Write(data)
		}

		if parseOutput != "" {
			if err := os.WriteFile(parseOutput, out.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write output file: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Output: %s\n", parseOutput)
		} else {
			cmd.OutOrStdout().Write(out.Bytes())
		}

		if parseSave {
			store, err := openHistory()
			if err != nil {
				return err
			}
			defer store.Close()
			e, err := store.Save(cmd.Context(), s)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Saved as %s\n", e.ID)
		}
		return nil
	},
}

func init() {
	parseCmd.Flags().StringVar(&parseFormat, "format", "", "Output format: plain, text, json or markdown (overrides config)")
	parseCmd.Flags().StringVarP(&parseOutput, "output", "o", "", "Write output to a file instead of stdout")
	parseCmd.Flags().BoolVar(&parseSave, "save", false, "Also add the session to history")
	parseCmd.Flags().StringVar(&parseMode, "mode", "", "Rounding mode for plain output: nearest or conserve")
	rootCmd.AddCommand(parseCmd)
}
