package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/insightdelivered/titulos-converter/internal/logging"
	"github.com/insightdelivered/titulos-converter/internal/version"
)

var logLevel string
var logFormat string

var rootCmd = &cobra.Command{
	Use:   "titulos",
	Short: "Extract overdue titles from receivables report PDFs",
	Long: `titulos reads "Titulos Vencidos" (overdue receivables) report PDFs and
extracts every client block with its overdue entries and subtotals.

Output is hierarchical JSON (one document per PDF) or flat CSV (one row per
entry). The serve command exposes the same parser over HTTP.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("titulos %s\n", version.String()))

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format (json, console)")
}

// newLogger builds the logger from flags, falling back to the given defaults.
func newLogger(defaultLevel, defaultFormat string) (*zap.Logger, error) {
	level, format := defaultLevel, defaultFormat
	if logLevel != "" {
		level = logLevel
	}
	if logFormat != "" {
		format = logFormat
	}
	return logging.New(level, format)
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
