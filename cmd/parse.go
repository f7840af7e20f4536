package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/insightdelivered/titulos-converter/internal/assembler"
	"github.com/insightdelivered/titulos-converter/internal/config"
	"github.com/insightdelivered/titulos-converter/internal/extractor"
	"github.com/insightdelivered/titulos-converter/internal/models"
	"github.com/insightdelivered/titulos-converter/internal/writer"
)

const (
	formatJSON = "json"
	formatCSV  = "csv"
)

var outputPath string
var outputFormat string
var csvEncoding string
var workers int
var quiet bool
var noPdftotext bool
var noOCR bool

var parseCmd = &cobra.Command{
	Use:   "parse <pdf|glob>...",
	Short: "Parse report PDFs into JSON or CSV",
	Long: `Parse one or more report PDFs. Arguments may be paths or glob patterns in
the file name ("reports/2024-*.pdf"). Any argument that matches no file aborts
the run before anything is parsed.`,
	Example: `  titulos parse relatorio.pdf
  titulos parse -f csv -o titulos.csv "relatorios/*.pdf"
  titulos parse -f csv --encoding windows-1252 jan.pdf fev.pdf > titulos.csv`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format := strings.ToLower(outputFormat)
		if format != formatJSON && format != formatCSV {
			return fmt.Errorf("invalid format %q (want %s or %s)", outputFormat, formatJSON, formatCSV)
		}
		if !writer.ValidEncoding(csvEncoding) {
			return fmt.Errorf("invalid encoding %q (want %s or %s)", csvEncoding, writer.EncodingUTF8, writer.EncodingWindows1252)
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if workers <= 0 {
			workers = cfg.Parser.Workers
		}

		logger, err := newLogger("warn", "console")
		if err != nil {
			return err
		}
		defer logger.Sync()

		ex := extractor.New(logger)
		ex.UsePdftotext = !noPdftotext
		ex.UseOCR = ex.UseOCR && !noOCR

		collector := assembler.New(ex, logger)
		collector.Workers = workers

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		docs, err := collector.Collect(ctx, args)
		if err != nil {
			return err
		}

		if err := writeOutput(cmd.OutOrStdout(), docs, format); err != nil {
			return err
		}

		if !quiet {
			printSummary(cmd.ErrOrStderr(), docs)
		}
		return nil
	},
}

func init() {
	parseCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default stdout)")
	parseCmd.Flags().StringVarP(&outputFormat, "format", "f", formatJSON, "Output format (json, csv)")
	parseCmd.Flags().StringVar(&csvEncoding, "encoding", writer.EncodingUTF8, "CSV encoding (utf-8, windows-1252)")
	parseCmd.Flags().IntVar(&workers, "workers", 0, "Documents parsed in parallel (default TITULOS_WORKERS or CPU count)")
	parseCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not print the summary")
	parseCmd.Flags().BoolVar(&noPdftotext, "no-pdftotext", false, "Do not fall back to the pdftotext command")
	parseCmd.Flags().BoolVar(&noOCR, "no-ocr", false, "Do not OCR reports without a text layer")

	rootCmd.AddCommand(parseCmd)
}

func writeOutput(stdout io.Writer, docs []models.Document, format string) error {
	if format == formatCSV {
		w := &writer.CSVWriter{Encoding: csvEncoding}
		if outputPath != "" {
			return w.WriteToFile(outputPath, docs)
		}
		return w.Write(stdout, docs)
	}

	if outputPath == "" {
		return writer.WriteJSON(stdout, docs)
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", outputPath, err)
	}
	defer f.Close()

	if err := writer.WriteJSON(f, docs); err != nil {
		return err
	}
	return f.Close()
}
