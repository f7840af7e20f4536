package writer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/insightdelivered/titulos-converter/internal/models"
)

// Supported CSV output encodings.
const (
	EncodingUTF8        = "utf-8"
	EncodingWindows1252 = "windows-1252"
)

// CSVWriter writes entries as flat CSV rows, one per entry.
type CSVWriter struct {
	// Encoding is utf-8 (default) or windows-1252.
	Encoding string
}

// ValidEncoding reports whether name is a supported CSV encoding.
func ValidEncoding(name string) bool {
	switch strings.ToLower(name) {
	case "", EncodingUTF8, EncodingWindows1252:
		return true
	}
	return false
}

// WriteToFile writes the documents to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, docs []models.Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	if err := w.Write(f, docs); err != nil {
		return err
	}
	return f.Close()
}

// Write writes the header and one row per entry, CRLF terminated. The header
// is written even when there are no entries.
func (w *CSVWriter) Write(out io.Writer, docs []models.Document) error {
	rows := Flatten(docs)

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	cw.UseCRLF = true
	if err := gocsv.MarshalCSV(&rows, gocsv.NewSafeCSVWriter(cw)); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}

	data := buf.Bytes()
	switch strings.ToLower(w.Encoding) {
	case "", EncodingUTF8:
	case EncodingWindows1252:
		// Characters outside cp1252 become the encoder's replacement byte.
		enc := encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder())
		encoded, err := enc.Bytes(data)
		if err != nil {
			return fmt.Errorf("failed to encode CSV as %s: %w", EncodingWindows1252, err)
		}
		data = encoded
	default:
		return fmt.Errorf("unsupported CSV encoding %q", w.Encoding)
	}

	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}
