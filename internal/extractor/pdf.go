package extractor

import (
	"context"
	"fmt"
	"math"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"go.uber.org/zap"
)

// PDFExtractor returns the text of every page of a PDF report.
//
// It tries the ledongthuc/pdf reader first (row-based layout, then rows
// rebuilt from glyph coordinates) and, when enabled, falls back to the
// external pdftotext command (poppler-utils) and then to Tesseract OCR.
type PDFExtractor struct {
	Logger *zap.Logger
	// UsePdftotext enables the poppler fallback.
	UsePdftotext bool
	// UseOCR enables the OCR fallback for scanned reports.
	UseOCR bool
}

// New returns a PDFExtractor with the pdftotext fallback enabled, and OCR
// enabled when its tools are installed.
func New(logger *zap.Logger) *PDFExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PDFExtractor{Logger: logger, UsePdftotext: true, UseOCR: IsOCRAvailable()}
}

// ExtractPages returns one string per page; pages[i] is page i+1. Pages with
// no text are kept as empty strings so page numbers stay stable.
//
// A file that opens but carries no readable text (a scanned report) is not an
// error: its pages are returned as they came out of the reader. Only a file
// that no method can open is.
func (x *PDFExtractor) ExtractPages(ctx context.Context, filePath string) ([]string, error) {
	logger := x.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("file", filePath))

	pages, libErr := extractWithLibrary(filePath)
	if libErr == nil && isReadableText(pages) {
		return pages, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if x.UsePdftotext {
		popplerPages, popplerErr := extractWithPdftotext(ctx, filePath)
		if popplerErr == nil && isReadableText(popplerPages) {
			logger.Info("text extracted with pdftotext", zap.Int("pages", len(popplerPages)))
			return popplerPages, nil
		}
		if popplerErr != nil {
			logger.Debug("pdftotext fallback unavailable", zap.Error(popplerErr))
		}
	}

	// Only worth it when the file opened but had no text layer.
	if x.UseOCR && libErr == nil {
		logger.Info("no text layer found, trying OCR", zap.Int("pages", len(pages)))
		ocrPages, ocrErr := extractWithOCR(ctx, filePath, logger)
		if ocrErr == nil {
			return ocrPages, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		logger.Warn("OCR fallback failed", zap.Error(ocrErr))
	}

	if libErr != nil {
		return nil, fmt.Errorf("PDF text extraction failed: %w", libErr)
	}

	logger.Warn("no readable text in PDF; it may be image-based or use custom font encodings",
		zap.Int("pages", len(pages)))
	return pages, nil
}

// textQuality returns the ratio of basic readable characters (ASCII letters
// and digits, Latin-1 letters, common punctuation, whitespace) to all
// characters. Returns 0.0-1.0.
func textQuality(pages []string) float64 {
	total := 0
	readable := 0
	for _, page := range pages {
		for _, r := range page {
			total++
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
				(r >= '0' && r <= '9') || unicode.IsSpace(r) ||
				(r >= 0xC0 && r <= 0xFF && unicode.IsLetter(r)) ||
				strings.ContainsRune(".,-/:;()'\"$%&@#!?+=*", r) {
				readable++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}

// commonWords appear on every overdue titles report. If the extracted text
// contains none of these, it's likely garbage.
var commonWords = []string{
	"cliente", "total", "vencto", "emissao", "emissão", "titulos", "títulos",
	"valor", "pago", "pendente", "dias", "financeiro", "cobranca", "cobrança",
	"pagina", "página",
}

func containsCommonWords(pages []string) bool {
	combined := strings.ToLower(strings.Join(pages, " "))
	for _, word := range commonWords {
		if strings.Contains(combined, word) {
			return true
		}
	}
	return false
}

// isReadableText requires >50 chars, >60% readable characters and at least
// one word expected on the report.
func isReadableText(pages []string) bool {
	if totalTextLen(pages) <= 50 {
		return false
	}
	if textQuality(pages) <= 0.6 {
		return false
	}
	return containsCommonWords(pages)
}

// extractWithLibrary uses the ledongthuc/pdf reader.
func extractWithLibrary(filePath string) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PDF library crashed: %v", r)
		}
	}()

	f, r, openErr := pdf.Open(filePath)
	if openErr != nil {
		return nil, openErr
	}
	defer f.Close()

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}

	// Method 1: GetTextByRow (best layout preservation)
	pages = extractByRow(r, numPages)
	if isReadableText(pages) {
		return pages, nil
	}

	// Method 2: Page.Content() with coordinate-based row reconstruction
	byContent := extractByContent(r, numPages)
	if isReadableText(byContent) {
		return byContent, nil
	}

	return pages, nil
}

// extractByRow joins the words of each text row with single spaces.
func extractByRow(r *pdf.Reader, numPages int) []string {
	pages := make([]string, numPages)
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		var lines []string
		for _, row := range rows {
			parts := make([]string, 0, len(row.Content))
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			if line := strings.TrimSpace(strings.Join(parts, " ")); line != "" {
				lines = append(lines, line)
			}
		}
		pages[i-1] = strings.Join(lines, "\n")
	}
	return pages
}

// extractByContent groups glyphs by Y coordinate to rebuild rows, then sorts
// each row by X. A wide horizontal gap becomes a column separator.
func extractByContent(r *pdf.Reader, numPages int) []string {
	type textItem struct {
		x float64
		w float64
		s string
	}

	pages := make([]string, numPages)
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		if len(content.Text) == 0 {
			continue
		}

		rowMap := make(map[int][]textItem)
		for _, t := range content.Text {
			if t.S == "" {
				continue
			}
			yKey := int(math.Round(t.Y))
			rowMap[yKey] = append(rowMap[yKey], textItem{x: t.X, w: t.W, s: t.S})
		}

		// PDF Y grows upwards: top of the page first.
		yKeys := make([]int, 0, len(rowMap))
		for y := range rowMap {
			yKeys = append(yKeys, y)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(yKeys)))

		var lines []string
		for _, y := range yKeys {
			items := rowMap[y]
			sort.SliceStable(items, func(a, b int) bool {
				return items[a].x < items[b].x
			})

			var sb strings.Builder
			var prevEnd float64
			for j, item := range items {
				if j > 0 && item.x-prevEnd > 1.5 {
					sb.WriteByte(' ')
				}
				sb.WriteString(item.s)
				prevEnd = item.x + item.w
			}
			if line := strings.TrimSpace(sb.String()); line != "" {
				lines = append(lines, line)
			}
		}
		pages[i-1] = strings.Join(lines, "\n")
	}
	return pages
}

// extractWithPdftotext runs poppler's pdftotext page by page so that page
// boundaries survive. The page count comes from pdfcpu.
func extractWithPdftotext(ctx context.Context, filePath string) ([]string, error) {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return nil, fmt.Errorf("pdftotext not available: %w", err)
	}

	numPages, err := api.PageCountFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("counting pages: %w", err)
	}
	if numPages == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}

	pages := make([]string, numPages)
	extracted := 0
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pageStr := strconv.Itoa(i)
		out, err := exec.CommandContext(ctx, "pdftotext", "-layout", "-f", pageStr, "-l", pageStr, filePath, "-").Output()
		if err != nil {
			continue
		}
		pages[i-1] = strings.TrimSpace(string(out))
		extracted++
	}

	if extracted == 0 {
		return nil, fmt.Errorf("pdftotext produced no output")
	}
	return pages, nil
}

func totalTextLen(pages []string) int {
	n := 0
	for _, p := range pages {
		n += len(strings.TrimSpace(p))
	}
	return n
}
