package extractor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"go.uber.org/zap"
)

// ocrLanguage is the Tesseract language pack; the reports are Portuguese.
const ocrLanguage = "por"

// IsOCRAvailable reports whether pdftoppm and tesseract are on PATH.
func IsOCRAvailable() bool {
	if _, err := exec.LookPath("pdftoppm"); err != nil {
		return false
	}
	_, err := exec.LookPath("tesseract")
	return err == nil
}

// extractWithOCR renders each page to an image and runs Tesseract on it,
// for scanned reports with no text layer. Pages that fail stay empty so the
// slice still has one slot per page.
// Requires: pdftoppm (poppler-utils) and tesseract with the "por" language.
func extractWithOCR(ctx context.Context, filePath string, logger *zap.Logger) ([]string, error) {
	if !IsOCRAvailable() {
		return nil, fmt.Errorf("OCR not available (install poppler-utils and tesseract-ocr)")
	}

	numPages, err := api.PageCountFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("counting pages: %w", err)
	}

	tmpDir, err := os.MkdirTemp("", "titulos-ocr-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	pages := make([]string, numPages)
	recognized := 0
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := ocrPage(ctx, filePath, tmpDir, i)
		if err != nil {
			logger.Debug("OCR failed for page", zap.Int("page", i), zap.Error(err))
			continue
		}
		pages[i-1] = text
		if text != "" {
			recognized++
		}
	}

	if recognized == 0 {
		return nil, fmt.Errorf("tesseract OCR produced no text from %d page(s)", numPages)
	}
	return pages, nil
}

func ocrPage(ctx context.Context, filePath, tmpDir string, page int) (string, error) {
	pageStr := strconv.Itoa(page)
	imgBase := filepath.Join(tmpDir, "page-"+pageStr)

	// 300 DPI; -singlefile drops pdftoppm's page-number suffix.
	render := exec.CommandContext(ctx, "pdftoppm", "-r", "300", "-png", "-singlefile",
		"-f", pageStr, "-l", pageStr, filePath, imgBase)
	if out, err := render.CombinedOutput(); err != nil {
		return "", fmt.Errorf("pdftoppm: %w (output: %s)", err, strings.TrimSpace(string(out)))
	}

	// PSM 6: a single uniform block of text, which keeps table rows on one line.
	outBase := imgBase + "-ocr"
	ocr := exec.CommandContext(ctx, "tesseract", imgBase+".png", outBase, "-l", ocrLanguage, "--psm", "6")
	if out, err := ocr.CombinedOutput(); err != nil {
		return "", fmt.Errorf("tesseract: %w (output: %s)", err, strings.TrimSpace(string(out)))
	}

	data, err := os.ReadFile(outBase + ".txt")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
