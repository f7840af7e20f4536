package api

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/insightdelivered/titulos-converter/internal/assembler"
	"github.com/insightdelivered/titulos-converter/internal/models"
	"github.com/insightdelivered/titulos-converter/internal/parser"
	"github.com/insightdelivered/titulos-converter/internal/version"
	"github.com/insightdelivered/titulos-converter/internal/writer"
)

// PageBreak separates pages in the extractedText form field.
const PageBreak = "\n---PAGE_BREAK---\n"

const requestIDKey = "requestID"

// ParseResponse is the JSON response from the /api/parse-titulos endpoint.
type ParseResponse struct {
	Success    bool               `json:"success"`
	Data       []models.Document  `json:"data,omitempty"`
	Summary    *Summary           `json:"summary,omitempty"`
	Warning    string             `json:"warning,omitempty"`
	Error      string             `json:"error,omitempty"`
	Details    string             `json:"details,omitempty"`
	RawText    string             `json:"rawText,omitempty"`
	DebugLines []models.DebugLine `json:"debugLines,omitempty"`
}

// Summary holds the counters of one parse for the JSON response.
type Summary struct {
	Pages            int `json:"pages"`
	Clients          int `json:"clients"`
	ClientsDiscarded int `json:"clientsDiscarded"`
	Entries          int `json:"entries"`
	SkippedLines     int `json:"skippedLines"`
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	Collector *assembler.Collector
	Logger    *zap.Logger
	// Gatherer backs /metrics; nil disables the route.
	Gatherer prometheus.Gatherer
}

// NewApp returns a fiber app with the API routes and a body limit of
// maxUploadMB megabytes.
func NewApp(h *Handler, maxUploadMB int) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "titulos " + version.Version,
		BodyLimit:             maxUploadMB << 20,
		DisableStartupMessage: true,
		ErrorHandler:          h.handleError,
	})
	h.RegisterRoutes(app)
	return app
}

// RegisterRoutes sets up the HTTP routes.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "POST, GET, OPTIONS",
		AllowHeaders: "Content-Type",
	}))
	app.Use(h.requestID)

	app.Get("/api/health", h.handleHealth)
	app.Post("/api/parse-titulos", h.handleParse)

	if h.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(h.Gatherer, promhttp.HandlerOpts{})))
	}
}

func (h *Handler) requestID(c *fiber.Ctx) error {
	id := c.Get(fiber.HeaderXRequestID)
	if id == "" {
		id = uuid.NewString()
	}
	c.Set(fiber.HeaderXRequestID, id)
	c.Locals(requestIDKey, id)
	return c.Next()
}

func (h *Handler) logger(c *fiber.Ctx) *zap.Logger {
	logger := h.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if id, ok := c.Locals(requestIDKey).(string); ok {
		logger = logger.With(zap.String("request_id", id))
	}
	return logger
}

func (h *Handler) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": version.Version,
	})
}

func (h *Handler) handleParse(c *fiber.Ctx) error {
	logger := h.logger(c)

	format := strings.ToLower(formValue(c, "format"))
	if format == "" {
		format = "json"
	}
	switch format {
	case "json", "csv", "xlsx":
	default:
		return writeError(c, fiber.StatusBadRequest, "Unsupported format", fmt.Sprintf("format %q: use json, csv or xlsx", format))
	}
	debug := formValue(c, "debug") == "true"

	name := "upload.pdf"
	fh, fileErr := c.FormFile("file")
	if fh != nil {
		if !strings.HasSuffix(strings.ToLower(fh.Filename), ".pdf") {
			return writeError(c, fiber.StatusBadRequest, "Only PDF files are supported.", fh.Filename)
		}
		name = filepath.Base(fh.Filename)
	}

	// Text extracted client-side (pdf.js) skips server extraction.
	var pages []string
	if extracted := c.FormValue("extractedText"); strings.TrimSpace(extracted) != "" {
		pages = strings.Split(extracted, PageBreak)
	} else {
		if fileErr != nil {
			return writeError(c, fiber.StatusBadRequest, "No file uploaded. Use form field 'file'.", fileErr.Error())
		}

		tmpFile, err := os.CreateTemp("", "titulos-*.pdf")
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "Failed to create temp file.", err.Error())
		}
		tmpPath := tmpFile.Name()
		tmpFile.Close()
		defer os.Remove(tmpPath)

		if err := c.SaveFile(fh, tmpPath); err != nil {
			return writeError(c, fiber.StatusInternalServerError, "Failed to save uploaded file.", err.Error())
		}

		pages, err = h.Collector.Extractor.ExtractPages(c.UserContext(), tmpPath)
		if err != nil {
			logger.Warn("PDF extraction failed", zap.String("document", name), zap.Error(err))
			return writeError(c, fiber.StatusUnprocessableEntity, "PDF extraction failed", err.Error())
		}
	}

	var warning string
	if err := parser.Detect(pages); err != nil {
		warning = err.Error()
	}

	doc := h.Collector.ParsePages(name, pages, debug)
	logger.Info("document parsed",
		zap.String("document", name),
		zap.String("format", format),
		zap.Int("clients", len(doc.Clients)),
		zap.Int("entries", doc.EntryCount()),
	)

	docs := []models.Document{*doc}
	base := strings.TrimSuffix(name, filepath.Ext(name))

	switch format {
	case "csv":
		var buf bytes.Buffer
		w := &writer.CSVWriter{Encoding: c.Query("encoding")}
		if err := w.Write(&buf, docs); err != nil {
			return writeError(c, fiber.StatusBadRequest, "CSV generation failed", err.Error())
		}
		c.Attachment(base + ".csv")
		c.Set(fiber.HeaderContentType, "text/csv; charset="+csvCharset(w.Encoding))
		return c.Send(buf.Bytes())

	case "xlsx":
		var buf bytes.Buffer
		if err := writer.WriteXLSX(&buf, docs); err != nil {
			return writeError(c, fiber.StatusInternalServerError, "XLSX generation failed", err.Error())
		}
		c.Attachment(base + ".xlsx")
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		return c.Send(buf.Bytes())
	}

	resp := ParseResponse{
		Success: true,
		Data:    docs,
		Summary: &Summary{
			Pages:            doc.Stats.Pages,
			Clients:          doc.Stats.ClientsEmitted,
			ClientsDiscarded: doc.Stats.ClientsDiscarded,
			Entries:          doc.Stats.Entries,
			SkippedLines:     doc.Stats.Lines[models.LineUnrecognized],
		},
		Warning: warning,
	}
	if debug {
		resp.RawText = strings.Join(pages, PageBreak)
		resp.DebugLines = doc.DebugLines
	}
	return c.JSON(resp)
}

// handleError turns errors returned by fiber itself (body too large, unknown
// route, recovered panics) into the JSON error shape.
func (h *Handler) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		h.logger(c).Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return writeError(c, code, statusText(code), err.Error())
}

func writeError(c *fiber.Ctx, status int, msg, details string) error {
	return c.Status(status).JSON(ParseResponse{
		Success: false,
		Error:   msg,
		Details: details,
	})
}

// formValue reads a form field, falling back to the query string.
func formValue(c *fiber.Ctx, key string) string {
	if v := c.FormValue(key); v != "" {
		return v
	}
	return c.Query(key)
}

func csvCharset(encoding string) string {
	if strings.EqualFold(encoding, writer.EncodingWindows1252) {
		return writer.EncodingWindows1252
	}
	return writer.EncodingUTF8
}

func statusText(code int) string {
	switch code {
	case fiber.StatusRequestEntityTooLarge:
		return "File too large"
	case fiber.StatusNotFound:
		return "Not found"
	case fiber.StatusMethodNotAllowed:
		return "Method not allowed"
	}
	if code >= fiber.StatusInternalServerError {
		return "Internal server error"
	}
	return "Bad request"
}
