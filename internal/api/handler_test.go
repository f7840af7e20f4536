package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/insightdelivered/titulos-converter/internal/assembler"
	"github.com/insightdelivered/titulos-converter/internal/metrics"
)

const report = "Cliente: 123 - ACME LTDA\n" +
	"01/01/2024 01/01/2023 4567 BD - 02 DIAS 1.234,56 0,00 1.234,56 30\n" +
	"Total por Cliente 1.234,56 0,00 1.234,56"

type stubExtractor struct {
	pages []string
	err   error
}

func (s *stubExtractor) ExtractPages(context.Context, string) ([]string, error) {
	return s.pages, s.err
}

func setupTestApp(ex assembler.PageExtractor) *fiber.App {
	reg := prometheus.NewRegistry()
	c := assembler.New(ex, nil)
	c.Metrics = metrics.New(reg)
	return NewApp(&Handler{Collector: c, Gatherer: reg}, 1)
}

type formField struct {
	name, value string
}

func multipartRequest(t *testing.T, target string, fields []formField, fileName string, file []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, f := range fields {
		require.NoError(t, mw.WriteField(f.name, f.value))
	}
	if fileName != "" {
		part, err := mw.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decode(t *testing.T, resp *http.Response) ParseResponse {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out ParseResponse
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return out
}

func TestHealthEndpoint(t *testing.T) {
	app := setupTestApp(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))

	var result map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "ok", result["status"])
	assert.Equal(t, "fiber", result["engine"])
	assert.NotEmpty(t, result["version"])
}

func TestRequestIDIsEchoed(t *testing.T) {
	app := setupTestApp(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(fiber.HeaderXRequestID, "abc-123")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", resp.Header.Get(fiber.HeaderXRequestID))
}

func TestParseEndpointRequiresFile(t *testing.T) {
	app := setupTestApp(nil)

	req := multipartRequest(t, "/api/parse-titulos", nil, "", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	out := decode(t, resp)
	assert.False(t, out.Success)
	assert.Contains(t, out.Error, "No file uploaded")
}

func TestParseEndpointRejects(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		fileName string
		status   int
	}{
		{"not a pdf", "/api/parse-titulos", "report.txt", fiber.StatusBadRequest},
		{"unknown format", "/api/parse-titulos?format=xml", "report.pdf", fiber.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := setupTestApp(&stubExtractor{pages: []string{report}})
			req := multipartRequest(t, tt.target, nil, tt.fileName, []byte("%PDF-1.4"))
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.False(t, decode(t, resp).Success)
		})
	}
}

func TestParseEndpointUploadedPDF(t *testing.T) {
	app := setupTestApp(&stubExtractor{pages: []string{report}})

	req := multipartRequest(t, "/api/parse-titulos", nil, "Relatorio Jan.pdf", []byte("%PDF-1.4"))
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	out := decode(t, resp)
	assert.True(t, out.Success)
	require.Len(t, out.Data, 1)
	assert.Equal(t, "Relatorio Jan.pdf", out.Data[0].Name)
	require.Len(t, out.Data[0].Clients, 1)
	assert.Equal(t, "ACME LTDA", out.Data[0].Clients[0].Name)
	require.NotNil(t, out.Summary)
	assert.Equal(t, 1, out.Summary.Entries)
	assert.Empty(t, out.Warning)
	assert.Empty(t, out.RawText, "raw text only in debug mode")
}

func TestParseEndpointExtractionFailure(t *testing.T) {
	app := setupTestApp(&stubExtractor{err: errors.New("PDF text extraction failed: bad xref")})

	req := multipartRequest(t, "/api/parse-titulos", nil, "broken.pdf", []byte("garbage"))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	out := decode(t, resp)
	assert.Equal(t, "PDF extraction failed", out.Error)
	assert.Contains(t, out.Details, "bad xref")
}

func TestParseEndpointExtractedText(t *testing.T) {
	app := setupTestApp(nil)

	text := "cover page" + PageBreak + report
	req := multipartRequest(t, "/api/parse-titulos", []formField{
		{"extractedText", text},
		{"debug", "true"},
	}, "", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	out := decode(t, resp)
	require.Len(t, out.Data, 1)
	assert.Equal(t, "upload.pdf", out.Data[0].Name)
	require.Len(t, out.Data[0].Clients, 1)
	assert.Equal(t, []int{2}, out.Data[0].Clients[0].PageNumbers)
	assert.Equal(t, text, out.RawText)
	assert.Len(t, out.DebugLines, 4)
}

func TestParseEndpointWarnsOnForeignText(t *testing.T) {
	app := setupTestApp(nil)

	req := multipartRequest(t, "/api/parse-titulos", []formField{
		{"extractedText", "Metro Bank\nAccount Statement"},
	}, "", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	out := decode(t, resp)
	assert.True(t, out.Success)
	assert.NotEmpty(t, out.Warning)
	assert.Empty(t, out.Data[0].Clients)
}

func TestParseEndpointCSV(t *testing.T) {
	app := setupTestApp(nil)

	req := multipartRequest(t, "/api/parse-titulos?format=csv", []formField{
		{"extractedText", report},
	}, "", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "upload.csv")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "pdf,page,line,client_code"))
	assert.True(t, strings.HasPrefix(lines[1], "upload.pdf,1,2,123,ACME LTDA,"))
}

func TestParseEndpointXLSX(t *testing.T) {
	app := setupTestApp(nil)

	req := multipartRequest(t, "/api/parse-titulos", []formField{
		{"extractedText", report},
		{"format", "xlsx"},
	}, "", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	f, err := excelize.OpenReader(resp.Body)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Titulos")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestBodyLimit(t *testing.T) {
	app := setupTestApp(nil)
	assert.Equal(t, 1<<20, app.Config().BodyLimit)
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		status  int
		message string
	}{
		{"body too large", "/too-large", fiber.StatusRequestEntityTooLarge, "File too large"},
		{"recovered panic", "/panic", fiber.StatusInternalServerError, "Internal server error"},
		{"unknown route", "/nope", fiber.StatusNotFound, "Not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := setupTestApp(nil)
			app.Get("/too-large", func(c *fiber.Ctx) error {
				return fiber.ErrRequestEntityTooLarge
			})
			app.Get("/panic", func(c *fiber.Ctx) error {
				panic("boom")
			})

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			out := decode(t, resp)
			assert.False(t, out.Success)
			assert.Equal(t, tt.message, out.Error)
			assert.NotEmpty(t, out.Details)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	app := setupTestApp(nil)

	parse := multipartRequest(t, "/api/parse-titulos", []formField{{"extractedText", report}}, "", nil)
	_, err := app.Test(parse)
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `titulos_documents_parsed_total{outcome="ok"} 1`)
	assert.Contains(t, string(body), "titulos_entries_extracted_total 1")
}
