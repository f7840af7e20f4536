package parser

import (
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/insightdelivered/titulos-converter/internal/models"
)

// ErrNotTitulosReport means the text has none of the markers of an overdue
// titles report.
var ErrNotTitulosReport = errors.New("text does not look like an overdue titles report (no \"Cliente:\" header or \"Dt.Vencto.\" table header)")

// Parser turns the page texts of one report into a Document.
type Parser struct {
	// Debug records a DebugLine for every non-blank line.
	Debug  bool
	Logger *zap.Logger
}

// New returns a Parser logging to logger, or discarding logs when nil.
func New(logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{Logger: logger}
}

// Parse runs every line of every page, in order, through the classifier and
// the client aggregator. pages[i] is page i+1; an empty page yields nothing.
// Lines that match no grammar are skipped.
func (p *Parser) Parse(name string, pages []string) *models.Document {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("document", name))

	doc := &models.Document{
		Name: name,
		Stats: models.ParseStats{
			Pages: len(pages),
			Lines: make(map[models.LineKind]int),
		},
	}

	var agg Aggregator
	for i, text := range pages {
		pageNum := i + 1
		if strings.TrimSpace(text) == "" {
			continue
		}

		for j, raw := range splitLines(text) {
			lineNum := j + 1
			line := normalizeLine(raw)
			if line == "" {
				continue
			}

			ev := Classify(line)
			kind := ev.Kind
			var detail string

			switch ev.Kind {
			case models.LineClient:
				agg.StartClient(ev.ClientCode, ev.ClientName)
				detail = ev.ClientCode

			case models.LineSubtotal:
				if !agg.SetTotals(*ev.Totals) {
					kind = models.LineOrphan
				}

			case models.LineEntry:
				ev.Entry.Page = pageNum
				ev.Entry.Line = lineNum
				if agg.AddEntry(*ev.Entry) {
					doc.Stats.Entries++
					detail = ev.Entry.BillingType
				} else {
					kind = models.LineOrphan
				}

			case models.LineMalformed:
				detail = ev.Err.Error()
				logger.Warn("dropping malformed entry line",
					zap.Int("page", pageNum),
					zap.Int("line", lineNum),
					zap.Error(ev.Err),
				)
			}

			doc.Stats.Lines[kind]++
			if p.Debug {
				doc.DebugLines = append(doc.DebugLines, models.DebugLine{
					Page:    pageNum,
					LineNum: lineNum,
					Text:    line,
					Result:  kind,
					Detail:  detail,
				})
			}
		}
	}

	doc.Clients = agg.Finish()
	doc.Stats.ClientsEmitted = len(doc.Clients)
	doc.Stats.ClientsDiscarded = agg.Discarded()

	logger.Debug("document parsed",
		zap.Int("pages", doc.Stats.Pages),
		zap.Int("clients", doc.Stats.ClientsEmitted),
		zap.Int("discarded_clients", doc.Stats.ClientsDiscarded),
		zap.Int("entries", doc.Stats.Entries),
		zap.Int("skipped_lines", doc.Stats.Lines[models.LineUnrecognized]),
	)
	return doc
}

// Detect checks whether the pages look like an overdue titles report.
func Detect(pages []string) error {
	for _, page := range pages {
		for _, raw := range splitLines(page) {
			line := normalizeLine(raw)
			if clientPattern.MatchString(line) || strings.HasPrefix(line, tableHeaderPrefix) {
				return nil
			}
		}
	}
	return ErrNotTitulosReport
}
