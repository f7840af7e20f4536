package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/titulos-converter/internal/models"
	"github.com/insightdelivered/titulos-converter/internal/parser"
)

var (
	// titleStyle for the summary heading
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("33"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("33")).
			Padding(0, 1)
)

type batchSummary struct {
	Documents int
	Failed    []string
	Clients   int
	Entries   int
	Pending   decimal.Decimal
}

func summarize(docs []models.Document) batchSummary {
	var s batchSummary
	s.Documents = len(docs)
	for _, doc := range docs {
		if doc.Error != "" {
			s.Failed = append(s.Failed, fmt.Sprintf("%s: %s", doc.Name, doc.Error))
		}
		s.Clients += len(doc.Clients)
		for _, c := range doc.Clients {
			s.Entries += len(c.Entries)
			for _, e := range c.Entries {
				s.Pending = s.Pending.Add(e.AmountPendingDecimal)
			}
		}
	}
	return s
}

func printSummary(w io.Writer, docs []models.Document) {
	s := summarize(docs)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Titulos vencidos"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %d\n", dimStyle.Render("Documents:"), s.Documents)
	fmt.Fprintf(&b, "%s %d\n", dimStyle.Render("Clients:  "), s.Clients)
	fmt.Fprintf(&b, "%s %d\n", dimStyle.Render("Entries:  "), s.Entries)
	fmt.Fprintf(&b, "%s %s", dimStyle.Render("Pending:  "), parser.FormatAmount(s.Pending))

	if len(s.Failed) == 0 {
		b.WriteString("\n" + successStyle.Render("all documents parsed"))
	}
	for _, f := range s.Failed {
		b.WriteString("\n" + errorStyle.Render("failed "+f))
	}

	fmt.Fprintln(w, boxStyle.Render(b.String()))
}
