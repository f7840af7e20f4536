package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/insightdelivered/titulos-converter/internal/models"
)

// Report line grammars.
//
// Client header:  "Cliente: 123 - ACME LTDA"
// Subtotal:       "Total por Cliente 1.234,56 0,00 1.234,56"
// Entry:          "01/01/2024 01/01/2023 4567 BD - 02 DIAS 1.234,56 0,00 1.234,56 30"
var (
	clientPattern = regexp.MustCompile(`^Cliente:\s*(?P<code>\d+)\s*-\s*(?P<name>.+)$`)

	subtotalPattern = regexp.MustCompile(
		`^Total por Cliente\s+` +
			`(?P<valor>` + amountPattern + `)\s+` +
			`(?P<pago>` + amountPattern + `)\s+` +
			`(?P<pendente>` + amountPattern + `)\s*$`,
	)

	entryPattern = regexp.MustCompile(
		`^(?P<vencto>\d{2}/\d{2}/\d{4})\s+` +
			`(?P<emissao>\d{2}/\d{2}/\d{4})\s+` +
			`(?P<nf>\d+)\s+` +
			`(?P<tipo>\S+)\s*-\s+` +
			`(?P<cond>.+?)\s+` +
			`(?P<valor>` + amountPattern + `)\s+` +
			`(?P<pago>` + amountPattern + `)\s+` +
			`(?P<pendente>` + amountPattern + `)\s+` +
			`(?P<dias>\d+)\s*$`,
	)
)

// Line prefixes that carry no data.
const (
	tableHeaderPrefix = "Dt.Vencto."
	totalPrefix       = "Total por"
	sectionPrefix     = "Financeiro"
)

// Event is the classification of one trimmed report line.
type Event struct {
	Kind models.LineKind

	ClientCode string // LineClient
	ClientName string // LineClient

	Totals *models.Totals // LineSubtotal
	Entry  *models.Entry  // LineEntry, Page and Line left for the caller

	Err error // LineMalformed
}

// Classify decides what a single line of report text is. It holds no state:
// whether an entry or subtotal can be used depends on the Aggregator.
func Classify(line string) Event {
	line = strings.TrimSpace(line)
	if line == "" {
		return Event{Kind: models.LineBlank}
	}

	if m := clientPattern.FindStringSubmatch(line); m != nil {
		return Event{
			Kind:       models.LineClient,
			ClientCode: m[clientPattern.SubexpIndex("code")],
			ClientName: strings.TrimSpace(m[clientPattern.SubexpIndex("name")]),
		}
	}

	if strings.HasPrefix(line, tableHeaderPrefix) {
		return Event{Kind: models.LineBanner}
	}

	if strings.HasPrefix(line, totalPrefix) {
		m := subtotalPattern.FindStringSubmatch(line)
		if m == nil {
			// Other "Total por ..." lines (report or page totals) are banners.
			return Event{Kind: models.LineBanner}
		}
		return Event{
			Kind: models.LineSubtotal,
			Totals: &models.Totals{
				Amount:        m[subtotalPattern.SubexpIndex("valor")],
				AmountPaid:    m[subtotalPattern.SubexpIndex("pago")],
				AmountPending: m[subtotalPattern.SubexpIndex("pendente")],
			},
		}
	}

	if strings.HasPrefix(line, sectionPrefix) {
		return Event{Kind: models.LineBanner}
	}

	m := entryPattern.FindStringSubmatch(line)
	if m == nil {
		return Event{Kind: models.LineUnrecognized}
	}

	entry, err := buildEntry(m)
	if err != nil {
		return Event{Kind: models.LineMalformed, Err: err}
	}
	return Event{Kind: models.LineEntry, Entry: entry}
}

func buildEntry(m []string) (*models.Entry, error) {
	group := func(name string) string {
		return m[entryPattern.SubexpIndex(name)]
	}

	days, err := strconv.Atoi(group("dias"))
	if err != nil {
		return nil, fmt.Errorf("days overdue %q: %w", group("dias"), err)
	}

	e := &models.Entry{
		DueDate:       group("vencto"),
		IssueDate:     group("emissao"),
		InvoiceNumber: group("nf"),
		Amount:        group("valor"),
		AmountPaid:    group("pago"),
		AmountPending: group("pendente"),
		DaysOverdue:   days,
	}

	if e.AmountDecimal, err = ParseAmount(e.Amount); err != nil {
		return nil, err
	}
	if e.AmountPaidDecimal, err = ParseAmount(e.AmountPaid); err != nil {
		return nil, err
	}
	if e.AmountPendingDecimal, err = ParseAmount(e.AmountPending); err != nil {
		return nil, err
	}

	description, condition := SplitCondition(group("cond"))
	e.BillingType = BillingType(group("tipo"), description)
	e.PaymentCondition = condition

	return e, nil
}
