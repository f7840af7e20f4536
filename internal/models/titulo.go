package models

import "github.com/shopspring/decimal"

// Entry is a single overdue billing line ("titulo vencido") of a client block.
type Entry struct {
	DueDate          string `json:"data_vencimento"`
	IssueDate        string `json:"data_emissao"`
	InvoiceNumber    string `json:"numero_nf"` // kept as text, leading zeros matter
	BillingType      string `json:"tipo_cobranca"`
	PaymentCondition string `json:"condicao_pagamento"`
	Amount           string `json:"valor"`
	AmountPaid       string `json:"valor_pago"`
	AmountPending    string `json:"valor_pendente"`
	DaysOverdue      int    `json:"dias_vencidos"`

	AmountDecimal        decimal.Decimal `json:"-"`
	AmountPaidDecimal    decimal.Decimal `json:"-"`
	AmountPendingDecimal decimal.Decimal `json:"-"`

	// Source position, diagnostics only.
	Page int `json:"-"`
	Line int `json:"-"`
}

// Totals is the "Total por Cliente" line as printed on the report.
type Totals struct {
	Amount        string `json:"valor"`
	AmountPaid    string `json:"valor_pago"`
	AmountPending string `json:"valor_pendente"`
}

// Client groups the entries that follow one "Cliente:" header.
type Client struct {
	Code        string  `json:"client_code"`
	Name        string  `json:"client_name"`
	Entries     []Entry `json:"entries"`
	Totals      *Totals `json:"totals"`
	PageNumbers []int   `json:"page_numbers"`
}

// Document is the parse result of one source PDF.
type Document struct {
	Name    string   `json:"pdf"`
	Clients []Client `json:"clients"`
	Error   string   `json:"error,omitempty"`

	DebugLines []DebugLine `json:"-"`
	Stats      ParseStats  `json:"-"`
}

// EntryCount returns the number of entries across all clients.
func (d *Document) EntryCount() int {
	n := 0
	for _, c := range d.Clients {
		n += len(c.Entries)
	}
	return n
}

// FlatRow is one entry denormalized with its document and client.
// Field order is the CSV column order.
type FlatRow struct {
	PDF                  string `csv:"pdf" json:"pdf"`
	Page                 int    `csv:"page" json:"page"`
	Line                 int    `csv:"line" json:"line"`
	ClientCode           string `csv:"client_code" json:"client_code"`
	ClientName           string `csv:"client_name" json:"client_name"`
	DueDate              string `csv:"data_vencimento" json:"data_vencimento"`
	IssueDate            string `csv:"data_emissao" json:"data_emissao"`
	InvoiceNumber        string `csv:"numero_nf" json:"numero_nf"`
	BillingType          string `csv:"tipo_cobranca" json:"tipo_cobranca"`
	PaymentCondition     string `csv:"condicao_pagamento" json:"condicao_pagamento"`
	Amount               string `csv:"valor" json:"valor"`
	AmountPaid           string `csv:"valor_pago" json:"valor_pago"`
	AmountPending        string `csv:"valor_pendente" json:"valor_pendente"`
	DaysOverdue          int    `csv:"dias_vencidos" json:"dias_vencidos"`
	AmountDecimal        string `csv:"valor_decimal" json:"valor_decimal"`
	AmountPaidDecimal    string `csv:"valor_pago_decimal" json:"valor_pago_decimal"`
	AmountPendingDecimal string `csv:"valor_pendente_decimal" json:"valor_pendente_decimal"`
}

// LineKind is the classification a report line received.
type LineKind string

const (
	LineBlank        LineKind = "blank"
	LineClient       LineKind = "client"
	LineBanner       LineKind = "banner"
	LineSubtotal     LineKind = "subtotal"
	LineEntry        LineKind = "entry"
	LineOrphan       LineKind = "orphan" // entry or subtotal with no open client
	LineMalformed    LineKind = "malformed"
	LineUnrecognized LineKind = "skipped"
)

// DebugLine captures what the parser did with each input line.
type DebugLine struct {
	Page    int      `json:"page"`
	LineNum int      `json:"lineNum"`
	Text    string   `json:"text"`
	Result  LineKind `json:"result"`
	Detail  string   `json:"detail,omitempty"`
}

// ParseStats counts what happened while parsing one document.
type ParseStats struct {
	Pages            int              `json:"pages"`
	Lines            map[LineKind]int `json:"lines"`
	ClientsEmitted   int              `json:"clientsEmitted"`
	ClientsDiscarded int              `json:"clientsDiscarded"`
	Entries          int              `json:"entries"`
}
