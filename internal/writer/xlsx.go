package writer

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/insightdelivered/titulos-converter/internal/models"
)

const (
	entriesSheet = "Titulos"
	clientsSheet = "Clientes"
)

var entryColumns = []string{
	"pdf", "page", "line", "client_code", "client_name",
	"data_vencimento", "data_emissao", "numero_nf", "tipo_cobranca", "condicao_pagamento",
	"valor", "valor_pago", "valor_pendente", "dias_vencidos",
	"valor_decimal", "valor_pago_decimal", "valor_pendente_decimal",
}

var clientColumns = []string{
	"pdf", "client_code", "client_name", "entries", "page_numbers",
	"total_valor", "total_valor_pago", "total_valor_pendente",
	"soma_valor", "soma_valor_pago", "soma_valor_pendente",
}

// WriteXLSX writes a workbook with one row per entry on the Titulos sheet
// and one row per client block on the Clientes sheet. Decimal columns are
// numeric cells; the report's own text is kept alongside.
func WriteXLSX(out io.Writer, docs []models.Document) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), entriesSheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", entriesSheet, err)
	}
	if _, err := f.NewSheet(clientsSheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", clientsSheet, err)
	}

	if err := writeRow(f, entriesSheet, 1, toCells(entryColumns)); err != nil {
		return err
	}
	rowIdx := 2
	for _, doc := range docs {
		for _, client := range doc.Clients {
			for _, e := range client.Entries {
				row := []interface{}{
					doc.Name, e.Page, e.Line, client.Code, client.Name,
					e.DueDate, e.IssueDate, e.InvoiceNumber, e.BillingType, e.PaymentCondition,
					e.Amount, e.AmountPaid, e.AmountPending, e.DaysOverdue,
					e.AmountDecimal.InexactFloat64(),
					e.AmountPaidDecimal.InexactFloat64(),
					e.AmountPendingDecimal.InexactFloat64(),
				}
				if err := writeRow(f, entriesSheet, rowIdx, row); err != nil {
					return err
				}
				rowIdx++
			}
		}
	}

	if err := writeRow(f, clientsSheet, 1, toCells(clientColumns)); err != nil {
		return err
	}
	rowIdx = 2
	for _, doc := range docs {
		for _, client := range doc.Clients {
			var amount, paid, pending decimal.Decimal
			for _, e := range client.Entries {
				amount = amount.Add(e.AmountDecimal)
				paid = paid.Add(e.AmountPaidDecimal)
				pending = pending.Add(e.AmountPendingDecimal)
			}
			var totals models.Totals
			if client.Totals != nil {
				totals = *client.Totals
			}
			row := []interface{}{
				doc.Name, client.Code, client.Name, len(client.Entries), joinPages(client.PageNumbers),
				totals.Amount, totals.AmountPaid, totals.AmountPending,
				amount.InexactFloat64(), paid.InexactFloat64(), pending.InexactFloat64(),
			}
			if err := writeRow(f, clientsSheet, rowIdx, row); err != nil {
				return err
			}
			rowIdx++
		}
	}

	if err := f.Write(out); err != nil {
		return fmt.Errorf("failed to write XLSX: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func toCells(header []string) []interface{} {
	cells := make([]interface{}, len(header))
	for i, h := range header {
		cells[i] = h
	}
	return cells
}

func joinPages(pages []int) string {
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = fmt.Sprint(p)
	}
	return strings.Join(parts, ",")
}
