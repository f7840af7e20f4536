package writer

import (
	"github.com/insightdelivered/titulos-converter/internal/models"
)

// Flatten returns one row per entry, in document, client and entry order.
func Flatten(docs []models.Document) []models.FlatRow {
	rows := make([]models.FlatRow, 0)
	for _, doc := range docs {
		for _, client := range doc.Clients {
			for _, e := range client.Entries {
				rows = append(rows, models.FlatRow{
					PDF:                  doc.Name,
					Page:                 e.Page,
					Line:                 e.Line,
					ClientCode:           client.Code,
					ClientName:           client.Name,
					DueDate:              e.DueDate,
					IssueDate:            e.IssueDate,
					InvoiceNumber:        e.InvoiceNumber,
					BillingType:          e.BillingType,
					PaymentCondition:     e.PaymentCondition,
					Amount:               e.Amount,
					AmountPaid:           e.AmountPaid,
					AmountPending:        e.AmountPending,
					DaysOverdue:          e.DaysOverdue,
					AmountDecimal:        e.AmountDecimal.StringFixed(2),
					AmountPaidDecimal:    e.AmountPaidDecimal.StringFixed(2),
					AmountPendingDecimal: e.AmountPendingDecimal.StringFixed(2),
				})
			}
		}
	}
	return rows
}
