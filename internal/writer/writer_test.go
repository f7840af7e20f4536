package writer

import (
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/titulos-converter/internal/models"
)

func sampleDocs() []models.Document {
	return []models.Document{
		{
			Name: "relatorio.pdf",
			Clients: []models.Client{
				{
					Code: "123",
					Name: "CONSTRUÇÃO & CIA",
					Entries: []models.Entry{
						{
							DueDate: "01/01/2024", IssueDate: "01/01/2023", InvoiceNumber: "004567",
							BillingType: "BD - BANCO BRADESCO", PaymentCondition: "02 DIAS",
							Amount: "1.234,56", AmountPaid: "0,00", AmountPending: "1.234,56", DaysOverdue: 30,
							AmountDecimal:        decimal.RequireFromString("1234.56"),
							AmountPaidDecimal:    decimal.Zero,
							AmountPendingDecimal: decimal.RequireFromString("1234.56"),
							Page:                 1, Line: 5,
						},
						{
							DueDate: "10/01/2024", IssueDate: "10/12/2023", InvoiceNumber: "4568",
							BillingType: "PX - PIX", PaymentCondition: "A VISTA",
							Amount: "100,00", AmountPaid: "40,50", AmountPending: "59,50", DaysOverdue: 21,
							AmountDecimal:        decimal.RequireFromString("100"),
							AmountPaidDecimal:    decimal.RequireFromString("40.5"),
							AmountPendingDecimal: decimal.RequireFromString("59.5"),
							Page:                 2, Line: 1,
						},
					},
					Totals:      &models.Totals{Amount: "1.334,56", AmountPaid: "40,50", AmountPending: "1.294,06"},
					PageNumbers: []int{1, 2},
				},
			},
		},
		{Name: "vazio.pdf", Clients: []models.Client{}},
	}
}
