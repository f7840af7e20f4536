package parser

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/titulos-converter/internal/models"
)

func TestClassify_Kinds(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected models.LineKind
	}{
		{"blank", "   ", models.LineBlank},
		{"client header", "Cliente: 123 - ACME LTDA", models.LineClient},
		{"client header tight", "Cliente:123-ACME", models.LineClient},
		{"table header", "Dt.Vencto. Dt.Emissao Nr.NF Tipo Cobranca Valor Vl.Pago Vl.Pendente Dias", models.LineBanner},
		{"section banner", "Financeiro - Titulos Vencidos", models.LineBanner},
		{"report total", "Total por Empresa 10.000,00 0,00 10.000,00", models.LineBanner},
		{"subtotal", "Total por Cliente 1.234,56 0,00 1.234,56", models.LineSubtotal},
		{"subtotal with two amounts", "Total por Cliente 1.234,56 0,00", models.LineBanner},
		{"entry", "01/01/2024 01/01/2023 4567 BD - 02 DIAS 1.234,56 0,00 1.234,56 30", models.LineEntry},
		{"page footer", "Pagina 1 de 3", models.LineUnrecognized},
		{"entry missing days", "01/01/2024 01/01/2023 4567 BD - 02 DIAS 1.234,56 0,00 1.234,56", models.LineUnrecognized},
		{"entry without dash", "01/01/2024 01/01/2023 4567 BD 02 DIAS 1.234,56 0,00 1.234,56 30", models.LineUnrecognized},
		{"client without code", "Cliente: ACME LTDA", models.LineUnrecognized},
		{"days overflow", "01/01/2024 01/01/2023 4567 BD - X 1,00 0,00 1,00 99999999999999999999999", models.LineMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.line).Kind)
		})
	}
}

func TestClassify_ClientHeader(t *testing.T) {
	ev := Classify("Cliente: 000123 -  ACME COMERCIO LTDA  ")
	require.Equal(t, models.LineClient, ev.Kind)
	assert.Equal(t, "000123", ev.ClientCode)
	assert.Equal(t, "ACME COMERCIO LTDA", ev.ClientName)
}

func TestClassify_Subtotal(t *testing.T) {
	ev := Classify("Total por Cliente 12.500,00 2.500,00 10.000,00")
	require.Equal(t, models.LineSubtotal, ev.Kind)
	require.NotNil(t, ev.Totals)
	assert.Equal(t, models.Totals{
		Amount:        "12.500,00",
		AmountPaid:    "2.500,00",
		AmountPending: "10.000,00",
	}, *ev.Totals)
}

func TestClassify_Entry(t *testing.T) {
	tests := []struct {
		name        string
		line        string
		billingType string
		condition   string
		invoice     string
		amount      string
		pending     string
		days        int
	}{
		{
			name:        "expanded code with days",
			line:        "01/01/2024 01/01/2023 4567 BD - 02 DIAS 1.234,56 0,00 1.234,56 30",
			billingType: "BD - BANCO BRADESCO",
			condition:   "02 DIAS",
			invoice:     "4567",
			amount:      "1234.56",
			pending:     "1234.56",
			days:        30,
		},
		{
			name:        "bank description and installments",
			line:        "15/03/2024 15/02/2024 000981 SF - SAFRA AGENCIA 30/60 500,00 100,00 400,00 12",
			billingType: "SF - SAFRA AGENCIA",
			condition:   "30/60",
			invoice:     "000981",
			amount:      "500.00",
			pending:     "400.00",
			days:        12,
		},
		{
			name:        "a vista",
			line:        "10/05/2024 10/05/2024 77 PX - A VISTA 89,90 0,00 89,90 0",
			billingType: "PX - PIX",
			condition:   "A VISTA",
			invoice:     "77",
			amount:      "89.90",
			pending:     "89.90",
			days:        0,
		},
		{
			name:        "unknown code with description only",
			line:        "02/02/2024 02/01/2024 5 ZZ - COOPERATIVA CENTRAL 2.000,00 0,00 2.000,00 45",
			billingType: "ZZ - COOPERATIVA CENTRAL",
			condition:   "",
			invoice:     "5",
			amount:      "2000.00",
			pending:     "2000.00",
			days:        45,
		},
		{
			name:        "lower case code",
			line:        "02/02/2024 02/01/2024 6 it - 10 DIAS 1,00 0,00 1,00 3",
			billingType: "IT - BANCO ITAU",
			condition:   "10 DIAS",
			invoice:     "6",
			amount:      "1.00",
			pending:     "1.00",
			days:        3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := Classify(tt.line)
			require.Equal(t, models.LineEntry, ev.Kind, "err: %v", ev.Err)
			e := ev.Entry
			require.NotNil(t, e)

			assert.Equal(t, tt.billingType, e.BillingType)
			assert.Equal(t, tt.condition, e.PaymentCondition)
			assert.Equal(t, tt.invoice, e.InvoiceNumber)
			assert.Equal(t, tt.amount, e.AmountDecimal.StringFixed(2))
			assert.Equal(t, tt.pending, e.AmountPendingDecimal.StringFixed(2))
			assert.Equal(t, tt.days, e.DaysOverdue)
		})
	}
}

func TestClassify_EntryKeepsRawAmounts(t *testing.T) {
	ev := Classify("01/01/2024 01/01/2023 4567 BD - 02 DIAS 1.234,56 0,00 1.234,56 30")
	require.Equal(t, models.LineEntry, ev.Kind)

	assert.Equal(t, "01/01/2024", ev.Entry.DueDate)
	assert.Equal(t, "01/01/2023", ev.Entry.IssueDate)
	assert.Equal(t, "1.234,56", ev.Entry.Amount)
	assert.Equal(t, "0,00", ev.Entry.AmountPaid)
	assert.Equal(t, "0.00", ev.Entry.AmountPaidDecimal.StringFixed(2))
}

func TestClassify_DaysOverdueOverflow(t *testing.T) {
	ev := Classify("01/01/2024 01/01/2023 4567 BD - 02 DIAS 1.234,56 0,00 1.234,56 99999999999999999999999")
	require.Equal(t, models.LineMalformed, ev.Kind)
	assert.ErrorIs(t, ev.Err, strconv.ErrRange)
	assert.ErrorContains(t, ev.Err, "days overdue")
}

func TestClassify_MalformedCarriesError(t *testing.T) {
	ev := Classify("01/01/2024 01/01/2023 4567 BD - X 1,00 0,00 1,00 99999999999999999999999")
	require.Equal(t, models.LineMalformed, ev.Kind)
	assert.Error(t, ev.Err)
	assert.Nil(t, ev.Entry)
}
