package parser

import "strings"

// paymentTypes maps billing-type codes found on the report to full names.
var paymentTypes = map[string]string{
	// Banks
	"BD": "BANCO BRADESCO",
	"SF": "BANCO SAFRA",
	"DV": "BANCO DAYCOVAL",
	"BB": "BANCO DO BRASIL",
	"IT": "BANCO ITAU",
	"CE": "BANCO CEF",
	"CX": "BANCO CAIXA",
	"NU": "BANCO NUBANK",
	"IN": "BANCO INTER",
	"OR": "BANCO ORIGINAL",
	"PA": "BANCO PAN",
	"BT": "BANCO BTG",
	"XP": "BANCO XP",

	// Payment methods
	"DB":  "DEPOSITO BANCARIO",
	"PX":  "PIX",
	"CH":  "CHEQUE",
	"TR":  "TRANSFERENCIA",
	"BO":  "BOLETO",
	"CC":  "CARTAO DE CREDITO",
	"CD":  "CARTAO DE DEBITO",
	"TE":  "TED",
	"DOC": "DOCUMENTO DE ORDEM DE CREDITO",
}

// ExpandPaymentType returns the full name for a billing-type code such as
// "BD" or "px". Unknown codes are returned unchanged.
func ExpandPaymentType(code string) string {
	if code == "" {
		return ""
	}
	if name, ok := paymentTypes[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return name
	}
	return code
}
