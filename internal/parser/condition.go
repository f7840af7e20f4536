package parser

import (
	"regexp"
	"strings"
)

var installmentToken = regexp.MustCompile(`^\d+/\d+$`)

// SplitCondition separates the free text that sits between the billing-type
// code and the amount columns into a bank description and a payment
// condition. The report prints both with no delimiter, so the condition is
// recognized by how the span ends:
//
//	"... 02 DIAS"  -> "02 DIAS"
//	"... A VISTA"  -> "A VISTA"
//	"... 30/60"    -> "30/60"
//
// Anything else is all description. This is a heuristic: a bank name that
// happens to end in one of those shapes is taken as a condition.
func SplitCondition(span string) (description, condition string) {
	tokens := strings.Fields(span)
	n := len(tokens)

	take := 0
	switch {
	case n >= 2 && strings.ToUpper(tokens[n-1]) == "DIAS":
		take = 2
	case n >= 2 && strings.ToUpper(tokens[n-2]) == "A" && strings.ToUpper(tokens[n-1]) == "VISTA":
		take = 2
	case n >= 1 && installmentToken.MatchString(tokens[n-1]):
		take = 1
	}

	if take == 0 {
		return strings.TrimSpace(span), ""
	}
	return strings.Join(tokens[:n-take], " "), strings.Join(tokens[n-take:], " ")
}

// BillingType builds the "CODE - DESCRIPTION" label of an entry. An empty
// description falls back to the expanded code; a description equal to the
// code collapses to the bare code.
func BillingType(code, description string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	desc := strings.TrimSpace(description)
	if desc == "" {
		desc = ExpandPaymentType(code)
	}
	if desc != "" && desc != code {
		return code + " - " + desc
	}
	return code
}
