package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrMalformedAmount is matched by every error ParseAmount returns.
var ErrMalformedAmount = errors.New("malformed amount")

// AmountError reports an amount that does not follow the 1.234,56 convention.
type AmountError struct {
	Input  string
	Reason string
}

func (e *AmountError) Error() string {
	return fmt.Sprintf("malformed amount %q: %s", e.Input, e.Reason)
}

func (e *AmountError) Is(target error) bool {
	return target == ErrMalformedAmount
}

// amountPattern is one Brazilian-formatted amount: "1.234,56", "0,00".
// Leading zeros in the first group ("001,00") are accepted as printed, so
// those amounts format back without them.
const amountPattern = `\d{1,3}(?:\.\d{3})*,\d{2}`

var amountExact = regexp.MustCompile(`^` + amountPattern + `$`)

// ParseAmount converts "1.234,56" into the exact decimal 1234.56.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if !amountExact.MatchString(s) {
		reason := "expected digit groups separated by '.' and two decimals after ','"
		if !strings.Contains(s, ",") {
			reason = "missing ',' decimal separator"
		} else if frac := s[strings.LastIndex(s, ",")+1:]; len(frac) != 2 {
			reason = fmt.Sprintf("want 2 fractional digits, got %d", len(frac))
		}
		return decimal.Zero, &AmountError{Input: s, Reason: reason}
	}

	normalized := strings.ReplaceAll(s, ".", "")
	normalized = strings.Replace(normalized, ",", ".", 1)

	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, &AmountError{Input: s, Reason: err.Error()}
	}
	return d, nil
}

// FormatAmount renders d with '.' thousands and ',' decimals, two places.
func FormatAmount(d decimal.Decimal) string {
	fixed := d.StringFixed(2)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}

	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	b.WriteString(sign)
	lead := len(intPart) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(intPart[:lead])
	for i := lead; i < len(intPart); i += 3 {
		b.WriteByte('.')
		b.WriteString(intPart[i : i+3])
	}
	b.WriteByte(',')
	b.WriteString(frac)
	return b.String()
}
