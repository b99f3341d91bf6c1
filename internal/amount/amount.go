package amount

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/nullnotice/internal/model"
)

// ErrInvalidPayment is returned when an already-filtered payment fails to parse.
var ErrInvalidPayment = errors.New("invalid payment amount")

// ErrOutOfRange is returned for amounts whose exponent exceeds maxExponent.
var ErrOutOfRange = errors.New("amount out of range")

// maxExponent bounds the decimal exponent; larger ones make sums rescale to huge bignums.
const maxExponent = 64

// normalize strips thousands separators and surrounding whitespace.
func normalize(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
}

// Parse reads s as a decimal. Commas are thousands separators only.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(normalize(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	if exp := d.Exponent(); exp > maxExponent || exp < -maxExponent {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, ErrOutOfRange)
	}
	return d, nil
}

// IsValid reports whether s parses as an amount.
func IsValid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// Payments returns the fields from index 2 on that are valid amounts, in order.
func Payments(rec model.ProviderRecord) []string {
	var out []string
	for i := model.ColFirstPayment; i < len(rec.Fields); i++ {
		if IsValid(rec.Fields[i]) {
			out = append(out, rec.Fields[i])
		}
	}
	return out
}

// SumPayments totals a filtered payment list.
func SumPayments(payments []string) (decimal.Decimal, error) {
	total := decimal.Zero
	for i, p := range payments {
		d, err := Parse(p)
		if err != nil {
			return decimal.Zero, fmt.Errorf("payment %d: %w: %w", i, ErrInvalidPayment, err)
		}
		total = total.Add(d)
	}
	return total, nil
}

// SumAllValid totals every valid field at index 2 and beyond across all
// records that have at least model.MinFields fields.
func SumAllValid(recs []model.ProviderRecord) decimal.Decimal {
	total := decimal.Zero
	for _, rec := range recs {
		if rec.Malformed() {
			continue
		}
		for _, p := range Payments(rec) {
			d, err := Parse(p)
			if err != nil {
				continue
			}
			total = total.Add(d)
		}
	}
	return total
}

// Format renders d without currency symbol or forced decimal places.
func Format(d decimal.Decimal) string {
	return d.String()
}
