package model

import (
	"github.com/shopspring/decimal"
)

// Positional layout of a provider record.
const (
	ColCaseCode     = 0
	ColCompany      = 1
	ColFirstPayment = 2
	ColRecipient    = 8

	// MinFields is the smallest record that takes part in aggregation.
	MinFields = 8
	// MinLetterFields is the smallest record that carries a recipient.
	MinLetterFields = ColRecipient + 1
)

// ProviderRecord is one tab-delimited line of the nullity file.
type ProviderRecord struct {
	Line   int // 1-based line number in the source file
	Fields []string
}

// Malformed reports whether the record is too short to aggregate.
func (r ProviderRecord) Malformed() bool {
	return len(r.Fields) < MinFields
}

// HasRecipient reports whether field[8] is present.
func (r ProviderRecord) HasRecipient() bool {
	return len(r.Fields) >= MinLetterFields
}

// Field returns field i, or "" when the record is shorter.
func (r ProviderRecord) Field(i int) string {
	if i < 0 || i >= len(r.Fields) {
		return ""
	}
	return r.Fields[i]
}

// CaseCode returns field[0].
func (r ProviderRecord) CaseCode() string { return r.Field(ColCaseCode) }

// Company returns field[1].
func (r ProviderRecord) Company() string { return r.Field(ColCompany) }

// Recipient returns field[8].
func (r ProviderRecord) Recipient() string { return r.Field(ColRecipient) }

// Case is the per-record view used to render a letter.
type Case struct {
	Line      int
	Code      string
	Company   string
	Recipient string
	Payments  []string // original text, source order
	Total     decimal.Decimal
}
