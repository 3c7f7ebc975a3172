package scoring

import (
	"strings"
	"time"

	"github.com/fraud-risk-scorer/internal/domain/transaction"
	"github.com/shopspring/decimal"
)

// missingTokens are cell values that read as "no value"
var missingTokens = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"n/a":  {},
	"NaN":  {},
	"nan":  {},
	"-NaN": {},
	"-nan": {},
	"null": {},
	"NULL": {},
	"None": {},
	"<NA>": {},
	"#N/A": {},
	"NaT":  {},
}

// timeLayouts are tried in order; the first successful parse wins
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05Z0700",
	"2006-01-02 15:04:05Z07",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
	"2006/01/02 15:04:05",
	"2006/01/02",
}

// IsMissing reports whether a raw cell holds no usable value
func IsMissing(value string) bool {
	_, ok := missingTokens[strings.TrimSpace(value)]
	return ok
}

// Normalize coerces a raw record into a Transaction. Values that cannot be
// parsed become missing; it never fails and never changes the record identity.
func Normalize(raw transaction.RawRecord) transaction.Transaction {
	return transaction.Transaction{
		Index:           raw.Index,
		TransactionID:   strings.TrimSpace(raw.TransactionID),
		CardID:          strings.TrimSpace(raw.CardID),
		Amount:          ParseAmount(raw.Amount),
		TransactionTime: ParseTime(raw.TransactionTime),
		City:            ParseCity(raw.City),
	}
}

// NormalizeAll normalizes a batch, preserving its length and order
func NormalizeAll(raws []transaction.RawRecord) []transaction.Transaction {
	out := make([]transaction.Transaction, len(raws))
	for i, raw := range raws {
		out[i] = Normalize(raw)
	}
	return out
}

// ParseAmount returns an invalid NullDecimal for missing or non-numeric
// input. Infinite amounts have no decimal form and are missing as well.
func ParseAmount(value string) decimal.NullDecimal {
	value = strings.TrimSpace(value)
	if IsMissing(value) || isInfinite(value) {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

func isInfinite(value string) bool {
	switch strings.ToLower(strings.TrimLeft(value, "+-")) {
	case "inf", "infinity":
		return true
	}
	return false
}

// ParseTime returns nil for missing or unparseable input. Values without a
// zone are read as UTC; values with an offset keep it.
func ParseTime(value string) *time.Time {
	value = strings.TrimSpace(value)
	if IsMissing(value) {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return &t
		}
	}
	return nil
}

// ParseCity returns nil for a missing city
func ParseCity(value string) *string {
	value = strings.TrimSpace(value)
	if IsMissing(value) {
		return nil
	}
	return &value
}
