package transaction

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawRecord is one input row as read from the source, before any coercion.
// Index is the 0-based position of the row in the input and is used as the
// deterministic tie-breaker when ordering a card's history.
type RawRecord struct {
	Index           int    `json:"index" bson:"index"`
	TransactionID   string `json:"transaction_id" bson:"transaction_id"`
	CardID          string `json:"card_id" bson:"card_id"`
	Amount          string `json:"amount" bson:"amount"`
	TransactionTime string `json:"transaction_time" bson:"transaction_time"`
	City            string `json:"city" bson:"city"`
}

// Transaction is a normalized record. Missing or unparseable fields are nil
// (or an invalid NullDecimal) rather than zero values.
type Transaction struct {
	Index           int                 `json:"-"`
	TransactionID   string              `json:"transaction_id"`
	CardID          string              `json:"card_id"`
	Amount          decimal.NullDecimal `json:"amount"`
	TransactionTime *time.Time          `json:"transaction_time,omitempty"`
	City            *string             `json:"city,omitempty"`
}

// HasAmount reports whether the amount survived normalization
func (t Transaction) HasAmount() bool {
	return t.Amount.Valid
}

// HasTime reports whether the transaction time survived normalization
func (t Transaction) HasTime() bool {
	return t.TransactionTime != nil
}

// HasCity reports whether a city is present
func (t Transaction) HasCity() bool {
	return t.City != nil
}
