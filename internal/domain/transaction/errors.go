package transaction

import (
	"fmt"
	"strconv"
)

// Structural fields whose absence makes a record unscorable
const (
	FieldTransactionID = "transaction_id"
	FieldCardID        = "card_id"
)

// RejectionReason defines why a record was excluded from scoring
type RejectionReason string

const (
	RejectionReasonMissingCardID        RejectionReason = "MISSING_CARD_ID"
	RejectionReasonMissingTransactionID RejectionReason = "MISSING_TRANSACTION_ID"
)

// ErrMalformedRecord indicates a record that cannot be placed in a card
// partition or has no identity
type ErrMalformedRecord struct {
	Index int
	Field string
}

func (e ErrMalformedRecord) Error() string {
	return fmt.Sprintf("malformed record at index %d: missing %s", e.Index, e.Field)
}

// Is matches any ErrMalformedRecord when the target has a negative Index,
// otherwise matches on Index and Field
func (e ErrMalformedRecord) Is(target error) bool {
	t, ok := target.(ErrMalformedRecord)
	if !ok {
		return false
	}
	if t.Index < 0 {
		return true
	}
	return e.Index == t.Index && e.Field == t.Field
}

// Reason maps the missing field to a rejection reason
func (e ErrMalformedRecord) Reason() RejectionReason {
	if e.Field == FieldTransactionID {
		return RejectionReasonMissingTransactionID
	}
	return RejectionReasonMissingCardID
}

// RejectedRecord pairs a raw input row with the error that rejected it
type RejectedRecord struct {
	Record RawRecord
	Err    ErrMalformedRecord
}

// ErrScoredTransactionNotFound indicates a missing scored transaction
type ErrScoredTransactionNotFound struct {
	TransactionID string
}

func (e ErrScoredTransactionNotFound) Error() string {
	return "scored transaction not found: " + strconv.Quote(e.TransactionID)
}

// Is implements the errors.Is interface for ErrScoredTransactionNotFound
func (e ErrScoredTransactionNotFound) Is(target error) bool {
	t, ok := target.(ErrScoredTransactionNotFound)
	if !ok {
		return false
	}
	if t.TransactionID == "" {
		return true
	}
	return e.TransactionID == t.TransactionID
}
