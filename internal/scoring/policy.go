package scoring

import (
	"time"

	"github.com/shopspring/decimal"
)

// Policy holds the fixed thresholds the indicator rules and the aggregator use
type Policy struct {
	// HighAmountThreshold is exclusive: only amounts strictly above it fire
	HighAmountThreshold decimal.Decimal
	// LateNightStartHour and LateNightEndHour bound the late night window, both inclusive
	LateNightStartHour int
	LateNightEndHour   int
	RapidWindow        time.Duration
	CityChangeWindow   time.Duration
	// FlagThreshold is the minimum score that flags a transaction
	FlagThreshold int
}

// DefaultPolicy returns the scoring thresholds used for every batch
func DefaultPolicy() Policy {
	return Policy{
		HighAmountThreshold: decimal.NewFromInt(50000),
		LateNightStartHour:  0,
		LateNightEndHour:    5,
		RapidWindow:         300 * time.Second,
		CityChangeWindow:    600 * time.Second,
		FlagThreshold:       2,
	}
}
