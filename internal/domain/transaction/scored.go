package transaction

// IndicatorName identifies one of the fraud indicators
type IndicatorName string

const (
	IndicatorHighAmount       IndicatorName = "high_amount"
	IndicatorLateNight        IndicatorName = "late_night"
	IndicatorRapidTransaction IndicatorName = "rapid_txn"
	IndicatorCityChange       IndicatorName = "city_change"
	IndicatorMissingData      IndicatorName = "missing_data"
)

// AllIndicators lists the indicators in their canonical order
var AllIndicators = []IndicatorName{
	IndicatorHighAmount,
	IndicatorLateNight,
	IndicatorRapidTransaction,
	IndicatorCityChange,
	IndicatorMissingData,
}

// Indicators holds the five boolean fraud signals computed for a transaction
type Indicators struct {
	HighAmount       bool `json:"high_amount_flag"`
	LateNight        bool `json:"late_night_flag"`
	RapidTransaction bool `json:"rapid_txn_flag"`
	CityChange       bool `json:"city_change_flag"`
	MissingData      bool `json:"missing_data_flag"`
}

// Fired returns the names of the indicators that are set, in canonical order
func (i Indicators) Fired() []IndicatorName {
	values := i.values()
	fired := make([]IndicatorName, 0, len(values))
	for idx, name := range AllIndicators {
		if values[idx] {
			fired = append(fired, name)
		}
	}
	return fired
}

// Count returns how many indicators are set
func (i Indicators) Count() int {
	count := 0
	for _, v := range i.values() {
		if v {
			count++
		}
	}
	return count
}

func (i Indicators) values() [5]bool {
	return [5]bool{i.HighAmount, i.LateNight, i.RapidTransaction, i.CityChange, i.MissingData}
}

// ScoredTransaction is the immutable result of scoring one Transaction.
// TimeDiffSeconds is the gap to the previous transaction of the same card and
// is nil for the first transaction of a card or when either time is missing.
type ScoredTransaction struct {
	Transaction
	Indicators
	TimeDiffSeconds *float64 `json:"time_diff_seconds,omitempty"`
	FraudScore      int      `json:"fraud_score"`
	FraudFlag       bool     `json:"fraud_flag"`
}

// FlagValue returns the fraud flag as the 0/1 integer used by the result table
func (s ScoredTransaction) FlagValue() int {
	if s.FraudFlag {
		return 1
	}
	return 0
}

// SummaryRow is one row of the fraud summary: the number of scored transactions
// carrying a given fraud flag value.
type SummaryRow struct {
	FraudFlag         int   `json:"fraud_flag" bson:"fraud_flag"`
	TotalTransactions int64 `json:"total_transactions" bson:"total_transactions"`
}

// Summarize counts scored transactions by fraud flag. Both flag values are
// always present, in ascending order.
func Summarize(scored []ScoredTransaction) []SummaryRow {
	rows := []SummaryRow{{FraudFlag: 0}, {FraudFlag: 1}}
	for _, s := range scored {
		rows[s.FlagValue()].TotalTransactions++
	}
	return rows
}
