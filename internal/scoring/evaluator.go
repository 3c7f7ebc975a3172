package scoring

import (
	"sort"

	"github.com/fraud-risk-scorer/internal/domain/transaction"
)

// Partition is the ordered history of one card
type Partition struct {
	CardID       string
	Transactions []transaction.Transaction
}

// PartitionByCard groups transactions by card_id. Partitions are returned in
// order of first appearance and each one is ordered by OrderHistory.
func PartitionByCard(txs []transaction.Transaction) []Partition {
	positions := make(map[string]int)
	partitions := make([]Partition, 0)
	for _, tx := range txs {
		pos, ok := positions[tx.CardID]
		if !ok {
			pos = len(partitions)
			positions[tx.CardID] = pos
			partitions = append(partitions, Partition{CardID: tx.CardID})
		}
		partitions[pos].Transactions = append(partitions[pos].Transactions, tx)
	}
	for i := range partitions {
		OrderHistory(partitions[i].Transactions)
	}
	return partitions
}

// OrderHistory sorts a card's transactions in place: ascending time, ties by
// input index, missing times last ordered by input index.
func OrderHistory(txs []transaction.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		a, b := txs[i], txs[j]
		switch {
		case a.HasTime() && b.HasTime():
			if !a.TransactionTime.Equal(*b.TransactionTime) {
				return a.TransactionTime.Before(*b.TransactionTime)
			}
		case a.HasTime():
			return true
		case b.HasTime():
			return false
		}
		return a.Index < b.Index
	})
}

// TimeDiffSeconds returns the gap between a transaction and its predecessor,
// or nil when there is no predecessor or either time is missing
func TimeDiffSeconds(prev *transaction.Transaction, cur transaction.Transaction) *float64 {
	if prev == nil || !prev.HasTime() || !cur.HasTime() {
		return nil
	}
	diff := cur.TransactionTime.Sub(*prev.TransactionTime).Seconds()
	return &diff
}

// Evaluate computes the five indicators for one transaction given its
// predecessor in the card history (nil for the first) and the time gap to it
func Evaluate(cur transaction.Transaction, prev *transaction.Transaction, timeDiff *float64, policy Policy) transaction.Indicators {
	return transaction.Indicators{
		HighAmount:       isHighAmount(cur, policy),
		LateNight:        isLateNight(cur, policy),
		RapidTransaction: isRapid(timeDiff, policy),
		CityChange:       isCityChange(cur, prev, timeDiff, policy),
		MissingData:      !cur.HasAmount() || !cur.HasCity(),
	}
}

// EvaluatePartition scores an ordered card history. The result follows the
// partition order.
func EvaluatePartition(p Partition, policy Policy) []transaction.ScoredTransaction {
	scored := make([]transaction.ScoredTransaction, 0, len(p.Transactions))
	var prev *transaction.Transaction
	for i := range p.Transactions {
		cur := p.Transactions[i]
		diff := TimeDiffSeconds(prev, cur)
		scored = append(scored, Aggregate(cur, Evaluate(cur, prev, diff, policy), diff, policy))
		prev = &p.Transactions[i]
	}
	return scored
}

func isHighAmount(tx transaction.Transaction, policy Policy) bool {
	return tx.HasAmount() && tx.Amount.Decimal.GreaterThan(policy.HighAmountThreshold)
}

func isLateNight(tx transaction.Transaction, policy Policy) bool {
	if !tx.HasTime() {
		return false
	}
	hour := tx.TransactionTime.Hour()
	return hour >= policy.LateNightStartHour && hour <= policy.LateNightEndHour
}

func isRapid(timeDiff *float64, policy Policy) bool {
	return timeDiff != nil && *timeDiff <= policy.RapidWindow.Seconds()
}

func isCityChange(cur transaction.Transaction, prev *transaction.Transaction, timeDiff *float64, policy Policy) bool {
	if prev == nil || timeDiff == nil || *timeDiff > policy.CityChangeWindow.Seconds() {
		return false
	}
	return citiesDistinct(prev.City, cur.City)
}

// citiesDistinct never treats a missing city as equal to anything, itself
// included, so two missing cities in a row count as a change
func citiesDistinct(a, b *string) bool {
	if a == nil || b == nil {
		return true
	}
	return *a != *b
}
