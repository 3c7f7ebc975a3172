package scoring

import "github.com/fraud-risk-scorer/internal/domain/transaction"

// Aggregate turns a transaction and its indicators into a scored result
func Aggregate(tx transaction.Transaction, ind transaction.Indicators, timeDiff *float64, policy Policy) transaction.ScoredTransaction {
	score := ind.Count()
	return transaction.ScoredTransaction{
		Transaction:     tx,
		Indicators:      ind,
		TimeDiffSeconds: timeDiff,
		FraudScore:      score,
		FraudFlag:       score >= policy.FlagThreshold,
	}
}
