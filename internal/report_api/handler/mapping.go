package handler

import (
	"time"

	"github.com/fraud-risk-scorer/internal/domain/run"
	"github.com/fraud-risk-scorer/internal/domain/transaction"
)

func amountString(s *transaction.ScoredTransaction) *string {
	if !s.HasAmount() {
		return nil
	}
	v := s.Amount.Decimal.String()
	return &v
}

func mapFlagged(s *transaction.ScoredTransaction) FlaggedTransactionResponse {
	return FlaggedTransactionResponse{
		TransactionID: s.TransactionID,
		CardID:        s.CardID,
		Amount:        amountString(s),
		City:          s.City,
		FraudScore:    s.FraudScore,
		FraudFlag:     s.FlagValue(),
	}
}

func mapScored(s *transaction.ScoredTransaction) ScoredTransactionResponse {
	response := ScoredTransactionResponse{
		TransactionID:   s.TransactionID,
		CardID:          s.CardID,
		Amount:          amountString(s),
		City:            s.City,
		TimeDiffSeconds: s.TimeDiffSeconds,
		HighAmount:      s.HighAmount,
		LateNight:       s.LateNight,
		RapidTxn:        s.RapidTransaction,
		CityChange:      s.CityChange,
		MissingData:     s.MissingData,
		FraudScore:      s.FraudScore,
		FraudFlag:       s.FlagValue(),
	}
	if s.HasTime() {
		response.TransactionTime = s.TransactionTime.Format(time.RFC3339)
	}
	return response
}

func mapSummary(rows []transaction.SummaryRow) []SummaryRowResponse {
	out := make([]SummaryRowResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, SummaryRowResponse{FraudFlag: r.FraudFlag, TotalTransactions: r.TotalTransactions})
	}
	return out
}

func mapRun(r *run.Report) RunResponse {
	response := RunResponse{
		RunID:          r.RunID.String(),
		InputPath:      r.InputPath,
		Status:         string(r.Status),
		FailureReason:  r.FailureReason,
		TotalRecords:   r.TotalRecords,
		ScoredRecords:  r.ScoredRecords,
		FlaggedRecords: r.FlaggedRecords,
		IndicatorHits:  make(map[string]int, len(r.IndicatorHits)),
		Summary:        mapSummary(r.Summary),
		AlertsSent:     r.AlertsSent,
		DeadLettered:   r.DeadLettered,
		FailedSteps:    r.FailedSteps,
		StartedAt:      r.StartedAt.Format(time.RFC3339),
	}
	for name, hits := range r.IndicatorHits {
		response.IndicatorHits[string(name)] = hits
	}
	for _, rej := range r.Rejections {
		response.Rejections = append(response.Rejections, RejectionResponse{
			Index:         rej.Record.Index,
			TransactionID: rej.Record.TransactionID,
			Reason:        string(rej.Reason),
		})
	}
	if r.FinishedAt != nil {
		response.FinishedAt = r.FinishedAt.Format(time.RFC3339)
	}
	return response
}
