package handler

// FlaggedTransactionResponse is one row of the flagged transactions report
type FlaggedTransactionResponse struct {
	TransactionID string  `json:"transaction_id"`
	CardID        string  `json:"card_id"`
	Amount        *string `json:"amount"`
	City          *string `json:"city"`
	FraudScore    int     `json:"fraud_score"`
	FraudFlag     int     `json:"fraud_flag"`
}

// ScoredTransactionResponse represents a scored transaction with its indicators
type ScoredTransactionResponse struct {
	TransactionID   string   `json:"transaction_id"`
	CardID          string   `json:"card_id"`
	Amount          *string  `json:"amount"`
	TransactionTime string   `json:"transaction_time,omitempty"`
	City            *string  `json:"city"`
	TimeDiffSeconds *float64 `json:"time_diff_seconds"`
	HighAmount      bool     `json:"high_amount_flag"`
	LateNight       bool     `json:"late_night_flag"`
	RapidTxn        bool     `json:"rapid_txn_flag"`
	CityChange      bool     `json:"city_change_flag"`
	MissingData     bool     `json:"missing_data_flag"`
	FraudScore      int      `json:"fraud_score"`
	FraudFlag       int      `json:"fraud_flag"`
}

// SummaryRowResponse is one row of the fraud summary
type SummaryRowResponse struct {
	FraudFlag         int   `json:"fraud_flag"`
	TotalTransactions int64 `json:"total_transactions"`
}

// RejectionResponse describes an input row that was not scored
type RejectionResponse struct {
	Index         int    `json:"index"`
	TransactionID string `json:"transaction_id,omitempty"`
	Reason        string `json:"reason"`
}

// RunResponse represents a batch run report
type RunResponse struct {
	RunID          string               `json:"run_id"`
	InputPath      string               `json:"input_path"`
	Status         string               `json:"status"`
	FailureReason  string               `json:"failure_reason,omitempty"`
	TotalRecords   int                  `json:"total_records"`
	ScoredRecords  int                  `json:"scored_records"`
	FlaggedRecords int                  `json:"flagged_records"`
	IndicatorHits  map[string]int       `json:"indicator_hits"`
	Summary        []SummaryRowResponse `json:"summary"`
	Rejections     []RejectionResponse  `json:"rejections,omitempty"`
	AlertsSent     int                  `json:"alerts_sent"`
	DeadLettered   int                  `json:"dead_lettered"`
	FailedSteps    []string             `json:"failed_steps,omitempty"`
	StartedAt      string               `json:"started_at"`
	FinishedAt     string               `json:"finished_at,omitempty"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1,max=100000"`
	PerPage int `form:"per_page,default=10" binding:"min=1,max=100"`
}

// RecentRunsParams limits the run listing
type RecentRunsParams struct {
	Limit int `form:"limit,default=10" binding:"min=1,max=100"`
}
