package handler

import (
	"log/slog"
	"strings"

	"github.com/fraud-risk-scorer/internal/report_api/service"
	"github.com/gin-gonic/gin"
)

// FraudHandler serves the fraud reporting queries
type FraudHandler struct {
	reportService service.FraudReportService
	logger        *slog.Logger
}

func NewFraudHandler(logger *slog.Logger, reportService service.FraudReportService) *FraudHandler {
	return &FraudHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// ListFlagged returns the flagged transactions page by page, in input order
func (h *FraudHandler) ListFlagged(c *gin.Context) {
	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		h.logger.Error("Invalid pagination parameters", "error", err)
		RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	flagged, total, err := h.reportService.ListFlagged(c.Request.Context(), pagination.Page, pagination.PerPage)
	if err != nil {
		h.logger.Error("Failed to list flagged transactions", "error", err)
		RespondInternalError(c)
		return
	}

	transactions := make([]FlaggedTransactionResponse, 0, len(flagged))
	for _, s := range flagged {
		transactions = append(transactions, mapFlagged(s))
	}

	RespondPage(c, transactions, pagination, total)
}

// Summary returns the transaction count per fraud flag
func (h *FraudHandler) Summary(c *gin.Context) {
	rows, err := h.reportService.GetSummary(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get fraud summary", "error", err)
		RespondInternalError(c)
		return
	}
	RespondOK(c, mapSummary(rows))
}

// GetTransaction returns one scored transaction with its indicators, 404 if
// it was never scored
func (h *FraudHandler) GetTransaction(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		RespondBadRequest(c, "Invalid transaction ID")
		return
	}

	scored, err := h.reportService.GetTransaction(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get scored transaction", "transaction_id", id, "error", err)
		RespondInternalError(c)
		return
	}
	if scored == nil {
		RespondNotFound(c, "Transaction not found")
		return
	}

	RespondOK(c, mapScored(scored))
}
