package handler

import (
	"log/slog"

	"github.com/fraud-risk-scorer/internal/report_api/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RunHandler serves batch run reports
type RunHandler struct {
	runService service.RunReportService
	logger     *slog.Logger
}

func NewRunHandler(logger *slog.Logger, runService service.RunReportService) *RunHandler {
	return &RunHandler{
		runService: runService,
		logger:     logger,
	}
}

// GetByID returns the report of one run, 404 if unknown
func (h *RunHandler) GetByID(c *gin.Context) {
	idParam := c.Param("id")
	runID, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid run ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid run ID")
		return
	}

	report, err := h.runService.GetRun(c.Request.Context(), runID)
	if err != nil {
		h.logger.Error("Failed to get run report", "run_id", idParam, "error", err)
		RespondInternalError(c)
		return
	}
	if report == nil {
		RespondNotFound(c, "Run not found")
		return
	}

	RespondOK(c, mapRun(report))
}

// ListRecent returns the most recent runs, newest first
func (h *RunHandler) ListRecent(c *gin.Context) {
	var params RecentRunsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid limit")
		return
	}

	reports, err := h.runService.ListRecent(c.Request.Context(), params.Limit)
	if err != nil {
		h.logger.Error("Failed to list run reports", "error", err)
		RespondInternalError(c)
		return
	}

	runs := make([]RunResponse, 0, len(reports))
	for _, r := range reports {
		runs = append(runs, mapRun(r))
	}
	RespondOK(c, runs)
}
