package report_api

import (
	"log/slog"

	"github.com/fraud-risk-scorer/internal/platform/metrics"
	"github.com/fraud-risk-scorer/internal/report_api/handler"
	"github.com/fraud-risk-scorer/internal/report_api/middleware"
	"github.com/gin-gonic/gin"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	httpMetrics *metrics.HTTPMetrics,
	fraudHandler *handler.FraudHandler,
	runHandler *handler.RunHandler,
	healthHandler *handler.HealthHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics(httpMetrics))

	v1 := r.Group("/api/v1")
	{
		fraud := v1.Group("/fraud")
		{
			fraud.GET("/transactions", fraudHandler.ListFlagged)
			fraud.GET("/summary", fraudHandler.Summary)
		}

		v1.GET("/transactions/:id", fraudHandler.GetTransaction)

		runs := v1.Group("/runs")
		{
			runs.GET("", runHandler.ListRecent)
			runs.GET("/:id", runHandler.GetByID)
		}
	}

	r.GET("/health", healthHandler.Check)
	r.GET("/metrics", gin.WrapH(httpMetrics.Handler()))
}
