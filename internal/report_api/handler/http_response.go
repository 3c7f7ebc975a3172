package handler

import (
	"net/http"

	"github.com/fraud-risk-scorer/internal/report_api/middleware"
	"github.com/gin-gonic/gin"
)

// Error codes carried in the response envelope
const (
	CodeBadRequest = "BAD_REQUEST"
	CodeNotFound   = "NOT_FOUND"
	CodeInternal   = "INTERNAL_SERVER_ERROR"
)

// Response is the envelope every reporting endpoint answers with
type Response struct {
	Data          any        `json:"data,omitempty"`
	Error         *ErrorInfo `json:"error,omitempty"`
	CorrelationID string     `json:"correlation_id,omitempty"`
	Meta          *MetaInfo  `json:"meta,omitempty"`
}

type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MetaInfo describes the page returned by a paginated report
type MetaInfo struct {
	Page       int `json:"page,omitempty"`
	PerPage    int `json:"per_page,omitempty"`
	TotalPages int `json:"total_pages,omitempty"`
	TotalItems int `json:"total_items,omitempty"`
}

func pageMeta(p PaginationParams, totalItems int64) *MetaInfo {
	meta := &MetaInfo{
		Page:       p.Page,
		PerPage:    p.PerPage,
		TotalItems: int(totalItems),
	}
	if p.PerPage > 0 {
		meta.TotalPages = int((totalItems + int64(p.PerPage) - 1) / int64(p.PerPage))
	}
	return meta
}

func respond(c *gin.Context, status int, resp *Response) {
	resp.CorrelationID = middleware.GetCorrelationID(c)
	c.JSON(status, resp)
}

func RespondWithData(c *gin.Context, status int, data any) {
	respond(c, status, &Response{Data: data})
}

func RespondWithError(c *gin.Context, status int, code, message string) {
	respond(c, status, &Response{Error: &ErrorInfo{Code: code, Message: message}})
}

// RespondPage sends one page of a report together with its pagination metadata
func RespondPage(c *gin.Context, data any, p PaginationParams, totalItems int64) {
	respond(c, http.StatusOK, &Response{Data: data, Meta: pageMeta(p, totalItems)})
}

func RespondOK(c *gin.Context, data any) {
	RespondWithData(c, http.StatusOK, data)
}

func RespondBadRequest(c *gin.Context, message string) {
	RespondWithError(c, http.StatusBadRequest, CodeBadRequest, message)
}

func RespondNotFound(c *gin.Context, message string) {
	RespondWithError(c, http.StatusNotFound, CodeNotFound, message)
}

// RespondInternalError hides the cause; handlers log it before calling
func RespondInternalError(c *gin.Context) {
	RespondWithError(c, http.StatusInternalServerError, CodeInternal, "An internal server error occurred")
}
