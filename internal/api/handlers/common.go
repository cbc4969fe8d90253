package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/investment-service/investment_service/internal/domain/entities"
	apperrors "github.com/investment-service/investment_service/pkg/errors"
	"github.com/investment-service/investment_service/pkg/logger"
	"github.com/investment-service/investment_service/pkg/tracing"
)

// getRequestID extracts request ID from context
func getRequestID(c *gin.Context) string {
	if reqID, exists := c.Get("request_id"); exists {
		if id, ok := reqID.(string); ok {
			return id
		}
	}
	return ""
}

// requestLogger returns the per-request logger set by the logging
// middleware, or fallback when the handler runs without it.
func requestLogger(c *gin.Context, fallback *logger.Logger) *logger.Logger {
	if v, exists := c.Get("logger"); exists {
		if l, ok := v.(*logger.Logger); ok {
			return l
		}
	}
	return fallback
}

// parseInvestmentID reads the :id path parameter. Anything that is not a
// positive integer is an invalid id.
func parseInvestmentID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, entities.ErrInvalidInvestmentID
	}
	return id, nil
}

// respondError translates err into the standard error body. Errors outside
// the application taxonomy are classified first; anything that maps to a
// server-side status is reported without detail.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	appErr := apperrors.ToAppError(err, c.Request.Method+" "+c.FullPath())
	status := apperrors.GetStatusCode(appErr)

	resp := entities.ErrorResponse{
		Code:       appErr.Code,
		Message:    apperrors.ErrInternalServer.Message,
		Details:    "Please try again later",
		StatusCode: status,
		Timestamp:  time.Now().UTC(),
	}

	switch appErr.Type {
	case apperrors.ErrorTypeNotFound:
		resp.Message = "Resource not found"
		resp.Details = appErr.Message
	case apperrors.ErrorTypeValidation:
		resp.Message = "Invalid investment data"
		if appErr.Code == entities.CodeInvalidInvestmentID {
			resp.Message = "Invalid investment ID"
		}
		resp.Details = appErr.Message
	case apperrors.ErrorTypeInvalidOperation:
		resp.Message = "Invalid operation"
		resp.Details = appErr.Message
	}

	if status >= http.StatusInternalServerError {
		tracing.RecordError(c, err)
		requestLogger(c, log).WithError(err).Errorw("Request failed",
			"error_type", appErr.Type,
			"request_id", getRequestID(c),
		)
	} else {
		requestLogger(c, log).Debugw("Request rejected", "error", err, "status_code", status)
	}

	c.JSON(status, resp)
}
