package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/apperrors"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/middleware"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/observability"
	"github.com/gin-gonic/gin"
)

// errorStatus maps a service error to an HTTP status and extra response fields.
// ErrReconciliationRequired is matched first because it wraps the retryable cause.
func errorStatus(err error) (int, gin.H) {
	switch {
	case errors.Is(err, apperrors.ErrReconciliationRequired):
		return http.StatusInternalServerError, gin.H{"operatorAction": true}
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, nil
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrInvalidDuration):
		return http.StatusBadRequest, nil
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, nil
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden, nil
	case errors.Is(err, apperrors.ErrInvalidTransition),
		errors.Is(err, apperrors.ErrConcurrentModification),
		errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict, nil
	case errors.Is(err, apperrors.ErrSubmissionRejected):
		return http.StatusUnprocessableEntity, nil
	case apperrors.IsRetryable(err):
		return http.StatusServiceUnavailable, gin.H{"retryable": true}
	case errors.Is(err, apperrors.ErrDataCorruption):
		return http.StatusInternalServerError, nil
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Code >= 400 && appErr.Code < 500 {
		return appErr.Code, nil
	}
	return http.StatusInternalServerError, nil
}

var captureError = observability.CaptureWithTags

// escalatedByService reports errors the approval coordinator has already sent
// to the escalation hook.
func escalatedByService(err error) bool {
	return errors.Is(err, apperrors.ErrReconciliationRequired) || errors.Is(err, apperrors.ErrDataCorruption)
}

// respondError logs err and writes the mapped response. Internal details are
// only exposed for client errors.
func respondError(c *gin.Context, err error, action string) {
	logger := middleware.GetLoggerFromContext(c)
	status, extra := errorStatus(err)

	body := gin.H{"error": err.Error()}
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		logger.Error(action+" failed", slog.String("error", err.Error()), slog.Int("status", status))
		if !escalatedByService(err) {
			captureError(err, map[string]string{"action": action})
		}
		body["error"] = action + " failed"
	} else {
		logger.Warn(action+" rejected", slog.String("error", err.Error()), slog.Int("status", status))
	}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(status, body)
}
