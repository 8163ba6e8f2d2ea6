package helpers

import (
	"errors"
	"fmt"
	"net/http"

	"bid-lifecycle/internal/biddingerrors"
	"bid-lifecycle/utils"

	"github.com/gin-gonic/gin"
)

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, "validation", wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code, error kind and message
func MapErrorToHTTP(err error) (int, string, string) {
	var partial *biddingerrors.PartialFailureError
	switch {
	case errors.As(err, &partial) && partial.InFlight:
		return http.StatusAccepted, "in_flight", "decision in flight, retry to complete it"
	case errors.Is(err, biddingerrors.ErrPartialFailure):
		return http.StatusInternalServerError, "partial_failure", "decision partially applied, retry to complete it"
	case errors.Is(err, biddingerrors.ErrValidation):
		return http.StatusBadRequest, "validation", "invalid bid details"
	case errors.Is(err, biddingerrors.ErrNotFound):
		return http.StatusNotFound, "not_found", "resource not found"
	case errors.Is(err, biddingerrors.ErrAuthorization):
		return http.StatusForbidden, "authorization", "not allowed to act on this bid"
	case errors.Is(err, biddingerrors.ErrConflict):
		return http.StatusConflict, "conflict", "service request already assigned"
	case errors.Is(err, biddingerrors.ErrInvalidState):
		return http.StatusConflict, "invalid_state", "bid cannot make this transition"
	case errors.Is(err, biddingerrors.ErrPersistence):
		return http.StatusServiceUnavailable, "persistence", "storage unavailable, retry later"
	default:
		return http.StatusInternalServerError, "internal", "internal server error"
	}
}

// RespondError writes the mapped error response and logs it
func RespondError(c *gin.Context, handlerName string, err error, fields map[string]any) {
	status, kind, message := MapErrorToHTTP(err)
	utils.JSONError(c, status, kind, fmt.Errorf("%s: %w", message, err), message)

	if fields == nil {
		fields = map[string]any{}
	}
	fields["handler"] = handlerName
	fields["kind"] = kind
	fields["error"] = err.Error()
	if status >= http.StatusInternalServerError {
		utils.Error(handlerName+": "+message, fields)
		return
	}
	utils.Warn(handlerName+": "+message, fields)
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
