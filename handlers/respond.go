package handlers

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"pop-backend/badge"
	"pop-backend/registry"
)

// statusForError maps the core error taxonomy onto HTTP statuses so the
// caller can tell a fixable input from a state conflict from an external
// failure.
func statusForError(err error) int {
	switch {
	case errors.Is(err, registry.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, registry.ErrAlreadyExists),
		errors.Is(err, badge.ErrEventFull),
		errors.Is(err, badge.ErrEventInactive),
		errors.Is(err, badge.ErrAlreadyAttended),
		errors.Is(err, badge.ErrAttendanceHistoryFull):
		return http.StatusConflict
	case errors.Is(err, registry.ErrRecordTooLarge),
		errors.Is(err, ErrQRInvalid),
		errors.Is(err, ErrQRExpired):
		return http.StatusBadRequest
	case errors.Is(err, badge.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, badge.ErrIssuanceFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusForError(err), gin.H{"error": err.Error()})
}
