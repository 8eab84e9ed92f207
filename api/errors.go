package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/fieldbooking/internal/domain"
	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

// respondError maps domain errors onto HTTP statuses. Anything unrecognised is
// attached to the gin context for the request logger and answered with a
// generic 500.
func respondError(c *gin.Context, err error) {
	var (
		validation domain.ValidationError
		notFound   domain.NotFoundError
		conflict   domain.ConflictError
		state      domain.StateError
	)

	switch {
	case errors.As(err, &validation):
		details := map[string]any{}
		if validation.Field != "" {
			details["field"] = validation.Field
		}
		c.JSON(http.StatusBadRequest, errorResponse{Error: validation.Error(), Code: "validation_error", Details: details})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: notFound.Error(), Code: "not_found",
			Details: map[string]any{"resource": notFound.Resource}})
	case errors.As(err, &conflict):
		details := map[string]any{"resource": conflict.Resource}
		if b := conflict.Existing; b != nil {
			details["existing"] = map[string]any{
				"id":         b.ID,
				"date":       b.Day.String(),
				"start_time": b.Slot.Start.String(),
				"end_time":   b.Slot.End.String(),
				"status":     string(b.Status),
			}
		}
		c.JSON(http.StatusConflict, errorResponse{Error: conflict.Error(), Code: "conflict", Details: details})
	case errors.As(err, &state):
		details := map[string]any{"from": state.From}
		if state.To != "" {
			details["to"] = state.To
		}
		if len(state.Allowed) > 0 {
			details["allowed"] = state.Allowed
		}
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: state.Error(), Code: "invalid_state", Details: details})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error", Code: "internal_error"})
	}
}

func badRequest(c *gin.Context, err error) {
	respondError(c, domain.ValidationError{Field: "body", Msg: err.Error(), Err: err})
}
