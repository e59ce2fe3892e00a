package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"debtsify-backend/internal/domain/apperr"
	"debtsify-backend/pkg/clock"

	"github.com/labstack/echo/v4"
)

const dateLayout = "2006-01-02"

// fail maps domain errors → HTTP codes. Anything unrecognised becomes a 500
// whose cause is kept as the internal error for the access log.
func fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperr.ErrInvalidState):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	}
	return echo.NewHTTPError(http.StatusInternalServerError, ErrorResponse{Error: "internal error"}).SetInternal(err)
}

// bind decodes the JSON body into req and validates it. A non-nil error has
// already been written to the response.
func bind(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}

func invalidParam(c echo.Context, field, msg string) error {
	return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation failed",
		Details: []FieldError{{Field: field, Message: msg}},
	})
}

// parseDate reads a YYYY-MM-DD calendar date. Empty input gives the zero time.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return clock.Date(t), nil
}

// ---- helpers ----

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
