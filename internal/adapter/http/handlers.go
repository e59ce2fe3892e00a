package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	// ping checks the database; nil skips the check.
	ping func(ctx context.Context) error
}

func NewHandler(ping func(ctx context.Context) error) *Handler { return &Handler{ping: ping} }

func (h *Handler) Health(c echo.Context) error {
	code, db := http.StatusOK, "ok"
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			code, db = http.StatusServiceUnavailable, "down"
		}
	}
	status := "ok"
	if code != http.StatusOK {
		status = "degraded"
	}
	return c.JSON(code, map[string]any{
		"status": status,
		"db":     db,
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	})
}
