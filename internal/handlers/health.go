package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/llNABSll/customer-api/internal/event"
)

const healthPingTimeout = 1 * time.Second

type health struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Events   string `json:"events"`
}

// HealthHTTPHandler is http handler for health endpoint
type HealthHTTPHandler struct {
	pool      *pgxpool.Pool
	publisher event.Publisher
}

// NewHealthHTTPHandler builds new HealthHTTPHandler
func NewHealthHTTPHandler(pool *pgxpool.Pool, publisher event.Publisher) *HealthHTTPHandler {
	return &HealthHTTPHandler{
		pool:      pool,
		publisher: publisher,
	}
}

// Get reports service health. Unreachable database makes service unavailable,
// disconnected broker does not - events are best-effort by default and the
// publisher redials on next publish anyway
// @Summary     Service health
// @Description Returns health of the service and its collaborators
// @Tags        health
// @Produce     json
// @Success     200    {object} health
// @Failure     503    {object} health
// @Router      /health [get]
func (h *HealthHTTPHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthPingTimeout)
	defer cancel()

	status := health{Status: "ok", Database: "ok", Events: "connected"}
	code := http.StatusOK

	if err := h.pool.Ping(ctx); err != nil {
		status.Status = "unavailable"
		status.Database = "unreachable"
		code = http.StatusServiceUnavailable
	}

	if !h.publisher.Connected() {
		status.Events = "disconnected"
	}

	return c.JSON(code, &status)
}
