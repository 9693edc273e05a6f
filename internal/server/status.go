package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ProperAttorney/avrae/internal/store"
	"github.com/ProperAttorney/avrae/internal/version"
)

// StatusHandler exposes liveness and lifetime-stat endpoints.
type StatusHandler struct {
	store *store.Store
}

// NewStatusHandler builds the status handler backed by the given store.
func NewStatusHandler(s *store.Store) *StatusHandler {
	return &StatusHandler{store: s}
}

// Register registers the status routes.
func (h *StatusHandler) Register(e *echo.Echo) {
	e.GET("/health", h.health)
	e.GET("/stats", h.stats)
}

func (h *StatusHandler) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.GetInfo(),
	})
}

func (h *StatusHandler) stats(c echo.Context) error {
	counters, err := h.store.Counters(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, counters)
}
