package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clubsync/club-events/internal/service"
)

// BrowseHandler serves the unauthenticated read endpoints.  These routes
// sit behind the Redis response cache, so the handlers only assemble data.
type BrowseHandler struct {
	svc *service.EventService
}

// NewBrowseHandler constructs a BrowseHandler.
func NewBrowseHandler(svc *service.EventService) *BrowseHandler {
	if svc == nil {
		panic("nil service passed to NewBrowseHandler")
	}
	return &BrowseHandler{svc: svc}
}

// List handles GET /v1/events: all events sorted by start time.
func (h *BrowseHandler) List(c echo.Context) error {
	events, err := h.svc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"events": events})
}

// Get handles GET /v1/events/:uuid: one event with its registrants.
func (h *BrowseHandler) Get(c echo.Context) error {
	e, registrants, err := h.svc.Get(c.Request().Context(), c.Param("uuid"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"event": e, "registrants": registrants})
}
