package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clubsync/club-events/internal/service"
)

// EventHandler exposes the lifecycle facade's mutating operations over
// HTTP.  Authentication middleware runs before these handlers; any
// finer-grained authorization (who may administer a club's events) is
// enforced by the surrounding application, not here.
type EventHandler struct {
	svc *service.EventService
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(svc *service.EventService) *EventHandler {
	if svc == nil {
		panic("nil service passed to NewEventHandler")
	}
	return &EventHandler{svc: svc}
}

// Create handles POST /v1/clubs/:uuid/events.  The body is an event
// payload; the event is created under the club identified in the path and
// returned with the status that holds right now (a registration window
// already open at creation time is reflected immediately).
func (h *EventHandler) Create(c echo.Context) error {
	var in service.EventInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	e, err := h.svc.Create(c.Request().Context(), c.Param("uuid"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, e)
}

// Update handles PATCH /v1/events/:uuid.  Capacity may not shrink below
// the number of registered users; the seat counter and status are
// recomputed from the new payload.
func (h *EventHandler) Update(c echo.Context) error {
	var in service.EventInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	e, err := h.svc.Update(c.Request().Context(), c.Param("uuid"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, e)
}

// Cancel handles POST /v1/events/:uuid/cancel.  Cancellation is the
// administrative override: it sticks regardless of the clock and the
// event is skipped by all future sweeps.
func (h *EventHandler) Cancel(c echo.Context) error {
	e, err := h.svc.Cancel(c.Request().Context(), c.Param("uuid"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, e)
}

// Delete handles DELETE /v1/events/:uuid.  Removal cascades over every
// registrant's membership before the record disappears.
func (h *EventHandler) Delete(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("uuid")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
