package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clubsync/club-events/internal/middleware"
	"github.com/clubsync/club-events/internal/service"
)

// RegistrationHandler exposes seat registration over HTTP.  The registrant
// is always the authenticated caller; there is no registering on someone
// else's behalf through this surface.
type RegistrationHandler struct {
	svc *service.EventService
}

// NewRegistrationHandler constructs a RegistrationHandler.
func NewRegistrationHandler(svc *service.EventService) *RegistrationHandler {
	if svc == nil {
		panic("nil service passed to NewRegistrationHandler")
	}
	return &RegistrationHandler{svc: svc}
}

// Register handles POST /v1/events/:uuid/register.  Exactly one seat is
// claimed or a typed error explains why not; registering twice is an
// error, never a second seat.
func (h *RegistrationHandler) Register(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	e, err := h.svc.Register(c.Request().Context(), c.Param("uuid"), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"event":           e,
		"seats_remaining": e.SeatsRemaining,
	})
}

// MyEvents handles GET /v1/me/events: the external identifiers of the
// events the caller has joined.
func (h *RegistrationHandler) MyEvents(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	uuids, err := h.svc.JoinedEvents(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"event_uuids": uuids})
}

// Unregister handles DELETE /v1/events/:uuid/register.
func (h *RegistrationHandler) Unregister(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	e, err := h.svc.Unregister(c.Request().Context(), c.Param("uuid"), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"event":           e,
		"seats_remaining": e.SeatsRemaining,
	})
}
