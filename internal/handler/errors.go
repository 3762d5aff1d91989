package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clubsync/club-events/internal/repository"
	"github.com/clubsync/club-events/internal/service"
)

// writeError maps the service layer's typed errors onto HTTP responses.
// Every error leaving the facade is one of these kinds; anything else is a
// storage or broker failure reported as a 500 without leaking detail.
func writeError(c echo.Context, err error) error {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "problems": ve.Problems})
	case errors.Is(err, repository.ErrEventNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
	case errors.Is(err, repository.ErrClubNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "club not found"})
	case errors.Is(err, repository.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	case errors.Is(err, service.ErrRegistrationNotOpen):
		return c.JSON(http.StatusConflict, echo.Map{"error": "registration is not open for this event"})
	case errors.Is(err, service.ErrNoSeats):
		return c.JSON(http.StatusConflict, echo.Map{"error": "no seats remaining"})
	case errors.Is(err, service.ErrAlreadyRegistered):
		return c.JSON(http.StatusConflict, echo.Map{"error": "already registered for this event"})
	case errors.Is(err, service.ErrNotRegistered):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "not registered for this event"})
	case errors.Is(err, service.ErrAlreadyFinalized):
		return c.JSON(http.StatusConflict, echo.Map{"error": "event is already completed or cancelled"})
	case errors.Is(err, service.ErrConcurrencyConflict):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "conflicting updates, please retry"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
