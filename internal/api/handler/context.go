package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/plumon/roleplay-chat/internal/api/middleware"
	"github.com/plumon/roleplay-chat/internal/core/domain"
)

// ctxUser extracts the authenticated user injected by the Auth middleware.
// Its presence proves the middleware ran; a missing user on a protected
// route is a wiring bug surfaced as 401, never a panic.
func ctxUser(c echo.Context) (*domain.User, error) {
	user, _ := c.Get(middleware.ContextUserKey).(*domain.User)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return user, nil
}
