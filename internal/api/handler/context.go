package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wms-platform/users-service/internal/api/middleware"
	"github.com/wms-platform/users-service/internal/core/domain"
)

// ctxUser extracts the authenticated user injected by the Auth middleware.
// Presence proves the gate ran; a handler reached without it is a routing
// mistake and is rejected rather than served anonymously.
func ctxUser(c echo.Context) (*domain.User, error) {
	user, _ := c.Get(middleware.ContextKeyUser).(*domain.User)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication context")
	}
	return user, nil
}
