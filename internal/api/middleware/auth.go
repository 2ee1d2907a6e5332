package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/wms-platform/users-service/internal/api/metrics"
	"github.com/wms-platform/users-service/internal/core/domain"
	"github.com/wms-platform/users-service/internal/core/ports"
)

// Context keys set by Auth for downstream handlers.
const (
	ContextKeyUser  = "auth_user"
	ContextKeyToken = "auth_token"
)

// Auth is the authentication gate: it turns a bearer credential into an
// authenticated user in the echo context, or rejects the request.
//
// The check order is fixed: header presence and shape, then signature+expiry
// through the codec, then a single user lookup by the token's subject. A
// valid token whose subject matches no user fails exactly like a forged
// token. The stored access_token field is deliberately not consulted, so
// sign-out does not retroactively invalidate an unexpired access token.
func Auth(codec ports.TokenCodec, users ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				metrics.TokenVerificationsTotal.WithLabelValues("missing").Inc()
				return domain.ErrMissingAuthHeader
			}

			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				// A malformed header is treated the same as an absent one.
				metrics.TokenVerificationsTotal.WithLabelValues("missing").Inc()
				return domain.ErrMissingAuthHeader
			}
			raw := parts[1]

			userID, err := codec.VerifyAccessToken(raw)
			if err != nil {
				if errors.Is(err, domain.ErrTokenExpired) {
					metrics.TokenVerificationsTotal.WithLabelValues("expired").Inc()
					return domain.ErrTokenExpired
				}
				metrics.TokenVerificationsTotal.WithLabelValues("invalid").Inc()
				return domain.ErrInvalidToken
			}

			user, err := users.FindByID(c.Request().Context(), userID)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					metrics.TokenVerificationsTotal.WithLabelValues("invalid").Inc()
					return domain.ErrInvalidToken
				}
				return err
			}

			metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()
			c.Set(ContextKeyUser, user)
			c.Set(ContextKeyToken, raw)

			return next(c)
		}
	}
}
