package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/wms-platform/users-service/internal/api/metrics"
	"github.com/wms-platform/users-service/internal/core/domain"
	"github.com/wms-platform/users-service/internal/core/ports"
)

const refreshCookieName = "refresh_token"

// AuthHandler handles the account lifecycle endpoints.
type AuthHandler struct {
	service ports.UserService
	// refreshTTL bounds the refresh cookie lifetime to the token's own expiry.
	refreshTTL   time.Duration
	secureCookie bool
}

func NewAuthHandler(service ports.UserService, refreshTTL time.Duration, secureCookie bool) *AuthHandler {
	return &AuthHandler{service: service, refreshTTL: refreshTTL, secureCookie: secureCookie}
}

// SignIn authenticates a user and issues a token pair.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signInRequest  true  "Credentials"
// @Success      200   {object}  signInResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /signIn [post]
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	pair, err := h.service.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.SignInsTotal.WithLabelValues(signInResult(err)).Inc()
		return err
	}
	metrics.SignInsTotal.WithLabelValues("ok").Inc()

	h.setRefreshCookie(c, pair.RefreshToken)
	return c.JSON(http.StatusOK, signInResponse{AccessToken: pair.AccessToken})
}

// SignUp registers a new account. No token is issued; the client signs in next.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signUpRequest  true  "Registration details"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /signUp [post]
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	err := h.service.SignUp(c.Request().Context(), ports.SignUpInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		metrics.SignUpsTotal.WithLabelValues(signUpResult(err)).Inc()
		return err
	}
	metrics.SignUpsTotal.WithLabelValues("ok").Inc()

	return c.JSON(http.StatusCreated, messageResponse{Message: "user created"})
}

// SignOut revokes the active token pair of the refresh token's holder.
//
// @Summary      Sign out
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  false  "Refresh token (cookie preferred)"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /signOut [post]
func (h *AuthHandler) SignOut(c echo.Context) error {
	refreshToken := h.refreshTokenFrom(c)
	if refreshToken == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "refresh token required")
	}

	if err := h.service.SignOut(c.Request().Context(), refreshToken); err != nil {
		return err
	}

	h.clearRefreshCookie(c)
	return c.JSON(http.StatusOK, messageResponse{Message: "signed out"})
}

// Refresh exchanges a refresh token for a new access token. The refresh token
// itself is not rotated.
//
// @Summary      Refresh access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  false  "Refresh token (cookie preferred)"
// @Success      200   {object}  refreshResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	refreshToken := h.refreshTokenFrom(c)
	if refreshToken == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "refresh token required")
	}

	accessToken, err := h.service.Refresh(c.Request().Context(), refreshToken)
	if err != nil {
		metrics.TokenRefreshesTotal.WithLabelValues(refreshResult(err)).Inc()
		return err
	}
	metrics.TokenRefreshesTotal.WithLabelValues("ok").Inc()

	return c.JSON(http.StatusOK, refreshResponse{AccessToken: accessToken})
}

// refreshTokenFrom reads the refresh token from the cookie, falling back to
// the request body.
func (h *AuthHandler) refreshTokenFrom(c echo.Context) string {
	if cookie, err := c.Cookie(refreshCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return ""
	}
	return req.RefreshToken
}

func (h *AuthHandler) setRefreshCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/api",
		MaxAge:   int(h.refreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/api",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
}

func signInResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_password"
	default:
		return "error"
	}
}

func signUpResult(err error) string {
	if errors.Is(err, domain.ErrUserExists) {
		return "conflict"
	}
	return "error"
}

func refreshResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrTokenMalformed),
		errors.Is(err, domain.ErrTokenSignatureInvalid):
		return "invalid"
	default:
		return "error"
	}
}
