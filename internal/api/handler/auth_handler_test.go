package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/wms-platform/users-service/internal/core/domain"
	"github.com/wms-platform/users-service/internal/core/ports"
)

type stubUserService struct {
	signInFn  func(ctx context.Context, email, password string) (*ports.TokenPair, error)
	signUpFn  func(ctx context.Context, input ports.SignUpInput) error
	signOutFn func(ctx context.Context, refreshToken string) error
	refreshFn func(ctx context.Context, refreshToken string) (string, error)
	getInfoFn func(ctx context.Context, userID string) (*ports.UserInfo, error)
}

func (s *stubUserService) SignIn(ctx context.Context, email, password string) (*ports.TokenPair, error) {
	return s.signInFn(ctx, email, password)
}

func (s *stubUserService) SignUp(ctx context.Context, input ports.SignUpInput) error {
	return s.signUpFn(ctx, input)
}

func (s *stubUserService) SignOut(ctx context.Context, refreshToken string) error {
	return s.signOutFn(ctx, refreshToken)
}

func (s *stubUserService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	return s.refreshFn(ctx, refreshToken)
}

func (s *stubUserService) GetUserInfo(ctx context.Context, userID string) (*ports.UserInfo, error) {
	return s.getInfoFn(ctx, userID)
}

func newJSONContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_SignIn_Success(t *testing.T) {
	stub := &stubUserService{
		signInFn: func(ctx context.Context, email, password string) (*ports.TokenPair, error) {
			if email != "ann@example.com" || password != "pw12345678" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &ports.TokenPair{AccessToken: "access123", RefreshToken: "refresh456"}, nil
		},
	}
	h := NewAuthHandler(stub, 720*time.Hour, false)

	c, rec := newJSONContext(t, http.MethodPost, "/api/signIn", `{"email":"ann@example.com","password":"pw12345678"}`)
	if err := h.SignIn(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["accessToken"] != "access123" {
		t.Fatalf("expected access token in body, got %v", resp)
	}
	if _, ok := resp["refreshToken"]; ok {
		t.Fatalf("refresh token must not appear in the body")
	}

	cookies := rec.Result().Cookies()
	var found *http.Cookie
	for _, ck := range cookies {
		if ck.Name == "refresh_token" {
			found = ck
		}
	}
	if found == nil {
		t.Fatalf("refresh cookie not set")
	}
	if found.Value != "refresh456" || !found.HttpOnly {
		t.Fatalf("unexpected refresh cookie: %+v", found)
	}
}

func TestAuthHandler_SignIn_InvalidPayload(t *testing.T) {
	stub := &stubUserService{
		signInFn: func(ctx context.Context, email, password string) (*ports.TokenPair, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub, time.Hour, false)

	c, _ := newJSONContext(t, http.MethodPost, "/api/signIn", "not-json")
	err := h.SignIn(c)
	var he *echo.HTTPError
	if err == nil || !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_SignIn_ValidationFailure(t *testing.T) {
	stub := &stubUserService{
		signInFn: func(ctx context.Context, email, password string) (*ports.TokenPair, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub, time.Hour, false)

	c, _ := newJSONContext(t, http.MethodPost, "/api/signIn", `{"email":"not-an-email","password":"pw"}`)
	err := h.SignIn(c)
	var he *echo.HTTPError
	if err == nil || !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
}

func TestAuthHandler_SignIn_ServiceErrorPropagates(t *testing.T) {
	stub := &stubUserService{
		signInFn: func(ctx context.Context, email, password string) (*ports.TokenPair, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub, time.Hour, false)

	c, _ := newJSONContext(t, http.MethodPost, "/api/signIn", `{"email":"ann@example.com","password":"wrongpass1"}`)
	if err := h.SignIn(c); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials to propagate, got %v", err)
	}
}

func TestAuthHandler_SignUp_Success(t *testing.T) {
	var got ports.SignUpInput
	stub := &stubUserService{
		signUpFn: func(ctx context.Context, input ports.SignUpInput) error {
			got = input
			return nil
		},
	}
	h := NewAuthHandler(stub, time.Hour, false)

	c, rec := newJSONContext(t, http.MethodPost, "/api/signUp", `{"name":"Ann","email":"a@x.com","password":"pw12345678"}`)
	if err := h.SignUp(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if got.Name != "Ann" || got.Email != "a@x.com" || got.Password != "pw12345678" {
		t.Fatalf("unexpected input: %+v", got)
	}
}

func TestAuthHandler_SignUp_ShortPassword(t *testing.T) {
	stub := &stubUserService{
		signUpFn: func(ctx context.Context, input ports.SignUpInput) error {
			t.Fatalf("should not be called")
			return nil
		},
	}
	h := NewAuthHandler(stub, time.Hour, false)

	c, _ := newJSONContext(t, http.MethodPost, "/api/signUp", `{"name":"Ann","email":"a@x.com","password":"short"}`)
	err := h.SignUp(c)
	var he *echo.HTTPError
	if err == nil || !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
}

func TestAuthHandler_SignUp_Conflict(t *testing.T) {
	stub := &stubUserService{
		signUpFn: func(ctx context.Context, input ports.SignUpInput) error {
			return domain.ErrUserExists
		},
	}
	h := NewAuthHandler(stub, time.Hour, false)

	c, _ := newJSONContext(t, http.MethodPost, "/api/signUp", `{"name":"Ann","email":"a@x.com","password":"pw12345678"}`)
	if err := h.SignUp(c); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists to propagate, got %v", err)
	}
}

func TestAuthHandler_SignOut_FromCookie(t *testing.T) {
	stub := &stubUserService{
		signOutFn: func(ctx context.Context, refreshToken string) error {
			if refreshToken != "refresh456" {
				t.Fatalf("unexpected token: %s", refreshToken)
			}
			return nil
		},
	}
	h := NewAuthHandler(stub, time.Hour, false)

	c, rec := newJSONContext(t, http.MethodPost, "/api/signOut", "")
	c.Request().AddCookie(&http.Cookie{Name: "refresh_token", Value: "refresh456"})

	if err := h.SignOut(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	// Sign-out clears the cookie.
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "refresh_token" && ck.MaxAge >= 0 {
			t.Fatalf("refresh cookie not cleared: %+v", ck)
		}
	}
}

func TestAuthHandler_SignOut_BodyFallback(t *testing.T) {
	stub := &stubUserService{
		signOutFn: func(ctx context.Context, refreshToken string) error {
			if refreshToken != "from-body" {
				t.Fatalf("unexpected token: %s", refreshToken)
			}
			return nil
		},
	}
	h := NewAuthHandler(stub, time.Hour, false)

	c, rec := newJSONContext(t, http.MethodPost, "/api/signOut", `{"refreshToken":"from-body"}`)
	if err := h.SignOut(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_SignOut_MissingToken(t *testing.T) {
	stub := &stubUserService{
		signOutFn: func(ctx context.Context, refreshToken string) error {
			t.Fatalf("should not be called")
			return nil
		},
	}
	h := NewAuthHandler(stub, time.Hour, false)

	c, _ := newJSONContext(t, http.MethodPost, "/api/signOut", "")
	err := h.SignOut(c)
	var he *echo.HTTPError
	if err == nil || !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Refresh_Success(t *testing.T) {
	stub := &stubUserService{
		refreshFn: func(ctx context.Context, refreshToken string) (string, error) {
			if refreshToken != "refresh456" {
				t.Fatalf("unexpected token: %s", refreshToken)
			}
			return "new-access", nil
		},
	}
	h := NewAuthHandler(stub, time.Hour, false)

	c, rec := newJSONContext(t, http.MethodPost, "/api/refresh", "")
	c.Request().AddCookie(&http.Cookie{Name: "refresh_token", Value: "refresh456"})

	if err := h.Refresh(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["accessToken"] != "new-access" {
		t.Fatalf("unexpected body: %v", resp)
	}
}

func TestAuthHandler_Refresh_InvalidTokenPropagates(t *testing.T) {
	stub := &stubUserService{
		refreshFn: func(ctx context.Context, refreshToken string) (string, error) {
			return "", domain.ErrInvalidToken
		},
	}
	h := NewAuthHandler(stub, time.Hour, false)

	c, _ := newJSONContext(t, http.MethodPost, "/api/refresh", `{"refreshToken":"stale"}`)
	if err := h.Refresh(c); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken to propagate, got %v", err)
	}
}
