package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/wms-platform/users-service/internal/core/domain"
	"github.com/wms-platform/users-service/internal/core/token"
)

type stubUserRepo struct {
	users map[string]*domain.User
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Create(context.Context, *domain.User) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (r *stubUserRepo) FindByEmail(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByRefreshToken(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) SetTokens(context.Context, string, string, string) error { return nil }
func (r *stubUserRepo) SetAccessToken(context.Context, string, string) error    { return nil }
func (r *stubUserRepo) ClearTokens(context.Context, string) error               { return nil }

func newGateContext(t *testing.T, authHeader string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	return e.NewContext(req, httptest.NewRecorder())
}

func TestAuth_ValidToken(t *testing.T) {
	codec := token.NewCodec("secret", time.Hour, time.Hour)
	repo := &stubUserRepo{users: map[string]*domain.User{
		"user_1": {ID: "user_1", Email: "ann@example.com", Name: "Ann"},
	}}

	signed, err := codec.IssueAccessToken("user_1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	c := newGateContext(t, "Bearer "+signed)

	called := false
	handler := Auth(codec, repo)(func(c echo.Context) error {
		called = true
		user, _ := c.Get(ContextKeyUser).(*domain.User)
		if user == nil || user.Email != "ann@example.com" {
			t.Fatalf("user not injected: %+v", user)
		}
		if raw, _ := c.Get(ContextKeyToken).(string); raw != signed {
			t.Fatalf("raw token not injected")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	codec := token.NewCodec("secret", time.Hour, time.Hour)
	repo := &stubUserRepo{users: map[string]*domain.User{}}

	c := newGateContext(t, "")
	handler := Auth(codec, repo)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrMissingAuthHeader) {
		t.Fatalf("expected ErrMissingAuthHeader, got %v", err)
	}
}

func TestAuth_MalformedHeader(t *testing.T) {
	codec := token.NewCodec("secret", time.Hour, time.Hour)
	repo := &stubUserRepo{users: map[string]*domain.User{}}

	// All malformed header shapes collapse to the missing-credential class,
	// never a panic or a different error.
	for _, header := range []string{"Bearer", "Bearer ", "Token abc", "abc", "Bearer a b"} {
		c := newGateContext(t, header)
		handler := Auth(codec, repo)(func(c echo.Context) error {
			t.Fatalf("should not reach next for header %q", header)
			return nil
		})
		if err := handler(c); !errors.Is(err, domain.ErrMissingAuthHeader) {
			t.Fatalf("header %q: expected ErrMissingAuthHeader, got %v", header, err)
		}
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	expired := token.NewCodec("secret", -time.Minute, time.Hour)
	verifier := token.NewCodec("secret", time.Hour, time.Hour)
	repo := &stubUserRepo{users: map[string]*domain.User{}}

	signed, err := expired.IssueAccessToken("user_1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	c := newGateContext(t, "Bearer "+signed)
	handler := Auth(verifier, repo)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestAuth_ForgedToken(t *testing.T) {
	codec := token.NewCodec("secret", time.Hour, time.Hour)
	forger := token.NewCodec("other-secret", time.Hour, time.Hour)
	repo := &stubUserRepo{users: map[string]*domain.User{}}

	forged, err := forger.IssueAccessToken("user_1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	for _, tkn := range []string{forged, "not-a-token"} {
		c := newGateContext(t, "Bearer "+tkn)
		handler := Auth(codec, repo)(func(c echo.Context) error {
			t.Fatalf("should not reach next")
			return nil
		})
		if err := handler(c); !errors.Is(err, domain.ErrInvalidToken) {
			t.Fatalf("token %q: expected ErrInvalidToken, got %v", tkn, err)
		}
	}
}

func TestAuth_ValidTokenUnknownUser(t *testing.T) {
	codec := token.NewCodec("secret", time.Hour, time.Hour)
	repo := &stubUserRepo{users: map[string]*domain.User{}}

	signed, err := codec.IssueAccessToken("deleted_user")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	c := newGateContext(t, "Bearer "+signed)
	handler := Auth(codec, repo)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	// Indistinguishable from a forged token so account existence does not leak.
	if err := handler(c); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
