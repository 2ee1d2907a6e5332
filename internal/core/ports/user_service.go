package ports

import (
	"context"

	"github.com/wms-platform/users-service/internal/core/domain"
)

// SignUpInput carries the data needed to register a new account.
type SignUpInput struct {
	Name     string
	Email    string
	Password string
}

// TokenPair is returned by SignIn. The transport layer decides how each token
// travels (access token in the response body, refresh token in a cookie).
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UserInfo is the profile view returned by GetUserInfo. It never includes the
// password hash or stored tokens.
type UserInfo struct {
	ID        string
	Name      string
	Email     string
	Companies []domain.CompanyMembership
}

// UserService defines the account lifecycle operations.
type UserService interface {
	SignIn(ctx context.Context, email, password string) (*TokenPair, error)
	SignUp(ctx context.Context, input SignUpInput) error
	SignOut(ctx context.Context, refreshToken string) error
	Refresh(ctx context.Context, refreshToken string) (string, error)
	GetUserInfo(ctx context.Context, userID string) (*UserInfo, error)
}
