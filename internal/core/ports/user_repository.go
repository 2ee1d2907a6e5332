package ports

import (
	"context"

	"github.com/wms-platform/users-service/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
//
// Lookups return domain.ErrUserNotFound when no document matches. The refresh
// token lookup only ever matches a non-null stored value, so a signed-out user
// is indistinguishable from a never-issued token.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByRefreshToken(ctx context.Context, refreshToken string) (*domain.User, error)

	// SetTokens overwrites both token fields, invalidating any prior pair.
	SetTokens(ctx context.Context, id, accessToken, refreshToken string) error
	// SetAccessToken overwrites only the access token, leaving the refresh
	// token in place (used by the refresh flow, which does not rotate).
	SetAccessToken(ctx context.Context, id, accessToken string) error
	// ClearTokens nulls both token fields (sign-out).
	ClearTokens(ctx context.Context, id string) error
}
