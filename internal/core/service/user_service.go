package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/wms-platform/users-service/internal/core/domain"
	"github.com/wms-platform/users-service/internal/core/ports"
)

// UserService implements the account lifecycle: sign-in, sign-up, sign-out,
// refresh and profile reads. All durable state lives in the repository; the
// service itself is stateless and safe for concurrent use. Concurrent
// sign-ins for the same user are not ordered here: the last persisted token
// pair wins, which is exactly the single-active-pair invariant.
type UserService struct {
	repo       ports.UserRepository
	codec      ports.TokenCodec
	audit      ports.AuditRecorder
	logger     zerolog.Logger
	bcryptCost int
}

func NewUserService(repo ports.UserRepository, codec ports.TokenCodec, audit ports.AuditRecorder, logger zerolog.Logger, bcryptCost int) *UserService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{repo: repo, codec: codec, audit: audit, logger: logger, bcryptCost: bcryptCost}
}

// SignIn authenticates email+password and issues a fresh token pair,
// overwriting whatever pair was stored before.
func (s *UserService) SignIn(ctx context.Context, email, password string) (*ports.TokenPair, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.logger.Warn().Str("email", email).Msg("sign-in rejected: password mismatch")
		return nil, domain.ErrInvalidCredentials
	}

	accessToken, err := s.codec.IssueAccessToken(user.ID)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.codec.IssueRefreshToken()
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetTokens(ctx, user.ID, accessToken, refreshToken); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user signed in")
	s.record(domain.ActionSignIn, user)

	return &ports.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// SignUp registers a new account with null tokens. No token is issued; the
// caller must sign in afterwards.
func (s *UserService) SignUp(ctx context.Context, input ports.SignUpInput) error {
	if _, err := s.repo.FindByEmail(ctx, input.Email); err == nil {
		return domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: string(hash),
		Companies:    []domain.CompanyMembership{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return err
	}

	s.logger.Info().Str("user_id", created.ID).Msg("user registered")
	s.record(domain.ActionSignUp, created)
	return nil
}

// SignOut resolves the holder of refreshToken and nulls both token fields.
// A token that matches no record (already signed out, never issued, forged)
// fails with ErrUserNotFound; a null stored token never matches the lookup.
func (s *UserService) SignOut(ctx context.Context, refreshToken string) error {
	user, err := s.repo.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		return err
	}

	if err := s.repo.ClearTokens(ctx, user.ID); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user signed out")
	s.record(domain.ActionSignOut, user)
	return nil
}

// Refresh exchanges a valid refresh token for a new access token. The codec
// check (signature, expiry) and the stored-value match must both pass; the
// refresh token itself is not rotated.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if err := s.codec.VerifyRefreshToken(refreshToken); err != nil {
		return "", err
	}

	user, err := s.repo.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidToken
		}
		return "", err
	}

	accessToken, err := s.codec.IssueAccessToken(user.ID)
	if err != nil {
		return "", err
	}

	if err := s.repo.SetAccessToken(ctx, user.ID, accessToken); err != nil {
		return "", err
	}

	s.record(domain.ActionRefresh, user)
	return accessToken, nil
}

// GetUserInfo returns the profile view for id. Password hash and tokens are
// never part of the result.
func (s *UserService) GetUserInfo(ctx context.Context, userID string) (*ports.UserInfo, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	companies := user.Companies
	if companies == nil {
		companies = []domain.CompanyMembership{}
	}

	return &ports.UserInfo{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Companies: companies,
	}, nil
}

func (s *UserService) record(action string, user *domain.User) {
	if s.audit == nil {
		return
	}
	s.audit.Record(domain.AuthEvent{
		Action:    action,
		Subject:   user.ID,
		Email:     user.Email,
		Timestamp: time.Now().UTC(),
	})
}
