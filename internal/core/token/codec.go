// Package token implements the signed-token codec used by the account
// lifecycle: HS256 JWTs under a single shared secret, with a hard expiry
// boundary (an expired token is rejected exactly like a forged one).
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/wms-platform/users-service/internal/core/domain"
)

const (
	defaultAccessTTL  = 7 * 24 * time.Hour
	defaultRefreshTTL = 30 * 24 * time.Hour
)

// Codec issues and verifies access and refresh tokens.
//
// Access tokens carry {sub, iat, exp}. Refresh tokens carry {jti, iat, exp}
// and no subject: expiry is self-contained and signature-checked, but the
// holder's identity is established solely by the stored refresh_token match
// on the user record.
type Codec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewCodec returns a Codec signing with secret. Zero TTLs fall back to the
// defaults (7 days access, 30 days refresh). A negative TTL issues tokens
// that are already expired.
func NewCodec(secret string, accessTTL, refreshTTL time.Duration) *Codec {
	if accessTTL == 0 {
		accessTTL = defaultAccessTTL
	}
	if refreshTTL == 0 {
		refreshTTL = defaultRefreshTTL
	}
	return &Codec{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}
}

func (c *Codec) IssueAccessToken(userID string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(c.accessTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

func (c *Codec) IssueRefreshToken() (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(c.refreshTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// VerifyAccessToken validates signature and expiry and returns the subject.
func (c *Codec) VerifyAccessToken(token string) (string, error) {
	claims := jwt.MapClaims{}
	if err := c.verify(token, claims); err != nil {
		return "", err
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", domain.ErrTokenMalformed
	}
	return sub, nil
}

// VerifyRefreshToken validates signature and expiry.
func (c *Codec) VerifyRefreshToken(token string) error {
	return c.verify(token, jwt.MapClaims{})
}

func (c *Codec) verify(token string, claims jwt.MapClaims) error {
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return domain.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return domain.ErrTokenSignatureInvalid
		default:
			return domain.ErrTokenMalformed
		}
	}
	if !tkn.Valid {
		return domain.ErrTokenSignatureInvalid
	}
	return nil
}
