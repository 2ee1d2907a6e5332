package ports

// TokenCodec produces and validates the signed tokens used by the account
// lifecycle. Access tokens carry the user id as subject; refresh tokens are
// issued without a subject and are bound to a user only by being stored on
// that user's record.
type TokenCodec interface {
	IssueAccessToken(userID string) (string, error)
	IssueRefreshToken() (string, error)
	// VerifyAccessToken checks signature and expiry and returns the subject.
	// Fails with domain.ErrTokenMalformed, domain.ErrTokenExpired or
	// domain.ErrTokenSignatureInvalid.
	VerifyAccessToken(token string) (string, error)
	// VerifyRefreshToken checks signature and expiry only; identity is
	// resolved by the stored-token lookup, not by the codec.
	VerifyRefreshToken(token string) error
}
