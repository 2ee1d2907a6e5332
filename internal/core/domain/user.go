package domain

import (
	"errors"
	"time"
)

// Token errors reported by the codec. The authentication middleware collapses
// ErrTokenMalformed and ErrTokenSignatureInvalid into ErrInvalidToken so a
// caller cannot tell a forged token from a structurally broken one.
var (
	ErrTokenMalformed        = errors.New("token is malformed")
	ErrTokenExpired          = errors.New("token has expired")
	ErrTokenSignatureInvalid = errors.New("token signature is invalid")
)

// Authentication and lifecycle errors. ErrInvalidToken also covers the
// "valid signature but no matching user" case: distinguishing it would leak
// account existence.
var (
	ErrMissingAuthHeader  = errors.New("no authentication header provided")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidCredentials = errors.New("invalid password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user with this email already exists")
)

// CompanyMembership links a user to a company. The users service stores and
// returns these records verbatim; roles and project role ids are interpreted
// by downstream services only.
type CompanyMembership struct {
	CompanyID      string   `json:"companyId" bson:"company_id"`
	EmployeeID     string   `json:"employeeId" bson:"employee_id"`
	Roles          []string `json:"roles" bson:"roles"`
	ProjectRolesID []string `json:"projectRolesId" bson:"project_roles_id"`
}

// User is the account aggregate. AccessToken and RefreshToken hold the most
// recently issued pair and are nil while the user is signed out; issuing a new
// pair overwrites the previous one, so at most one pair is live per user.
type User struct {
	ID           string              `json:"id"`
	Email        string              `json:"email"`
	Name         string              `json:"name"`
	PasswordHash string              `json:"-"`
	AccessToken  *string             `json:"-"`
	RefreshToken *string             `json:"-"`
	Companies    []CompanyMembership `json:"companies"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}
