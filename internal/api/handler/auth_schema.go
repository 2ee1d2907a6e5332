package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type signInRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type signUpRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// refreshRequest is the body fallback for clients that cannot send the
// refresh-token cookie.
type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// signInResponse carries the access token only; the refresh token travels in
// an http-only cookie, never in the body.
type signInResponse struct {
	AccessToken string `json:"accessToken"`
}

type refreshResponse struct {
	AccessToken string `json:"accessToken"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type companyResponse struct {
	CompanyID      string   `json:"companyId"`
	EmployeeID     string   `json:"employeeId"`
	Roles          []string `json:"roles"`
	ProjectRolesID []string `json:"projectRolesId"`
}

type userInfoResponse struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Companies []companyResponse `json:"companies"`
}
