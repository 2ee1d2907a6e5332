package domain

import "time"

// Audit actions recorded for account lifecycle transitions.
const (
	ActionSignUp  = "sign_up"
	ActionSignIn  = "sign_in"
	ActionSignOut = "sign_out"
	ActionRefresh = "refresh"
)

// AuthEvent records a completed account lifecycle transition.
type AuthEvent struct {
	Action    string
	Subject   string // user id
	Email     string
	Timestamp time.Time
}
