package models

import "github.com/golang-jwt/jwt/v5"

// UserRole enumerates actor roles recognised by the analytics API. Token
// issuance lives in the identity service; this API only consumes claims.
type UserRole string

const (
	RoleAdmin       UserRole = "admin"
	RoleSchoolAdmin UserRole = "school_admin"
)

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	Role     UserRole `json:"role"`
	SchoolID string   `json:"school_id,omitempty"`
	jwt.RegisteredClaims
}

// ScopeKey identifies the actor scope used when keying cached payloads.
// School-scoped actors always cache under their own school.
func (c *JWTClaims) ScopeKey() string {
	if c == nil {
		return "anonymous"
	}
	school := c.SchoolID
	if c.Role == RoleAdmin || school == "" {
		school = "all"
	}
	return c.UserID + ":" + school
}
