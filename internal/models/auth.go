package models

import "github.com/golang-jwt/jwt/v5"

// UserRole represents the available roles for the RBAC system. Tokens are
// issued by the identity service; this API only validates them.
type UserRole string

const (
	RoleAdmin   UserRole = "Admin"
	RoleFaculty UserRole = "Faculty"
	RoleStudent UserRole = "Student"
)

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID string   `json:"user_id"`
	Role   UserRole `json:"role"`
	Email  string   `json:"email"`
	jwt.RegisteredClaims
}
