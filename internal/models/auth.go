package models

import "github.com/golang-jwt/jwt/v5"

// UserRole enumerates the roles recognized by the routine API. Tokens are
// issued by the campus identity service; this API only validates them.
type UserRole string

const (
	RoleAdmin        UserRole = "ADMIN"
	RoleCoordinator  UserRole = "COORDINATOR"
	RoleProgramChair UserRole = "PROGRAM_CHAIR"
	RoleFaculty      UserRole = "FACULTY"
	RoleViewer       UserRole = "VIEWER"
)

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	Role     UserRole `json:"role"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	jwt.RegisteredClaims
}
