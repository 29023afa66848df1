package shared

import "github.com/golang-jwt/jwt/v5"

// types shared between the auth service, the HTTP middleware and the CLI

// TokenTypeAccess is the only token type the API issues.
const TokenTypeAccess = "access"

// AuthClaims is the payload of a bearer access token. Subject carries the
// user id; Username and Role are informational since every request reloads
// the user.
type AuthClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Type     string `json:"type"`
	jwt.RegisteredClaims
}
