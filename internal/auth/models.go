package auth

import "github.com/golang-jwt/jwt/v5"

// User is an account able to author posts, comment and follow.
type User struct {
	ID                int64  `json:"-"`
	Username          string `json:"username"`
	Email             string `json:"email"`
	Token             string `json:"token,omitempty"`
	Password          []byte `json:"-"`
	PlaintextPassword string `json:"-"`
}

// UserClaim is the token payload; the username is resolved to a User on every request.
type UserClaim struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}
