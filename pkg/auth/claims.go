package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionTokenPayload captures the data available when minting a cookie token.
type SessionTokenPayload struct {
	UserID   uuid.UUID
	Username string
	// JTI is the server-side session identifier the token points at.
	JTI string
}

// SessionTokenClaims represents the typed JWT carried in the session cookie.
type SessionTokenClaims struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	jwt.RegisteredClaims
}
