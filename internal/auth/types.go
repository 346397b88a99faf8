package auth

import "github.com/google/uuid"

// RegisterInput carries a new account request.
type RegisterInput struct {
	Username    string `json:"username" validate:"required,min=3,max=60"`
	Password    string `json:"password" validate:"required,min=8,max=200"`
	Name        string `json:"name" validate:"required,min=1,max=120"`
	GDPRConsent bool   `json:"gdpr_consent"`
}

// LoginInput carries a credential check request.
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisteredDTO confirms account creation.
type RegisteredDTO struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

// SessionDTO carries the minted cookie token back to the controller. The
// token itself never appears in a response body.
type SessionDTO struct {
	UserID    uuid.UUID
	Username  string
	SessionID string
	Token     string
}
