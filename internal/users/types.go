package users

import (
	"time"

	"github.com/bookhive/bookhive-backend/pkg/enums"
	"github.com/bookhive/bookhive-backend/pkg/types"
	"github.com/google/uuid"
)

// ProfileDTO is the account view served to its owner.
type ProfileDTO struct {
	ID              uuid.UUID      `json:"id"`
	Username        string         `json:"username"`
	Name            string         `json:"name"`
	Email           *string        `json:"email,omitempty"`
	ShippingAddress *types.Address `json:"shipping_address,omitempty"`
	BillingAddress  *types.Address `json:"billing_address,omitempty"`
	Gender          *string        `json:"gender,omitempty"`
	BirthYear       *int           `json:"birth_year,omitempty"`
	FavoriteGenres  string         `json:"favorite_genres"`
	GDPRConsent     bool           `json:"gdpr_consent"`
	GDPRConsentAt   *time.Time     `json:"gdpr_consent_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

// UpdateProfileInput carries the optional profile fields a user may change.
// Nil pointers leave the stored value untouched.
type UpdateProfileInput struct {
	Name            *string        `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Email           *string        `json:"email,omitempty" validate:"omitempty,email"`
	ShippingAddress *types.Address `json:"shipping_address,omitempty"`
	BillingAddress  *types.Address `json:"billing_address,omitempty"`
	Gender          *string        `json:"gender,omitempty"`
	BirthYear       *int           `json:"birth_year,omitempty" validate:"omitempty,min=1900,max=2100"`
	FavoriteGenres  *string        `json:"favorite_genres,omitempty"`
	GDPRConsent     *bool          `json:"gdpr_consent,omitempty"`
}

// genderOf validates the optional gender value against the closed enum.
func genderOf(raw *string) (*enums.Gender, error) {
	if raw == nil {
		return nil, nil
	}
	parsed, err := enums.ParseGender(*raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
