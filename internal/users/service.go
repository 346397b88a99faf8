package users

import (
	"context"
	"errors"
	"time"

	"github.com/bookhive/bookhive-backend/pkg/db/models"
	pkgerrors "github.com/bookhive/bookhive-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ServiceParams groups dependencies for the user service.
type ServiceParams struct {
	UserRepo *Repository
}

// Service exposes profile management for authenticated users.
type Service interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (ProfileDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (ProfileDTO, error)
}

type service struct {
	userRepo *Repository
}

// NewService builds a user service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repo is required")
	}
	return &service{userRepo: params.UserRepo}, nil
}

// GetProfile returns the caller's account view.
func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (ProfileDTO, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return ProfileDTO{}, err
	}
	return toProfile(*user), nil
}

// UpdateProfile applies the provided partial changes and returns the result.
func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (ProfileDTO, error) {
	current, err := s.loadUser(ctx, userID)
	if err != nil {
		return ProfileDTO{}, err
	}

	gender, err := genderOf(input.Gender)
	if err != nil {
		return ProfileDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid gender")
	}

	fields := map[string]any{}
	if input.Name != nil {
		fields["name"] = *input.Name
	}
	if input.Email != nil {
		fields["email"] = *input.Email
	}
	if input.ShippingAddress != nil {
		fields["shipping_address"] = *input.ShippingAddress
	}
	if input.BillingAddress != nil {
		fields["billing_address"] = *input.BillingAddress
	}
	if gender != nil {
		fields["gender"] = gender.String()
	}
	if input.BirthYear != nil {
		fields["birth_year"] = *input.BirthYear
	}
	if input.FavoriteGenres != nil {
		fields["favorite_genres"] = *input.FavoriteGenres
	}
	if input.GDPRConsent != nil {
		fields["gdpr_consent"] = *input.GDPRConsent
		if *input.GDPRConsent && !current.GDPRConsent {
			fields["gdpr_consent_at"] = time.Now().UTC()
		}
		if !*input.GDPRConsent {
			fields["gdpr_consent_at"] = nil
		}
	}

	if err := s.userRepo.UpdateFields(ctx, userID, fields); err != nil {
		return ProfileDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update profile")
	}

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return ProfileDTO{}, err
	}
	return toProfile(*user), nil
}

func (s *service) loadUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}

func toProfile(user models.User) ProfileDTO {
	var gender *string
	if user.Gender != nil {
		g := user.Gender.String()
		gender = &g
	}
	return ProfileDTO{
		ID:              user.ID,
		Username:        user.Username,
		Name:            user.Name,
		Email:           user.Email,
		ShippingAddress: user.ShippingAddress,
		BillingAddress:  user.BillingAddress,
		Gender:          gender,
		BirthYear:       user.BirthYear,
		FavoriteGenres:  user.FavoriteGenres,
		GDPRConsent:     user.GDPRConsent,
		GDPRConsentAt:   user.GDPRConsentAt,
		CreatedAt:       user.CreatedAt,
	}
}
