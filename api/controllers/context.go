package controllers

import (
	"context"

	"github.com/bookhive/bookhive-backend/api/middleware"
	pkgerrors "github.com/bookhive/bookhive-backend/pkg/errors"
	"github.com/google/uuid"
)

// authedUser extracts the authenticated identity seeded by the auth
// middleware.
func authedUser(ctx context.Context) (uuid.UUID, string, error) {
	raw := middleware.UserIDFromContext(ctx)
	if raw == "" {
		return uuid.Nil, "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, "", pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return userID, middleware.UsernameFromContext(ctx), nil
}
