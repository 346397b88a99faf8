package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bookhive/bookhive-backend/api/responses"
	"github.com/bookhive/bookhive-backend/api/validators"
	"github.com/bookhive/bookhive-backend/internal/catalog"
	"github.com/bookhive/bookhive-backend/internal/favorites"
	pkgAuth "github.com/bookhive/bookhive-backend/pkg/auth"
	"github.com/bookhive/bookhive-backend/pkg/config"
	pkgerrors "github.com/bookhive/bookhive-backend/pkg/errors"
	"github.com/bookhive/bookhive-backend/pkg/logger"
	"github.com/bookhive/bookhive-backend/pkg/pagination"
)

type catalogFeedPayload struct {
	Books []catalog.FeedBook `json:"books" validate:"required,dive"`
}

// BookSearch serves the paginated catalog search. Each query dimension
// accepts semicolon-separated alternatives.
func BookSearch(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		page, err := validators.ParseQueryInt(r, "page", 1, 1, 1_000_000)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		perPage, err := validators.ParseQueryInt(r, "per_page", pagination.DefaultPerPage, 1, pagination.MaxPerPage)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		params := catalog.SearchParams{
			Title:   strings.TrimSpace(r.URL.Query().Get("title")),
			Author:  strings.TrimSpace(r.URL.Query().Get("author")),
			ISBN:    strings.TrimSpace(r.URL.Query().Get("isbn")),
			Genre:   strings.TrimSpace(r.URL.Query().Get("genre")),
			Page:    page,
			PerPage: perPage,
		}

		result, err := svc.Search(ctx, params)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// BookGet serves the detail view of one visible book, resolved by either
// ISBN form. When the request carries a valid session cookie the response
// also says whether the book is among the caller's favorites.
func BookGet(svc catalog.Service, favSvc favorites.Service, sessionCfg config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		detail, err := svc.GetBook(ctx, chi.URLParam(r, "isbn10"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if userID, ok := sessionUserID(r, sessionCfg); ok && favSvc != nil {
			if favorite, err := favSvc.Status(ctx, userID, detail.ISBN10); err == nil {
				detail.IsFavorite = &favorite
			}
		}
		responses.WriteSuccess(w, detail)
	}
}

// sessionUserID best-effort decodes the session cookie on a public route.
// Failures just mean an anonymous response.
func sessionUserID(r *http.Request, cfg config.SessionConfig) (uuid.UUID, bool) {
	cookie, err := r.Cookie(cfg.CookieName)
	if err != nil || cookie.Value == "" {
		return uuid.Nil, false
	}
	claims, err := pkgAuth.ParseSessionToken(cfg, cookie.Value)
	if err != nil {
		return uuid.Nil, false
	}
	return claims.UserID, true
}

// BookGenres lists every known genre name.
func BookGenres(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		genres, err := svc.ListGenres(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"genres": genres})
	}
}

// CatalogSync ingests a full catalog feed and reports the visibility diff.
func CatalogSync(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload catalogFeedPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.SyncCatalog(ctx, payload.Books)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
