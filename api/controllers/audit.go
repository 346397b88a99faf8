package controllers

import (
	"net/http"
	"strings"

	"github.com/bookhive/bookhive-backend/api/responses"
	"github.com/bookhive/bookhive-backend/api/validators"
	"github.com/bookhive/bookhive-backend/internal/audit"
	"github.com/bookhive/bookhive-backend/pkg/enums"
	pkgerrors "github.com/bookhive/bookhive-backend/pkg/errors"
	"github.com/bookhive/bookhive-backend/pkg/logger"
	"github.com/bookhive/bookhive-backend/pkg/pagination"
)

// AuditList serves the filtered audit log, newest first.
func AuditList(svc audit.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "audit service unavailable"))
			return
		}

		day, err := validators.ParseQueryDate(r, "date")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
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

		filter := audit.Filter{
			Day:        day,
			Username:   strings.TrimSpace(r.URL.Query().Get("username")),
			BookISBN10: strings.TrimSpace(r.URL.Query().Get("isbn10")),
			Page:       page,
			PerPage:    perPage,
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("event_type")); raw != "" {
			event, err := enums.ParseAuditEventType(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid event type"))
				return
			}
			filter.EventType = &event
		}

		result, err := svc.ListEvents(ctx, filter)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
