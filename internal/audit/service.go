package audit

import (
	"context"

	pkgerrors "github.com/bookhive/bookhive-backend/pkg/errors"
)

// ServiceParams groups dependencies for the audit service.
type ServiceParams struct {
	AuditRepo *Repository
}

// Service exposes read access to the audit trail. Writes happen inside the
// modules that own the audited operations.
type Service interface {
	ListEvents(ctx context.Context, filter Filter) (PageDTO, error)
}

type service struct {
	auditRepo *Repository
}

// NewService builds an audit service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.AuditRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "audit repo is required")
	}
	return &service{auditRepo: params.AuditRepo}, nil
}

// ListEvents returns the filtered audit trail, newest first.
func (s *service) ListEvents(ctx context.Context, filter Filter) (PageDTO, error) {
	if filter.EventType != nil && !filter.EventType.IsValid() {
		return PageDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown event type")
	}
	page, err := s.auditRepo.List(ctx, filter)
	if err != nil {
		return PageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list audit events")
	}
	return page, nil
}
