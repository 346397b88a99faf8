package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bookhive/bookhive-backend/internal/audit"
	"github.com/bookhive/bookhive-backend/internal/users"
	pkgAuth "github.com/bookhive/bookhive-backend/pkg/auth"
	"github.com/bookhive/bookhive-backend/pkg/auth/session"
	"github.com/bookhive/bookhive-backend/pkg/config"
	"github.com/bookhive/bookhive-backend/pkg/db"
	"github.com/bookhive/bookhive-backend/pkg/db/models"
	"github.com/bookhive/bookhive-backend/pkg/enums"
	pkgerrors "github.com/bookhive/bookhive-backend/pkg/errors"
	"github.com/bookhive/bookhive-backend/pkg/logger"
	"github.com/bookhive/bookhive-backend/pkg/security"
	"gorm.io/gorm"
)

// sessionCreator is the write surface of the session manager.
type sessionCreator interface {
	Create(ctx context.Context, userID, username string) (string, error)
	Revoke(ctx context.Context, sessionID string) error
}

// ServiceParams groups dependencies for the auth service.
type ServiceParams struct {
	UserRepo    *users.Repository
	AuditRepo   *audit.Repository
	Sessions    sessionCreator
	SessionCfg  config.SessionConfig
	PasswordCfg config.PasswordConfig
	Logger      *logger.Logger
}

// Service exposes account registration and session lifecycle.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (RegisteredDTO, error)
	Login(ctx context.Context, input LoginInput) (SessionDTO, error)
	Logout(ctx context.Context, sessionID, username string) error
}

type service struct {
	userRepo    *users.Repository
	auditRepo   *audit.Repository
	sessions    sessionCreator
	sessionCfg  config.SessionConfig
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
}

// NewService builds an auth service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repo is required")
	}
	if params.AuditRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "audit repo is required")
	}
	if params.Sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session manager is required")
	}
	return &service{
		userRepo:    params.UserRepo,
		auditRepo:   params.AuditRepo,
		sessions:    params.Sessions,
		sessionCfg:  params.SessionCfg,
		passwordCfg: params.PasswordCfg,
		logg:        params.Logger,
	}, nil
}

// Register creates the account and records the registration event.
func (s *service) Register(ctx context.Context, input RegisterInput) (RegisteredDTO, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return RegisteredDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return RegisteredDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "hash password")
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		Name:         input.Name,
		GDPRConsent:  input.GDPRConsent,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if db.IsUniqueViolation(err, "") {
			return RegisteredDTO{}, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "username already taken")
		}
		return RegisteredDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}

	if err := s.auditRepo.Append(ctx, enums.AuditEventUserRegister, username, nil, nil); err != nil {
		return RegisteredDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record registration")
	}

	return RegisteredDTO{ID: user.ID, Username: user.Username}, nil
}

// Login verifies credentials, opens a server-side session, and mints the
// cookie token. Unknown usernames and wrong passwords fail identically.
func (s *service) Login(ctx context.Context, input LoginInput) (SessionDTO, error) {
	invalid := pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")

	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(input.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SessionDTO{}, invalid
		}
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return SessionDTO{}, invalid
	}

	sessionID, err := s.sessions.Create(ctx, user.ID.String(), user.Username)
	if err != nil {
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create session")
	}

	token, err := pkgAuth.MintSessionToken(s.sessionCfg, time.Now().UTC(), pkgAuth.SessionTokenPayload{
		UserID:   user.ID,
		Username: user.Username,
		JTI:      sessionID,
	})
	if err != nil {
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint session token")
	}

	if err := s.userRepo.TouchLastLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "stamp login")
	}
	if err := s.auditRepo.Append(ctx, enums.AuditEventUserLogin, user.Username, nil, nil); err != nil {
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record login")
	}

	return SessionDTO{
		UserID:    user.ID,
		Username:  user.Username,
		SessionID: sessionID,
		Token:     token,
	}, nil
}

// Logout revokes the session and records the event.
func (s *service) Logout(ctx context.Context, sessionID, username string) error {
	if err := s.sessions.Revoke(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	if err := s.auditRepo.Append(ctx, enums.AuditEventUserLogout, username, nil, nil); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record logout")
	}
	return nil
}

var _ sessionCreator = (*session.Manager)(nil)
