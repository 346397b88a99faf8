package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bookhive/bookhive-backend/internal/catalog"
	pkgAuth "github.com/bookhive/bookhive-backend/pkg/auth"
	"github.com/bookhive/bookhive-backend/pkg/auth/session"
	"github.com/bookhive/bookhive-backend/pkg/config"
	"github.com/bookhive/bookhive-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCatalogService struct{}

func (stubCatalogService) Search(ctx context.Context, params catalog.SearchParams) (catalog.BooksPageDTO, error) {
	return catalog.BooksPageDTO{Books: []catalog.BookSummary{}, Page: params.Page, PerPage: params.PerPage, TotalPages: 1}, nil
}

func (stubCatalogService) GetBook(ctx context.Context, isbn10 string) (catalog.BookDetail, error) {
	return catalog.BookDetail{}, nil
}

func (stubCatalogService) ListGenres(ctx context.Context) ([]string, error) {
	return []string{"Fiction"}, nil
}

func (stubCatalogService) SyncCatalog(ctx context.Context, feed []catalog.FeedBook) (catalog.SyncResult, error) {
	return catalog.SyncResult{}, nil
}

type stubFavoritesService struct{}

func (stubFavoritesService) Toggle(ctx context.Context, userID uuid.UUID, isbn10 string) (bool, error) {
	return true, nil
}

func (stubFavoritesService) List(ctx context.Context, userID uuid.UUID) ([]catalog.BookSummary, error) {
	return []catalog.BookSummary{}, nil
}

func (stubFavoritesService) Status(ctx context.Context, userID uuid.UUID, isbn10 string) (bool, error) {
	return false, nil
}

type stubSessionChecker struct {
	userID string
}

func (s stubSessionChecker) Lookup(ctx context.Context, sessionID string) (*session.Session, error) {
	return &session.Session{UserID: s.userID, Username: "alice"}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "8080"},
		Session: config.SessionConfig{
			Secret:     "test-secret",
			Issuer:     "bookhive",
			CookieName: "bookhive_session",
			TTLMinutes: 60,
		},
		CORS: config.CORSConfig{AllowedOrigins: []string{"*"}},
	}
}

func newTestRouter(t *testing.T, checker session.Checker) http.Handler {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test"})
	return NewRouter(testConfig(), logg, checker, nil, nil, Services{
		Catalog:   stubCatalogService{},
		Favorites: stubFavoritesService{},
	})
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(t, stubSessionChecker{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test", rec.Header().Get("X-BookHive-Env"))
}

func TestBookSearchIsPublic(t *testing.T) {
	router := newTestRouter(t, stubSessionChecker{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/books/?title=emma", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProtectedRoutesRequireCookie(t *testing.T) {
	router := newTestRouter(t, stubSessionChecker{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/me/favorites", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRouteAcceptsSessionCookie(t *testing.T) {
	cfg := testConfig()
	userID := uuid.New()
	router := newTestRouter(t, stubSessionChecker{userID: userID.String()})

	token, err := pkgAuth.MintSessionToken(cfg.Session, time.Now().UTC(), pkgAuth.SessionTokenPayload{
		UserID:   userID,
		Username: "alice",
		JTI:      "session-1",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me/favorites", nil)
	req.AddCookie(&http.Cookie{Name: cfg.Session.CookieName, Value: token})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUnknownRouteReturns404(t *testing.T) {
	router := newTestRouter(t, stubSessionChecker{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
