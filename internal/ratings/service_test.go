package ratings

import (
	"context"
	"fmt"
	"testing"

	"github.com/bookhive/bookhive-backend/internal/catalog"
	"github.com/bookhive/bookhive-backend/pkg/db/models"
	pkgerrors "github.com/bookhive/bookhive-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type gormTxRunner struct {
	conn *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.conn.WithContext(ctx).Transaction(fn)
}

func setupRatingsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	books := `
CREATE TABLE IF NOT EXISTS books (
  isbn10 TEXT PRIMARY KEY,
  isbn13 TEXT NOT NULL UNIQUE,
  title TEXT NOT NULL,
  author TEXT NOT NULL,
  publisher TEXT,
  description TEXT,
  cover_url TEXT,
  pub_year INTEGER,
  page_count INTEGER,
  genres TEXT NOT NULL DEFAULT '',
  price REAL NOT NULL DEFAULT 0,
  visible INTEGER NOT NULL DEFAULT 1,
  rating_avg REAL NOT NULL DEFAULT 0,
  rating_count INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	ratings := `
CREATE TABLE IF NOT EXISTS ratings (
  id TEXT PRIMARY KEY,
  book_isbn10 TEXT NOT NULL,
  user_id TEXT NOT NULL,
  value INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (user_id, book_isbn10)
);`

	for _, stmt := range []string{books, ratings} {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

func newRatingsTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := setupRatingsTestDB(t)
	svc, err := NewService(ServiceParams{
		Client:      gormTxRunner{conn: conn},
		RatingRepo:  NewRepository(conn),
		CatalogRepo: catalog.NewRepository(conn),
	})
	require.NoError(t, err)
	return svc, conn
}

func mustCreateRatingTestBook(t *testing.T, conn *gorm.DB, isbn10 string, visible bool) {
	t.Helper()
	book := &models.Book{
		ISBN10:  isbn10,
		ISBN13:  "978" + isbn10,
		Title:   "Book " + isbn10,
		Author:  "Author",
		Visible: visible,
	}
	require.NoError(t, conn.Create(book).Error)
}

func TestRateMaintainsRunningAverage(t *testing.T) {
	svc, conn := newRatingsTestService(t)
	ctx := context.Background()

	mustCreateRatingTestBook(t, conn, "0000000001", true)
	alice := uuid.New()
	bob := uuid.New()

	dto, err := svc.Rate(ctx, alice, "0000000001", RateInput{Value: 5})
	require.NoError(t, err)
	assert.Equal(t, 5.0, dto.RatingAvg)
	assert.Equal(t, 1, dto.RatingCount)

	dto, err = svc.Rate(ctx, bob, "0000000001", RateInput{Value: 4})
	require.NoError(t, err)
	assert.Equal(t, 4.5, dto.RatingAvg)
	assert.Equal(t, 2, dto.RatingCount)

	dto, err = svc.Rate(ctx, alice, "0000000001", RateInput{Value: 3})
	require.NoError(t, err)
	assert.Equal(t, 3.5, dto.RatingAvg)
	assert.Equal(t, 2, dto.RatingCount)
}

func TestRateSameValueIsStable(t *testing.T) {
	svc, conn := newRatingsTestService(t)
	ctx := context.Background()

	mustCreateRatingTestBook(t, conn, "0000000001", true)
	userID := uuid.New()

	_, err := svc.Rate(ctx, userID, "0000000001", RateInput{Value: 4})
	require.NoError(t, err)

	dto, err := svc.Rate(ctx, userID, "0000000001", RateInput{Value: 4})
	require.NoError(t, err)
	assert.Equal(t, 4.0, dto.RatingAvg)
	assert.Equal(t, 1, dto.RatingCount)
}

func TestRateRejectsOutOfRangeValue(t *testing.T) {
	svc, conn := newRatingsTestService(t)
	mustCreateRatingTestBook(t, conn, "0000000001", true)

	for _, value := range []int{0, 6, -1} {
		_, err := svc.Rate(context.Background(), uuid.New(), "0000000001", RateInput{Value: value})
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	}
}

func TestRateUnknownOrHiddenBook(t *testing.T) {
	svc, conn := newRatingsTestService(t)
	mustCreateRatingTestBook(t, conn, "0000000002", false)

	for _, isbn := range []string{"missing", "0000000002"} {
		_, err := svc.Rate(context.Background(), uuid.New(), isbn, RateInput{Value: 3})
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	}
}

func TestGetOwnRating(t *testing.T) {
	svc, conn := newRatingsTestService(t)
	ctx := context.Background()

	mustCreateRatingTestBook(t, conn, "0000000001", true)
	userID := uuid.New()

	dto, err := svc.GetOwn(ctx, userID, "0000000001")
	require.NoError(t, err)
	assert.Nil(t, dto)

	_, err = svc.Rate(ctx, userID, "0000000001", RateInput{Value: 2})
	require.NoError(t, err)

	dto, err = svc.GetOwn(ctx, userID, "0000000001")
	require.NoError(t, err)
	require.NotNil(t, dto)
	assert.Equal(t, 2, dto.Value)
	assert.Equal(t, 1, dto.RatingCount)
}
