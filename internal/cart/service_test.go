package cart

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bookhive/bookhive-backend/internal/catalog"
	"github.com/bookhive/bookhive-backend/pkg/db/models"
	pkgerrors "github.com/bookhive/bookhive-backend/pkg/errors"
	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
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
	cartItems := `
CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  book_isbn10 TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (user_id, book_isbn10)
);`

	for _, stmt := range []string{books, cartItems} {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

func mustCreateCartTestBook(t *testing.T, conn *gorm.DB, isbn10 string, price float64) {
	t.Helper()
	book := &models.Book{
		ISBN10:  isbn10,
		ISBN13:  "978" + isbn10,
		Title:   "Book " + isbn10,
		Author:  "Author",
		Price:   price,
		Visible: true,
	}
	require.NoError(t, conn.Create(book).Error)
}

func newDBCartService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := setupCartTestDB(t)
	svc, err := NewService(ServiceParams{
		Store:       NewDBStore(conn),
		CatalogRepo: catalog.NewRepository(conn),
	})
	require.NoError(t, err)
	return svc, conn
}

func TestSetItemAddsAndUpdates(t *testing.T) {
	svc, conn := newDBCartService(t)
	ctx := context.Background()
	userID := uuid.New()

	mustCreateCartTestBook(t, conn, "0000000001", 12.50)

	dto, err := svc.SetItem(ctx, userID, SetItemInput{ISBN10: "0000000001", Quantity: 2})
	require.NoError(t, err)
	require.Len(t, dto.Items, 1)
	assert.Equal(t, 2, dto.Items[0].Quantity)
	assert.Equal(t, 25.0, dto.Items[0].LineTotal)
	assert.Equal(t, 25.0, dto.Subtotal)

	dto, err = svc.SetItem(ctx, userID, SetItemInput{ISBN10: "0000000001", Quantity: 3})
	require.NoError(t, err)
	require.Len(t, dto.Items, 1)
	assert.Equal(t, 3, dto.Items[0].Quantity)
	assert.Equal(t, 37.5, dto.Subtotal)
}

func TestSetItemRejectsBadQuantity(t *testing.T) {
	svc, conn := newDBCartService(t)
	mustCreateCartTestBook(t, conn, "0000000001", 10)

	_, err := svc.SetItem(context.Background(), uuid.New(), SetItemInput{ISBN10: "0000000001", Quantity: 0})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestSetItemUnknownBook(t *testing.T) {
	svc, _ := newDBCartService(t)

	_, err := svc.SetItem(context.Background(), uuid.New(), SetItemInput{ISBN10: "missing", Quantity: 1})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestToggleFlipsMembership(t *testing.T) {
	svc, conn := newDBCartService(t)
	ctx := context.Background()
	userID := uuid.New()

	mustCreateCartTestBook(t, conn, "0000000001", 10)

	state, err := svc.Toggle(ctx, userID, "0000000001")
	require.NoError(t, err)
	assert.True(t, state.InCart)
	assert.Equal(t, 1, state.Quantity)

	// toggling off removes the line even after the quantity grew
	_, err = svc.SetItem(ctx, userID, SetItemInput{ISBN10: "0000000001", Quantity: 5})
	require.NoError(t, err)

	state, err = svc.Toggle(ctx, userID, "0000000001")
	require.NoError(t, err)
	assert.False(t, state.InCart)
	assert.Zero(t, state.Quantity)

	dto, err := svc.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, dto.Items)
}

func TestStatusResolvesEitherISBNForm(t *testing.T) {
	svc, conn := newDBCartService(t)
	ctx := context.Background()
	userID := uuid.New()

	mustCreateCartTestBook(t, conn, "0000000001", 10)

	status, err := svc.Status(ctx, userID, "0000000001")
	require.NoError(t, err)
	assert.False(t, status.InCart)

	_, err = svc.SetItem(ctx, userID, SetItemInput{ISBN10: "0000000001", Quantity: 3})
	require.NoError(t, err)

	// same book through its ISBN-13
	status, err = svc.Status(ctx, userID, "9780000000001")
	require.NoError(t, err)
	assert.True(t, status.InCart)
	assert.Equal(t, 3, status.Quantity)
}

func TestStatusUnknownBook(t *testing.T) {
	svc, _ := newDBCartService(t)

	_, err := svc.Status(context.Background(), uuid.New(), "missing")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestTotalsAvoidFloatDrift(t *testing.T) {
	svc, conn := newDBCartService(t)
	ctx := context.Background()
	userID := uuid.New()

	mustCreateCartTestBook(t, conn, "0000000001", 0.10)
	mustCreateCartTestBook(t, conn, "0000000002", 19.99)

	_, err := svc.SetItem(ctx, userID, SetItemInput{ISBN10: "0000000001", Quantity: 3})
	require.NoError(t, err)
	dto, err := svc.SetItem(ctx, userID, SetItemInput{ISBN10: "0000000002", Quantity: 3})
	require.NoError(t, err)

	require.Len(t, dto.Items, 2)
	totals := map[string]float64{}
	for _, line := range dto.Items {
		totals[line.Book.ISBN10] = line.LineTotal
	}
	assert.Equal(t, 0.3, totals["0000000001"])
	assert.Equal(t, 59.97, totals["0000000002"])
	assert.Equal(t, 60.27, dto.Subtotal)
}

func TestRemoveItemAndClear(t *testing.T) {
	svc, conn := newDBCartService(t)
	ctx := context.Background()
	userID := uuid.New()

	mustCreateCartTestBook(t, conn, "0000000001", 10)
	mustCreateCartTestBook(t, conn, "0000000002", 5)

	_, err := svc.SetItem(ctx, userID, SetItemInput{ISBN10: "0000000001", Quantity: 1})
	require.NoError(t, err)
	_, err = svc.SetItem(ctx, userID, SetItemInput{ISBN10: "0000000002", Quantity: 1})
	require.NoError(t, err)

	dto, err := svc.RemoveItem(ctx, userID, "0000000001")
	require.NoError(t, err)
	require.Len(t, dto.Items, 1)
	assert.Equal(t, "0000000002", dto.Items[0].Book.ISBN10)

	require.NoError(t, svc.Clear(ctx, userID))
	dto, err = svc.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, dto.Items)
	assert.Zero(t, dto.Subtotal)
}

type fakeKV struct {
	data map[string]string
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string]string{}}
}

func (f *fakeKV) Get(ctx context.Context, key string) (string, error) {
	val, ok := f.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (f *fakeKV) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	default:
		f.data[key] = fmt.Sprint(v)
	}
	return nil
}

func (f *fakeKV) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func (f *fakeKV) CartKey(userID string) string {
	return "bh:cart:" + userID
}

func TestSessionStoreRoundTrip(t *testing.T) {
	kv := newFakeKV()
	store, err := NewSessionStore(kv, time.Hour)
	require.NoError(t, err)

	ctx := context.Background()
	userID := uuid.New()

	items, err := store.Items(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, items)

	require.NoError(t, store.SetItem(ctx, userID, "0000000001", 2))
	require.NoError(t, store.SetItem(ctx, userID, "0000000002", 1))
	require.NoError(t, store.SetItem(ctx, userID, "0000000001", 4))

	items, err = store.Items(ctx, userID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 4, items[0].Quantity)

	require.NoError(t, store.RemoveItem(ctx, userID, "0000000001"))
	items, err = store.Items(ctx, userID)
	require.NoError(t, err)
	require.Len(t, items, 1)

	require.NoError(t, store.Clear(ctx, userID))
	items, err = store.Items(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, items)
}
