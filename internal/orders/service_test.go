package orders

import (
	"context"
	"fmt"
	"testing"

	"github.com/bookhive/bookhive-backend/internal/audit"
	"github.com/bookhive/bookhive-backend/internal/cart"
	"github.com/bookhive/bookhive-backend/internal/catalog"
	"github.com/bookhive/bookhive-backend/internal/users"
	"github.com/bookhive/bookhive-backend/pkg/db/models"
	"github.com/bookhive/bookhive-backend/pkg/enums"
	pkgerrors "github.com/bookhive/bookhive-backend/pkg/errors"
	"github.com/bookhive/bookhive-backend/pkg/types"
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

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	stmts := []string{`
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
);`, `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  name TEXT NOT NULL,
  email TEXT,
  shipping_address TEXT,
  billing_address TEXT,
  gender TEXT,
  birth_year INTEGER,
  favorite_genres TEXT NOT NULL DEFAULT '',
  gdpr_consent INTEGER NOT NULL DEFAULT 0,
  gdpr_consent_at DATETIME,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  book_isbn10 TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (user_id, book_isbn10)
);`, `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  status TEXT NOT NULL,
  payment_method TEXT NOT NULL,
  email TEXT NOT NULL DEFAULT '',
  subtotal REAL NOT NULL,
  fee REAL NOT NULL,
  total REAL NOT NULL,
  shipping_address TEXT,
  billing_address TEXT,
  gdpr_consent INTEGER NOT NULL DEFAULT 0,
  consent_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  book_isbn10 TEXT NOT NULL,
  title TEXT NOT NULL,
  unit_price REAL NOT NULL,
  quantity INTEGER NOT NULL
);`, `
CREATE TABLE IF NOT EXISTS audit_log (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  event_type TEXT NOT NULL,
  username TEXT NOT NULL,
  book_isbn10 TEXT,
  detail TEXT,
  created_at DATETIME
);`}

	for _, stmt := range stmts {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

func newOrdersTestService(t *testing.T) (Service, cart.Store, *gorm.DB) {
	t.Helper()
	conn := setupOrdersTestDB(t)
	store := cart.NewDBStore(conn)
	svc, err := NewService(ServiceParams{
		Client:      gormTxRunner{conn: conn},
		OrderRepo:   NewRepository(conn),
		CatalogRepo: catalog.NewRepository(conn),
		AuditRepo:   audit.NewRepository(conn),
		UserRepo:    users.NewRepository(conn),
		CartStore:   store,
	})
	require.NoError(t, err)
	return svc, store, conn
}

func mustCreateOrderTestBook(t *testing.T, conn *gorm.DB, isbn10 string, price float64) {
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

func mustCreateOrderTestUser(t *testing.T, conn *gorm.DB, username string, address *types.Address) uuid.UUID {
	t.Helper()
	email := username + "@example.com"
	user := &models.User{
		ID:              uuid.New(),
		Username:        username,
		PasswordHash:    "x",
		Name:            username,
		Email:           &email,
		ShippingAddress: address,
		BillingAddress:  testAddress(),
	}
	require.NoError(t, conn.Create(user).Error)
	return user.ID
}

func testAddress() *types.Address {
	return &types.Address{
		Street:     "1 Main St",
		City:       "Springfield",
		PostalCode: "12345",
		Country:    "US",
	}
}

func TestCheckoutSnapshotsAndClearsCart(t *testing.T) {
	svc, store, conn := newOrdersTestService(t)
	ctx := context.Background()

	mustCreateOrderTestBook(t, conn, "0000000001", 12.50)
	mustCreateOrderTestBook(t, conn, "0000000002", 5.00)
	userID := mustCreateOrderTestUser(t, conn, "alice", nil)

	require.NoError(t, store.SetItem(ctx, userID, "0000000001", 2))
	require.NoError(t, store.SetItem(ctx, userID, "0000000002", 1))

	dto, err := svc.Checkout(ctx, userID, "alice", CheckoutInput{
		PaymentMethod:   enums.PaymentMethodBankTransfer.String(),
		ShippingAddress: testAddress(),
	})
	require.NoError(t, err)

	assert.Equal(t, enums.OrderStatusPending, dto.Status)
	assert.Equal(t, "alice@example.com", dto.Email)
	assert.Equal(t, 30.0, dto.Subtotal)
	assert.Equal(t, 0.0, dto.Fee)
	assert.Equal(t, 30.0, dto.Total)
	require.Len(t, dto.Items, 2)

	items, err := store.Items(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, items)

	// later price edits must not rewrite the snapshot
	require.NoError(t, conn.Model(&models.Book{}).
		Where("isbn10 = ?", "0000000001").
		Update("price", 99.0).Error)

	fetched, err := svc.GetOrder(ctx, userID, dto.ID)
	require.NoError(t, err)
	assert.Equal(t, 30.0, fetched.Total)

	var auditCount int64
	require.NoError(t, conn.Model(&models.AuditLog{}).
		Where("event_type = ? AND username = ?", enums.AuditEventOrderPlace, "alice").
		Count(&auditCount).Error)
	assert.EqualValues(t, 1, auditCount)
}

func TestCheckoutFees(t *testing.T) {
	cases := []struct {
		method  enums.PaymentMethod
		fee     float64
		total   float64
	}{
		{enums.PaymentMethodCashOnDelivery, 50.0, 75.0},
		{enums.PaymentMethodCardOnline, 0.25, 25.25},
		{enums.PaymentMethodBankTransfer, 0.0, 25.0},
	}

	for _, tc := range cases {
		t.Run(tc.method.String(), func(t *testing.T) {
			svc, store, conn := newOrdersTestService(t)
			ctx := context.Background()

			mustCreateOrderTestBook(t, conn, "0000000001", 12.50)
			userID := mustCreateOrderTestUser(t, conn, "alice", nil)
			require.NoError(t, store.SetItem(ctx, userID, "0000000001", 2))

			dto, err := svc.Checkout(ctx, userID, "alice", CheckoutInput{
				PaymentMethod:   tc.method.String(),
				ShippingAddress: testAddress(),
			})
			require.NoError(t, err)
			assert.Equal(t, 25.0, dto.Subtotal)
			assert.Equal(t, tc.fee, dto.Fee)
			assert.Equal(t, tc.total, dto.Total)
		})
	}
}

func TestCheckoutFailsWholeOrderOnHiddenBook(t *testing.T) {
	svc, store, conn := newOrdersTestService(t)
	ctx := context.Background()

	mustCreateOrderTestBook(t, conn, "0000000001", 10)
	mustCreateOrderTestBook(t, conn, "0000000002", 5)
	userID := mustCreateOrderTestUser(t, conn, "alice", nil)

	require.NoError(t, store.SetItem(ctx, userID, "0000000001", 1))
	require.NoError(t, store.SetItem(ctx, userID, "0000000002", 1))

	require.NoError(t, conn.Model(&models.Book{}).
		Where("isbn10 = ?", "0000000002").
		Update("visible", false).Error)

	_, err := svc.Checkout(ctx, userID, "alice", CheckoutInput{
		PaymentMethod:   enums.PaymentMethodBankTransfer.String(),
		ShippingAddress: testAddress(),
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
	details, ok := typed.Details().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "0000000002", details["isbn10"])

	var orderCount int64
	require.NoError(t, conn.Model(&models.Order{}).Count(&orderCount).Error)
	assert.Zero(t, orderCount)

	items, err := store.Items(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc, _, conn := newOrdersTestService(t)
	userID := mustCreateOrderTestUser(t, conn, "alice", nil)

	_, err := svc.Checkout(context.Background(), userID, "alice", CheckoutInput{
		PaymentMethod:   enums.PaymentMethodBankTransfer.String(),
		ShippingAddress: testAddress(),
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCheckoutInvalidPaymentMethod(t *testing.T) {
	svc, _, conn := newOrdersTestService(t)
	userID := mustCreateOrderTestUser(t, conn, "alice", nil)

	_, err := svc.Checkout(context.Background(), userID, "alice", CheckoutInput{PaymentMethod: "barter"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCheckoutFallsBackToProfileAddress(t *testing.T) {
	svc, store, conn := newOrdersTestService(t)
	ctx := context.Background()

	mustCreateOrderTestBook(t, conn, "0000000001", 10)
	withAddress := mustCreateOrderTestUser(t, conn, "alice", testAddress())
	withoutAddress := mustCreateOrderTestUser(t, conn, "bob", nil)

	require.NoError(t, store.SetItem(ctx, withAddress, "0000000001", 1))
	require.NoError(t, store.SetItem(ctx, withoutAddress, "0000000001", 1))

	dto, err := svc.Checkout(ctx, withAddress, "alice", CheckoutInput{
		PaymentMethod: enums.PaymentMethodBankTransfer.String(),
	})
	require.NoError(t, err)
	require.NotNil(t, dto.ShippingAddress)
	assert.Equal(t, "Springfield", dto.ShippingAddress.City)

	_, err = svc.Checkout(ctx, withoutAddress, "bob", CheckoutInput{
		PaymentMethod: enums.PaymentMethodBankTransfer.String(),
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCheckoutRequiresCompleteBillingAddress(t *testing.T) {
	svc, store, conn := newOrdersTestService(t)
	ctx := context.Background()

	mustCreateOrderTestBook(t, conn, "0000000001", 10)
	userID := mustCreateOrderTestUser(t, conn, "alice", testAddress())
	require.NoError(t, conn.Model(&models.User{}).
		Where("id = ?", userID).
		Update("billing_address", nil).Error)
	require.NoError(t, store.SetItem(ctx, userID, "0000000001", 1))

	_, err := svc.Checkout(ctx, userID, "alice", CheckoutInput{
		PaymentMethod: enums.PaymentMethodBankTransfer.String(),
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Contains(t, typed.Error(), "billing")
}

func TestCheckoutContactOverridesAndConsentStamp(t *testing.T) {
	svc, store, conn := newOrdersTestService(t)
	ctx := context.Background()

	mustCreateOrderTestBook(t, conn, "0000000001", 10)
	userID := mustCreateOrderTestUser(t, conn, "alice", nil)
	require.NoError(t, conn.Model(&models.User{}).
		Where("id = ?", userID).
		Update("gdpr_consent", true).Error)
	require.NoError(t, store.SetItem(ctx, userID, "0000000001", 1))

	billing := &types.Address{
		Street:     "9 Invoice Rd",
		City:       "Shelbyville",
		PostalCode: "54321",
		Country:    "US",
	}
	dto, err := svc.Checkout(ctx, userID, "alice", CheckoutInput{
		PaymentMethod:   enums.PaymentMethodBankTransfer.String(),
		Email:           "billing@example.com",
		ShippingAddress: testAddress(),
		BillingAddress:  billing,
	})
	require.NoError(t, err)
	assert.Equal(t, "billing@example.com", dto.Email)
	require.NotNil(t, dto.BillingAddress)
	assert.Equal(t, "Shelbyville", dto.BillingAddress.City)

	var placed models.Order
	require.NoError(t, conn.First(&placed, "id = ?", dto.ID).Error)
	assert.True(t, placed.GDPRConsent)
	require.NotNil(t, placed.ConsentAt)
}

func TestUpdateStatus(t *testing.T) {
	svc, store, conn := newOrdersTestService(t)
	ctx := context.Background()

	mustCreateOrderTestBook(t, conn, "0000000001", 10)
	alice := mustCreateOrderTestUser(t, conn, "alice", nil)
	bob := mustCreateOrderTestUser(t, conn, "bob", nil)

	require.NoError(t, store.SetItem(ctx, alice, "0000000001", 1))
	placed, err := svc.Checkout(ctx, alice, "alice", CheckoutInput{
		PaymentMethod:   enums.PaymentMethodBankTransfer.String(),
		ShippingAddress: testAddress(),
	})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, alice, placed.ID, "paid")
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPaid, updated.Status)

	fetched, err := svc.GetOrder(ctx, alice, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPaid, fetched.Status)

	_, err = svc.UpdateStatus(ctx, alice, placed.ID, "teleported")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = svc.UpdateStatus(ctx, bob, placed.ID, "shipped")
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestOrdersAreScopedToOwner(t *testing.T) {
	svc, store, conn := newOrdersTestService(t)
	ctx := context.Background()

	mustCreateOrderTestBook(t, conn, "0000000001", 10)
	alice := mustCreateOrderTestUser(t, conn, "alice", nil)
	bob := mustCreateOrderTestUser(t, conn, "bob", nil)

	require.NoError(t, store.SetItem(ctx, alice, "0000000001", 1))
	placed, err := svc.Checkout(ctx, alice, "alice", CheckoutInput{
		PaymentMethod:   enums.PaymentMethodBankTransfer.String(),
		ShippingAddress: testAddress(),
	})
	require.NoError(t, err)

	mine, err := svc.ListOrders(ctx, alice)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	theirs, err := svc.ListOrders(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, theirs)

	_, err = svc.GetOrder(ctx, bob, placed.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
