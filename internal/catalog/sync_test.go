package catalog

import (
	"context"
	"testing"

	"github.com/bookhive/bookhive-backend/internal/audit"
	"github.com/bookhive/bookhive-backend/pkg/db/models"
	"github.com/bookhive/bookhive-backend/pkg/enums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type gormTxRunner struct {
	conn *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.conn.WithContext(ctx).Transaction(fn)
}

func newSyncTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := setupCatalogTestDB(t)
	svc, err := NewService(ServiceParams{
		Client:      gormTxRunner{conn: conn},
		CatalogRepo: NewRepository(conn),
		AuditRepo:   audit.NewRepository(conn),
	})
	require.NoError(t, err)
	return svc, conn
}

func feedEntry(isbn10, title string) FeedBook {
	return FeedBook{
		ISBN10: isbn10,
		ISBN13: "978" + isbn10,
		Title:  title,
		Author: "Author",
		Price:  10,
	}
}

func auditEvents(t *testing.T, conn *gorm.DB, event enums.AuditEventType) []models.AuditLog {
	t.Helper()
	var rows []models.AuditLog
	require.NoError(t, conn.Where("event_type = ?", event.String()).Find(&rows).Error)
	return rows
}

func TestSyncCatalogCreatesAndCounts(t *testing.T) {
	svc, conn := newSyncTestService(t)
	ctx := context.Background()

	result, err := svc.SyncCatalog(ctx, []FeedBook{
		feedEntry("0000000001", "First"),
		feedEntry("0000000002", "Second"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 0, result.Hidden)

	adds := auditEvents(t, conn, enums.AuditEventBookAdd)
	require.Len(t, adds, 2)
	assert.Equal(t, FeedActor, adds[0].Username)
}

func TestSyncCatalogHidesMissingAndRevives(t *testing.T) {
	svc, conn := newSyncTestService(t)
	ctx := context.Background()

	_, err := svc.SyncCatalog(ctx, []FeedBook{
		feedEntry("0000000001", "First"),
		feedEntry("0000000002", "Second"),
	})
	require.NoError(t, err)

	// Second feed drops book two.
	result, err := svc.SyncCatalog(ctx, []FeedBook{feedEntry("0000000001", "First Updated")})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, result.Hidden)

	var hidden models.Book
	require.NoError(t, conn.Where("isbn10 = ?", "0000000002").First(&hidden).Error)
	assert.False(t, hidden.Visible)

	hides := auditEvents(t, conn, enums.AuditEventBookHide)
	require.Len(t, hides, 1)
	require.NotNil(t, hides[0].BookISBN10)
	assert.Equal(t, "0000000002", *hides[0].BookISBN10)

	// Third feed brings book two back.
	result, err = svc.SyncCatalog(ctx, []FeedBook{
		feedEntry("0000000001", "First Updated"),
		feedEntry("0000000002", "Second"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Shown)

	shows := auditEvents(t, conn, enums.AuditEventBookShow)
	require.Len(t, shows, 1)

	var revived models.Book
	require.NoError(t, conn.Where("isbn10 = ?", "0000000002").First(&revived).Error)
	assert.True(t, revived.Visible)
}

func TestSyncCatalogIsIdempotent(t *testing.T) {
	svc, conn := newSyncTestService(t)
	ctx := context.Background()

	feed := []FeedBook{feedEntry("0000000001", "First")}

	_, err := svc.SyncCatalog(ctx, feed)
	require.NoError(t, err)

	result, err := svc.SyncCatalog(ctx, feed)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 0, result.Hidden)
	assert.Equal(t, 0, result.Shown)

	// No hide/show noise from a repeat of the same feed.
	assert.Empty(t, auditEvents(t, conn, enums.AuditEventBookHide))
	assert.Empty(t, auditEvents(t, conn, enums.AuditEventBookShow))
}

func TestSyncCatalogSkipsRowsWithoutISBN10(t *testing.T) {
	svc, conn := newSyncTestService(t)
	ctx := context.Background()

	result, err := svc.SyncCatalog(ctx, []FeedBook{
		feedEntry("0000000001", "Kept"),
		feedEntry("", "Skipped"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)

	var count int64
	require.NoError(t, conn.Model(&models.Book{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
