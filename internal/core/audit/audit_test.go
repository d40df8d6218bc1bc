package audit

import (
	"context"
	"fmt"
	"testing"

	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/shared/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	db, err := database.Open(database.DriverSQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()), logger.Silent)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.GORM.AutoMigrate(&AuditLog{}))

	return NewService(db.GORM)
}

func TestRecordAndList(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	svc.RecordChange(ctx, "ops@desk.test", "10.0.0.1", ActionCreate, "company", "c-1", map[string]string{"name": "Acme"})
	svc.RecordChange(ctx, "ops@desk.test", "10.0.0.1", ActionUpdate, "company", "c-1", nil)
	svc.RecordChange(ctx, "ops@desk.test", "10.0.0.1", ActionDelete, "company", "c-2", nil)

	page, err := svc.List(ctx, Filter{EntityID: "c-1"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalCount)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, defaultPageSize, page.PageSize)

	page, err = svc.List(ctx, Filter{Action: ActionCreate})
	require.NoError(t, err)
	require.Len(t, page.Logs, 1)
	assert.JSONEq(t, `{"name":"Acme"}`, string(page.Logs[0].Changes))

	page, err = svc.List(ctx, Filter{PageSize: 2, Page: 2})
	require.NoError(t, err)
	assert.Len(t, page.Logs, 1)
	assert.Equal(t, 2, page.TotalPages)
}

func TestRecord_NilServiceIsNoop(t *testing.T) {
	var svc *Service
	assert.NotPanics(t, func() {
		svc.RecordChange(context.Background(), "a", "", ActionLogin, "session", "", nil)
	})
}
