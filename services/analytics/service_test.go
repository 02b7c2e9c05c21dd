package analytics

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"mothernatural-backend/services/catalog"
	"mothernatural-backend/services/order"
	"mothernatural-backend/services/testutil"
	"mothernatural-backend/services/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t,
		&order.Order{},
		&user.User{},
		&catalog.Product{},
	)
	return NewService(ServiceParams{DB: db}), db
}

func seedOrder(t *testing.T, db *gorm.DB, status string, amount int64, items []order.LineItem, createdAt time.Time) {
	t.Helper()
	encoded, err := json.Marshal(items)
	require.NoError(t, err)

	row := &order.Order{
		ID:            uuid.NewString(),
		Code:          "ORD-" + uuid.NewString()[:8],
		CustomerEmail: "buyer@example.com",
		CustomerName:  "Buyer",
		Items:         encoded,
		TotalAmount:   amount,
		Currency:      "USD",
		Provider:      order.ProviderSquare,
		Status:        status,
		CreatedAt:     createdAt,
	}
	require.NoError(t, db.Create(row).Error)
}

func TestDashboardAggregates(t *testing.T) {
	svc, db := newTestService(t)
	now := time.Now()

	seedOrder(t, db, order.StatusCompleted, 6000, nil, now)
	seedOrder(t, db, order.StatusCompleted, 4000, nil, now)
	seedOrder(t, db, order.StatusFailed, 2500, nil, now)
	seedOrder(t, db, order.StatusPending, 1000, nil, now)

	require.NoError(t, db.Create(&user.User{ID: uuid.NewString(), Email: "a@example.com"}).Error)
	require.NoError(t, db.Create(&catalog.Product{ID: uuid.NewString(), Name: "Sea Moss Gel", Slug: "sea-moss-gel", Stock: 3, InStock: true}).Error)
	require.NoError(t, db.Create(&catalog.Product{ID: uuid.NewString(), Name: "Elderberry Syrup", Slug: "elderberry-syrup", Stock: 40, InStock: true}).Error)

	out, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(10000), out.TotalRevenue)
	assert.Equal(t, int64(2), out.CompletedOrders)
	assert.Equal(t, int64(1), out.FailedOrders)
	assert.Equal(t, int64(1), out.PendingOrders)
	assert.Equal(t, int64(1), out.TotalUsers)
	assert.Equal(t, int64(2), out.TotalProducts)
	assert.Equal(t, int64(1), out.LowStockCount)
	assert.Len(t, out.RecentOrders, 4)
}

func TestDashboardLowStockRespectsOverride(t *testing.T) {
	svc, db := newTestService(t)

	// Stock 8 is low only against the per-product threshold of 10.
	require.NoError(t, db.Create(&catalog.Product{
		ID: uuid.NewString(), Name: "Lavender Oil", Slug: "lavender-oil",
		Stock: 8, LowStockThreshold: 10, InStock: true,
	}).Error)

	out, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.LowStockCount)
}

func TestRevenueBucketsByDay(t *testing.T) {
	svc, db := newTestService(t)
	today := time.Now()
	yesterday := today.AddDate(0, 0, -1)

	seedOrder(t, db, order.StatusCompleted, 5000, nil, yesterday)
	seedOrder(t, db, order.StatusCompleted, 2500, nil, yesterday)
	seedOrder(t, db, order.StatusCompleted, 1000, nil, today)
	seedOrder(t, db, order.StatusFailed, 9999, nil, today)

	points, err := svc.Revenue(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, points, 2)

	assert.Equal(t, yesterday.Format("2006-01-02"), points[0].Date)
	assert.Equal(t, int64(7500), points[0].Revenue)
	assert.Equal(t, int64(2), points[0].Orders)

	assert.Equal(t, today.Format("2006-01-02"), points[1].Date)
	assert.Equal(t, int64(1000), points[1].Revenue)
}

func TestRevenueExcludesOrdersOutsideWindow(t *testing.T) {
	svc, db := newTestService(t)

	seedOrder(t, db, order.StatusCompleted, 5000, nil, time.Now().AddDate(0, 0, -40))

	points, err := svc.Revenue(context.Background(), 30)
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestTopProductsRanksByRevenue(t *testing.T) {
	svc, db := newTestService(t)
	now := time.Now()

	seedOrder(t, db, order.StatusCompleted, 9000, []order.LineItem{
		{ID: "p1", Name: "Sea Moss Gel", Quantity: 2, Amount: 6000},
		{ID: "p2", Name: "Elderberry Syrup", Quantity: 1, Amount: 3000},
	}, now)
	seedOrder(t, db, order.StatusCompleted, 6000, []order.LineItem{
		{ID: "p2", Name: "Elderberry Syrup", Quantity: 2, Amount: 6000},
	}, now)
	seedOrder(t, db, order.StatusPending, 500, []order.LineItem{
		{ID: "p3", Name: "Never Counted", Quantity: 1, Amount: 500},
	}, now)

	out, err := svc.TopProducts(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "p2", out[0].ProductID)
	assert.Equal(t, int64(9000), out[0].Revenue)
	assert.Equal(t, 3, out[0].Units)
	assert.Equal(t, "p1", out[1].ProductID)
}

func TestUsersMetrics(t *testing.T) {
	svc, db := newTestService(t)

	require.NoError(t, db.Create(&user.User{ID: uuid.NewString(), Email: "old@example.com", LoyaltyPoints: 50, CreatedAt: time.Now().AddDate(0, 0, -30)}).Error)
	require.NoError(t, db.Create(&user.User{ID: uuid.NewString(), Email: "new@example.com", LoyaltyPoints: 200}).Error)

	out, err := svc.Users(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), out.TotalUsers)
	assert.Equal(t, int64(1), out.NewThisWeek)
	require.Len(t, out.TopMembers, 2)
	assert.Equal(t, "new@example.com", out.TopMembers[0].Email)
}

func TestExportOrdersCSV(t *testing.T) {
	svc, db := newTestService(t)

	seedOrder(t, db, order.StatusCompleted, 12345, nil, time.Now())

	var buf bytes.Buffer
	require.NoError(t, svc.ExportOrders(context.Background(), &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "order_code", records[0][0])
	assert.Equal(t, "buyer@example.com", records[1][1])
	assert.Equal(t, "123.45", records[1][5])
}

func TestExportUsersCSV(t *testing.T) {
	svc, db := newTestService(t)

	require.NoError(t, db.Create(&user.User{ID: uuid.NewString(), Name: "Asha", Email: "asha@example.com", Role: "user", LoyaltyPoints: 75}).Error)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportUsers(context.Background(), &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "asha@example.com", records[1][1])
	assert.Equal(t, "75", records[1][3])
}
