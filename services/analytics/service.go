package analytics

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"mothernatural-backend/pkg/errutil"
	"mothernatural-backend/services/catalog"
	"mothernatural-backend/services/order"
	"mothernatural-backend/services/user"

	"go.uber.org/fx"
	"gorm.io/gorm"
)

type Service struct {
	db *gorm.DB
}

type ServiceParams struct {
	fx.In
	DB *gorm.DB
}

func NewService(p ServiceParams) *Service {
	return &Service{db: p.DB}
}

// Dashboard is the admin landing summary.
type Dashboard struct {
	TotalRevenue    int64         `json:"totalRevenueCents"`
	CompletedOrders int64         `json:"completedOrders"`
	FailedOrders    int64         `json:"failedOrders"`
	PendingOrders   int64         `json:"pendingOrders"`
	TotalUsers      int64         `json:"totalUsers"`
	TotalProducts   int64         `json:"totalProducts"`
	LowStockCount   int64         `json:"lowStockCount"`
	RecentOrders    []order.Order `json:"recentOrders"`
}

func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	db := s.db.WithContext(ctx)
	out := &Dashboard{}

	err := db.Model(&order.Order{}).
		Where("status = ?", order.StatusCompleted).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&out.TotalRevenue).Error
	if err != nil {
		return nil, errutil.Internal("failed to total revenue", err)
	}

	counts := []struct {
		status string
		dest   *int64
	}{
		{order.StatusCompleted, &out.CompletedOrders},
		{order.StatusFailed, &out.FailedOrders},
		{order.StatusPending, &out.PendingOrders},
	}
	for _, c := range counts {
		if err := db.Model(&order.Order{}).Where("status = ?", c.status).Count(c.dest).Error; err != nil {
			return nil, errutil.Internal("failed to count orders", err)
		}
	}

	if err := db.Model(&user.User{}).Count(&out.TotalUsers).Error; err != nil {
		return nil, errutil.Internal("failed to count users", err)
	}
	if err := db.Model(&catalog.Product{}).Count(&out.TotalProducts).Error; err != nil {
		return nil, errutil.Internal("failed to count products", err)
	}

	err = db.Model(&catalog.Product{}).
		Where("stock > 0 AND stock <= CASE WHEN low_stock_threshold > 0 THEN low_stock_threshold ELSE 5 END").
		Count(&out.LowStockCount).Error
	if err != nil {
		return nil, errutil.Internal("failed to count low stock products", err)
	}

	err = db.Model(&order.Order{}).
		Order("created_at DESC").
		Limit(10).
		Find(&out.RecentOrders).Error
	if err != nil {
		return nil, errutil.Internal("failed to load recent orders", err)
	}

	return out, nil
}

// RevenuePoint is one day's takings.
type RevenuePoint struct {
	Date    string `json:"date"`
	Revenue int64  `json:"revenueCents"`
	Orders  int64  `json:"orders"`
}

// Revenue buckets completed orders per day over the trailing window.
func (s *Service) Revenue(ctx context.Context, days int) ([]RevenuePoint, error) {
	if days <= 0 || days > 365 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)

	var rows []order.Order
	err := s.db.WithContext(ctx).
		Where("status = ? AND created_at >= ?", order.StatusCompleted, since).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, errutil.Internal("failed to load revenue", err)
	}

	// Bucket in Go rather than SQL so the query stays portable across
	// postgres and the sqlite test driver.
	byDay := make(map[string]*RevenuePoint)
	seenDays := make([]string, 0)
	for _, row := range rows {
		day := row.CreatedAt.Format("2006-01-02")
		point, ok := byDay[day]
		if !ok {
			point = &RevenuePoint{Date: day}
			byDay[day] = point
			seenDays = append(seenDays, day)
		}
		point.Revenue += row.TotalAmount
		point.Orders++
	}

	out := make([]RevenuePoint, 0, len(seenDays))
	for _, day := range seenDays {
		out = append(out, *byDay[day])
	}
	return out, nil
}

// ProductSales aggregates units sold per product across completed
// orders.
type ProductSales struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Units     int    `json:"units"`
	Revenue   int64  `json:"revenueCents"`
}

func (s *Service) TopProducts(ctx context.Context, limit int) ([]ProductSales, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	var rows []order.Order
	err := s.db.WithContext(ctx).
		Where("status = ?", order.StatusCompleted).
		Find(&rows).Error
	if err != nil {
		return nil, errutil.Internal("failed to load orders", err)
	}

	byID := make(map[string]*ProductSales)
	for _, row := range rows {
		var items []order.LineItem
		if err := json.Unmarshal(row.Items, &items); err != nil {
			continue
		}
		for _, item := range items {
			sale, ok := byID[item.ID]
			if !ok {
				sale = &ProductSales{ProductID: item.ID, Name: item.Name}
				byID[item.ID] = sale
			}
			sale.Units += item.Quantity
			sale.Revenue += item.Amount
		}
	}

	out := make([]ProductSales, 0, len(byID))
	for _, sale := range byID {
		out = append(out, *sale)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Revenue > out[j].Revenue })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// UserMetrics summarizes the member base.
type UserMetrics struct {
	TotalUsers  int64       `json:"totalUsers"`
	NewThisWeek int64       `json:"newThisWeek"`
	TopMembers  []user.User `json:"topMembers"`
}

func (s *Service) Users(ctx context.Context) (*UserMetrics, error) {
	db := s.db.WithContext(ctx)
	out := &UserMetrics{}

	if err := db.Model(&user.User{}).Count(&out.TotalUsers).Error; err != nil {
		return nil, errutil.Internal("failed to count users", err)
	}

	weekAgo := time.Now().AddDate(0, 0, -7)
	err := db.Model(&user.User{}).
		Where("created_at >= ?", weekAgo).
		Count(&out.NewThisWeek).Error
	if err != nil {
		return nil, errutil.Internal("failed to count new users", err)
	}

	err = db.Model(&user.User{}).
		Order("loyalty_points DESC").
		Limit(10).
		Find(&out.TopMembers).Error
	if err != nil {
		return nil, errutil.Internal("failed to load top members", err)
	}

	return out, nil
}
