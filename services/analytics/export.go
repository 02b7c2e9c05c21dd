package analytics

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"mothernatural-backend/pkg/errutil"
	"mothernatural-backend/services/catalog"
	"mothernatural-backend/services/order"
	"mothernatural-backend/services/user"
)

func centsToDollars(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

// ExportOrders streams every order as CSV.
func (s *Service) ExportOrders(ctx context.Context, w io.Writer) error {
	var rows []order.Order
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return errutil.Internal("failed to load orders", err)
	}

	out := csv.NewWriter(w)
	if err := out.Write([]string{"order_code", "customer_email", "customer_name", "provider", "status", "total_usd", "created_at"}); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.Code,
			row.CustomerEmail,
			row.CustomerName,
			row.Provider,
			row.Status,
			centsToDollars(row.TotalAmount),
			row.CreatedAt.Format(time.RFC3339),
		}
		if err := out.Write(record); err != nil {
			return err
		}
	}
	out.Flush()
	return out.Error()
}

// ExportRevenue streams the daily revenue buckets as CSV.
func (s *Service) ExportRevenue(ctx context.Context, w io.Writer, days int) error {
	points, err := s.Revenue(ctx, days)
	if err != nil {
		return err
	}

	out := csv.NewWriter(w)
	if err := out.Write([]string{"date", "orders", "revenue_usd"}); err != nil {
		return err
	}
	for _, point := range points {
		record := []string{
			point.Date,
			strconv.FormatInt(point.Orders, 10),
			centsToDollars(point.Revenue),
		}
		if err := out.Write(record); err != nil {
			return err
		}
	}
	out.Flush()
	return out.Error()
}

// ExportProducts streams the product inventory as CSV.
func (s *Service) ExportProducts(ctx context.Context, w io.Writer) error {
	var rows []catalog.Product
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return errutil.Internal("failed to load products", err)
	}

	out := csv.NewWriter(w)
	if err := out.Write([]string{"name", "slug", "category", "price_usd", "stock", "low_stock_threshold", "hidden"}); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.Name,
			row.Slug,
			row.Category,
			fmt.Sprintf("%.2f", row.Price),
			strconv.Itoa(row.Stock),
			strconv.Itoa(row.LowStockThreshold),
			strconv.FormatBool(row.Hidden),
		}
		if err := out.Write(record); err != nil {
			return err
		}
	}
	out.Flush()
	return out.Error()
}

// ExportUsers streams the member list as CSV.
func (s *Service) ExportUsers(ctx context.Context, w io.Writer) error {
	var rows []user.User
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return errutil.Internal("failed to load users", err)
	}

	out := csv.NewWriter(w)
	if err := out.Write([]string{"name", "email", "role", "loyalty_points", "referral_count", "joined_at"}); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.Name,
			row.Email,
			row.Role,
			strconv.FormatInt(row.LoyaltyPoints, 10),
			strconv.Itoa(row.ReferralCount),
			row.CreatedAt.Format(time.RFC3339),
		}
		if err := out.Write(record); err != nil {
			return err
		}
	}
	out.Flush()
	return out.Error()
}
