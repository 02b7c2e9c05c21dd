package fulfillment

import (
	"context"

	"mothernatural-backend/internal/mailer"
	"mothernatural-backend/pkg/config"
	"mothernatural-backend/services/catalog"
	"mothernatural-backend/services/game"
	"mothernatural-backend/services/loyalty"
	"mothernatural-backend/services/mail"
	"mothernatural-backend/services/settings"
	"mothernatural-backend/services/user"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("fulfillment.module",
	fx.Provide(NewService),
)

// Item is one purchased line handed over after payment clears.
type Item struct {
	ID       string
	Name     string
	Quantity int
	Amount   int64
}

// Request describes a paid order awaiting fulfillment.
type Request struct {
	OrderID       string
	OrderCode     string
	CustomerEmail string
	CustomerName  string
	Items         []Item
	TotalAmount   int64
}

// Result reports what each post-payment step accomplished.
type Result struct {
	ReceiptSent   bool     `json:"receiptSent"`
	StockAlerts   []string `json:"stockAlerts"`
	PointsAwarded int64    `json:"pointsAwarded"`
}

// Service runs the post-payment pipeline: receipt email, stock
// deduction with restock alerts, loyalty points, and plant growth.
// Every step is best-effort; a failure is logged and the pipeline
// moves on, because the customer has already paid.
type Service struct {
	cfg      *config.Config
	catalog  *catalog.Service
	settings *settings.Service
	users    *user.Service
	loyalty  *loyalty.Service
	game     *game.Service
	mail     *mail.Service
}

type ServiceParams struct {
	fx.In
	Config   *config.Config
	Catalog  *catalog.Service
	Settings *settings.Service
	Users    *user.Service
	Loyalty  *loyalty.Service
	Game     *game.Service
	Mail     *mail.Service
}

func NewService(p ServiceParams) *Service {
	return &Service{
		cfg:      p.Config,
		catalog:  p.Catalog,
		settings: p.Settings,
		users:    p.Users,
		loyalty:  p.Loyalty,
		game:     p.Game,
		mail:     p.Mail,
	}
}

// Fulfill runs the pipeline for a paid order. It never fails the
// caller; partial outcomes are visible in the Result.
func (s *Service) Fulfill(ctx context.Context, req *Request) *Result {
	log := zap.L().With(
		zap.String("order_id", req.OrderID),
		zap.String("order_code", req.OrderCode),
	)

	result := &Result{}
	result.ReceiptSent = s.sendReceipt(ctx, req, log)
	result.StockAlerts = s.deductStock(ctx, req, log)
	result.PointsAwarded = s.awardLoyalty(ctx, req, log)

	log.Info("order fulfilled",
		zap.Bool("receipt_sent", result.ReceiptSent),
		zap.Int("stock_alerts", len(result.StockAlerts)),
		zap.Int64("points_awarded", result.PointsAwarded),
	)
	return result
}

func (s *Service) sendReceipt(ctx context.Context, req *Request, log *zap.Logger) bool {
	if req.CustomerEmail == "" {
		return false
	}

	items := make([]mailer.ReceiptItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, mailer.ReceiptItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Amount:   item.Amount,
		})
	}

	html := mailer.BuildReceiptHTML(s.cfg.BusinessName, req.CustomerName, req.OrderCode, items, req.TotalAmount)
	subject := "Your order is confirmed - " + s.cfg.BusinessName

	if err := s.mail.Send(ctx, req.CustomerEmail, subject, html, mail.CategoryReceipt); err != nil {
		log.Error("receipt email failed", zap.Error(err), zap.String("recipient", req.CustomerEmail))
		return false
	}
	return true
}

// deductStock removes sold product quantities and fires a restock
// alert for every product the sale leaves inside the low-stock band.
// Alerts are intentionally not deduplicated across orders.
func (s *Service) deductStock(ctx context.Context, req *Request, log *zap.Logger) []string {
	alerts := make([]string, 0)

	lowStock, err := s.settings.LowStock(ctx)
	if err != nil {
		log.Error("failed to load low stock settings", zap.Error(err))
		lowStock = nil
	}

	for _, item := range req.Items {
		product, err := s.catalog.ResolveProduct(ctx, item.ID)
		if err != nil {
			log.Error("failed to resolve product", zap.Error(err), zap.String("item_id", item.ID))
			continue
		}
		if product == nil {
			// Appointments, classes, and retreats carry no stock.
			continue
		}

		qty := item.Quantity
		if qty <= 0 {
			qty = 1
		}

		updated, err := s.catalog.DeductStock(ctx, product.ID, qty)
		if err != nil {
			log.Error("failed to deduct stock", zap.Error(err), zap.String("product_id", product.ID))
			continue
		}

		if lowStock == nil || !lowStock.Enabled {
			continue
		}

		threshold := updated.LowStockThreshold
		if threshold <= 0 {
			threshold = lowStock.DefaultThreshold
		}

		if updated.Stock > 0 && updated.Stock <= threshold {
			alerts = append(alerts, updated.Name)
			s.sendLowStockAlert(ctx, lowStock, updated, threshold, log)
		}
	}

	return alerts
}

func (s *Service) sendLowStockAlert(ctx context.Context, cfg *settings.LowStockSettings, product *catalog.Product, threshold int, log *zap.Logger) {
	recipient := cfg.NotificationEmail
	if recipient == "" {
		recipient = s.cfg.Email.AdminEmail
	}
	if recipient == "" {
		log.Warn("low stock alert skipped, no recipient configured", zap.String("product", product.Name))
		return
	}

	html := mailer.BuildLowStockHTML(s.cfg.BusinessName, product.Name, product.Stock, threshold)
	subject := "Low stock: " + product.Name

	if err := s.mail.Send(ctx, recipient, subject, html, mail.CategoryLowStock); err != nil {
		log.Error("low stock alert failed", zap.Error(err), zap.String("product", product.Name))
	}
}

func (s *Service) awardLoyalty(ctx context.Context, req *Request, log *zap.Logger) int64 {
	if req.CustomerEmail == "" {
		return 0
	}

	record, err := s.users.GetByEmail(ctx, req.CustomerEmail)
	if err != nil {
		log.Error("failed to resolve customer account", zap.Error(err))
		return 0
	}
	if record == nil {
		// Guest checkout earns nothing.
		return 0
	}

	points, err := s.loyalty.AwardPurchasePoints(ctx, record.ID, req.TotalAmount)
	if err != nil {
		log.Error("failed to award purchase points", zap.Error(err), zap.String("user_id", record.ID))
		points = 0
	}

	s.game.AddPurchaseGrowth(ctx, record.ID, req.TotalAmount)

	return points
}
