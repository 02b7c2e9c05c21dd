package order

import (
	"context"
	"encoding/json"
	"strings"

	"mothernatural-backend/internal/payment"
	"mothernatural-backend/pkg/errutil"
	"mothernatural-backend/pkg/repository"
	"mothernatural-backend/pkg/sequence"
	"mothernatural-backend/services/fulfillment"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Gateways used by checkout. Narrow interfaces so tests can stand in
// for the real clients.
type SquareCharger interface {
	Charge(ctx context.Context, req payment.ChargeRequest) (*payment.ChargeResult, error)
}

type StripeGateway interface {
	CreateSession(ctx context.Context, req payment.SessionRequest) (*payment.Session, error)
	GetSession(ctx context.Context, sessionID string) (*payment.SessionStatus, error)
}

type PayPalGateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, referenceID string) (*payment.PayPalOrder, error)
	CaptureOrder(ctx context.Context, providerOrderID string) (*payment.ChargeResult, error)
}

type Service struct {
	db          *gorm.DB
	orders      repository.Repository[Order]
	square      SquareCharger
	stripe      StripeGateway
	paypal      PayPalGateway
	sequence    sequence.Generator
	node        *snowflake.Node
	fulfillment *fulfillment.Service
}

type ServiceParams struct {
	fx.In
	DB          *gorm.DB
	Square      SquareCharger
	Stripe      StripeGateway
	PayPal      PayPalGateway
	Sequence    sequence.Generator `optional:"true"`
	Node        *snowflake.Node    `optional:"true"`
	Fulfillment *fulfillment.Service
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:          p.DB,
		orders:      repository.ProvideStore[Order](p.DB),
		square:      p.Square,
		stripe:      p.Stripe,
		paypal:      p.PayPal,
		sequence:    p.Sequence,
		node:        p.Node,
		fulfillment: p.Fulfillment,
	}
}

type CheckoutRequest struct {
	SourceID      string     `json:"sourceId"`
	CustomerEmail string     `json:"customerEmail" binding:"required,email"`
	CustomerName  string     `json:"customerName"`
	Currency      string     `json:"currency"`
	Items         []LineItem `json:"items" binding:"required,min=1,dive"`
}

func (r *CheckoutRequest) total() int64 {
	var total int64
	for _, item := range r.Items {
		total += item.Amount
	}
	return total
}

type CheckoutResponse struct {
	Order       *Order              `json:"order"`
	Fulfillment *fulfillment.Result `json:"fulfillment,omitempty"`
	CheckoutURL string              `json:"checkoutUrl,omitempty"`
	ApproveURL  string              `json:"approveUrl,omitempty"`
}

// ProcessSquare charges a tokenized card and, on success, runs
// fulfillment inline so the caller sees the full outcome.
func (s *Service) ProcessSquare(ctx context.Context, req *CheckoutRequest) (*CheckoutResponse, error) {
	if req.SourceID == "" {
		return nil, errutil.ValidationFailed("sourceId is required", nil)
	}

	row, err := s.createPending(ctx, req, ProviderSquare)
	if err != nil {
		return nil, err
	}

	result, err := s.square.Charge(ctx, payment.ChargeRequest{
		SourceID:    req.SourceID,
		Amount:      row.TotalAmount,
		Currency:    row.Currency,
		ReferenceID: row.Code,
		Note:        "Order " + row.Code,
	})
	if err != nil {
		s.markFailed(ctx, row, err.Error())
		return nil, err
	}
	if !result.Paid {
		s.markFailed(ctx, row, result.Message)
		return nil, errutil.UnprocessableEntity("payment was declined", nil,
			errutil.WithDetails(errutil.Detail{Field: "payment", Message: result.Message}))
	}

	return s.complete(ctx, row, result.PaymentID)
}

// CreateStripeSession opens a hosted checkout and parks the order as
// pending until the session is confirmed.
func (s *Service) CreateStripeSession(ctx context.Context, req *CheckoutRequest) (*CheckoutResponse, error) {
	row, err := s.createPending(ctx, req, ProviderStripe)
	if err != nil {
		return nil, err
	}

	name := "Order " + row.Code
	if len(req.Items) == 1 {
		name = req.Items[0].Name
	}

	session, err := s.stripe.CreateSession(ctx, payment.SessionRequest{
		Amount:      row.TotalAmount,
		Currency:    row.Currency,
		ProductName: name,
		ReferenceID: row.ID,
	})
	if err != nil {
		s.markFailed(ctx, row, err.Error())
		return nil, err
	}

	row.ProviderPaymentID = session.ID
	if err := s.orders.Update(ctx, row.ID, &Order{ProviderPaymentID: session.ID}); err != nil {
		return nil, errutil.Internal("failed to attach stripe session", err)
	}

	return &CheckoutResponse{Order: row, CheckoutURL: session.URL}, nil
}

type ConfirmStripeRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
}

// ConfirmStripeSession completes the pending order for a finished
// hosted checkout. The session is verified against the provider first;
// an unpaid session never completes the order.
func (s *Service) ConfirmStripeSession(ctx context.Context, req *ConfirmStripeRequest) (*CheckoutResponse, error) {
	row, err := s.orders.FindOne(ctx, &Order{ProviderPaymentID: req.SessionID, Provider: ProviderStripe})
	if err != nil {
		return nil, errutil.Internal("failed to load order", err)
	}
	if row == nil {
		return nil, errutil.NotFound("order not found for session", nil)
	}

	if row.Status == StatusPending {
		status, err := s.stripe.GetSession(ctx, req.SessionID)
		if err != nil {
			return nil, err
		}
		if !status.Paid {
			if status.Status == "expired" {
				s.markFailed(ctx, row, "checkout session expired unpaid")
			}
			return nil, errutil.UnprocessableEntity("checkout session is not paid", nil,
				errutil.WithDetails(errutil.Detail{Field: "payment", Message: status.PaymentStatus}))
		}
	}

	return s.complete(ctx, row, req.SessionID)
}

// CreatePayPalOrder opens a PayPal order the customer approves in
// their PayPal flow; capture happens afterwards.
func (s *Service) CreatePayPalOrder(ctx context.Context, req *CheckoutRequest) (*CheckoutResponse, error) {
	row, err := s.createPending(ctx, req, ProviderPayPal)
	if err != nil {
		return nil, err
	}

	ppOrder, err := s.paypal.CreateOrder(ctx, row.TotalAmount, row.Currency, row.ID)
	if err != nil {
		s.markFailed(ctx, row, err.Error())
		return nil, err
	}

	row.ProviderPaymentID = ppOrder.ID
	if err := s.orders.Update(ctx, row.ID, &Order{ProviderPaymentID: ppOrder.ID}); err != nil {
		return nil, errutil.Internal("failed to attach paypal order", err)
	}

	return &CheckoutResponse{Order: row, ApproveURL: ppOrder.ApproveURL}, nil
}

// CapturePayPalOrder finalizes an approved PayPal order.
func (s *Service) CapturePayPalOrder(ctx context.Context, providerOrderID string) (*CheckoutResponse, error) {
	row, err := s.orders.FindOne(ctx, &Order{ProviderPaymentID: providerOrderID, Provider: ProviderPayPal})
	if err != nil {
		return nil, errutil.Internal("failed to load order", err)
	}
	if row == nil {
		return nil, errutil.NotFound("order not found", nil)
	}

	result, err := s.paypal.CaptureOrder(ctx, providerOrderID)
	if err != nil {
		s.markFailed(ctx, row, err.Error())
		return nil, err
	}
	if !result.Paid {
		s.markFailed(ctx, row, result.Message)
		return nil, errutil.UnprocessableEntity("paypal capture was not completed", nil)
	}

	return s.complete(ctx, row, result.PaymentID)
}

// Get returns one order by id or code.
func (s *Service) Get(ctx context.Context, idOrCode string) (*Order, error) {
	row, err := s.orders.FindOne(ctx, &Order{ID: idOrCode})
	if err != nil {
		return nil, errutil.Internal("failed to load order", err)
	}
	if row == nil {
		row, err = s.orders.FindOne(ctx, &Order{Code: idOrCode})
		if err != nil {
			return nil, errutil.Internal("failed to load order", err)
		}
	}
	if row == nil {
		return nil, errutil.NotFound("order not found", nil)
	}
	return row, nil
}

// History lists a customer's orders, newest first.
func (s *Service) History(ctx context.Context, email string) ([]Order, error) {
	var rows []Order
	err := s.db.WithContext(ctx).
		Where("customer_email = ?", strings.ToLower(strings.TrimSpace(email))).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, errutil.Internal("failed to list orders", err)
	}
	return rows, nil
}

// List returns all orders, newest first, for admin views and exports.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	var rows []Order
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, errutil.Internal("failed to list orders", err)
	}
	return rows, nil
}

func (s *Service) createPending(ctx context.Context, req *CheckoutRequest, provider string) (*Order, error) {
	total := req.total()
	if total <= 0 {
		return nil, errutil.ValidationFailed("order total must be positive", nil)
	}

	items, err := json.Marshal(req.Items)
	if err != nil {
		return nil, errutil.Internal("failed to encode items", err)
	}

	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = "USD"
	}

	row := &Order{
		ID:            s.nextID(),
		Code:          s.nextCode(ctx),
		CustomerEmail: strings.ToLower(strings.TrimSpace(req.CustomerEmail)),
		CustomerName:  strings.TrimSpace(req.CustomerName),
		Items:         items,
		TotalAmount:   total,
		Currency:      currency,
		Provider:      provider,
		Status:        StatusPending,
	}

	if err := s.orders.Create(ctx, row); err != nil {
		return nil, errutil.Internal("failed to create order", err)
	}
	return row, nil
}

// nextID uses the snowflake node when one is wired so order ids sort by
// creation time.
func (s *Service) nextID() string {
	if s.node != nil {
		return s.node.Generate().String()
	}
	return uuid.NewString()
}

// nextCode prefers the redis daily sequence and falls back to a random
// code when the sequence is unavailable.
func (s *Service) nextCode(ctx context.Context) string {
	if s.sequence != nil {
		if code, err := s.sequence.NextOrderCode(ctx); err == nil {
			return code
		} else {
			zap.L().Warn("order code sequence unavailable, using random code", zap.Error(err))
		}
	}
	return "ORD-" + strings.ToUpper(uuid.NewString()[:8])
}

// complete transitions pending -> completed exactly once and runs the
// fulfillment pipeline. A replayed completion returns the stored order
// without re-running fulfillment.
func (s *Service) complete(ctx context.Context, row *Order, paymentID string) (*CheckoutResponse, error) {
	res := s.db.WithContext(ctx).Model(&Order{}).
		Where("id = ? AND status = ?", row.ID, StatusPending).
		Updates(map[string]any{
			"status":              StatusCompleted,
			"provider_payment_id": paymentID,
		})
	if res.Error != nil {
		return nil, errutil.Internal("failed to complete order", res.Error)
	}
	if res.RowsAffected == 0 {
		fresh, err := s.Get(ctx, row.ID)
		if err != nil {
			return nil, err
		}
		return &CheckoutResponse{Order: fresh}, nil
	}

	row.Status = StatusCompleted
	row.ProviderPaymentID = paymentID

	var items []LineItem
	if err := json.Unmarshal(row.Items, &items); err != nil {
		zap.L().Error("failed to decode order items for fulfillment", zap.Error(err), zap.String("order_id", row.ID))
	}

	fItems := make([]fulfillment.Item, 0, len(items))
	for _, item := range items {
		fItems = append(fItems, fulfillment.Item{
			ID:       item.ID,
			Name:     item.Name,
			Quantity: item.Quantity,
			Amount:   item.Amount,
		})
	}

	result := s.fulfillment.Fulfill(ctx, &fulfillment.Request{
		OrderID:       row.ID,
		OrderCode:     row.Code,
		CustomerEmail: row.CustomerEmail,
		CustomerName:  row.CustomerName,
		Items:         fItems,
		TotalAmount:   row.TotalAmount,
	})

	return &CheckoutResponse{Order: row, Fulfillment: result}, nil
}

// markFailed transitions pending -> failed exactly once.
func (s *Service) markFailed(ctx context.Context, row *Order, reason string) {
	res := s.db.WithContext(ctx).Model(&Order{}).
		Where("id = ? AND status = ?", row.ID, StatusPending).
		Updates(map[string]any{
			"status":         StatusFailed,
			"failure_reason": reason,
		})
	if res.Error != nil {
		zap.L().Error("failed to mark order failed", zap.Error(res.Error), zap.String("order_id", row.ID))
		return
	}
	row.Status = StatusFailed
	row.FailureReason = reason
}
