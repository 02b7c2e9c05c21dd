package payment

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"mothernatural-backend/pkg/config"
	"mothernatural-backend/pkg/errutil"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const stripeBaseURL = "https://api.stripe.com"

type StripeClient struct {
	http       *resty.Client
	successURL string
	cancelURL  string
	simulate   bool
}

func NewStripeClient(cfg *config.Config) *StripeClient {
	client := resty.New().
		SetBaseURL(stripeBaseURL).
		SetAuthToken(cfg.Stripe.SecretKey).
		SetHeader("Content-Type", "application/x-www-form-urlencoded")

	return &StripeClient{
		http:       client,
		successURL: cfg.Stripe.SuccessURL,
		cancelURL:  cfg.Stripe.CancelURL,
		simulate:   cfg.Stripe.SecretKey == "",
	}
}

type SessionRequest struct {
	Amount      int64
	Currency    string
	ProductName string
	ReferenceID string
}

type Session struct {
	ID  string
	URL string
}

// SessionStatus reports where a hosted checkout session stands. Paid is
// the only signal that may complete an order.
type SessionStatus struct {
	ID            string
	Paid          bool
	Status        string
	PaymentStatus string
}

type stripeSessionResponse struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	Error         struct {
		Message string `json:"message"`
	} `json:"error"`
}

// CreateSession opens a hosted checkout session; the order stays pending
// until Stripe redirects the customer back.
func (c *StripeClient) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	if c.simulate {
		zap.L().Warn("stripe credentials missing, simulating session", zap.String("reference_id", req.ReferenceID))
		id := "cs_sim_" + uuid.NewString()
		return &Session{ID: id, URL: "https://checkout.stripe.com/pay/" + id}, nil
	}

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", c.successURL)
	form.Set("cancel_url", c.cancelURL)
	form.Set("client_reference_id", req.ReferenceID)
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", req.Currency)
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(req.Amount, 10))
	form.Set("line_items[0][price_data][product_data][name]", req.ProductName)

	var out stripeSessionResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormDataFromValues(form).
		SetResult(&out).
		SetError(&out).
		Post("/v1/checkout/sessions")
	if err != nil {
		return nil, errutil.BadGateway("stripe session failed", err)
	}

	if resp.IsError() {
		return nil, errutil.BadGateway(fmt.Sprintf("stripe rejected session: %s", out.Error.Message), nil)
	}

	return &Session{ID: out.ID, URL: out.URL}, nil
}

// GetSession retrieves the session so the caller can verify payment
// before completing the order.
func (c *StripeClient) GetSession(ctx context.Context, sessionID string) (*SessionStatus, error) {
	if c.simulate {
		zap.L().Warn("stripe credentials missing, simulating paid session", zap.String("session_id", sessionID))
		return &SessionStatus{ID: sessionID, Paid: true, Status: "complete", PaymentStatus: "paid"}, nil
	}

	var out stripeSessionResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&out).
		Get("/v1/checkout/sessions/" + url.PathEscape(sessionID))
	if err != nil {
		return nil, errutil.BadGateway("stripe session lookup failed", err)
	}

	if resp.IsError() {
		return nil, errutil.BadGateway(fmt.Sprintf("stripe rejected session lookup: %s", out.Error.Message), nil)
	}

	return &SessionStatus{
		ID:            out.ID,
		Paid:          out.PaymentStatus == "paid" || out.PaymentStatus == "no_payment_required",
		Status:        out.Status,
		PaymentStatus: out.PaymentStatus,
	}, nil
}
