package payment

import (
	"context"
	"fmt"
	"strings"

	"mothernatural-backend/pkg/config"
	"mothernatural-backend/pkg/errutil"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	paypalSandboxURL    = "https://api-m.sandbox.paypal.com"
	paypalProductionURL = "https://api-m.paypal.com"
)

type PayPalClient struct {
	http     *resty.Client
	clientID string
	secret   string
	simulate bool
}

func NewPayPalClient(cfg *config.Config) *PayPalClient {
	base := paypalSandboxURL
	if cfg.PayPal.Environment == "production" {
		base = paypalProductionURL
	}

	return &PayPalClient{
		http:     resty.New().SetBaseURL(base),
		clientID: cfg.PayPal.ClientID,
		secret:   cfg.PayPal.Secret,
		simulate: cfg.PayPal.ClientID == "" || cfg.PayPal.Secret == "",
	}
}

type paypalTokenResponse struct {
	AccessToken string `json:"access_token"`
}

func (c *PayPalClient) accessToken(ctx context.Context) (string, error) {
	var out paypalTokenResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBasicAuth(c.clientID, c.secret).
		SetFormData(map[string]string{"grant_type": "client_credentials"}).
		SetResult(&out).
		Post("/v1/oauth2/token")
	if err != nil {
		return "", errutil.BadGateway("paypal token request failed", err)
	}
	if resp.IsError() || out.AccessToken == "" {
		return "", errutil.BadGateway(fmt.Sprintf("paypal token rejected (http %d)", resp.StatusCode()), nil)
	}
	return out.AccessToken, nil
}

type PayPalOrder struct {
	ID         string
	Status     string
	ApproveURL string
}

type paypalOrderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Links  []struct {
		Href string `json:"href"`
		Rel  string `json:"rel"`
	} `json:"links"`
	PurchaseUnits []struct {
		Payments struct {
			Captures []struct {
				ID string `json:"id"`
			} `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
}

// CreateOrder opens a PayPal order; the customer approves it client-side
// and the backend captures it afterwards.
func (c *PayPalClient) CreateOrder(ctx context.Context, amount int64, currency, referenceID string) (*PayPalOrder, error) {
	if c.simulate {
		zap.L().Warn("paypal credentials missing, simulating order", zap.String("reference_id", referenceID))
		id := "PP-SIM-" + strings.ToUpper(uuid.NewString()[:8])
		return &PayPalOrder{ID: id, Status: "CREATED", ApproveURL: "https://www.sandbox.paypal.com/checkoutnow?token=" + id}, nil
	}

	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"intent": "CAPTURE",
		"purchase_units": []map[string]any{{
			"reference_id": referenceID,
			"amount": map[string]string{
				"currency_code": currency,
				"value":         fmt.Sprintf("%d.%02d", amount/100, amount%100),
			},
		}},
	}

	var out paypalOrderResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(body).
		SetResult(&out).
		Post("/v2/checkout/orders")
	if err != nil {
		return nil, errutil.BadGateway("paypal create order failed", err)
	}
	if resp.IsError() || out.ID == "" {
		return nil, errutil.BadGateway(fmt.Sprintf("paypal rejected order (http %d)", resp.StatusCode()), nil)
	}

	order := &PayPalOrder{ID: out.ID, Status: out.Status}
	for _, link := range out.Links {
		if link.Rel == "approve" {
			order.ApproveURL = link.Href
		}
	}
	return order, nil
}

// CaptureOrder finalizes an approved PayPal order and reports the charge
// outcome.
func (c *PayPalClient) CaptureOrder(ctx context.Context, providerOrderID string) (*ChargeResult, error) {
	if c.simulate {
		return &ChargeResult{Paid: true, PaymentID: providerOrderID, Status: "COMPLETED"}, nil
	}

	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	var out paypalOrderResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetHeader("Content-Type", "application/json").
		SetResult(&out).
		Post("/v2/checkout/orders/" + providerOrderID + "/capture")
	if err != nil {
		return nil, errutil.BadGateway("paypal capture failed", err)
	}
	if resp.IsError() {
		return &ChargeResult{Paid: false, Message: fmt.Sprintf("paypal capture rejected (http %d)", resp.StatusCode())}, nil
	}

	result := &ChargeResult{
		Paid:      out.Status == "COMPLETED",
		PaymentID: out.ID,
		Status:    out.Status,
	}
	for _, unit := range out.PurchaseUnits {
		if len(unit.Payments.Captures) > 0 {
			result.PaymentID = unit.Payments.Captures[0].ID
		}
	}
	return result, nil
}
