package payment

import (
	"context"
	"fmt"

	"mothernatural-backend/pkg/config"
	"mothernatural-backend/pkg/errutil"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	squareSandboxURL    = "https://connect.squareupsandbox.com"
	squareProductionURL = "https://connect.squareup.com"
)

type SquareClient struct {
	http       *resty.Client
	locationID string
	simulate   bool
}

func NewSquareClient(cfg *config.Config) *SquareClient {
	base := squareSandboxURL
	if cfg.Square.Environment == "production" {
		base = squareProductionURL
	}

	client := resty.New().
		SetBaseURL(base).
		SetAuthToken(cfg.Square.AccessToken).
		SetHeader("Content-Type", "application/json")

	return &SquareClient{
		http:       client,
		locationID: cfg.Square.LocationID,
		simulate:   cfg.Square.AccessToken == "",
	}
}

type squarePaymentResponse struct {
	Payment struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	} `json:"payment"`
	Errors []struct {
		Code   string `json:"code"`
		Detail string `json:"detail"`
	} `json:"errors"`
}

func (c *SquareClient) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	if c.simulate {
		zap.L().Warn("square credentials missing, simulating charge", zap.String("reference_id", req.ReferenceID))
		return &ChargeResult{Paid: true, PaymentID: "sim_" + uuid.NewString(), Status: "COMPLETED"}, nil
	}

	body := map[string]any{
		"source_id":       req.SourceID,
		"idempotency_key": uuid.NewString(),
		"amount_money": map[string]any{
			"amount":   req.Amount,
			"currency": req.Currency,
		},
		"location_id":  c.locationID,
		"reference_id": req.ReferenceID,
		"note":         req.Note,
	}

	var out squarePaymentResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		SetError(&out).
		Post("/v2/payments")
	if err != nil {
		return nil, errutil.BadGateway("square charge failed", err)
	}

	if resp.IsError() || len(out.Errors) > 0 {
		message := "payment processing failed"
		if len(out.Errors) > 0 {
			message = out.Errors[0].Detail
		}
		return &ChargeResult{Paid: false, Message: message}, nil
	}

	if out.Payment.ID == "" {
		return nil, errutil.BadGateway(fmt.Sprintf("unexpected square response (http %d)", resp.StatusCode()), nil)
	}

	return &ChargeResult{
		Paid:      true,
		PaymentID: out.Payment.ID,
		Status:    out.Payment.Status,
	}, nil
}
