package mailer

import (
	"context"
	"fmt"

	"mothernatural-backend/pkg/config"
	"mothernatural-backend/pkg/errutil"

	"github.com/go-resty/resty/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Sender delivers a single HTML email.
type Sender interface {
	Send(ctx context.Context, to, subject, html string) (string, error)
}

var Module = fx.Module("mailer", fx.Provide(NewResendSender))

type resendSender struct {
	http   *resty.Client
	from   string
	dryRun bool
}

func NewResendSender(cfg *config.Config) Sender {
	client := resty.New().
		SetBaseURL(cfg.Email.BaseURL).
		SetAuthToken(cfg.Email.APIKey).
		SetHeader("Content-Type", "application/json")

	return &resendSender{
		http:   client,
		from:   cfg.Email.Sender,
		dryRun: cfg.Email.APIKey == "",
	}
}

type resendResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

func (s *resendSender) Send(ctx context.Context, to, subject, html string) (string, error) {
	if s.dryRun {
		zap.L().Info("email api key missing, skipping delivery",
			zap.String("to", to),
			zap.String("subject", subject),
		)
		return "", nil
	}

	body := map[string]any{
		"from":    s.from,
		"to":      []string{to},
		"subject": subject,
		"html":    html,
	}

	var out resendResponse
	resp, err := s.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		SetError(&out).
		Post("/emails")
	if err != nil {
		return "", errutil.BadGateway("email delivery failed", err)
	}
	if resp.IsError() {
		return "", errutil.BadGateway(fmt.Sprintf("email provider rejected message: %s", out.Message), nil)
	}

	return out.ID, nil
}
