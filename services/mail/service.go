package mail

import (
	"context"
	"encoding/json"

	"mothernatural-backend/internal/mailer"
	"mothernatural-backend/pkg/db/option"
	"mothernatural-backend/pkg/errutil"
	"mothernatural-backend/pkg/repository"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	TaskSendEmail = "mail:send"
	queueMail     = "mail"
)

type Service struct {
	db     *gorm.DB
	logs   repository.Repository[EmailLog]
	sender mailer.Sender
	tasks  *asynq.Client
}

type ServiceParams struct {
	fx.In
	DB     *gorm.DB
	Sender mailer.Sender
	Tasks  *asynq.Client `optional:"true"`
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:     p.DB,
		logs:   repository.ProvideStore[EmailLog](p.DB),
		sender: p.Sender,
		tasks:  p.Tasks,
	}
}

// Send delivers one email and records the attempt. The returned error
// reflects the delivery outcome; the log row is written either way.
func (s *Service) Send(ctx context.Context, to, subject, html, category string) error {
	providerID, err := s.sender.Send(ctx, to, subject, html)

	row := &EmailLog{
		ID:         uuid.NewString(),
		Recipient:  to,
		Subject:    subject,
		Category:   category,
		Status:     StatusSent,
		ProviderID: providerID,
	}
	if err != nil {
		row.Status = StatusFailed
		row.Error = err.Error()
	}

	if logErr := s.logs.Create(ctx, row); logErr != nil {
		zap.L().Error("failed to write email log", zap.Error(logErr), zap.String("recipient", to))
	}

	return err
}

type sendTaskPayload struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	HTML     string `json:"html"`
	Category string `json:"category"`
}

type BulkRequest struct {
	Recipients []string `json:"recipients" binding:"required,min=1,dive,email"`
	Subject    string   `json:"subject" binding:"required"`
	HTML       string   `json:"html" binding:"required"`
}

// Bulk fans a campaign out through the task queue, one task per
// recipient, so a slow provider never blocks the admin request.
func (s *Service) Bulk(ctx context.Context, req *BulkRequest) (int, error) {
	if s.tasks == nil {
		return 0, errutil.UnprocessableEntity("bulk mail requires the task queue", nil)
	}

	enqueued := 0
	for _, to := range req.Recipients {
		payload, err := json.Marshal(sendTaskPayload{
			To:       to,
			Subject:  req.Subject,
			HTML:     req.HTML,
			Category: CategoryBulk,
		})
		if err != nil {
			return enqueued, errutil.Internal("failed to encode mail task", err)
		}

		task := asynq.NewTask(TaskSendEmail, payload)
		if _, err := s.tasks.EnqueueContext(ctx, task, asynq.Queue(queueMail)); err != nil {
			return enqueued, errutil.Internal("failed to enqueue mail task", err)
		}
		enqueued++
	}
	return enqueued, nil
}

// HandleSendTask is the asynq worker for queued deliveries.
func (s *Service) HandleSendTask(ctx context.Context, task *asynq.Task) error {
	var payload sendTaskPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}
	return s.Send(ctx, payload.To, payload.Subject, payload.HTML, payload.Category)
}

// Logs returns recent delivery attempts, newest first.
func (s *Service) Logs(ctx context.Context, limit int) ([]EmailLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	refs, err := s.logs.Find(ctx, &EmailLog{},
		option.WithSortBy(option.QuerySortBy{SortBy: "created_at", OrderBy: "desc"}),
		option.WithLimit(limit),
	)
	if err != nil {
		return nil, errutil.Internal("failed to list email logs", err)
	}

	rows := make([]EmailLog, 0, len(refs))
	for _, ref := range refs {
		rows = append(rows, *ref)
	}
	return rows, nil
}
