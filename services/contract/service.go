package contract

import (
	"context"
	"strings"
	"time"

	"mothernatural-backend/pkg/errutil"
	"mothernatural-backend/pkg/repository"

	"github.com/google/uuid"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type Service struct {
	db        *gorm.DB
	templates repository.Repository[Template]
	signed    repository.Repository[SignedContract]
}

type ServiceParams struct {
	fx.In
	DB *gorm.DB
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:        p.DB,
		templates: repository.ProvideStore[Template](p.DB),
		signed:    repository.ProvideStore[SignedContract](p.DB),
	}
}

func (s *Service) ListTemplates(ctx context.Context) ([]Template, error) {
	var rows []Template
	if err := s.db.WithContext(ctx).Order("type ASC").Find(&rows).Error; err != nil {
		return nil, errutil.Internal("failed to list templates", err)
	}
	return rows, nil
}

func (s *Service) GetTemplate(ctx context.Context, templateType string) (*Template, error) {
	if !templateTypes[templateType] {
		return nil, errutil.ValidationFailed("unknown template type", nil)
	}

	row, err := s.templates.FindOne(ctx, &Template{Type: templateType})
	if err != nil {
		return nil, errutil.Internal("failed to load template", err)
	}
	if row == nil {
		return &Template{Type: templateType}, nil
	}
	return row, nil
}

type UpdateTemplateRequest struct {
	Content string `json:"content" binding:"required"`
}

func (s *Service) UpdateTemplate(ctx context.Context, templateType string, req *UpdateTemplateRequest) (*Template, error) {
	if !templateTypes[templateType] {
		return nil, errutil.ValidationFailed("unknown template type", nil)
	}

	row := &Template{Type: templateType, Content: req.Content}
	if err := s.templates.Upsert(ctx, &Template{Type: templateType}, row); err != nil {
		return nil, errutil.Internal("failed to save template", err)
	}
	return row, nil
}

type SignRequest struct {
	TemplateType  string `json:"templateType" binding:"required"`
	CustomerName  string `json:"customerName" binding:"required"`
	CustomerEmail string `json:"customerEmail" binding:"required,email"`
	Signature     string `json:"signature" binding:"required"`
}

// Sign freezes the current template text into the signed record, so
// later template edits never alter what was agreed to.
func (s *Service) Sign(ctx context.Context, req *SignRequest) (*SignedContract, error) {
	template, err := s.GetTemplate(ctx, req.TemplateType)
	if err != nil {
		return nil, err
	}
	if template.Content == "" {
		return nil, errutil.UnprocessableEntity("no contract text is published for this type", nil)
	}

	row := &SignedContract{
		ID:            uuid.NewString(),
		TemplateType:  req.TemplateType,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerEmail: strings.ToLower(strings.TrimSpace(req.CustomerEmail)),
		Signature:     req.Signature,
		Content:       template.Content,
		SignedAt:      time.Now(),
	}
	if err := s.signed.Create(ctx, row); err != nil {
		return nil, errutil.Internal("failed to record signature", err)
	}
	return row, nil
}

func (s *Service) ListSigned(ctx context.Context) ([]SignedContract, error) {
	var rows []SignedContract
	if err := s.db.WithContext(ctx).Order("signed_at DESC").Find(&rows).Error; err != nil {
		return nil, errutil.Internal("failed to list signed contracts", err)
	}
	return rows, nil
}
