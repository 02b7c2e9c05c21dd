package status

import (
	"context"
	"net/http"

	"mothernatural-backend/pkg/errutil"
	"mothernatural-backend/pkg/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("status.module",
	fx.Provide(NewService),
)

var ServerModule = fx.Module("status.server",
	Module,
	fx.Invoke(registerRoutes),
)

type Service struct {
	db     *gorm.DB
	checks repository.Repository[Check]
}

type ServiceParams struct {
	fx.In
	DB *gorm.DB
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:     p.DB,
		checks: repository.ProvideStore[Check](p.DB),
	}
}

func (s *Service) Record(ctx context.Context, clientName string) (*Check, error) {
	row := &Check{ID: uuid.NewString(), ClientName: clientName}
	if err := s.checks.Create(ctx, row); err != nil {
		return nil, errutil.Internal("failed to record status check", err)
	}
	return row, nil
}

func (s *Service) List(ctx context.Context) ([]Check, error) {
	var rows []Check
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(100).
		Find(&rows).Error
	if err != nil {
		return nil, errutil.Internal("failed to list status checks", err)
	}
	return rows, nil
}

type routeParams struct {
	fx.In

	Engine  *gin.Engine
	Service *Service
}

func registerRoutes(p routeParams) {
	h := &handler{service: p.Service}

	p.Engine.POST("/api/status", h.record)
	p.Engine.GET("/api/status", h.list)
}

type handler struct {
	service *Service
}

type recordRequest struct {
	ClientName string `json:"clientName" binding:"required"`
}

func (h *handler) record(c *gin.Context) {
	var req recordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	row, err := h.service.Record(c.Request.Context(), req.ClientName)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, row)
}

func (h *handler) list(c *gin.Context) {
	rows, err := h.service.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
