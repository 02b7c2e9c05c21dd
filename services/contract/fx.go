package contract

import (
	"net/http"

	"mothernatural-backend/pkg/config"
	"mothernatural-backend/pkg/errutil"
	"mothernatural-backend/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

var Module = fx.Module("contract.module",
	fx.Provide(NewService),
)

var ServerModule = fx.Module("contract.server",
	Module,
	fx.Invoke(registerRoutes),
)

type routeParams struct {
	fx.In

	Engine  *gin.Engine
	Config  *config.Config
	Service *Service
}

func registerRoutes(p routeParams) {
	h := &handler{service: p.Service}
	adminOnly := []gin.HandlerFunc{middleware.Authenticated(p.Config), middleware.AdminOnly()}

	api := p.Engine.Group("/api/contracts")
	api.GET("/templates", h.listTemplates)
	api.GET("/templates/:type", h.getTemplate)
	api.PUT("/templates/:type", append(adminOnly, h.updateTemplate)...)
	api.POST("/sign", h.sign)
	api.GET("/signed", append(adminOnly, h.listSigned)...)
}

type handler struct {
	service *Service
}

func (h *handler) listTemplates(c *gin.Context) {
	rows, err := h.service.ListTemplates(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *handler) getTemplate(c *gin.Context) {
	row, err := h.service.GetTemplate(c.Request.Context(), c.Param("type"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *handler) updateTemplate(c *gin.Context) {
	var req UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	row, err := h.service.UpdateTemplate(c.Request.Context(), c.Param("type"), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *handler) sign(c *gin.Context) {
	var req SignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	row, err := h.service.Sign(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, row)
}

func (h *handler) listSigned(c *gin.Context) {
	rows, err := h.service.ListSigned(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
