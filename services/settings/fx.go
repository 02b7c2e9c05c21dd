package settings

import (
	"net/http"

	"mothernatural-backend/pkg/config"
	"mothernatural-backend/pkg/errutil"
	"mothernatural-backend/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

var Module = fx.Module("settings.module",
	fx.Provide(NewService),
)

var ServerModule = fx.Module("settings.server",
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

	admin := p.Engine.Group("/api/settings", middleware.Authenticated(p.Config), middleware.AdminOnly())
	admin.GET("/low-stock", h.getLowStock)
	admin.PUT("/low-stock", h.updateLowStock)
	admin.GET("/loyalty", h.getLoyalty)
	admin.PUT("/loyalty", h.updateLoyalty)
	admin.GET("/game", h.getGame)
	admin.PUT("/game", h.updateGame)
}

type handler struct {
	service *Service
}

func (h *handler) getLowStock(c *gin.Context) {
	row, err := h.service.LowStock(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *handler) updateLowStock(c *gin.Context) {
	var req UpdateLowStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	row, err := h.service.UpdateLowStock(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *handler) getLoyalty(c *gin.Context) {
	row, err := h.service.Loyalty(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *handler) updateLoyalty(c *gin.Context) {
	var req UpdateLoyaltyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	row, err := h.service.UpdateLoyalty(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *handler) getGame(c *gin.Context) {
	row, err := h.service.Game(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *handler) updateGame(c *gin.Context) {
	var req UpdateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	row, err := h.service.UpdateGame(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, row)
}
