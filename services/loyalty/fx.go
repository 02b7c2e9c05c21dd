package loyalty

import (
	"net/http"

	"mothernatural-backend/pkg/config"
	"mothernatural-backend/pkg/errutil"
	"mothernatural-backend/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

var Module = fx.Module("loyalty.module",
	fx.Provide(NewService),
)

var ServerModule = fx.Module("loyalty.server",
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

	api := p.Engine.Group("/api/loyalty")
	api.GET("/tiers", h.tiers)

	authed := api.Group("", middleware.Authenticated(p.Config))
	authed.GET("/user-stats", h.stats)
	authed.POST("/generate-referral-code", h.generateReferralCode)
	authed.POST("/redeem-referral", h.redeemReferral)
}

type handler struct {
	service *Service
}

func (h *handler) tiers(c *gin.Context) {
	c.JSON(http.StatusOK, Tiers())
}

func (h *handler) stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *handler) generateReferralCode(c *gin.Context) {
	code, err := h.service.GenerateReferralCode(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"referralCode": code})
}

func (h *handler) redeemReferral(c *gin.Context) {
	var req RedeemReferralRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	result, err := h.service.RedeemReferral(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result)
}
