package game

import (
	"net/http"

	"mothernatural-backend/pkg/config"
	"mothernatural-backend/pkg/errutil"
	"mothernatural-backend/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

var Module = fx.Module("game.module",
	fx.Provide(NewService),
)

var ServerModule = fx.Module("game.server",
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

	api := p.Engine.Group("/api/game")
	api.GET("/reward-types", h.rewardTypes)
	api.GET("/manifestations", h.manifestations)

	authed := api.Group("", middleware.Authenticated(p.Config))
	authed.GET("/plant", h.activeGame)
	authed.POST("/plant/start", h.start)
	authed.POST("/plant/water", h.water)
	authed.POST("/plant/feed", h.feed)
	authed.GET("/rewards", h.rewards)
	authed.POST("/rewards/:id/claim", h.claim)
}

type handler struct {
	service *Service
}

func (h *handler) rewardTypes(c *gin.Context) {
	c.JSON(http.StatusOK, RewardTypes())
}

func (h *handler) manifestations(c *gin.Context) {
	c.JSON(http.StatusOK, Manifestations())
}

func (h *handler) activeGame(c *gin.Context) {
	row, err := h.service.ActiveGame(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	if row == nil {
		c.JSON(http.StatusOK, gin.H{"active": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"active": true, "game": row})
}

func (h *handler) start(c *gin.Context) {
	var req StartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	row, err := h.service.Start(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, row)
}

func (h *handler) water(c *gin.Context) {
	row, err := h.service.Water(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *handler) feed(c *gin.Context) {
	var req FeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	row, err := h.service.Feed(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *handler) rewards(c *gin.Context) {
	rows, err := h.service.Rewards(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *handler) claim(c *gin.Context) {
	row, err := h.service.ClaimReward(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, row)
}
