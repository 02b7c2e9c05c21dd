package appointment

import (
	"net/http"

	"mothernatural-backend/pkg/config"
	"mothernatural-backend/pkg/errutil"
	"mothernatural-backend/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

var Module = fx.Module("appointment.module",
	fx.Provide(NewService),
)

var ServerModule = fx.Module("appointment.server",
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

	api := p.Engine.Group("/api/appointments")
	api.POST("", h.book)
	api.GET("", h.list)
	api.GET("/:id", h.get)
	api.PUT("/:id/status", append(adminOnly, h.updateStatus)...)
	api.DELETE("/:id", h.cancel)

	emergencies := p.Engine.Group("/api/emergency-requests")
	emergencies.POST("", h.submitEmergency)
	emergencies.GET("", append(adminOnly, h.listEmergencies)...)
	emergencies.POST("/:id/resolve", append(adminOnly, h.resolveEmergency)...)
}

type handler struct {
	service *Service
}

func (h *handler) book(c *gin.Context) {
	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	row, err := h.service.Book(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, row)
}

func (h *handler) list(c *gin.Context) {
	rows, err := h.service.List(c.Request.Context(), c.Query("email"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *handler) get(c *gin.Context) {
	row, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *handler) updateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	row, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *handler) cancel(c *gin.Context) {
	if err := h.service.Cancel(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cancelled": true})
}

func (h *handler) submitEmergency(c *gin.Context) {
	var req EmergencyRequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	row, err := h.service.SubmitEmergency(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, row)
}

func (h *handler) listEmergencies(c *gin.Context) {
	rows, err := h.service.ListEmergencies(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *handler) resolveEmergency(c *gin.Context) {
	row, err := h.service.ResolveEmergency(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, row)
}
