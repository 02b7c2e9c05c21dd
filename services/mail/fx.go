package mail

import (
	"net/http"
	"strconv"

	"mothernatural-backend/pkg/config"
	"mothernatural-backend/pkg/errutil"
	"mothernatural-backend/pkg/middleware"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/fx"
)

var Module = fx.Module("mail.module",
	fx.Provide(NewService),
)

var ServerModule = fx.Module("mail.server",
	Module,
	fx.Invoke(
		registerRoutes,
		registerTasks,
	),
)

func registerTasks(mux *asynq.ServeMux, service *Service) {
	mux.HandleFunc(TaskSendEmail, service.HandleSendTask)
}

type routeParams struct {
	fx.In

	Engine  *gin.Engine
	Config  *config.Config
	Service *Service
}

func registerRoutes(p routeParams) {
	h := &handler{service: p.Service}

	admin := p.Engine.Group("/api/email", middleware.Authenticated(p.Config), middleware.AdminOnly())
	admin.POST("/send", h.send)
	admin.POST("/bulk", h.bulk)
	admin.GET("/logs", h.logs)
}

type handler struct {
	service *Service
}

type sendRequest struct {
	To      string `json:"to" binding:"required,email"`
	Subject string `json:"subject" binding:"required"`
	HTML    string `json:"html" binding:"required"`
}

func (h *handler) send(c *gin.Context) {
	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	if err := h.service.Send(c.Request.Context(), req.To, req.Subject, req.HTML, CategoryManual); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": true})
}

func (h *handler) bulk(c *gin.Context) {
	var req BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	enqueued, err := h.service.Bulk(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"enqueued": enqueued})
}

func (h *handler) logs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	rows, err := h.service.Logs(c.Request.Context(), limit)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
