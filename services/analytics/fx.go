package analytics

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"mothernatural-backend/pkg/config"
	"mothernatural-backend/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

var Module = fx.Module("analytics.module",
	fx.Provide(NewService),
)

var ServerModule = fx.Module("analytics.server",
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

	api := p.Engine.Group("/api/analytics", adminOnly...)
	api.GET("/dashboard", h.dashboard)
	api.GET("/revenue", h.revenue)
	api.GET("/products", h.products)
	api.GET("/users", h.users)

	export := p.Engine.Group("/api/export", adminOnly...)
	export.GET("/orders", h.exportOrders)
	export.GET("/revenue", h.exportRevenue)
	export.GET("/products", h.exportProducts)
	export.GET("/users", h.exportUsers)
}

type handler struct {
	service *Service
}

func (h *handler) dashboard(c *gin.Context) {
	out, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *handler) revenue(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	out, err := h.service.Revenue(c.Request.Context(), days)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *handler) products(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	out, err := h.service.TopProducts(c.Request.Context(), limit)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *handler) users(c *gin.Context) {
	out, err := h.service.Users(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func setCSVHeaders(c *gin.Context, name string) {
	filename := fmt.Sprintf("%s-%s.csv", name, time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
}

func (h *handler) exportOrders(c *gin.Context) {
	setCSVHeaders(c, "orders")
	if err := h.service.ExportOrders(c.Request.Context(), c.Writer); err != nil {
		c.Error(err)
	}
}

func (h *handler) exportRevenue(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	setCSVHeaders(c, "revenue")
	if err := h.service.ExportRevenue(c.Request.Context(), c.Writer, days); err != nil {
		c.Error(err)
	}
}

func (h *handler) exportProducts(c *gin.Context) {
	setCSVHeaders(c, "products")
	if err := h.service.ExportProducts(c.Request.Context(), c.Writer); err != nil {
		c.Error(err)
	}
}

func (h *handler) exportUsers(c *gin.Context) {
	setCSVHeaders(c, "users")
	if err := h.service.ExportUsers(c.Request.Context(), c.Writer); err != nil {
		c.Error(err)
	}
}
