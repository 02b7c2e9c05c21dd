package order

import (
	"net/http"

	"mothernatural-backend/internal/payment"
	"mothernatural-backend/pkg/config"
	"mothernatural-backend/pkg/errutil"
	"mothernatural-backend/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

var Module = fx.Module("order.module",
	fx.Provide(
		NewService,
		func(c *payment.SquareClient) SquareCharger { return c },
		func(c *payment.StripeClient) StripeGateway { return c },
		func(c *payment.PayPalClient) PayPalGateway { return c },
	),
)

var ServerModule = fx.Module("order.server",
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
	h := &handler{service: p.Service, cfg: p.Config}

	api := p.Engine.Group("/api/payments")
	api.GET("/config", h.publicConfig)
	api.GET("/config/all", middleware.Authenticated(p.Config), middleware.AdminOnly(), h.fullConfig)
	api.POST("/process", h.processSquare)
	api.POST("/stripe/create-session", h.createStripeSession)
	api.POST("/stripe/confirm", h.confirmStripeSession)
	api.POST("/paypal/create-order", h.createPayPalOrder)
	api.POST("/paypal/capture/:order_id", h.capturePayPalOrder)
	api.GET("/order/:order_id", h.getOrder)
	api.GET("/history", middleware.Authenticated(p.Config), h.history)

	admin := p.Engine.Group("/api/admin/orders", middleware.Authenticated(p.Config), middleware.AdminOnly())
	admin.GET("", h.list)
}

type handler struct {
	service *Service
	cfg     *config.Config
}

// publicConfig exposes only the keys a browser needs to tokenize.
func (h *handler) publicConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"square": gin.H{
			"applicationId": h.cfg.Square.ApplicationID,
			"locationId":    h.cfg.Square.LocationID,
			"environment":   h.cfg.Square.Environment,
		},
		"stripe": gin.H{
			"publishableKey": h.cfg.Stripe.PublishableKey,
		},
		"paypal": gin.H{
			"clientId":    h.cfg.PayPal.ClientID,
			"environment": h.cfg.PayPal.Environment,
		},
	})
}

func (h *handler) fullConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"square": gin.H{
			"applicationId": h.cfg.Square.ApplicationID,
			"locationId":    h.cfg.Square.LocationID,
			"environment":   h.cfg.Square.Environment,
			"configured":    h.cfg.Square.AccessToken != "",
		},
		"stripe": gin.H{
			"publishableKey": h.cfg.Stripe.PublishableKey,
			"configured":     h.cfg.Stripe.SecretKey != "",
		},
		"paypal": gin.H{
			"clientId":    h.cfg.PayPal.ClientID,
			"environment": h.cfg.PayPal.Environment,
			"configured":  h.cfg.PayPal.Secret != "",
		},
	})
}

func (h *handler) processSquare(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	resp, err := h.service.ProcessSquare(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) createStripeSession(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	resp, err := h.service.CreateStripeSession(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) confirmStripeSession(c *gin.Context) {
	var req ConfirmStripeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	resp, err := h.service.ConfirmStripeSession(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) createPayPalOrder(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	resp, err := h.service.CreatePayPalOrder(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) capturePayPalOrder(c *gin.Context) {
	resp, err := h.service.CapturePayPalOrder(c.Request.Context(), c.Param("order_id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) getOrder(c *gin.Context) {
	row, err := h.service.Get(c.Request.Context(), c.Param("order_id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *handler) history(c *gin.Context) {
	rows, err := h.service.History(c.Request.Context(), middleware.UserEmail(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *handler) list(c *gin.Context) {
	rows, err := h.service.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": rows, "total": len(rows)})
}
