package catalog

import (
	"net/http"

	"mothernatural-backend/pkg/config"
	"mothernatural-backend/pkg/errutil"
	"mothernatural-backend/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog.module",
	fx.Provide(NewService),
)

var ServerModule = fx.Module("catalog.server",
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

	products := p.Engine.Group("/api/products")
	products.GET("", h.listProducts)
	products.GET("/:id", h.getProduct)
	products.POST("", append(adminOnly, h.createProduct)...)
	products.PUT("/:id", append(adminOnly, h.updateProduct)...)
	products.DELETE("/:id", append(adminOnly, h.deleteProduct)...)

	services := p.Engine.Group("/api/services")
	services.GET("", h.listServices)
	services.GET("/:id", h.getServiceOffering)
	services.POST("", append(adminOnly, h.createServiceOffering)...)
	services.PUT("/:id", append(adminOnly, h.updateServiceOffering)...)
	services.DELETE("/:id", append(adminOnly, h.deleteServiceOffering)...)

	classes := p.Engine.Group("/api/classes")
	classes.GET("", h.listClasses)
	classes.GET("/:id", h.getClass)
	classes.POST("", append(adminOnly, h.createClass)...)
	classes.PUT("/:id", append(adminOnly, h.updateClass)...)
	classes.DELETE("/:id", append(adminOnly, h.deleteClass)...)

	retreats := p.Engine.Group("/api/retreats")
	retreats.GET("", h.listRetreats)
	retreats.GET("/:id", h.getRetreat)
	retreats.POST("", append(adminOnly, h.createRetreat)...)
	retreats.PUT("/:id", append(adminOnly, h.updateRetreat)...)
	retreats.DELETE("/:id", append(adminOnly, h.deleteRetreat)...)

	fundraisers := p.Engine.Group("/api/fundraisers")
	fundraisers.GET("", h.listFundraisers)
	fundraisers.GET("/:id", h.getFundraiser)
	fundraisers.POST("", append(adminOnly, h.createFundraiser)...)
	fundraisers.PUT("/:id", append(adminOnly, h.updateFundraiser)...)
	fundraisers.DELETE("/:id", append(adminOnly, h.deleteFundraiser)...)
}

type handler struct {
	service *Service
}

func includeHidden(c *gin.Context) bool {
	return c.Query("include_hidden") == "true"
}

func (h *handler) listProducts(c *gin.Context) {
	rows, err := h.service.ListProducts(c.Request.Context(), includeHidden(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *handler) getProduct(c *gin.Context) {
	row, err := h.service.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *handler) createProduct(c *gin.Context) {
	var row Product
	if err := c.ShouldBindJSON(&row); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	created, err := h.service.CreateProduct(c.Request.Context(), &row)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *handler) updateProduct(c *gin.Context) {
	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	row, err := h.service.UpdateProduct(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *handler) deleteProduct(c *gin.Context) {
	if err := h.service.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (h *handler) listServices(c *gin.Context) {
	rows, err := h.service.ListServices(c.Request.Context(), includeHidden(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *handler) getServiceOffering(c *gin.Context) {
	row, err := h.service.GetServiceOffering(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *handler) createServiceOffering(c *gin.Context) {
	var row ServiceOffering
	if err := c.ShouldBindJSON(&row); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	created, err := h.service.CreateServiceOffering(c.Request.Context(), &row)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *handler) updateServiceOffering(c *gin.Context) {
	var patch ServiceOffering
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	row, err := h.service.UpdateServiceOffering(c.Request.Context(), c.Param("id"), &patch)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *handler) deleteServiceOffering(c *gin.Context) {
	if err := h.service.DeleteServiceOffering(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (h *handler) listClasses(c *gin.Context) {
	rows, err := h.service.ListClasses(c.Request.Context(), includeHidden(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *handler) getClass(c *gin.Context) {
	row, err := h.service.GetClass(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *handler) createClass(c *gin.Context) {
	var row Class
	if err := c.ShouldBindJSON(&row); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	created, err := h.service.CreateClass(c.Request.Context(), &row)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *handler) updateClass(c *gin.Context) {
	var patch Class
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	row, err := h.service.UpdateClass(c.Request.Context(), c.Param("id"), &patch)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *handler) deleteClass(c *gin.Context) {
	if err := h.service.DeleteClass(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (h *handler) listRetreats(c *gin.Context) {
	rows, err := h.service.ListRetreats(c.Request.Context(), includeHidden(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *handler) getRetreat(c *gin.Context) {
	row, err := h.service.GetRetreat(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *handler) createRetreat(c *gin.Context) {
	var row Retreat
	if err := c.ShouldBindJSON(&row); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	created, err := h.service.CreateRetreat(c.Request.Context(), &row)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *handler) updateRetreat(c *gin.Context) {
	var patch Retreat
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	row, err := h.service.UpdateRetreat(c.Request.Context(), c.Param("id"), &patch)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *handler) deleteRetreat(c *gin.Context) {
	if err := h.service.DeleteRetreat(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (h *handler) listFundraisers(c *gin.Context) {
	rows, err := h.service.ListFundraisers(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *handler) getFundraiser(c *gin.Context) {
	row, err := h.service.GetFundraiser(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *handler) createFundraiser(c *gin.Context) {
	var row Fundraiser
	if err := c.ShouldBindJSON(&row); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	created, err := h.service.CreateFundraiser(c.Request.Context(), &row)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *handler) updateFundraiser(c *gin.Context) {
	var patch Fundraiser
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	row, err := h.service.UpdateFundraiser(c.Request.Context(), c.Param("id"), &patch)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *handler) deleteFundraiser(c *gin.Context) {
	if err := h.service.DeleteFundraiser(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
