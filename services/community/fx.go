package community

import (
	"net/http"

	"mothernatural-backend/pkg/config"
	"mothernatural-backend/pkg/db/pagination"
	"mothernatural-backend/pkg/errutil"
	"mothernatural-backend/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

var Module = fx.Module("community.module",
	fx.Provide(NewService),
)

var ServerModule = fx.Module("community.server",
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

	api := p.Engine.Group("/api/community-posts")
	api.GET("", h.list)
	api.GET("/:id", h.get)

	authed := api.Group("", middleware.Authenticated(p.Config))
	authed.POST("", h.create)
	authed.POST("/:id/like", h.like)
	authed.POST("/:id/comment", h.comment)
	authed.DELETE("/:id", h.delete)
}

type handler struct {
	service *Service
}

func (h *handler) list(c *gin.Context) {
	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		c.Error(errutil.BadRequest("invalid query parameters", err))
		return
	}

	rows, info, err := h.service.List(c.Request.Context(), &page)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": rows, "pageInfo": info})
}

func (h *handler) get(c *gin.Context) {
	row, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *handler) create(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	row, err := h.service.Create(c.Request.Context(), middleware.UserID(c), middleware.UserEmail(c), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, row)
}

func (h *handler) like(c *gin.Context) {
	row, err := h.service.Like(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *handler) comment(c *gin.Context) {
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	row, err := h.service.Comment(c.Request.Context(), c.Param("id"), middleware.UserEmail(c), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *handler) delete(c *gin.Context) {
	row, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	if row.AuthorID != middleware.UserID(c) && c.GetString(middleware.ContextUserRole) != middleware.RoleAdmin {
		c.Error(errutil.Forbidden("only the author or an admin can delete a post", nil))
		return
	}

	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
