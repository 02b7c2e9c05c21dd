package upload

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"mothernatural-backend/pkg/config"
	"mothernatural-backend/pkg/errutil"
	"mothernatural-backend/pkg/middleware"
	"mothernatural-backend/pkg/minio"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/fx"
)

const maxImageSize = 10 << 20 // 10 MiB

var allowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

var Module = fx.Module("upload.module",
	fx.Provide(NewService),
)

var ServerModule = fx.Module("upload.server",
	Module,
	fx.Invoke(registerRoutes),
)

type Service struct {
	storage *minio.Storage
}

type ServiceParams struct {
	fx.In
	Storage *minio.Storage
}

func NewService(p ServiceParams) *Service {
	return &Service{storage: p.Storage}
}

type routeParams struct {
	fx.In

	Engine  *gin.Engine
	Config  *config.Config
	Service *Service
}

func registerRoutes(p routeParams) {
	h := &handler{service: p.Service}

	p.Engine.POST("/api/upload/image", middleware.Authenticated(p.Config), middleware.AdminOnly(), h.uploadImage)
	p.Engine.GET("/api/images/:name", h.serveImage)
	p.Engine.DELETE("/api/images/:name", middleware.Authenticated(p.Config), middleware.AdminOnly(), h.deleteImage)
}

type handler struct {
	service *Service
}

func (h *handler) uploadImage(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.Error(errutil.BadRequest("image file is required", err))
		return
	}
	defer file.Close()

	if header.Size > maxImageSize {
		c.Error(errutil.ValidationFailed("image exceeds the 10MB limit", nil))
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	contentType, ok := allowedExtensions[ext]
	if !ok {
		c.Error(errutil.ValidationFailed("unsupported image type", nil))
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxImageSize+1))
	if err != nil {
		c.Error(errutil.Internal("failed to read upload", err))
		return
	}
	if len(data) > maxImageSize {
		c.Error(errutil.ValidationFailed("image exceeds the 10MB limit", nil))
		return
	}

	name := uuid.NewString() + ext
	if err := h.service.storage.Put(c.Request.Context(), name, data, contentType); err != nil {
		c.Error(errutil.Internal("failed to store image", err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"name": name,
		"url":  fmt.Sprintf("/api/images/%s", name),
	})
}

func (h *handler) serveImage(c *gin.Context) {
	name := c.Param("name")
	if strings.Contains(name, "/") || strings.Contains(name, "..") {
		c.Error(errutil.BadRequest("invalid image name", nil))
		return
	}

	data, contentType, err := h.service.storage.Get(c.Request.Context(), name)
	if err != nil {
		c.Error(errutil.NotFound("image not found", err))
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, contentType, data)
}

func (h *handler) deleteImage(c *gin.Context) {
	name := c.Param("name")
	if strings.Contains(name, "/") || strings.Contains(name, "..") {
		c.Error(errutil.BadRequest("invalid image name", nil))
		return
	}

	if err := h.service.storage.Remove(c.Request.Context(), name); err != nil {
		c.Error(errutil.Internal("failed to delete image", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": name})
}
