package upload

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkwell-space/core/internal/pkg/response"
)

// Handler handles image upload HTTP requests.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts upload routes onto the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, adminMW gin.HandlerFunc) {
	rg.POST("/uploads", adminMW, h.upload)
}

// upload POST /uploads  [admin]
func (h *Handler) upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	defer f.Close()

	result, err := h.svc.Upload(c.Request.Context(), fileHeader.Filename, fileHeader.Size, f)
	switch {
	case errors.Is(err, ErrNotConfigured):
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
			"ok": 0, "code": http.StatusServiceUnavailable, "message": "对象存储未配置",
		})
	case errors.Is(err, ErrBadFormat):
		response.ValidationFailed(c, map[string]string{"file": "不支持的图片格式"})
	case errors.Is(err, ErrTooLarge):
		response.ValidationFailed(c, map[string]string{"file": "文件太大了"})
	case err != nil:
		response.InternalError(c, err)
	default:
		response.Created(c, result)
	}
}
