package analytics

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkwell-space/core/internal/pkg/response"
)

// Handler handles analytics HTTP requests.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts analytics routes onto the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, adminMW gin.HandlerFunc) {
	analytics := rg.Group("/analytics")

	analytics.POST("/page-view", h.recordPageView)
	analytics.GET("/summary", adminMW, h.summary)
}

type pageViewDTO struct {
	Path string `json:"path"`
}

// recordPageView POST /analytics/page-view
func (h *Handler) recordPageView(c *gin.Context) {
	var dto pageViewDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if strings.TrimSpace(dto.Path) == "" {
		response.ValidationFailed(c, map[string]string{"path": "path 不能为空"})
		return
	}

	if err := h.svc.Record(dto.Path, c.Request.UserAgent(), time.Now()); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

// summary GET /analytics/summary  [admin]
func (h *Handler) summary(c *gin.Context) {
	summary, err := h.svc.GetSummary(time.Now())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, summary)
}
