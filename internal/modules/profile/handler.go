package profile

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/inkwell-space/core/internal/pkg/response"
)

// Handler handles profile HTTP requests.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts profile routes onto the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, adminMW gin.HandlerFunc) {
	rg.GET("/profile", h.get)
	rg.PUT("/profile", adminMW, h.upsert)
}

// get GET /profile
func (h *Handler) get(c *gin.Context) {
	profile, err := h.svc.Get()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if profile == nil {
		response.NotFoundMsg(c, "主人还没填写个人资料")
		return
	}
	response.OK(c, profile)
}

// upsert PUT /profile  [admin]
func (h *Handler) upsert(c *gin.Context) {
	var dto UpsertInput
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	dto.DisplayName = strings.TrimSpace(dto.DisplayName)
	if dto.DisplayName == "" {
		response.ValidationFailed(c, map[string]string{"display_name": "display_name 不能为空"})
		return
	}

	profile, err := h.svc.Upsert(dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, profile)
}
