package tag

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/inkwell-space/core/internal/pkg/response"
)

// Handler handles tag HTTP requests.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts tag routes onto the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, adminMW gin.HandlerFunc) {
	tags := rg.Group("/tags")

	tags.GET("", h.list)

	authed := tags.Group("", adminMW)
	authed.PUT("/:id", h.update)
	authed.DELETE("/:id", h.delete)
}

// list GET /tags
func (h *Handler) list(c *gin.Context) {
	tags, err := h.svc.List()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, tags)
}

type updateTagDTO struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// update PUT /tags/:id  [admin]
func (h *Handler) update(c *gin.Context) {
	var dto updateTagDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	tag, err := h.svc.Update(c.Param("id"), dto.Name, dto.Slug)
	if err != nil {
		if errors.Is(err, ErrSlugExists) {
			response.Conflict(c, "标签 slug 已存在")
			return
		}
		response.InternalError(c, err)
		return
	}
	if tag == nil {
		response.NotFoundMsg(c, "标签不存在")
		return
	}
	response.OK(c, tag)
}

// delete DELETE /tags/:id  [admin]
func (h *Handler) delete(c *gin.Context) {
	found, err := h.svc.Delete(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if !found {
		response.NotFoundMsg(c, "标签不存在")
		return
	}
	response.NoContent(c)
}
