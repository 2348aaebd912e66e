package markdown

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/inkwell-space/core/internal/pkg/response"
)

// Handler exposes the live preview endpoint used by the editor.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// RegisterRoutes mounts preview routes onto the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, adminMW gin.HandlerFunc) {
	preview := rg.Group("/preview", adminMW)
	preview.POST("/mdx", h.previewMDX)
}

type previewDTO struct {
	Content string `json:"content"`
}

// previewMDX POST /preview/mdx  [admin]
func (h *Handler) previewMDX(c *gin.Context) {
	var dto previewDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	rendered, err := Render(dto.Content)
	if err != nil {
		if errors.Is(err, ErrEmptyContent) {
			response.BadRequest(c, "content is required")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}
	response.OK(c, gin.H{"html": rendered})
}
