package newsletter

import (
	"net/mail"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/inkwell-space/core/internal/models"
	"github.com/inkwell-space/core/internal/pkg/pagination"
	"github.com/inkwell-space/core/internal/pkg/response"
)

// Handler handles newsletter HTTP requests.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts newsletter routes onto the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, adminMW gin.HandlerFunc) {
	rg.POST("/subscribe", h.subscribe)
	rg.POST("/unsubscribe", h.unsubscribe)
	rg.GET("/subscribers", adminMW, h.list)
}

type emailDTO struct {
	Email string `json:"email"`
}

func (d *emailDTO) validate() map[string]string {
	if _, err := mail.ParseAddress(strings.TrimSpace(d.Email)); err != nil {
		return map[string]string{"email": "邮箱格式不正确"}
	}
	return nil
}

// subscribe POST /subscribe
func (h *Handler) subscribe(c *gin.Context) {
	var dto emailDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if fields := dto.validate(); len(fields) > 0 {
		response.ValidationFailed(c, fields)
		return
	}

	if err := h.svc.Subscribe(dto.Email); err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"message": "订阅成功，感谢关注~"})
}

// unsubscribe POST /unsubscribe
func (h *Handler) unsubscribe(c *gin.Context) {
	var dto emailDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if fields := dto.validate(); len(fields) > 0 {
		response.ValidationFailed(c, fields)
		return
	}

	found, err := h.svc.Unsubscribe(dto.Email)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if !found {
		response.NotFoundMsg(c, "该邮箱没有订阅记录")
		return
	}
	response.OK(c, gin.H{"message": "已退订"})
}

// list GET /subscribers  [admin]
func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)

	var status *models.SubscriptionStatus
	switch strings.ToUpper(strings.TrimSpace(c.Query("status"))) {
	case string(models.SubscriptionActive):
		v := models.SubscriptionActive
		status = &v
	case string(models.SubscriptionUnsubscribed):
		v := models.SubscriptionUnsubscribed
		status = &v
	}

	subs, pag, err := h.svc.List(q, status)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, subs, pag)
}
