package contact

import (
	"net/mail"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/inkwell-space/core/internal/models"
	"github.com/inkwell-space/core/internal/pkg/pagination"
	"github.com/inkwell-space/core/internal/pkg/response"
)

// CreateContactDTO is the request body for the public contact form.
type CreateContactDTO struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Validate returns a field -> message map, empty when the payload is valid.
func (d *CreateContactDTO) Validate() map[string]string {
	fields := map[string]string{}
	if strings.TrimSpace(d.Name) == "" {
		fields["name"] = "姓名不能为空"
	}
	if _, err := mail.ParseAddress(d.Email); err != nil {
		fields["email"] = "邮箱格式不正确"
	}
	if len(strings.TrimSpace(d.Subject)) < 3 {
		fields["subject"] = "主题至少 3 个字符"
	}
	if len(strings.TrimSpace(d.Body)) < 10 {
		fields["body"] = "内容至少 10 个字符"
	}
	return fields
}

// UpdateContactDTO patches a message's triage state.
type UpdateContactDTO struct {
	Status *models.ContactStatus `json:"status"`
	Notes  *string               `json:"notes"`
}

// Handler handles contact message HTTP requests.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts contact routes onto the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, adminMW gin.HandlerFunc) {
	contact := rg.Group("/contact")

	contact.POST("", h.create)

	authed := contact.Group("", adminMW)
	authed.GET("", h.list)
	authed.PATCH("/:id", h.update)
	authed.DELETE("/:id", h.delete)
}

// create POST /contact
func (h *Handler) create(c *gin.Context) {
	var dto CreateContactDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if fields := dto.Validate(); len(fields) > 0 {
		response.ValidationFailed(c, fields)
		return
	}

	msg, err := h.svc.Create(&dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, msg)
}

// list GET /contact  [admin]
func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)

	var status *models.ContactStatus
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		st := models.ContactStatus(strings.ToUpper(raw))
		if !st.Valid() {
			response.BadRequest(c, "无效的 status 筛选值")
			return
		}
		status = &st
	}

	messages, pag, err := h.svc.List(q, status)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, messages, pag)
}

// update PATCH /contact/:id  [admin]
func (h *Handler) update(c *gin.Context) {
	var dto UpdateContactDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if dto.Status != nil && !dto.Status.Valid() {
		response.ValidationFailed(c, map[string]string{"status": "无效的状态"})
		return
	}

	msg, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if msg == nil {
		response.NotFoundMsg(c, "留言不存在")
		return
	}
	response.OK(c, msg)
}

// delete DELETE /contact/:id  [admin]
func (h *Handler) delete(c *gin.Context) {
	found, err := h.svc.Delete(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if !found {
		response.NotFoundMsg(c, "留言不存在")
		return
	}
	response.NoContent(c)
}
