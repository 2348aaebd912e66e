package comment

import (
	"errors"
	"net/mail"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/inkwell-space/core/internal/middleware"
	"github.com/inkwell-space/core/internal/models"
	"github.com/inkwell-space/core/internal/pkg/pagination"
	"github.com/inkwell-space/core/internal/pkg/response"
)

// CreateCommentDTO is the request body for creating a comment.
type CreateCommentDTO struct {
	PostID      string `json:"postId"`
	AuthorName  string `json:"authorName"`
	AuthorEmail string `json:"authorEmail"`
	Body        string `json:"body"`
}

// Validate returns a field -> message map, empty when the payload is valid.
func (d *CreateCommentDTO) Validate() map[string]string {
	fields := map[string]string{}
	if strings.TrimSpace(d.PostID) == "" {
		fields["postId"] = "postId 不能为空"
	}
	if strings.TrimSpace(d.AuthorName) == "" {
		fields["authorName"] = "昵称不能为空"
	}
	if d.AuthorEmail != "" {
		if _, err := mail.ParseAddress(d.AuthorEmail); err != nil {
			fields["authorEmail"] = "邮箱格式不正确"
		}
	}
	if len(strings.TrimSpace(d.Body)) < 2 {
		fields["body"] = "评论内容至少 2 个字符"
	}
	return fields
}

// Handler handles comment HTTP requests.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts comment routes onto the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, adminMW gin.HandlerFunc) {
	comments := rg.Group("/comments")

	comments.GET("", h.list)
	comments.POST("", h.create)

	authed := comments.Group("", adminMW)
	authed.GET("/all", h.listAll)
	authed.PATCH("/:id", h.moderate)
	authed.DELETE("/:id", h.delete)
}

// create POST /comments
func (h *Handler) create(c *gin.Context) {
	var dto CreateCommentDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if fields := dto.Validate(); len(fields) > 0 {
		response.ValidationFailed(c, fields)
		return
	}

	comment, err := h.svc.Create(&dto, middleware.IsAdmin(c), middleware.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			response.NotFoundMsg(c, "文章不存在")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, comment)
}

// list GET /comments?postId=
func (h *Handler) list(c *gin.Context) {
	postID := strings.TrimSpace(c.Query("postId"))
	if postID == "" {
		response.BadRequest(c, "postId 不能为空")
		return
	}

	comments, err := h.svc.ListByPost(postID, middleware.IsAdmin(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if comments == nil {
		comments = []models.CommentModel{}
	}
	response.OK(c, comments)
}

// listAll GET /comments/all  [admin]
func (h *Handler) listAll(c *gin.Context) {
	q := pagination.FromContext(c)

	var approved *bool
	switch c.Query("state") {
	case "approved":
		v := true
		approved = &v
	case "pending":
		v := false
		approved = &v
	}

	comments, pag, err := h.svc.ListAll(q, approved)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, comments, pag)
}

type moderateDTO struct {
	Approved *bool `json:"approved" binding:"required"`
}

// moderate PATCH /comments/:id  [admin]
func (h *Handler) moderate(c *gin.Context) {
	var dto moderateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	comment, err := h.svc.Moderate(c.Param("id"), *dto.Approved)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if comment == nil {
		response.NotFoundMsg(c, "评论不存在")
		return
	}
	response.OK(c, comment)
}

// delete DELETE /comments/:id  [admin]
func (h *Handler) delete(c *gin.Context) {
	found, err := h.svc.Delete(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if !found {
		response.NotFoundMsg(c, "评论不存在")
		return
	}
	response.NoContent(c)
}
