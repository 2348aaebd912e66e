package post

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/inkwell-space/core/internal/middleware"
	"github.com/inkwell-space/core/internal/pkg/fingerprint"
	"github.com/inkwell-space/core/internal/pkg/pagination"
	"github.com/inkwell-space/core/internal/pkg/response"
)

// Handler handles post HTTP requests.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts post routes onto the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, adminMW gin.HandlerFunc) {
	posts := rg.Group("/posts")

	posts.GET("", h.list)
	posts.GET("/:identifier", h.getByIdentifier)
	posts.POST("/:identifier/like", h.like)
	posts.POST("/:identifier/read", h.read)

	authed := posts.Group("", adminMW)
	authed.POST("", h.create)
	authed.PUT("/:identifier", h.update)
	authed.DELETE("/:identifier", h.delete)
	authed.GET("/:identifier/revisions", h.listRevisions)
	authed.POST("/:identifier/revisions/:revisionId", h.restoreRevision)
}

// list GET /posts
func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)

	var lq ListQuery
	if err := c.ShouldBindQuery(&lq); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	isAdmin := middleware.IsAdmin(c)
	if !isAdmin {
		lq.Published = nil
	}

	posts, pag, err := h.svc.List(q, lq, isAdmin)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	items := make([]postResponse, len(posts))
	for i, p := range posts {
		items[i] = toResponse(&p)
	}
	response.Paged(c, items, pag)
}

// getByIdentifier GET /posts/:identifier
func (h *Handler) getByIdentifier(c *gin.Context) {
	isAdmin := middleware.IsAdmin(c)

	detail, err := h.svc.GetDetail(c.Param("identifier"), isAdmin)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if detail == nil {
		response.NotFoundMsg(c, "文章不存在")
		return
	}

	response.OK(c, toDetailResponse(detail))
}

// like POST /posts/:identifier/like
func (h *Handler) like(c *gin.Context) {
	post, err := h.svc.GetByIdentifier(c.Param("identifier"), middleware.IsAdmin(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if post == nil {
		response.NotFoundMsg(c, "文章不存在")
		return
	}

	fp := fingerprint.ForAnonymous(c.ClientIP(), c.Request.UserAgent())
	if uid := middleware.CurrentUserID(c); uid != "" {
		fp = fingerprint.ForUser(uid)
	}

	liked, err := h.svc.Like(post.ID, fp)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if !liked {
		response.OK(c, gin.H{"alreadyLiked": true})
		return
	}
	response.Created(c, gin.H{"alreadyLiked": false})
}

// read POST /posts/:identifier/read
func (h *Handler) read(c *gin.Context) {
	post, err := h.svc.GetByIdentifier(c.Param("identifier"), false)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if post == nil {
		response.NotFoundMsg(c, "文章不存在")
		return
	}
	go func() { _ = h.svc.IncrementReadCount(post.ID) }()
	response.NoContent(c)
}

// create POST /posts  [admin]
func (h *Handler) create(c *gin.Context) {
	var dto CreatePostDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if fields := dto.Validate(); len(fields) > 0 {
		response.ValidationFailed(c, fields)
		return
	}

	post, err := h.svc.Create(&dto, middleware.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, ErrSlugExists) {
			response.Conflict(c, "slug 已存在")
			return
		}
		response.InternalError(c, err)
		return
	}

	response.Created(c, toResponse(post))
}

// update PUT /posts/:identifier  [admin]
func (h *Handler) update(c *gin.Context) {
	var dto UpdatePostDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if fields := dto.Validate(); len(fields) > 0 {
		response.ValidationFailed(c, fields)
		return
	}

	post, err := h.svc.Update(c.Param("identifier"), &dto, middleware.CurrentUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, ErrSlugExists):
			response.Conflict(c, "slug 已存在")
		case errors.Is(err, ErrVersionConflict):
			response.Conflict(c, "文章已被其他请求修改，请刷新后重试")
		default:
			response.InternalError(c, err)
		}
		return
	}
	if post == nil {
		response.NotFoundMsg(c, "文章不存在")
		return
	}

	response.OK(c, toResponse(post))
}

// delete DELETE /posts/:identifier  [admin]
func (h *Handler) delete(c *gin.Context) {
	found, err := h.svc.Delete(c.Param("identifier"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if !found {
		response.NotFoundMsg(c, "文章不存在")
		return
	}
	response.NoContent(c)
}

// listRevisions GET /posts/:identifier/revisions  [admin]
func (h *Handler) listRevisions(c *gin.Context) {
	revs, err := h.svc.ListRevisions(c.Param("identifier"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	items := make([]revisionResponse, len(revs))
	for i, r := range revs {
		items[i] = toRevisionResponse(&r)
	}
	response.OK(c, items)
}

// restoreRevision POST /posts/:identifier/revisions/:revisionId  [admin]
func (h *Handler) restoreRevision(c *gin.Context) {
	post, err := h.svc.RestoreRevision(c.Param("identifier"), c.Param("revisionId"), middleware.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, ErrRevisionNotFound) {
			response.NotFoundMsg(c, "修订版本不存在")
			return
		}
		response.InternalError(c, err)
		return
	}
	if post == nil {
		response.NotFoundMsg(c, "文章不存在")
		return
	}
	response.OK(c, toResponse(post))
}
