package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkwell-space/core/internal/middleware"
	"github.com/inkwell-space/core/internal/models"
	"github.com/inkwell-space/core/internal/pkg/jwt"
	"github.com/inkwell-space/core/internal/pkg/response"
)

// Handler handles auth HTTP requests.
type Handler struct {
	svc      *Service
	tokenTTL time.Duration
}

func NewHandler(svc *Service, tokenTTL time.Duration) *Handler {
	return &Handler{svc: svc, tokenTTL: tokenTTL}
}

// RegisterRoutes mounts auth routes onto the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")

	auth.POST("/register", h.register)
	auth.POST("/login", h.login)
	auth.GET("/me", middleware.Auth(), h.me)
}

type credentialsDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (d *credentialsDTO) validate() map[string]string {
	fields := make(map[string]string)
	d.Username = strings.TrimSpace(d.Username)
	if len(d.Username) < 3 {
		fields["username"] = "用户名至少 3 个字符"
	}
	if len(d.Password) < 8 {
		fields["password"] = "密码至少 8 个字符"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

func toUserResponse(u *models.UserModel) userResponse {
	return userResponse{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Role:     string(u.Role),
	}
}

// register POST /auth/register
func (h *Handler) register(c *gin.Context) {
	var dto credentialsDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if fields := dto.validate(); len(fields) > 0 {
		response.ValidationFailed(c, fields)
		return
	}

	user, err := h.svc.Register(dto.Username, dto.Password, dto.Name)
	if errors.Is(err, ErrRegistrationClosed) {
		response.Forbidden(c)
		return
	}
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, toUserResponse(user))
}

// login POST /auth/login
func (h *Handler) login(c *gin.Context) {
	var dto credentialsDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.svc.Login(dto.Username, dto.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		response.Unauthorized(c)
		return
	}
	if err != nil {
		response.InternalError(c, err)
		return
	}

	token, err := jwt.Sign(user.ID, string(user.Role), h.tokenTTL)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{
		"token": token,
		"user":  toUserResponse(user),
	})
}

// me GET /auth/me
func (h *Handler) me(c *gin.Context) {
	user, err := h.svc.Me(middleware.CurrentUserID(c))
	if err != nil {
		response.Unauthorized(c)
		return
	}
	response.OK(c, toUserResponse(user))
}
