package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkwell-space/core/internal/models"
	"github.com/inkwell-space/core/internal/pkg/jwt"
)

func setupAdminRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", AdminOnly(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func doAdminRequest(t *testing.T, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	setupAdminRouter().ServeHTTP(w, req)
	return w
}

func TestAdminOnlyRejectsAnonymous(t *testing.T) {
	w := doAdminRequest(t, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
}

func TestAdminOnlyRejectsNonAdminToken(t *testing.T) {
	token, err := jwt.Sign("user-1", "READER", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	w := doAdminRequest(t, token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("non-admin token must read as unauthenticated, got %d", w.Code)
	}
}

func TestAdminOnlyAllowsAdmin(t *testing.T) {
	token, err := jwt.Sign("user-1", string(models.RoleAdmin), time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	w := doAdminRequest(t, token)
	if w.Code != http.StatusOK {
		t.Fatalf("admin token must pass, got %d", w.Code)
	}
}
