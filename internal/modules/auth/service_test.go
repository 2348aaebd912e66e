package auth

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/inkwell-space/core/internal/database"
	"github.com/inkwell-space/core/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq int64

func setupAuthTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:auth-svc-%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestRegisterClosesAfterFirstUser(t *testing.T) {
	svc := NewService(setupAuthTestDB(t))

	user, err := svc.Register("owner", "correct horse battery", "Ink")
	if err != nil {
		t.Fatalf("first register: %v", err)
	}
	if user.Role != models.RoleAdmin {
		t.Fatalf("owner must be ADMIN, got %s", user.Role)
	}
	if user.Password == "correct horse battery" {
		t.Fatalf("password must be stored hashed")
	}

	if _, err := svc.Register("intruder", "whatever12345", ""); !errors.Is(err, ErrRegistrationClosed) {
		t.Fatalf("expected ErrRegistrationClosed, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc := NewService(setupAuthTestDB(t))
	if _, err := svc.Register("owner", "correct horse battery", "Ink"); err != nil {
		t.Fatalf("register: %v", err)
	}

	user, err := svc.Login("owner", "correct horse battery")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.Username != "owner" {
		t.Fatalf("wrong user: %+v", user)
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	if testing.Short() {
		t.Skip("failure path sleeps to slow brute force")
	}
	svc := NewService(setupAuthTestDB(t))
	if _, err := svc.Register("owner", "correct horse battery", "Ink"); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Login("owner", "wrong password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login("nobody", "whatever12345"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user must fail the same way, got %v", err)
	}
}
