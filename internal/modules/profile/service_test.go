package profile

import (
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

func setupProfileTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:profile-svc-%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
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

func TestGetBeforeUpsert(t *testing.T) {
	svc := NewService(setupProfileTestDB(t))

	profile, err := svc.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if profile != nil {
		t.Fatalf("expected nil before any upsert, got %+v", profile)
	}
}

func TestUpsertKeepsSingleRow(t *testing.T) {
	db := setupProfileTestDB(t)
	svc := NewService(db)

	if _, err := svc.Upsert(UpsertInput{DisplayName: "Ink", Headline: "writer"}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if _, err := svc.Upsert(UpsertInput{DisplayName: "Inkwell", Bio: "hello"}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	var count int64
	db.Model(&models.ProfileModel{}).Count(&count)
	if count != 1 {
		t.Fatalf("profile must stay a single row, got %d", count)
	}

	profile, err := svc.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if profile.DisplayName != "Inkwell" {
		t.Fatalf("expected latest display name, got %q", profile.DisplayName)
	}
	if profile.Headline != nil {
		t.Fatalf("omitted optional field must reset to NULL, got %q", *profile.Headline)
	}
	if profile.Bio == nil || *profile.Bio != "hello" {
		t.Fatalf("bio not persisted: %+v", profile.Bio)
	}
}

func TestOptionalFieldsStoredAsNull(t *testing.T) {
	svc := NewService(setupProfileTestDB(t))

	profile, err := svc.Upsert(UpsertInput{DisplayName: "Ink", GithubURL: "https://github.com/ink"})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if profile.GithubURL == nil || *profile.GithubURL != "https://github.com/ink" {
		t.Fatalf("github url not persisted")
	}
	if profile.TwitterURL != nil || profile.WebsiteURL != nil {
		t.Fatalf("empty optional fields must be NULL")
	}
}
