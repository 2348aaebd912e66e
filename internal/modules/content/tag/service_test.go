package tag

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

func setupTagTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:tag-svc-%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
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

func TestListCountsLinkedPosts(t *testing.T) {
	db := setupTagTestDB(t)
	svc := NewService(db)

	tag := models.TagModel{Name: "go", Slug: "go"}
	if err := db.Create(&tag).Error; err != nil {
		t.Fatalf("seed tag: %v", err)
	}
	post := models.PostModel{Title: "p", Slug: "p-slug", Version: 1}
	if err := db.Create(&post).Error; err != nil {
		t.Fatalf("seed post: %v", err)
	}
	if err := db.Create(&models.PostTagModel{PostID: post.ID, TagID: tag.ID}).Error; err != nil {
		t.Fatalf("seed link: %v", err)
	}

	tags, err := svc.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tags) != 1 || tags[0].PostCount != 1 {
		t.Fatalf("expected one tag with one linked post, got %+v", tags)
	}
}

func TestUpdateRenameKeepsLinks(t *testing.T) {
	db := setupTagTestDB(t)
	svc := NewService(db)

	tag := models.TagModel{Name: "golang", Slug: "golang"}
	db.Create(&tag)
	post := models.PostModel{Title: "p", Slug: "p-slug", Version: 1}
	db.Create(&post)
	db.Create(&models.PostTagModel{PostID: post.ID, TagID: tag.ID})

	updated, err := svc.Update(tag.ID, "Go", "go")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Go" || updated.Slug != "go" {
		t.Fatalf("rename not applied: %+v", updated)
	}

	var links int64
	db.Model(&models.PostTagModel{}).Where("tag_id = ?", tag.ID).Count(&links)
	if links != 1 {
		t.Fatalf("links must survive a rename, got %d", links)
	}
}

func TestUpdateSlugConflict(t *testing.T) {
	db := setupTagTestDB(t)
	svc := NewService(db)

	db.Create(&models.TagModel{Name: "a", Slug: "a-tag"})
	other := models.TagModel{Name: "b", Slug: "b-tag"}
	db.Create(&other)

	_, err := svc.Update(other.ID, "", "a-tag")
	if !errors.Is(err, ErrSlugExists) {
		t.Fatalf("expected ErrSlugExists, got %v", err)
	}
}

func TestDeleteRemovesLinks(t *testing.T) {
	db := setupTagTestDB(t)
	svc := NewService(db)

	tag := models.TagModel{Name: "temp", Slug: "temp"}
	db.Create(&tag)
	post := models.PostModel{Title: "p", Slug: "p-slug", Version: 1}
	db.Create(&post)
	db.Create(&models.PostTagModel{PostID: post.ID, TagID: tag.ID})

	found, err := svc.Delete(tag.ID)
	if err != nil || !found {
		t.Fatalf("delete: found=%v err=%v", found, err)
	}

	var links int64
	db.Model(&models.PostTagModel{}).Where("tag_id = ?", tag.ID).Count(&links)
	if links != 0 {
		t.Fatalf("links must be removed with the tag, got %d", links)
	}
}
