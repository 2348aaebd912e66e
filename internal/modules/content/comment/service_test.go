package comment

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

func setupCommentTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:comment-svc-%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
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

func seedPost(t *testing.T, db *gorm.DB, published bool) *models.PostModel {
	t.Helper()
	post := models.PostModel{
		Title:       "Commentable",
		Slug:        fmt.Sprintf("commentable-%d", atomic.AddInt64(&testDBSeq, 1)),
		IsPublished: published,
		Version:     1,
	}
	if err := db.Create(&post).Error; err != nil {
		t.Fatalf("seed post: %v", err)
	}
	return &post
}

func TestCreateOnUnpublishedPostFails(t *testing.T) {
	db := setupCommentTestDB(t)
	svc := NewService(db)
	post := seedPost(t, db, false)

	_, err := svc.Create(&CreateCommentDTO{
		PostID:     post.ID,
		AuthorName: "reader",
		Body:       "nice one",
	}, false, "")
	if !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestCreatePendingByDefaultApprovedForAdmin(t *testing.T) {
	db := setupCommentTestDB(t)
	svc := NewService(db)
	post := seedPost(t, db, true)

	reader, err := svc.Create(&CreateCommentDTO{
		PostID:     post.ID,
		AuthorName: "reader",
		Body:       "first!",
	}, false, "")
	if err != nil {
		t.Fatalf("reader comment: %v", err)
	}
	if reader.IsApproved {
		t.Fatalf("reader comment must start unapproved")
	}

	owner, err := svc.Create(&CreateCommentDTO{
		PostID:     post.ID,
		AuthorName: "owner",
		Body:       "thanks!",
	}, true, "owner-id")
	if err != nil {
		t.Fatalf("owner comment: %v", err)
	}
	if !owner.IsApproved {
		t.Fatalf("owner comment must be auto-approved")
	}
}

func TestListByPostFiltersUnapproved(t *testing.T) {
	db := setupCommentTestDB(t)
	svc := NewService(db)
	post := seedPost(t, db, true)

	if _, err := svc.Create(&CreateCommentDTO{PostID: post.ID, AuthorName: "a", Body: "pending"}, false, ""); err != nil {
		t.Fatalf("create: %v", err)
	}
	approved, err := svc.Create(&CreateCommentDTO{PostID: post.ID, AuthorName: "b", Body: "visible"}, true, "owner-id")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	public, err := svc.ListByPost(post.ID, false)
	if err != nil {
		t.Fatalf("list public: %v", err)
	}
	if len(public) != 1 || public[0].ID != approved.ID {
		t.Fatalf("public list must only contain approved comments, got %d", len(public))
	}

	all, err := svc.ListByPost(post.ID, true)
	if err != nil {
		t.Fatalf("list admin: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("admin list must contain all comments, got %d", len(all))
	}
}

func TestModerateApprove(t *testing.T) {
	db := setupCommentTestDB(t)
	svc := NewService(db)
	post := seedPost(t, db, true)

	comment, err := svc.Create(&CreateCommentDTO{PostID: post.ID, AuthorName: "a", Body: "pending"}, false, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	moderated, err := svc.Moderate(comment.ID, true)
	if err != nil {
		t.Fatalf("moderate: %v", err)
	}
	if moderated == nil || !moderated.IsApproved {
		t.Fatalf("comment was not approved: %+v", moderated)
	}
}
