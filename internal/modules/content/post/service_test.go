package post

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/inkwell-space/core/internal/database"
	"github.com/inkwell-space/core/internal/models"
	"github.com/inkwell-space/core/internal/pkg/pagination"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq int64

func setupPostTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:post-svc-%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
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

func createDTO(slug string) *CreatePostDTO {
	return &CreatePostDTO{
		Title:   "Hello World",
		Slug:    slug,
		Summary: "A summary long enough to pass validation",
		Content: "This is the post body, long enough for the validator.",
	}
}

func updateDTOFrom(p *models.PostModel) *UpdatePostDTO {
	return &UpdatePostDTO{
		Title:      p.Title,
		Slug:       p.Slug,
		Summary:    p.Summary,
		Content:    p.Content,
		CoverImage: p.CoverImage,
		Published:  p.IsPublished,
		Version:    p.Version,
	}
}

func TestCreatePostSlugConflict(t *testing.T) {
	svc := NewService(setupPostTestDB(t))

	if _, err := svc.Create(createDTO("hello-world"), "author-1"); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.Create(createDTO("hello-world"), "author-1")
	if !errors.Is(err, ErrSlugExists) {
		t.Fatalf("expected ErrSlugExists, got %v", err)
	}
}

func TestCreatePublishedSetsPublishedAt(t *testing.T) {
	svc := NewService(setupPostTestDB(t))

	dto := createDTO("published-now")
	dto.Published = true
	post, err := svc.Create(dto, "author-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !post.IsPublished || post.PublishedAt == nil {
		t.Fatalf("expected published post with timestamp, got %+v", post)
	}
}

func TestUpdateCapturesRevisionPerContentEdit(t *testing.T) {
	svc := NewService(setupPostTestDB(t))

	post, err := svc.Create(createDTO("revisions"), "author-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	const edits = 3
	for i := 0; i < edits; i++ {
		dto := updateDTOFrom(post)
		dto.Content = fmt.Sprintf("Edited body number %d, still long enough to validate.", i)
		post, err = svc.Update(post.ID, dto, "editor-1")
		if err != nil {
			t.Fatalf("update %d: %v", i, err)
		}
	}

	revs, err := svc.ListRevisions(post.ID)
	if err != nil {
		t.Fatalf("list revisions: %v", err)
	}
	if len(revs) != edits {
		t.Fatalf("expected %d revisions, got %d", edits, len(revs))
	}
	if post.Version != 1+edits {
		t.Fatalf("expected version %d, got %d", 1+edits, post.Version)
	}
}

func TestUpdateWithoutContentChangeSkipsRevision(t *testing.T) {
	svc := NewService(setupPostTestDB(t))

	post, err := svc.Create(createDTO("no-revision"), "author-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	dto := updateDTOFrom(post)
	dto.Published = true
	if _, err := svc.Update(post.ID, dto, "editor-1"); err != nil {
		t.Fatalf("update: %v", err)
	}

	revs, err := svc.ListRevisions(post.ID)
	if err != nil {
		t.Fatalf("list revisions: %v", err)
	}
	if len(revs) != 0 {
		t.Fatalf("publish-only update should not create a revision, got %d", len(revs))
	}
}

func TestRestoreRevisionDoubleRestore(t *testing.T) {
	svc := NewService(setupPostTestDB(t))

	post, err := svc.Create(createDTO("restore-me"), "author-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	originalContent := post.Content

	dto := updateDTOFrom(post)
	dto.Content = "A brand new body that replaces the original content entirely."
	post, err = svc.Update(post.ID, dto, "editor-1")
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	revs, _ := svc.ListRevisions(post.ID)
	if len(revs) != 1 {
		t.Fatalf("expected 1 revision, got %d", len(revs))
	}
	target := revs[0]

	restored, err := svc.RestoreRevision(post.ID, target.ID, "editor-1")
	if err != nil {
		t.Fatalf("first restore: %v", err)
	}
	if restored.Content != originalContent {
		t.Fatalf("restore did not apply target values")
	}

	restoredAgain, err := svc.RestoreRevision(post.ID, target.ID, "editor-1")
	if err != nil {
		t.Fatalf("second restore: %v", err)
	}
	if restoredAgain.Content != restored.Content ||
		restoredAgain.Title != restored.Title ||
		restoredAgain.Summary != restored.Summary {
		t.Fatalf("double restore must be idempotent in values")
	}

	revs, _ = svc.ListRevisions(post.ID)
	if len(revs) != 3 {
		t.Fatalf("expected 3 revisions after double restore (1 edit + 2 archives), got %d", len(revs))
	}
}

func TestPromoteScheduledOnPublicListRead(t *testing.T) {
	db := setupPostTestDB(t)
	svc := NewService(db)

	scheduled := time.Now().Add(-time.Hour)
	post := models.PostModel{
		Title:       "Scheduled Post",
		Slug:        "scheduled-post",
		Summary:     "Summary long enough for validation",
		Content:     "Content long enough for the validator to accept.",
		IsPublished: false,
		ScheduledAt: &scheduled,
		Version:     1,
	}
	if err := db.Create(&post).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	posts, _, err := svc.List(pagination.Query{Page: 1, Size: 10}, ListQuery{}, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("due scheduled post should be visible on next list read, got %d posts", len(posts))
	}
	got := posts[0]
	if !got.IsPublished || got.PublishedAt == nil {
		t.Fatalf("post was not promoted: %+v", got)
	}
	if got.PublishedAt.Before(scheduled) {
		t.Fatalf("publishedAt %v must not precede scheduledAt %v", got.PublishedAt, scheduled)
	}
}

func TestFutureScheduledStaysHidden(t *testing.T) {
	svc := NewService(setupPostTestDB(t))

	future := time.Now().Add(time.Hour)
	dto := createDTO("future-post")
	dto.ScheduledAt = &future
	post, err := svc.Create(dto, "author-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if post.IsPublished {
		t.Fatalf("future scheduled post must stay unpublished")
	}

	posts, _, err := svc.List(pagination.Query{Page: 1, Size: 10}, ListQuery{}, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(posts) != 0 {
		t.Fatalf("future scheduled post leaked to public list")
	}
}

func TestUpdateVersionConflict(t *testing.T) {
	svc := NewService(setupPostTestDB(t))

	post, err := svc.Create(createDTO("version-check"), "author-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	first := updateDTOFrom(post)
	first.Content = "First concurrent edit body, long enough for the validator."
	if _, err := svc.Update(post.ID, first, "editor-1"); err != nil {
		t.Fatalf("first update: %v", err)
	}

	stale := updateDTOFrom(post) // still carries the old version
	stale.Content = "Second concurrent edit body, also long enough to pass."
	_, err = svc.Update(post.ID, stale, "editor-2")
	if !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}
}

func TestLikeFingerprintDedup(t *testing.T) {
	db := setupPostTestDB(t)
	svc := NewService(db)

	dto := createDTO("likeable")
	dto.Published = true
	post, err := svc.Create(dto, "author-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	liked, err := svc.Like(post.ID, "anon:abc123")
	if err != nil || !liked {
		t.Fatalf("first like should create a reaction: liked=%v err=%v", liked, err)
	}
	liked, err = svc.Like(post.ID, "anon:abc123")
	if err != nil || liked {
		t.Fatalf("second like must be a no-op: liked=%v err=%v", liked, err)
	}

	var count int64
	db.Model(&models.PostReactionModel{}).Where("post_id = ?", post.ID).Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 reaction row, got %d", count)
	}

	got, _ := svc.GetByID(post.ID)
	if got.LikeCount != 1 {
		t.Fatalf("expected like_count 1, got %d", got.LikeCount)
	}
}

func TestSyncTagsReplaceAll(t *testing.T) {
	db := setupPostTestDB(t)
	svc := NewService(db)

	dto := createDTO("tagged-post")
	dto.Tags = []string{"go", "web"}
	post, err := svc.Create(dto, "author-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(post.Tags) != 2 {
		t.Fatalf("expected 2 tags, got %d", len(post.Tags))
	}

	upd := updateDTOFrom(post)
	upd.Tags = []string{"web", "databases"}
	post, err = svc.Update(post.ID, upd, "editor-1")
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	slugs := map[string]bool{}
	for _, tag := range post.Tags {
		slugs[tag.Slug] = true
	}
	if len(slugs) != 2 || !slugs["web"] || !slugs["databases"] {
		t.Fatalf("tag links were not replaced: %v", slugs)
	}

	// tags themselves are never deleted by reconciliation
	var tagCount int64
	db.Model(&models.TagModel{}).Count(&tagCount)
	if tagCount != 3 {
		t.Fatalf("expected 3 tag rows, got %d", tagCount)
	}
}

func TestGetByIdentifierHidesDraftsFromPublic(t *testing.T) {
	svc := NewService(setupPostTestDB(t))

	post, err := svc.Create(createDTO("draft-post"), "author-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.GetByIdentifier(post.ID, false)
	if err != nil {
		t.Fatalf("public get: %v", err)
	}
	if got != nil {
		t.Fatalf("draft must be hidden from public callers")
	}

	got, err = svc.GetByIdentifier("draft-post", true)
	if err != nil || got == nil {
		t.Fatalf("admin must see drafts by slug: post=%v err=%v", got, err)
	}
}

func TestUpdateBySlug(t *testing.T) {
	svc := NewService(setupPostTestDB(t))

	post, err := svc.Create(createDTO("hello-world"), "author-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	dto := updateDTOFrom(post)
	dto.Content = "Updated through the slug instead of the ID, long enough."
	updated, err := svc.Update("hello-world", dto, "editor-1")
	if err != nil {
		t.Fatalf("update by slug: %v", err)
	}
	if updated == nil {
		t.Fatalf("update by slug returned not-found")
	}
	if updated.Content != dto.Content {
		t.Fatalf("update by slug did not apply: %q", updated.Content)
	}
	if updated.ID != post.ID {
		t.Fatalf("update by slug touched a different post")
	}
}

func TestDeleteBySlug(t *testing.T) {
	svc := NewService(setupPostTestDB(t))

	post, err := svc.Create(createDTO("bye-world"), "author-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	found, err := svc.Delete("bye-world")
	if err != nil {
		t.Fatalf("delete by slug: %v", err)
	}
	if !found {
		t.Fatalf("delete by slug returned not-found")
	}

	got, err := svc.GetByID(post.ID)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got != nil {
		t.Fatalf("post still present after delete by slug")
	}
}

func TestRevisionRecordsEditor(t *testing.T) {
	svc := NewService(setupPostTestDB(t))

	post, err := svc.Create(createDTO("edited-by"), "author-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	dto := updateDTOFrom(post)
	dto.Content = "A changed body so the update archives the previous values."
	if _, err := svc.Update(post.ID, dto, "editor-7"); err != nil {
		t.Fatalf("update: %v", err)
	}

	revs, err := svc.ListRevisions(post.ID)
	if err != nil {
		t.Fatalf("list revisions: %v", err)
	}
	if len(revs) != 1 || revs[0].EditorID != "editor-7" {
		t.Fatalf("revision must record the editor, got %+v", revs)
	}

	if _, err := svc.RestoreRevision(post.ID, revs[0].ID, "editor-8"); err != nil {
		t.Fatalf("restore: %v", err)
	}
	revs, err = svc.ListRevisions(post.ID)
	if err != nil {
		t.Fatalf("list revisions after restore: %v", err)
	}
	if revs[0].EditorID != "editor-8" {
		t.Fatalf("restore archive must record the editor, got %q", revs[0].EditorID)
	}
}

func TestGetDetailIncludesAuthorRevisionsAndComments(t *testing.T) {
	db := setupPostTestDB(t)
	svc := NewService(db)

	author := models.UserModel{Username: "owner", Name: "Site Owner", Password: "x"}
	if err := db.Create(&author).Error; err != nil {
		t.Fatalf("seed author: %v", err)
	}

	dto := createDTO("detailed-post")
	dto.Published = true
	post, err := svc.Create(dto, author.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	upd := updateDTOFrom(post)
	upd.Content = "A second body so the detail payload carries one revision."
	if _, err := svc.Update(post.ID, upd, author.ID); err != nil {
		t.Fatalf("update: %v", err)
	}

	comments := []models.CommentModel{
		{PostID: post.ID, AuthorName: "reader", Body: "nice", IsApproved: true},
		{PostID: post.ID, AuthorName: "spammer", Body: "buy stuff", IsApproved: false},
	}
	for i := range comments {
		if err := db.Create(&comments[i]).Error; err != nil {
			t.Fatalf("seed comment: %v", err)
		}
	}

	detail, err := svc.GetDetail("detailed-post", false)
	if err != nil {
		t.Fatalf("get detail: %v", err)
	}
	if detail == nil {
		t.Fatalf("detail not found by slug")
	}
	if detail.Post.Author == nil || detail.Post.Author.Username != "owner" {
		t.Fatalf("detail must embed the author, got %+v", detail.Post.Author)
	}
	if len(detail.Revisions) != 1 {
		t.Fatalf("expected 1 recent revision, got %d", len(detail.Revisions))
	}
	if detail.CommentCount != 1 {
		t.Fatalf("only approved comments count, got %d", detail.CommentCount)
	}
}

func TestGetDetailCapsRecentRevisions(t *testing.T) {
	svc := NewService(setupPostTestDB(t))

	dto := createDTO("many-edits")
	dto.Published = true
	post, err := svc.Create(dto, "author-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for i := 0; i < recentRevisionLimit+2; i++ {
		upd := updateDTOFrom(post)
		upd.Content = fmt.Sprintf("Body revision %d, long enough for the validator.", i)
		post, err = svc.Update(post.ID, upd, "editor-1")
		if err != nil {
			t.Fatalf("update %d: %v", i, err)
		}
	}

	detail, err := svc.GetDetail(post.ID, true)
	if err != nil {
		t.Fatalf("get detail: %v", err)
	}
	if len(detail.Revisions) != recentRevisionLimit {
		t.Fatalf("expected %d recent revisions, got %d", recentRevisionLimit, len(detail.Revisions))
	}

	revs, err := svc.ListRevisions(post.ID)
	if err != nil {
		t.Fatalf("list revisions: %v", err)
	}
	if len(revs) != recentRevisionLimit+2 {
		t.Fatalf("full history must stay complete, got %d", len(revs))
	}
}

func TestLikePropagatesStorageErrors(t *testing.T) {
	db := setupPostTestDB(t)
	svc := NewService(db)

	dto := createDTO("broken-likes")
	dto.Published = true
	post, err := svc.Create(dto, "author-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// break the counter update inside the transaction
	if err := db.Migrator().DropTable(&models.PostModel{}); err != nil {
		t.Fatalf("drop table: %v", err)
	}

	_, err = svc.Like(post.ID, "anon:abc123")
	if err == nil {
		t.Fatalf("storage failure must surface, not read as already-liked")
	}
}
