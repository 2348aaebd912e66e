package post

import (
	"errors"
	"strings"
	"time"

	"github.com/inkwell-space/core/internal/models"
	"github.com/inkwell-space/core/internal/pkg/pagination"
	"github.com/inkwell-space/core/internal/pkg/response"
	"gorm.io/gorm"
)

var (
	// ErrSlugExists is returned when another post already owns the slug.
	ErrSlugExists = errors.New("slug already exists")
	// ErrVersionConflict is returned when an update carries a stale version.
	ErrVersionConflict = errors.New("post was modified by another request")
	// ErrRevisionNotFound is returned when a revision does not belong to the post.
	ErrRevisionNotFound = errors.New("revision not found")
)

// recentRevisionLimit bounds the revision history embedded in the post
// detail payload. The full history stays behind the revisions endpoint.
const recentRevisionLimit = 10

// Service handles post business logic.
type Service struct {
	db *gorm.DB
}

// Detail is a post together with the extras the detail endpoint exposes.
type Detail struct {
	Post         *models.PostModel
	Revisions    []models.PostRevisionModel
	CommentCount int64
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// DB exposes the underlying handle for cross-module reads.
func (s *Service) DB() *gorm.DB { return s.db }

// PromoteScheduled publishes every draft whose scheduled time has passed.
// The conditional update is idempotent, so it is safe to run from both the
// cron job and the public read path.
func (s *Service) PromoteScheduled(now time.Time) (int64, error) {
	res := s.db.Model(&models.PostModel{}).
		Where("is_published = ? AND scheduled_at IS NOT NULL AND scheduled_at <= ?", false, now).
		Updates(map[string]interface{}{
			"is_published": true,
			"published_at": gorm.Expr("COALESCE(published_at, scheduled_at)"),
			"scheduled_at": nil,
		})
	return res.RowsAffected, res.Error
}

// List returns a paginated list of posts. Public callers only see published
// posts, newest first; admins see everything with optional state filter.
func (s *Service) List(q pagination.Query, lq ListQuery, isAdmin bool) ([]models.PostModel, response.Pagination, error) {
	if _, err := s.PromoteScheduled(time.Now()); err != nil {
		return nil, response.Pagination{}, err
	}

	tx := s.db.Model(&models.PostModel{}).Preload("Tags")

	if !isAdmin {
		tx = tx.Where("is_published = ?", true).Order("published_at DESC")
	} else {
		if lq.Published != nil {
			tx = tx.Where("is_published = ?", *lq.Published)
		}
		tx = tx.Order("created_at DESC")
	}

	if lq.Tag != nil && strings.TrimSpace(*lq.Tag) != "" {
		tx = tx.Joins("JOIN post_tags ON post_tags.post_id = posts.id").
			Joins("JOIN tags ON tags.id = post_tags.tag_id").
			Where("tags.slug = ?", strings.TrimSpace(*lq.Tag))
	}

	var posts []models.PostModel
	pag, err := pagination.Paginate(tx, q, &posts)
	return posts, pag, err
}

// GetByID fetches a single post by ID.
func (s *Service) GetByID(id string) (*models.PostModel, error) {
	var post models.PostModel
	if err := s.db.Preload("Tags").Preload("Author").First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// GetBySlug fetches a single post by slug.
func (s *Service) GetBySlug(slug string) (*models.PostModel, error) {
	var post models.PostModel
	if err := s.db.Preload("Tags").Preload("Author").Where("slug = ?", slug).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// GetByIdentifier fetches a post by ID first, then falls back to slug.
// Unpublished posts are hidden from public callers; a due scheduled post is
// promoted before the visibility check.
func (s *Service) GetByIdentifier(identifier string, isAdmin bool) (*models.PostModel, error) {
	if !isAdmin {
		if _, err := s.PromoteScheduled(time.Now()); err != nil {
			return nil, err
		}
	}

	post, err := s.GetByID(identifier)
	if err != nil {
		return nil, err
	}
	if post == nil {
		post, err = s.GetBySlug(identifier)
		if err != nil {
			return nil, err
		}
	}
	if post == nil {
		return nil, nil
	}
	if !isAdmin && !post.IsPublished {
		return nil, nil
	}
	return post, nil
}

// GetDetail fetches a post by ID or slug together with its author, the
// newest revisions, and the approved comment count.
func (s *Service) GetDetail(identifier string, isAdmin bool) (*Detail, error) {
	post, err := s.GetByIdentifier(identifier, isAdmin)
	if err != nil || post == nil {
		return nil, err
	}

	var revs []models.PostRevisionModel
	if err := s.db.Where("post_id = ?", post.ID).
		Order("created_at DESC").Limit(recentRevisionLimit).
		Find(&revs).Error; err != nil {
		return nil, err
	}

	var comments int64
	if err := s.db.Model(&models.CommentModel{}).
		Where("post_id = ? AND is_approved = ?", post.ID, true).
		Count(&comments).Error; err != nil {
		return nil, err
	}

	return &Detail{Post: post, Revisions: revs, CommentCount: comments}, nil
}

// Create inserts a new post with its tag links.
func (s *Service) Create(dto *CreatePostDTO, authorID string) (*models.PostModel, error) {
	var count int64
	s.db.Model(&models.PostModel{}).Where("slug = ?", dto.Slug).Count(&count)
	if count > 0 {
		return nil, ErrSlugExists
	}

	now := time.Now()
	isPublished, publishedAt, scheduledAt := resolvePublication(nil, dto.Published, dto.ScheduledAt, now)

	post := models.PostModel{
		Title:       dto.Title,
		Slug:        dto.Slug,
		Summary:     dto.Summary,
		Content:     dto.Content,
		CoverImage:  normalizeCover(dto.CoverImage),
		IsPublished: isPublished,
		PublishedAt: publishedAt,
		ScheduledAt: scheduledAt,
		AuthorID:    authorID,
		Version:     1,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		return syncTags(tx, post.ID, dto.Tags)
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(post.ID)
}

// Update replaces a post's editable fields, addressed by ID or slug. The
// previous values are archived as a revision when any of
// title/summary/content/cover image changed, tag links are reconciled, and
// the whole mutation commits atomically.
func (s *Service) Update(identifier string, dto *UpdatePostDTO, editorID string) (*models.PostModel, error) {
	var postID string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var post models.PostModel
		if err := tx.Where("id = ? OR slug = ?", identifier, identifier).First(&post).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		postID = post.ID

		var count int64
		tx.Model(&models.PostModel{}).Where("slug = ? AND id <> ?", dto.Slug, post.ID).Count(&count)
		if count > 0 {
			return ErrSlugExists
		}

		cover := normalizeCover(dto.CoverImage)
		if contentChanged(&post, dto, cover) {
			rev := models.PostRevisionModel{
				PostID:     post.ID,
				EditorID:   editorID,
				Title:      post.Title,
				Summary:    post.Summary,
				Content:    post.Content,
				CoverImage: post.CoverImage,
			}
			if err := tx.Create(&rev).Error; err != nil {
				return err
			}
		}

		isPublished, publishedAt, scheduledAt := resolvePublication(post.PublishedAt, dto.Published, dto.ScheduledAt, time.Now())

		res := tx.Model(&models.PostModel{}).
			Where("id = ? AND version = ?", post.ID, dto.Version).
			Updates(map[string]interface{}{
				"title":        dto.Title,
				"slug":         dto.Slug,
				"summary":      dto.Summary,
				"content":      dto.Content,
				"cover_image":  cover,
				"is_published": isPublished,
				"published_at": publishedAt,
				"scheduled_at": scheduledAt,
				"version":      dto.Version + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrVersionConflict
		}

		if dto.Tags != nil {
			return syncTags(tx, post.ID, dto.Tags)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if postID == "" {
		return nil, nil
	}
	return s.GetByID(postID)
}

// Delete removes a post, addressed by ID or slug, together with its
// revisions, reactions, comments, and tag links.
func (s *Service) Delete(identifier string) (bool, error) {
	var found bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var post models.PostModel
		if err := tx.Where("id = ? OR slug = ?", identifier, identifier).First(&post).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		found = true
		if err := tx.Delete(&models.PostModel{}, "id = ?", post.ID).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostRevisionModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostReactionModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.CommentModel{}).Error; err != nil {
			return err
		}
		return tx.Where("post_id = ?", post.ID).Delete(&models.PostTagModel{}).Error
	})
	return found, err
}

// ListRevisions returns a post's revisions, newest first. The post may be
// addressed by ID or slug.
func (s *Service) ListRevisions(identifier string) ([]models.PostRevisionModel, error) {
	var post models.PostModel
	if err := s.db.Select("id").Where("id = ? OR slug = ?", identifier, identifier).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var revs []models.PostRevisionModel
	err := s.db.Where("post_id = ?", post.ID).Order("created_at DESC").Find(&revs).Error
	return revs, err
}

// RestoreRevision archives the post's current values as a new revision and
// then applies the target revision. Restoring is never destructive: every
// restore adds a row.
func (s *Service) RestoreRevision(identifier, revisionID, editorID string) (*models.PostModel, error) {
	var postID string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var post models.PostModel
		if err := tx.Where("id = ? OR slug = ?", identifier, identifier).First(&post).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		postID = post.ID

		var rev models.PostRevisionModel
		if err := tx.Where("id = ? AND post_id = ?", revisionID, post.ID).First(&rev).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRevisionNotFound
			}
			return err
		}

		archive := models.PostRevisionModel{
			PostID:     post.ID,
			EditorID:   editorID,
			Title:      post.Title,
			Summary:    post.Summary,
			Content:    post.Content,
			CoverImage: post.CoverImage,
		}
		if err := tx.Create(&archive).Error; err != nil {
			return err
		}

		return tx.Model(&models.PostModel{}).Where("id = ?", post.ID).
			Updates(map[string]interface{}{
				"title":       rev.Title,
				"summary":     rev.Summary,
				"content":     rev.Content,
				"cover_image": rev.CoverImage,
				"version":     post.Version + 1,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	if postID == "" {
		return nil, nil
	}
	return s.GetByID(postID)
}

// Like records a reaction for the fingerprint. Returns true when the
// reaction is new; a repeat like is a no-op.
func (s *Service) Like(postID, fp string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.PostReactionModel{}).
		Where("post_id = ? AND fingerprint = ?", postID, fp).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&models.PostReactionModel{PostID: postID, Fingerprint: fp}).Error; err != nil {
			return err
		}
		return tx.Model(&models.PostModel{}).Where("id = ?", postID).
			UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error
	})
	if err != nil {
		// the unique index catches concurrent duplicates
		if isDuplicateKey(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// IncrementReadCount atomically increments the read counter.
func (s *Service) IncrementReadCount(id string) error {
	return s.db.Model(&models.PostModel{}).Where("id = ?", id).
		UpdateColumn("read_count", gorm.Expr("read_count + 1")).Error
}

// resolvePublication derives the publication columns from the requested
// state. Publishing keeps an already-set publishedAt; unpublishing clears
// it; a scheduled time leaves the post unpublished until the sweep.
func resolvePublication(existingPublishedAt *time.Time, published bool, scheduledAt *time.Time, now time.Time) (bool, *time.Time, *time.Time) {
	if published {
		at := now
		if existingPublishedAt != nil {
			at = *existingPublishedAt
		}
		return true, &at, nil
	}
	if scheduledAt != nil {
		at := *scheduledAt
		return false, nil, &at
	}
	return false, nil, nil
}

func contentChanged(post *models.PostModel, dto *UpdatePostDTO, cover *string) bool {
	return post.Title != dto.Title ||
		post.Summary != dto.Summary ||
		post.Content != dto.Content ||
		!equalCover(post.CoverImage, cover)
}

func equalCover(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func normalizeCover(cover *string) *string {
	if cover == nil {
		return nil
	}
	v := strings.TrimSpace(*cover)
	if v == "" {
		return nil
	}
	return &v
}

// syncTags rewrites the post's tag links: upsert tags by slug, then replace
// the full set of join rows.
func syncTags(tx *gorm.DB, postID string, slugs []string) error {
	if err := tx.Where("post_id = ?", postID).Delete(&models.PostTagModel{}).Error; err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(slugs))
	for _, raw := range slugs {
		slug := strings.TrimSpace(strings.ToLower(raw))
		if slug == "" {
			continue
		}
		if _, ok := seen[slug]; ok {
			continue
		}
		seen[slug] = struct{}{}

		tag := models.TagModel{Name: slug, Slug: slug}
		if err := tx.Where("slug = ?", slug).FirstOrCreate(&tag).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.PostTagModel{PostID: postID, TagID: tag.ID}).Error; err != nil {
			return err
		}
	}
	return nil
}
