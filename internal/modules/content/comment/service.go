package comment

import (
	"errors"

	"github.com/inkwell-space/core/internal/models"
	"github.com/inkwell-space/core/internal/pkg/pagination"
	"github.com/inkwell-space/core/internal/pkg/response"
	"gorm.io/gorm"
)

// ErrPostNotFound is returned when the target post is missing or not
// visible to the commenter.
var ErrPostNotFound = errors.New("post not found")

// Service handles comment business logic.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Create stores a comment on a published post. Owner comments are approved
// immediately; everything else waits for moderation.
func (s *Service) Create(dto *CreateCommentDTO, isAdmin bool, userID string) (*models.CommentModel, error) {
	var count int64
	if err := s.db.Model(&models.PostModel{}).
		Where("id = ? AND is_published = ?", dto.PostID, true).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrPostNotFound
	}

	comment := models.CommentModel{
		PostID:      dto.PostID,
		AuthorName:  dto.AuthorName,
		AuthorEmail: dto.AuthorEmail,
		Body:        dto.Body,
		IsApproved:  isAdmin,
		UserID:      userID,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByPost returns a post's comments, oldest first. Public callers only
// see approved ones.
func (s *Service) ListByPost(postID string, includeUnapproved bool) ([]models.CommentModel, error) {
	tx := s.db.Where("post_id = ?", postID).Order("created_at ASC")
	if !includeUnapproved {
		tx = tx.Where("is_approved = ?", true)
	}
	var comments []models.CommentModel
	return comments, tx.Find(&comments).Error
}

// ListAll returns every comment for moderation, newest first, with an
// optional approval filter.
func (s *Service) ListAll(q pagination.Query, approved *bool) ([]models.CommentModel, response.Pagination, error) {
	tx := s.db.Model(&models.CommentModel{}).Order("created_at DESC")
	if approved != nil {
		tx = tx.Where("is_approved = ?", *approved)
	}
	var comments []models.CommentModel
	pag, err := pagination.Paginate(tx, q, &comments)
	return comments, pag, err
}

// Moderate approves or rejects a comment.
func (s *Service) Moderate(id string, approved bool) (*models.CommentModel, error) {
	var comment models.CommentModel
	if err := s.db.First(&comment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if err := s.db.Model(&comment).Update("is_approved", approved).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// Delete removes a comment.
func (s *Service) Delete(id string) (bool, error) {
	res := s.db.Delete(&models.CommentModel{}, "id = ?", id)
	return res.RowsAffected > 0, res.Error
}
