package tag

import (
	"errors"
	"strings"

	"github.com/inkwell-space/core/internal/models"
	"gorm.io/gorm"
)

// ErrSlugExists is returned when another tag already owns the slug.
var ErrSlugExists = errors.New("tag slug already exists")

// Service handles tag business logic.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// TagWithCount is a tag together with its number of linked posts.
type TagWithCount struct {
	models.TagModel
	PostCount int64 `json:"post_count"`
}

// List returns all tags with post counts, most used first.
func (s *Service) List() ([]TagWithCount, error) {
	var tags []models.TagModel
	if err := s.db.Order("name ASC").Find(&tags).Error; err != nil {
		return nil, err
	}

	out := make([]TagWithCount, 0, len(tags))
	for _, t := range tags {
		var count int64
		if err := s.db.Model(&models.PostTagModel{}).Where("tag_id = ?", t.ID).Count(&count).Error; err != nil {
			return nil, err
		}
		out = append(out, TagWithCount{TagModel: t, PostCount: count})
	}
	return out, nil
}

// Update renames a tag. Post links are untouched.
func (s *Service) Update(id string, name, slug string) (*models.TagModel, error) {
	var tag models.TagModel
	if err := s.db.First(&tag, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if name = strings.TrimSpace(name); name != "" {
		updates["name"] = name
	}
	if slug = strings.TrimSpace(strings.ToLower(slug)); slug != "" && slug != tag.Slug {
		var count int64
		s.db.Model(&models.TagModel{}).Where("slug = ? AND id <> ?", slug, id).Count(&count)
		if count > 0 {
			return nil, ErrSlugExists
		}
		updates["slug"] = slug
	}
	if len(updates) == 0 {
		return &tag, nil
	}

	if err := s.db.Model(&tag).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// Delete removes a tag and its post links atomically.
func (s *Service) Delete(id string) (bool, error) {
	var found bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.TagModel{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		found = true
		return tx.Where("tag_id = ?", id).Delete(&models.PostTagModel{}).Error
	})
	return found, err
}
