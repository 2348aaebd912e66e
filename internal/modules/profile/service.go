package profile

import (
	"errors"

	"github.com/inkwell-space/core/internal/models"
	"gorm.io/gorm"
)

// Service manages the singleton site-owner profile.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Get returns the profile, or nil when it has never been set.
func (s *Service) Get() (*models.ProfileModel, error) {
	var profile models.ProfileModel
	err := s.db.Order("created_at ASC").First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpsertInput carries the full profile payload. Optional fields left empty
// are stored as NULL.
type UpsertInput struct {
	DisplayName string `json:"display_name"`
	Headline    string `json:"headline"`
	Bio         string `json:"bio"`
	Location    string `json:"location"`
	AvatarURL   string `json:"avatar_url"`
	GithubURL   string `json:"github_url"`
	TwitterURL  string `json:"twitter_url"`
	LinkedinURL string `json:"linkedin_url"`
	WebsiteURL  string `json:"website_url"`
}

// Upsert replaces the profile, creating the row on first use.
func (s *Service) Upsert(input UpsertInput) (*models.ProfileModel, error) {
	var profile models.ProfileModel
	err := s.db.Order("created_at ASC").First(&profile).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	profile.DisplayName = input.DisplayName
	profile.Headline = optional(input.Headline)
	profile.Bio = optional(input.Bio)
	profile.Location = optional(input.Location)
	profile.AvatarURL = optional(input.AvatarURL)
	profile.GithubURL = optional(input.GithubURL)
	profile.TwitterURL = optional(input.TwitterURL)
	profile.LinkedinURL = optional(input.LinkedinURL)
	profile.WebsiteURL = optional(input.WebsiteURL)

	if err := s.db.Save(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
