package models

// ProfileModel is the site owner's public profile. A single row exists at
// most; empty optional fields are stored as NULL.
type ProfileModel struct {
	Base
	DisplayName string  `json:"display_name" gorm:"not null"`
	Headline    *string `json:"headline"`
	Bio         *string `json:"bio" gorm:"type:text"`
	Location    *string `json:"location"`
	AvatarURL   *string `json:"avatar_url"`
	GithubURL   *string `json:"github_url"`
	TwitterURL  *string `json:"twitter_url"`
	LinkedinURL *string `json:"linkedin_url"`
	WebsiteURL  *string `json:"website_url"`
}

func (ProfileModel) TableName() string {
	return "profiles"
}
