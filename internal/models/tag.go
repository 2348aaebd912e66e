package models

// TagModel is a content tag. Tags are upserted by slug during post writes.
type TagModel struct {
	Base
	Name string `json:"name" gorm:"not null"`
	Slug string `json:"slug" gorm:"size:191;uniqueIndex;not null"`
}

func (TagModel) TableName() string {
	return "tags"
}

// PostTagModel is the post <-> tag join row. Reconciliation is replace-all:
// an update rewrites the full set of rows for the post.
type PostTagModel struct {
	PostID string `json:"post_id" gorm:"type:char(36);primaryKey"`
	TagID  string `json:"tag_id"  gorm:"type:char(36);primaryKey"`
}

func (PostTagModel) TableName() string {
	return "post_tags"
}
