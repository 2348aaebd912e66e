package models

import "time"

// PostModel is a blog post. Content is raw markdown/MDX source; rendering
// happens at read time.
type PostModel struct {
	Base
	Title       string     `json:"title"        gorm:"not null"`
	Slug        string     `json:"slug"         gorm:"size:191;uniqueIndex;not null"`
	Summary     string     `json:"summary"      gorm:"type:text"`
	Content     string     `json:"content"      gorm:"type:longtext"`
	CoverImage  *string    `json:"cover_image"`
	IsPublished bool       `json:"is_published" gorm:"index"`
	PublishedAt *time.Time `json:"published_at" gorm:"index"`
	ScheduledAt *time.Time `json:"scheduled_at" gorm:"index"`
	AuthorID    string     `json:"author_id"    gorm:"type:char(36);index"`
	// Version implements optimistic concurrency for admin edits. Updates
	// must carry the version they read; a mismatch is a conflict.
	Version   int `json:"version" gorm:"not null;default:1"`
	ReadCount int `json:"read_count"`
	LikeCount int `json:"like_count"`

	Author *UserModel `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Tags   []TagModel `json:"tags" gorm:"many2many:post_tags;joinForeignKey:PostID;joinReferences:TagID"`
}

func (PostModel) TableName() string {
	return "posts"
}

// PostRevisionModel is an append-only snapshot of a post's editable fields,
// captured before each content-changing update and before each restore.
type PostRevisionModel struct {
	Base
	PostID     string  `json:"post_id"   gorm:"type:char(36);index;not null"`
	EditorID   string  `json:"editor_id" gorm:"type:char(36);index"`
	Title      string  `json:"title"`
	Summary    string  `json:"summary" gorm:"type:text"`
	Content    string  `json:"content" gorm:"type:longtext"`
	CoverImage *string `json:"cover_image"`
}

func (PostRevisionModel) TableName() string {
	return "post_revisions"
}

// PostReactionModel records one like per (post, fingerprint).
type PostReactionModel struct {
	Base
	PostID      string `json:"post_id"     gorm:"type:char(36);uniqueIndex:uk_post_fingerprint;not null"`
	Fingerprint string `json:"fingerprint" gorm:"size:128;uniqueIndex:uk_post_fingerprint;not null"`
}

func (PostReactionModel) TableName() string {
	return "post_reactions"
}
