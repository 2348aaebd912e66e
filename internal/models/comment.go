package models

// CommentModel is a reader comment on a published post. Comments start
// unapproved unless created by the owner.
type CommentModel struct {
	Base
	PostID      string `json:"post_id"      gorm:"type:char(36);index;not null"`
	AuthorName  string `json:"author_name"  gorm:"not null"`
	AuthorEmail string `json:"author_email" gorm:"size:191"`
	Body        string `json:"body"         gorm:"type:text;not null"`
	IsApproved  bool   `json:"is_approved"  gorm:"index"`
	UserID      string `json:"user_id"      gorm:"type:char(36);index"`
}

func (CommentModel) TableName() string {
	return "comments"
}
