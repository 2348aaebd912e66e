package models

// UserRole is the authorization level of a user.
type UserRole string

const (
	RoleAdmin UserRole = "ADMIN"
)

// UserModel is an account. The first registered user is the site owner;
// registration closes once a user exists.
type UserModel struct {
	Base
	Username string   `json:"username" gorm:"size:191;uniqueIndex;not null"`
	Password string   `json:"-"        gorm:"not null"`
	Name     string   `json:"name"`
	Role     UserRole `json:"role"     gorm:"size:32;default:ADMIN"`
}

func (UserModel) TableName() string {
	return "users"
}
