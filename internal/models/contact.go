package models

import "time"

// ContactStatus is the triage state of a contact message.
type ContactStatus string

const (
	ContactStatusNew        ContactStatus = "NEW"
	ContactStatusInProgress ContactStatus = "IN_PROGRESS"
	ContactStatusResolved   ContactStatus = "RESOLVED"
	ContactStatusArchived   ContactStatus = "ARCHIVED"
)

// Valid reports whether s is a known contact status.
func (s ContactStatus) Valid() bool {
	switch s {
	case ContactStatusNew, ContactStatusInProgress, ContactStatusResolved, ContactStatusArchived:
		return true
	}
	return false
}

// ContactMessageModel is a message submitted through the contact form.
type ContactMessageModel struct {
	Base
	Name       string        `json:"name"    gorm:"not null"`
	Email      string        `json:"email"   gorm:"size:191;not null"`
	Subject    string        `json:"subject" gorm:"not null"`
	Body       string        `json:"body"    gorm:"type:text;not null"`
	Status     ContactStatus `json:"status"  gorm:"size:32;index;default:NEW"`
	Notes      string        `json:"notes"   gorm:"type:text"`
	ResolvedAt *time.Time    `json:"resolved_at"`
}

func (ContactMessageModel) TableName() string {
	return "contact_messages"
}
