package models

import "time"

// SubscriptionStatus is the lifecycle state of a newsletter subscription.
type SubscriptionStatus string

const (
	SubscriptionActive       SubscriptionStatus = "ACTIVE"
	SubscriptionUnsubscribed SubscriptionStatus = "UNSUBSCRIBED"
)

// SubscriptionModel is a newsletter subscription keyed by email.
// Re-subscribing an unsubscribed address reactivates the same row.
type SubscriptionModel struct {
	Base
	Email          string             `json:"email"  gorm:"size:191;uniqueIndex;not null"`
	Status         SubscriptionStatus `json:"status" gorm:"size:32;index;default:ACTIVE"`
	UnsubscribedAt *time.Time         `json:"unsubscribed_at"`
}

func (SubscriptionModel) TableName() string {
	return "newsletter_subscriptions"
}
