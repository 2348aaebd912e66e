package models

import "time"

// PageViewModel aggregates page views per path per day. Recording a view
// upserts on (slug, day) and increments the counter.
type PageViewModel struct {
	Base
	Slug  string    `json:"slug"  gorm:"size:191;uniqueIndex:uk_slug_day;not null"`
	Day   time.Time `json:"day"   gorm:"uniqueIndex:uk_slug_day;not null"`
	Count int       `json:"count" gorm:"not null;default:0"`
}

func (PageViewModel) TableName() string {
	return "page_views"
}
