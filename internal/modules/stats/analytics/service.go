package analytics

import (
	"strings"
	"time"

	"github.com/inkwell-space/core/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service aggregates page views per path per day.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

var botMarkers = []string{
	"bot", "spider", "crawler", "slurp", "curl", "wget", "python-requests",
	"headless", "lighthouse", "pingdom", "uptime",
}

// IsBot reports whether the user agent looks like an automated client.
func IsBot(userAgent string) bool {
	ua := strings.ToLower(userAgent)
	for _, marker := range botMarkers {
		if strings.Contains(ua, marker) {
			return true
		}
	}
	return false
}

// NormalizePath strips query noise and trailing slashes so the same page
// aggregates under one key.
func NormalizePath(path string) string {
	p := strings.TrimSpace(path)
	if p == "" {
		return ""
	}
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 191 {
		p = p[:191]
	}
	return p
}

// StartOfDay truncates t to its UTC date.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Record upserts the (path, day) row and increments its counter. Bot
// traffic is ignored.
func (s *Service) Record(path, userAgent string, at time.Time) error {
	if IsBot(userAgent) {
		return nil
	}
	slug := NormalizePath(path)
	if slug == "" {
		return nil
	}

	row := models.PageViewModel{
		Slug:  slug,
		Day:   StartOfDay(at),
		Count: 1,
	}
	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "slug"}, {Name: "day"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"count": gorm.Expr("count + 1"),
		}),
	}).Create(&row).Error
}

// DailyViews is one day's total in the summary.
type DailyViews struct {
	Day   time.Time `json:"day"`
	Views int64     `json:"views"`
}

// TopPage is one entry of the all-time top pages list.
type TopPage struct {
	Slug  string `json:"slug"`
	Views int64  `json:"views"`
}

// Summary is the admin dashboard analytics payload.
type Summary struct {
	TotalViews     int64        `json:"total_views"`
	ViewsLast7Days []DailyViews `json:"views_last_7_days"`
	TopPages       []TopPage    `json:"top_pages"`
}

// GetSummary computes total views, a 7-day series (oldest first, zero-filled),
// and the all-time top 5 pages.
func (s *Service) GetSummary(now time.Time) (*Summary, error) {
	var total int64
	if err := s.db.Model(&models.PageViewModel{}).
		Select("COALESCE(SUM(count), 0)").Scan(&total).Error; err != nil {
		return nil, err
	}

	today := StartOfDay(now)
	cutoff := today.AddDate(0, 0, -6)

	var rows []models.PageViewModel
	if err := s.db.Where("day >= ?", cutoff).Find(&rows).Error; err != nil {
		return nil, err
	}
	perDay := make(map[time.Time]int64, len(rows))
	for _, r := range rows {
		perDay[StartOfDay(r.Day)] += int64(r.Count)
	}
	series := make([]DailyViews, 0, 7)
	for i := 0; i < 7; i++ {
		day := cutoff.AddDate(0, 0, i)
		series = append(series, DailyViews{Day: day, Views: perDay[day]})
	}

	var top []TopPage
	err := s.db.Model(&models.PageViewModel{}).
		Select("slug, SUM(count) AS views").
		Group("slug").
		Order("views DESC").
		Limit(5).
		Scan(&top).Error
	if err != nil {
		return nil, err
	}

	return &Summary{TotalViews: total, ViewsLast7Days: series, TopPages: top}, nil
}

// Cleanup removes rows older than the retention window.
func (s *Service) Cleanup(olderThan time.Time) (int64, error) {
	res := s.db.Unscoped().
		Where("day < ?", StartOfDay(olderThan)).
		Delete(&models.PageViewModel{})
	return res.RowsAffected, res.Error
}
