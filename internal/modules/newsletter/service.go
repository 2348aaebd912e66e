package newsletter

import (
	"strings"
	"time"

	"github.com/inkwell-space/core/internal/models"
	"github.com/inkwell-space/core/internal/pkg/pagination"
	"github.com/inkwell-space/core/internal/pkg/response"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service handles newsletter subscription business logic.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Subscribe upserts a subscription: a new address gets an ACTIVE row, a
// returning unsubscriber is reactivated.
func (s *Service) Subscribe(email string) error {
	sub := models.SubscriptionModel{
		Email:  normalizeEmail(email),
		Status: models.SubscriptionActive,
	}
	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "email"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"status":          models.SubscriptionActive,
			"unsubscribed_at": nil,
		}),
	}).Create(&sub).Error
}

// Unsubscribe marks the address as unsubscribed. Returns false when the
// address was never subscribed.
func (s *Service) Unsubscribe(email string) (bool, error) {
	now := time.Now()
	res := s.db.Model(&models.SubscriptionModel{}).
		Where("email = ?", normalizeEmail(email)).
		Updates(map[string]interface{}{
			"status":          models.SubscriptionUnsubscribed,
			"unsubscribed_at": &now,
		})
	return res.RowsAffected > 0, res.Error
}

// List returns subscriptions, newest first, with an optional status filter.
func (s *Service) List(q pagination.Query, status *models.SubscriptionStatus) ([]models.SubscriptionModel, response.Pagination, error) {
	tx := s.db.Model(&models.SubscriptionModel{}).Order("created_at DESC")
	if status != nil {
		tx = tx.Where("status = ?", *status)
	}
	var subs []models.SubscriptionModel
	pag, err := pagination.Paginate(tx, q, &subs)
	return subs, pag, err
}

// GetByEmail fetches a subscription row, nil when absent.
func (s *Service) GetByEmail(email string) (*models.SubscriptionModel, error) {
	var sub models.SubscriptionModel
	err := s.db.Where("email = ?", normalizeEmail(email)).First(&sub).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
