package contact

import (
	"errors"
	"time"

	"github.com/inkwell-space/core/internal/models"
	"github.com/inkwell-space/core/internal/pkg/mail"
	"github.com/inkwell-space/core/internal/pkg/pagination"
	"github.com/inkwell-space/core/internal/pkg/response"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service handles contact message business logic.
type Service struct {
	db       *gorm.DB
	sender   *mail.Sender
	siteName string
	logger   *zap.Logger
}

func NewService(db *gorm.DB, sender *mail.Sender, siteName string, logger *zap.Logger) *Service {
	return &Service{db: db, sender: sender, siteName: siteName, logger: logger.Named("ContactService")}
}

// Create stores a new contact message and forwards it to the owner's inbox
// in the background when mail is configured.
func (s *Service) Create(dto *CreateContactDTO) (*models.ContactMessageModel, error) {
	msg := models.ContactMessageModel{
		Name:    dto.Name,
		Email:   dto.Email,
		Subject: dto.Subject,
		Body:    dto.Body,
		Status:  models.ContactStatusNew,
	}
	if err := s.db.Create(&msg).Error; err != nil {
		return nil, err
	}

	if s.sender.Enabled() && s.sender.OwnerAddress() != "" {
		go func() {
			err := s.sender.SendContactNotify(s.sender.OwnerAddress(), mail.ContactNotifyData{
				SiteName: s.siteName,
				Name:     msg.Name,
				Email:    msg.Email,
				Subject:  msg.Subject,
				Body:     msg.Body,
			})
			if err != nil {
				s.logger.Warn("留言通知邮件发送失败", zap.Error(err))
			}
		}()
	}
	return &msg, nil
}

// List returns contact messages, newest first, with an optional status filter.
func (s *Service) List(q pagination.Query, status *models.ContactStatus) ([]models.ContactMessageModel, response.Pagination, error) {
	tx := s.db.Model(&models.ContactMessageModel{}).Order("created_at DESC")
	if status != nil {
		tx = tx.Where("status = ?", *status)
	}
	var messages []models.ContactMessageModel
	pag, err := pagination.Paginate(tx, q, &messages)
	return messages, pag, err
}

// Update patches status and notes. Resolving stamps resolved_at; moving out
// of RESOLVED clears it.
func (s *Service) Update(id string, dto *UpdateContactDTO) (*models.ContactMessageModel, error) {
	var msg models.ContactMessageModel
	if err := s.db.First(&msg, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if dto.Status != nil {
		updates["status"] = *dto.Status
		if *dto.Status == models.ContactStatusResolved {
			now := time.Now()
			updates["resolved_at"] = &now
		} else {
			updates["resolved_at"] = nil
		}
	}
	if dto.Notes != nil {
		updates["notes"] = *dto.Notes
	}
	if len(updates) == 0 {
		return &msg, nil
	}

	if err := s.db.Model(&msg).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// Delete removes a contact message.
func (s *Service) Delete(id string) (bool, error) {
	res := s.db.Delete(&models.ContactMessageModel{}, "id = ?", id)
	return res.RowsAffected > 0, res.Error
}
