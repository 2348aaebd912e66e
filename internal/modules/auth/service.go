package auth

import (
	"errors"
	"time"

	"github.com/inkwell-space/core/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrRegistrationClosed = errors.New("registration closed")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// failureDelay slows down brute-force attempts on bad credentials.
const failureDelay = 3 * time.Second

// Service handles account registration and login.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Register creates the owner account. It only works while no user exists.
func (s *Service) Register(username, password, name string) (*models.UserModel, error) {
	var count int64
	if err := s.db.Model(&models.UserModel{}).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrRegistrationClosed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := models.UserModel{
		Username: username,
		Password: string(hash),
		Name:     name,
		Role:     models.RoleAdmin,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Login verifies the credentials. Failures are delayed to blunt brute force.
func (s *Service) Login(username, password string) (*models.UserModel, error) {
	var user models.UserModel
	err := s.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		time.Sleep(failureDelay)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		time.Sleep(failureDelay)
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// Me loads the user behind a token.
func (s *Service) Me(userID string) (*models.UserModel, error) {
	var user models.UserModel
	if err := s.db.Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
