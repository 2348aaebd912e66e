package database

import (
	"fmt"
	"time"

	"github.com/inkwell-space/core/internal/config"
	"github.com/inkwell-space/core/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens the MySQL connection and migrates the schema.
func Connect(cfg *config.AppConfig) (*gorm.DB, error) {
	level := gormlogger.Warn
	if cfg.IsDev() {
		level = gormlogger.Info
	}

	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:               cfg.Database.DSN(),
		DefaultStringSize: 191,
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Migrate creates or updates all tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.UserModel{},
		&models.ProfileModel{},
		&models.PostModel{},
		&models.TagModel{},
		&models.PostTagModel{},
		&models.PostRevisionModel{},
		&models.PostReactionModel{},
		&models.CommentModel{},
		&models.ContactMessageModel{},
		&models.SubscriptionModel{},
		&models.PageViewModel{},
	)
}
