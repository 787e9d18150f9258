package models

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/projhub/backend/internal/config"
	"github.com/projhub/backend/internal/utils"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB(cfg *config.DatabaseConfig) error {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	DB = db
	return nil
}

func AutoMigrate() error {
	return DB.AutoMigrate(
		&User{},
		&Project{},
		&Phase{},
		&Attachment{},
		&TeamMembership{},
		&ArchivalRequest{},
		&AuditEntry{},
		&Notification{},
		&SystemLog{},
	)
}

func GetDB() *gorm.DB {
	return DB
}

// SeedDefaultData creates the default admin account if no admin exists.
func SeedDefaultData(adminPassword string) error {
	var count int64
	DB.Model(&User{}).Where("role = ?", RoleAdmin).Count(&count)
	if count > 0 {
		return nil
	}

	if adminPassword == "" {
		adminPassword = "admin123"
	}
	hash, err := utils.HashPassword(adminPassword)
	if err != nil {
		return err
	}

	admin := User{
		UUID:     uuid.NewString(),
		Username: "admin",
		Password: hash,
		Name:     "Administrator",
		Role:     RoleAdmin,
		IsActive: true,
	}
	return DB.Create(&admin).Error
}
