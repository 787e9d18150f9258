package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/projhub/backend/internal/models"
	"github.com/projhub/backend/pkg/response"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens an in-memory sqlite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Phase{},
		&models.Attachment{},
		&models.TeamMembership{},
		&models.ArchivalRequest{},
		&models.AuditEntry{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func asAppError(t *testing.T, err error) *response.AppError {
	t.Helper()
	var appErr *response.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	return appErr
}

func seedUser(t *testing.T, db *gorm.DB, role string) *models.User {
	t.Helper()
	u := &models.User{
		UUID:     uuid.NewString(),
		Username: uuid.NewString(),
		Name:     "Test " + role,
		Role:     role,
		IsActive: true,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

// seedProject creates a project with its four phase rows and the
// creator's membership, mirroring what the creation step produces.
func seedProject(t *testing.T, db *gorm.DB, creator *models.User, status string) *models.Project {
	t.Helper()
	title := "Projeto " + uuid.NewString()
	p := &models.Project{
		UUID:       uuid.NewString(),
		Title:      title,
		TitleKey:   strings.ToLower(title),
		Department: "Engenharia",
		Status:     status,
		CreatedBy:  creator.ID,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("seed project: %v", err)
	}
	for _, name := range models.PhaseOrder {
		if err := db.Create(&models.Phase{ProjectID: p.ID, Name: name, Status: models.PhasePending}).Error; err != nil {
			t.Fatalf("seed phase %s: %v", name, err)
		}
	}
	switch creator.Role {
	case models.RoleStudent:
		db.Create(&models.TeamMembership{ProjectID: p.ID, UserID: creator.ID, Role: models.MemberLeader, Active: true})
		p.LeaderID = &creator.ID
		db.Model(p).Update("leader_id", creator.ID)
	case models.RoleTeacher:
		db.Create(&models.TeamMembership{ProjectID: p.ID, UserID: creator.ID, Role: models.MemberAdvisor, Active: true})
	}
	return p
}
