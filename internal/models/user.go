package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles. The set is closed; permission checks switch over it.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// User represents a system user (student, teacher or admin)
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UUID      string         `gorm:"size:36;uniqueIndex;not null" json:"uuid"`
	Username  string         `gorm:"uniqueIndex;size:100;not null" json:"username"`
	Password  string         `gorm:"size:255" json:"-"` // bcrypt hash
	Name      string         `gorm:"size:200" json:"name"`
	Email     string         `gorm:"size:255" json:"email"`
	Role      string         `gorm:"size:20;default:student" json:"role"` // student, teacher, admin
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	LastLogin *time.Time     `json:"last_login"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }
