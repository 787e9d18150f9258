package models

import (
	"time"
)

// Project lifecycle status values.
const (
	ProjectDraft     = "draft"
	ProjectPublished = "published"
	ProjectArchived  = "archived"
	ProjectDeleted   = "deleted"
)

// Project represents a student/teacher project tracked through the
// four-phase lifecycle. Status transitions are owned by the services;
// CurrentPhase is a derived projection recomputed on every phase write.
type Project struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	UUID        string `gorm:"size:36;uniqueIndex;not null" json:"uuid"`
	Title       string `gorm:"size:200;not null" json:"title"`
	TitleKey    string `gorm:"size:200;uniqueIndex;not null" json:"-"` // lowercased title, enforces case-insensitive uniqueness
	Description string `gorm:"type:text" json:"description"`
	Department  string `gorm:"size:200" json:"department"`

	// Academic metadata (wizard step 2)
	Course      string `gorm:"size:200" json:"course"`
	Class       string `gorm:"size:100" json:"class"`
	Track       string `gorm:"size:200" json:"track"`
	IsResearch  bool   `gorm:"default:false" json:"is_research"`
	IsExtension bool   `gorm:"default:false" json:"is_extension"`

	Status       string `gorm:"size:20;default:draft;index" json:"status"`
	CurrentPhase string `gorm:"size:20;default:ideation" json:"current_phase"`
	Archived     bool   `gorm:"default:false" json:"archived"`

	// Repository and visibility configuration (wizard step 5)
	RepoURL            string `gorm:"size:500" json:"repo_url"`
	CodeVisible        bool   `gorm:"default:true" json:"code_visible"`
	AttachmentsVisible bool   `gorm:"default:true" json:"attachments_visible"`

	CreatedBy uint  `gorm:"not null" json:"created_by"`
	Creator   *User `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	LeaderID  *uint `json:"leader_id"`
	Leader    *User `gorm:"foreignKey:LeaderID" json:"leader,omitempty"`

	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Project) TableName() string { return "projects" }
