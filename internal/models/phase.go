package models

import "time"

// Phase names, in lifecycle order. The set and order are fixed.
const (
	PhaseIdeation       = "ideation"
	PhaseModeling       = "modeling"
	PhasePrototyping    = "prototyping"
	PhaseImplementation = "implementation"
)

// PhaseOrder lists the four phases from earliest to latest.
var PhaseOrder = []string{PhaseIdeation, PhaseModeling, PhasePrototyping, PhaseImplementation}

// Phase status values, derived from description + attachment count.
const (
	PhasePending    = "pending"
	PhaseInProgress = "in_progress"
	PhaseDone       = "done"
)

// Phase holds the free-text content and derived status of one lifecycle
// phase of a project. Status is never written by clients; the services
// recompute it after every write to description or attachments.
type Phase struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ProjectID   uint      `gorm:"uniqueIndex:idx_project_phase;not null" json:"project_id"`
	Name        string    `gorm:"size:20;uniqueIndex:idx_project_phase;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Status      string    `gorm:"size:20;default:pending" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Phase) TableName() string { return "phases" }
