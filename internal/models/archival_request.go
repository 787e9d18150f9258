package models

import "time"

// Archival request status values. A resolved request is never mutated again.
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestDenied   = "denied"
)

// ArchivalRequest records a student's request to archive a published
// project, addressed to one of its advisors. It references the project
// but has its own lifecycle and survives the project's archival.
type ArchivalRequest struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	ProjectID     uint       `gorm:"index;not null" json:"project_id"`
	Project       *Project   `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	RequesterID   uint       `gorm:"not null" json:"requester_id"`
	Requester     *User      `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`
	AdvisorID     uint       `gorm:"not null" json:"advisor_id"`
	Advisor       *User      `gorm:"foreignKey:AdvisorID" json:"advisor,omitempty"`
	Justification string     `gorm:"type:text" json:"justification"`
	Status        string     `gorm:"size:20;default:pending;index" json:"status"`
	DecidedBy     *uint      `json:"decided_by"`
	DecidedAt     *time.Time `json:"decided_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (ArchivalRequest) TableName() string { return "archival_requests" }
