package models

import "time"

// Membership roles within a project.
const (
	MemberLeader  = "leader"
	MemberAuthor  = "author"
	MemberAdvisor = "advisor"
)

// TeamMembership associates a user with a project in one role. Author and
// leader rows (students) are replaced wholesale on team updates; advisor
// rows (teachers) are never deleted, only deactivated, so the advising
// history survives team changes.
type TeamMembership struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	ProjectID     uint       `gorm:"index:idx_team_project;not null" json:"project_id"`
	UserID        uint       `gorm:"not null" json:"user_id"`
	User          *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Role          string     `gorm:"size:20;not null" json:"role"` // leader, author, advisor
	Active        bool       `gorm:"default:true" json:"active"`
	DeactivatedAt *time.Time `json:"deactivated_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (TeamMembership) TableName() string { return "team_memberships" }
