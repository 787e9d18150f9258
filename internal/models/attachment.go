package models

import "time"

// Attachment kinds. One live attachment per kind per phase.
const (
	AttachmentDocument = "document"
	AttachmentImage    = "image"
	AttachmentVideo    = "video"
)

// AttachmentKinds lists the accepted kinds for payload validation.
var AttachmentKinds = []string{AttachmentDocument, AttachmentImage, AttachmentVideo}

// Attachment stores metadata for a file attached to a phase. The bytes
// live in the file storage collaborator; only the relative path is kept
// here. Upserting by (phase, kind) replaces the previous row.
type Attachment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PhaseID     uint      `gorm:"uniqueIndex:idx_phase_kind;not null" json:"phase_id"`
	Kind        string    `gorm:"size:20;uniqueIndex:idx_phase_kind;not null" json:"kind"`
	FileName    string    `gorm:"size:255;not null" json:"file_name"`
	FilePath    string    `gorm:"size:500;not null" json:"file_path"`
	ContentType string    `gorm:"size:100" json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Attachment) TableName() string { return "attachments" }
