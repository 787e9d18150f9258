package services

import (
	"encoding/json"

	"github.com/projhub/backend/internal/models"
	"gorm.io/gorm"
)

// projectSnapshot is the audited view of a project. Snapshots are taken
// before the first write of a transaction and after the last one.
type projectSnapshot struct {
	Title              string `json:"title"`
	Description        string `json:"description"`
	Department         string `json:"department"`
	Course             string `json:"course"`
	Class              string `json:"class"`
	Track              string `json:"track"`
	IsResearch         bool   `json:"is_research"`
	IsExtension        bool   `json:"is_extension"`
	Status             string `json:"status"`
	CurrentPhase       string `json:"current_phase"`
	Archived           bool   `json:"archived"`
	RepoURL            string `json:"repo_url"`
	CodeVisible        bool   `json:"code_visible"`
	AttachmentsVisible bool   `json:"attachments_visible"`
	LeaderID           *uint  `json:"leader_id"`
}

func snapshotProject(p *models.Project) string {
	if p == nil {
		return ""
	}
	snap := projectSnapshot{
		Title:              p.Title,
		Description:        p.Description,
		Department:         p.Department,
		Course:             p.Course,
		Class:              p.Class,
		Track:              p.Track,
		IsResearch:         p.IsResearch,
		IsExtension:        p.IsExtension,
		Status:             p.Status,
		CurrentPhase:       p.CurrentPhase,
		Archived:           p.Archived,
		RepoURL:            p.RepoURL,
		CodeVisible:        p.CodeVisible,
		AttachmentsVisible: p.AttachmentsVisible,
		LeaderID:           p.LeaderID,
	}
	b, err := json.Marshal(snap)
	if err != nil {
		return ""
	}
	return string(b)
}

// recordAudit appends one immutable audit row inside the caller's
// transaction. If the transaction rolls back, the row goes with it.
func recordAudit(tx *gorm.DB, projectID, actorID uint, action, before, after string) error {
	entry := models.AuditEntry{
		ProjectID: projectID,
		ActorID:   actorID,
		Action:    action,
		Before:    before,
		After:     after,
	}
	return tx.Create(&entry).Error
}

// AuditService exposes the audit history query.
type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

type AuditListRequest struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Action   string `form:"action"`
}

type AuditListResponse struct {
	Total    int64               `json:"total"`
	Page     int                 `json:"page"`
	PageSize int                 `json:"page_size"`
	Items    []models.AuditEntry `json:"items"`
}

// ListForProject returns a project's audit trail, newest first.
func (s *AuditService) ListForProject(projectID uint, req *AuditListRequest) (*AuditListResponse, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 || req.PageSize > 100 {
		req.PageSize = 20
	}

	query := s.db.Model(&models.AuditEntry{}).Where("project_id = ?", projectID)
	if req.Action != "" {
		query = query.Where("action = ?", req.Action)
	}

	var total int64
	query.Count(&total)

	var entries []models.AuditEntry
	offset := (req.Page - 1) * req.PageSize
	if err := query.Preload("Actor").
		Order("created_at DESC").
		Offset(offset).Limit(req.PageSize).
		Find(&entries).Error; err != nil {
		return nil, err
	}

	return &AuditListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    entries,
	}, nil
}
