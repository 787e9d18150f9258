package services

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/projhub/backend/internal/models"
	"github.com/projhub/backend/pkg/logger"
	"github.com/projhub/backend/pkg/response"
	"gorm.io/gorm"
)

// PhaseContentService implements wizard step 4 (phase descriptions and
// attachments) and the attachment registry. Every write path ends with a
// recompute of the derived statuses and the project's current phase.
type PhaseContentService struct {
	db       *gorm.DB
	storage  FileStorage
	notifier *NotificationService
}

func NewPhaseContentService(db *gorm.DB, storage FileStorage, notifier *NotificationService) *PhaseContentService {
	return &PhaseContentService{db: db, storage: storage, notifier: notifier}
}

// AttachmentUpload pairs an upload with its target kind slot.
type AttachmentUpload struct {
	Kind   string
	Upload *FileUpload
}

// PhaseInput is the submitted content for one phase. A nil Description
// means the field was not submitted; the stored text is left untouched.
type PhaseInput struct {
	Description *string
	Attachments []AttachmentUpload
}

// UpdatePhasesRequest carries content for all four phases; any subset may
// be empty.
type UpdatePhasesRequest struct {
	Phases map[string]PhaseInput
}

// UpdatePhases persists descriptions and attachments for all four phases
// in one transaction, then recomputes every phase status and the overall
// phase. Recomputation runs only after all writes so intermediate states
// cannot leak into the stored projection.
func (s *PhaseContentService) UpdatePhases(projectUUID string, req *UpdatePhasesRequest, actor Actor) (*models.Project, error) {
	project, appErr := getProjectByUUID(s.db, projectUUID)
	if appErr != nil {
		return nil, appErr
	}
	if appErr := ensureCanEdit(s.db, actor, project); appErr != nil {
		return nil, appErr
	}

	for name := range req.Phases {
		if !validPhaseName(name) {
			return nil, response.NewValidation(fmt.Sprintf("unknown phase %q", name))
		}
		for _, att := range req.Phases[name].Attachments {
			if !validAttachmentKind(att.Kind) {
				return nil, response.NewValidation(fmt.Sprintf("unknown attachment kind %q", att.Kind))
			}
		}
	}

	// Validate and store files before opening the transaction; the
	// storage collaborator owns the bytes.
	type storedFile struct {
		phase string
		kind  string
		meta  models.Attachment
	}
	var stored []storedFile
	for name, input := range req.Phases {
		for _, att := range input.Attachments {
			if err := s.storage.Validate(att.Upload, att.Kind); err != nil {
				return nil, response.NewValidation(err.Error())
			}
			folder := filepath.Join(project.UUID, name)
			relPath, err := s.storage.Store(att.Upload, folder)
			if err != nil {
				return nil, response.NewServerError(fmt.Sprintf("failed to store %q: %v", att.Upload.FileName, err))
			}
			stored = append(stored, storedFile{
				phase: name,
				kind:  att.Kind,
				meta: models.Attachment{
					Kind:        att.Kind,
					FileName:    att.Upload.FileName,
					FilePath:    relPath,
					ContentType: att.Upload.ContentType,
					Size:        att.Upload.Size,
				},
			})
		}
	}

	before := snapshotProject(project)
	var replacedPaths []string

	err := s.db.Transaction(func(tx *gorm.DB) error {
		phases, err := loadPhases(tx, project.ID)
		if err != nil {
			return err
		}

		for name, input := range req.Phases {
			if input.Description == nil {
				continue
			}
			phase := phases[name]
			if err := tx.Model(phase).Update("description", *input.Description).Error; err != nil {
				return err
			}
			phase.Description = *input.Description
		}

		for _, sf := range stored {
			meta := sf.meta
			meta.PhaseID = phases[sf.phase].ID
			oldPath, err := upsertAttachment(tx, &meta)
			if err != nil {
				return err
			}
			if oldPath != "" {
				replacedPaths = append(replacedPaths, oldPath)
			}
		}

		// All writes done; now recompute.
		if err := recomputeProject(tx, project, phases); err != nil {
			return err
		}

		return recordAudit(tx, project.ID, actor.ID, models.ActionAtualizacaoFases, before, snapshotProject(project))
	})
	if err != nil {
		// Orphan the stored files; disk cleanup is best-effort.
		for _, sf := range stored {
			s.storage.Delete(sf.meta.FilePath)
		}
		return nil, err
	}

	// Replaced attachments: physical deletion is best-effort and never
	// affects the committed metadata.
	for _, p := range replacedPaths {
		s.storage.Delete(p)
	}

	return project, nil
}

func validPhaseName(name string) bool {
	for _, p := range models.PhaseOrder {
		if p == name {
			return true
		}
	}
	return false
}

func validAttachmentKind(kind string) bool {
	for _, k := range models.AttachmentKinds {
		if k == kind {
			return true
		}
	}
	return false
}

func loadPhases(tx *gorm.DB, projectID uint) (map[string]*models.Phase, error) {
	var rows []models.Phase
	if err := tx.Where("project_id = ?", projectID).Find(&rows).Error; err != nil {
		return nil, err
	}
	phases := make(map[string]*models.Phase, len(rows))
	for i := range rows {
		phases[rows[i].Name] = &rows[i]
	}
	for _, name := range models.PhaseOrder {
		if _, ok := phases[name]; !ok {
			return nil, fmt.Errorf("phase %q missing for project %d", name, projectID)
		}
	}
	return phases, nil
}

// upsertAttachment replaces the attachment occupying the (phase, kind)
// slot, returning the replaced file's path when there was one.
func upsertAttachment(tx *gorm.DB, meta *models.Attachment) (string, error) {
	var existing models.Attachment
	err := tx.Where("phase_id = ? AND kind = ?", meta.PhaseID, meta.Kind).First(&existing).Error
	switch {
	case err == nil:
		oldPath := existing.FilePath
		updates := map[string]interface{}{
			"file_name":    meta.FileName,
			"file_path":    meta.FilePath,
			"content_type": meta.ContentType,
			"size":         meta.Size,
		}
		if err := tx.Model(&existing).Updates(updates).Error; err != nil {
			return "", err
		}
		meta.ID = existing.ID
		return oldPath, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return "", tx.Create(meta).Error
	default:
		return "", err
	}
}

func countAttachments(tx *gorm.DB, phaseID uint) int {
	var count int64
	tx.Model(&models.Attachment{}).Where("phase_id = ?", phaseID).Count(&count)
	return int(count)
}

// recomputeProject refreshes every phase status from its inputs and then
// the project's overall phase. Idempotent.
func recomputeProject(tx *gorm.DB, project *models.Project, phases map[string]*models.Phase) error {
	statuses := make(map[string]string, len(phases))
	for name, phase := range phases {
		status := ComputePhaseStatus(phase.Description, countAttachments(tx, phase.ID))
		if status != phase.Status {
			if err := tx.Model(phase).Update("status", status).Error; err != nil {
				return err
			}
			phase.Status = status
		}
		statuses[name] = status
	}

	current := ComputeCurrentPhase(statuses)
	if current != project.CurrentPhase {
		if err := tx.Model(project).Update("current_phase", current).Error; err != nil {
			return err
		}
		project.CurrentPhase = current
	}
	return nil
}

// RemoveAttachment deletes an attachment's metadata and recomputes the
// derived statuses. The physical file deletion is best-effort after
// commit.
func (s *PhaseContentService) RemoveAttachment(attachmentID uint, actor Actor) error {
	var attachment models.Attachment
	if err := s.db.First(&attachment, attachmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFound("attachment not found")
		}
		return err
	}

	var phase models.Phase
	if err := s.db.First(&phase, attachment.PhaseID).Error; err != nil {
		return err
	}
	var project models.Project
	if err := s.db.First(&project, phase.ProjectID).Error; err != nil {
		return err
	}
	if appErr := ensureCanEdit(s.db, actor, &project); appErr != nil {
		return appErr
	}

	before := snapshotProject(&project)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Attachment{}, attachment.ID).Error; err != nil {
			return err
		}
		phases, err := loadPhases(tx, project.ID)
		if err != nil {
			return err
		}
		if err := recomputeProject(tx, &project, phases); err != nil {
			return err
		}
		return recordAudit(tx, project.ID, actor.ID, models.ActionAtualizacaoFases, before, snapshotProject(&project))
	})
	if err != nil {
		return err
	}

	if !s.storage.Delete(attachment.FilePath) {
		logger.Warn().Str("path", attachment.FilePath).Msg("attachment file not removed from storage")
	}
	return nil
}

// PhaseProgress is the progression query result for one phase.
type PhaseProgress struct {
	Name            string              `json:"name"`
	Description     string              `json:"description"`
	Status          string              `json:"status"`
	AttachmentCount int                 `json:"attachment_count"`
	Attachments     []models.Attachment `json:"attachments"`
}

type ProjectProgress struct {
	CurrentPhase string          `json:"current_phase"`
	Phases       []PhaseProgress `json:"phases"`
}

// GetProgress returns the per-phase statuses and the overall phase,
// recomputed live from the stored inputs.
func (s *PhaseContentService) GetProgress(projectUUID string, actor Actor) (*ProjectProgress, error) {
	project, appErr := getVisibleProject(s.db, projectUUID, actor)
	if appErr != nil {
		return nil, appErr
	}

	phases, err := loadPhases(s.db, project.ID)
	if err != nil {
		return nil, err
	}

	statuses := make(map[string]string, len(phases))
	progress := make([]PhaseProgress, 0, len(models.PhaseOrder))
	for _, name := range models.PhaseOrder {
		phase := phases[name]
		var attachments []models.Attachment
		s.db.Where("phase_id = ?", phase.ID).Find(&attachments)

		status := ComputePhaseStatus(phase.Description, len(attachments))
		statuses[name] = status
		progress = append(progress, PhaseProgress{
			Name:            name,
			Description:     phase.Description,
			Status:          status,
			AttachmentCount: len(attachments),
			Attachments:     attachments,
		})
	}

	return &ProjectProgress{
		CurrentPhase: ComputeCurrentPhase(statuses),
		Phases:       progress,
	}, nil
}
