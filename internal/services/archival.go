package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/projhub/backend/internal/models"
	"github.com/projhub/backend/pkg/response"
	"gorm.io/gorm"
)

// ArchivalService implements the archival/reactivation workflow:
// student request → advisor/admin decision, direct advisor/admin
// archival, admin-only reactivation and soft deletion.
type ArchivalService struct {
	db       *gorm.DB
	notifier *NotificationService
}

func NewArchivalService(db *gorm.DB, notifier *NotificationService) *ArchivalService {
	return &ArchivalService{db: db, notifier: notifier}
}

type ArchivalRequestInput struct {
	Justification string `json:"justification" binding:"required"`
}

// RequestArchival creates a pending archival request addressed to the
// project's first active advisor and notifies the advisor and all admins.
func (s *ArchivalService) RequestArchival(projectUUID string, req *ArchivalRequestInput, actor Actor) (*models.ArchivalRequest, error) {
	project, appErr := getProjectByUUID(s.db, projectUUID)
	if appErr != nil {
		return nil, appErr
	}
	if project.Status != models.ProjectPublished {
		return nil, response.NewInvalidState(fmt.Sprintf("only published projects can be archived; project is %q", project.Status))
	}
	advisors := activeAdvisorIDs(s.db, project.ID)
	switch actor.Role {
	case models.RoleStudent:
		if !containsID(authorIDs(s.db, project.ID), actor.ID) {
			return nil, response.NewForbidden("only a current author of the project can request its archival")
		}
	case models.RoleTeacher:
		if !containsID(advisors, actor.ID) {
			return nil, response.NewForbidden("only an active advisor of the project can request its archival")
		}
	}

	var pending int64
	s.db.Model(&models.ArchivalRequest{}).
		Where("project_id = ? AND status = ?", project.ID, models.RequestPending).
		Count(&pending)
	if pending > 0 {
		return nil, response.NewConflict("an archival request for this project is already pending")
	}

	if len(advisors) == 0 {
		return nil, response.NewInvalidState("project has no active advisor to address the archival request to")
	}
	advisorID := advisors[0]

	request := models.ArchivalRequest{
		ProjectID:     project.ID,
		RequesterID:   actor.ID,
		AdvisorID:     advisorID,
		Justification: req.Justification,
		Status:        models.RequestPending,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&request).Error; err != nil {
			return err
		}
		return recordAudit(tx, project.ID, actor.ID, models.ActionSolicitacaoArquivamento,
			snapshotProject(project), snapshotProject(project))
	})
	if err != nil {
		return nil, err
	}

	recipients := append([]uint{advisorID}, adminIDs(s.db)...)
	s.notifier.Dispatch([]NotifyTask{{
		UserIDs:   recipients,
		ProjectID: &project.ID,
		Type:      models.NotifSolicitacaoArquivar,
		Message:   fmt.Sprintf("Arquivamento do projeto %q foi solicitado: %s", project.Title, req.Justification),
	}})

	return &request, nil
}

type DecideRequestInput struct {
	Reason string `json:"reason"`
}

// ApproveRequest approves a pending archival request and archives the
// project in the same transaction. Restricted to the addressed advisor
// or an admin; resolved requests cannot be re-decided.
func (s *ArchivalService) ApproveRequest(requestID uint, req *DecideRequestInput, actor Actor) (*models.ArchivalRequest, error) {
	return s.decideRequest(requestID, req, actor, true)
}

// DenyRequest denies a pending archival request.
func (s *ArchivalService) DenyRequest(requestID uint, req *DecideRequestInput, actor Actor) (*models.ArchivalRequest, error) {
	return s.decideRequest(requestID, req, actor, false)
}

func (s *ArchivalService) decideRequest(requestID uint, req *DecideRequestInput, actor Actor, approve bool) (*models.ArchivalRequest, error) {
	var request models.ArchivalRequest
	if err := s.db.First(&request, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("archival request not found")
		}
		return nil, err
	}
	if request.Status != models.RequestPending {
		return nil, response.NewInvalidState(fmt.Sprintf("archival request was already %s and cannot be decided again", request.Status))
	}
	if actor.Role != models.RoleAdmin && actor.ID != request.AdvisorID {
		return nil, response.NewForbidden("only the addressed advisor or an admin can decide this request")
	}

	var project models.Project
	if err := s.db.First(&project, request.ProjectID).Error; err != nil {
		return nil, err
	}

	before := snapshotProject(&project)
	now := time.Now()
	newStatus := models.RequestDenied
	auditAction := models.ActionNegacaoArquivamento
	if approve {
		newStatus = models.RequestApproved
		auditAction = models.ActionAprovacaoArquivamento
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":     newStatus,
			"decided_by": actor.ID,
			"decided_at": &now,
		}
		if err := tx.Model(&request).Updates(updates).Error; err != nil {
			return err
		}
		if err := recordAudit(tx, project.ID, actor.ID, auditAction, before, before); err != nil {
			return err
		}

		if !approve {
			return nil
		}
		archive := map[string]interface{}{
			"status":   models.ProjectArchived,
			"archived": true,
		}
		if err := tx.Model(&project).Updates(archive).Error; err != nil {
			return err
		}
		return recordAudit(tx, project.ID, actor.ID, models.ActionArquivamento, before, snapshotProject(&project))
	})
	if err != nil {
		return nil, err
	}

	notifType := models.NotifArquivamentoNegado
	message := fmt.Sprintf("A solicitação de arquivamento do projeto %q foi negada.", project.Title)
	if approve {
		notifType = models.NotifArquivamentoAprovado
		message = fmt.Sprintf("A solicitação de arquivamento do projeto %q foi aprovada.", project.Title)
	}
	if req.Reason != "" {
		message += " Motivo: " + req.Reason
	}

	recipients := append([]uint{request.RequesterID}, teamUserIDs(s.db, project.ID)...)
	s.notifier.Dispatch([]NotifyTask{{
		UserIDs:   recipients,
		ProjectID: &project.ID,
		Type:      notifType,
		Message:   message,
	}})

	return &request, nil
}

// Archive archives a published project directly, skipping the request
// workflow. Restricted to an active advisor of the project or an admin.
func (s *ArchivalService) Archive(projectUUID string, actor Actor) (*models.Project, error) {
	project, appErr := getProjectByUUID(s.db, projectUUID)
	if appErr != nil {
		return nil, appErr
	}
	if project.Status != models.ProjectPublished {
		return nil, response.NewInvalidState(fmt.Sprintf("only published projects can be archived; project is %q", project.Status))
	}
	isAdvisor := containsID(activeAdvisorIDs(s.db, project.ID), actor.ID)
	if actor.Role != models.RoleAdmin && !(actor.Role == models.RoleTeacher && isAdvisor) {
		return nil, response.NewForbidden("only an advisor of the project or an admin can archive it directly")
	}

	before := snapshotProject(project)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":   models.ProjectArchived,
			"archived": true,
		}
		if err := tx.Model(project).Updates(updates).Error; err != nil {
			return err
		}
		return recordAudit(tx, project.ID, actor.ID, models.ActionArquivamento, before, snapshotProject(project))
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Dispatch([]NotifyTask{{
		UserIDs:   teamUserIDs(s.db, project.ID),
		ProjectID: &project.ID,
		Type:      models.NotifProjetoArquivado,
		Message:   fmt.Sprintf("Projeto %q foi arquivado.", project.Title),
	}})

	return project, nil
}

// Reactivate restores an archived or deleted project to published.
// Admin-only; this is the single way to clear the archived flag.
func (s *ArchivalService) Reactivate(projectUUID string, actor Actor) (*models.Project, error) {
	if actor.Role != models.RoleAdmin {
		return nil, response.NewForbidden("only an admin can reactivate a project")
	}

	project, appErr := getProjectByUUID(s.db, projectUUID)
	if appErr != nil {
		return nil, appErr
	}
	if project.Status != models.ProjectArchived && project.Status != models.ProjectDeleted {
		return nil, response.NewInvalidState(fmt.Sprintf("only archived or deleted projects can be reactivated; project is %q", project.Status))
	}

	before := snapshotProject(project)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":   models.ProjectPublished,
			"archived": false,
		}
		if err := tx.Model(project).Updates(updates).Error; err != nil {
			return err
		}
		return recordAudit(tx, project.ID, actor.ID, models.ActionReativacao, before, snapshotProject(project))
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Dispatch([]NotifyTask{{
		UserIDs:   teamUserIDs(s.db, project.ID),
		ProjectID: &project.ID,
		Type:      models.NotifProjetoReativado,
		Message:   fmt.Sprintf("Projeto %q foi reativado.", project.Title),
	}})

	return project, nil
}

// RequestReactivation lets a team member ask the admins to restore an
// archived project. No request row is kept; admins act directly.
func (s *ArchivalService) RequestReactivation(projectUUID string, req *ArchivalRequestInput, actor Actor) error {
	project, appErr := getProjectByUUID(s.db, projectUUID)
	if appErr != nil {
		return appErr
	}
	if project.Status != models.ProjectArchived && project.Status != models.ProjectDeleted {
		return response.NewInvalidState(fmt.Sprintf("only archived or deleted projects can be reactivated; project is %q", project.Status))
	}
	if !containsID(teamUserIDs(s.db, project.ID), actor.ID) && actor.Role != models.RoleAdmin {
		return response.NewForbidden("only a team member can request reactivation")
	}

	s.notifier.Dispatch([]NotifyTask{{
		UserIDs:   adminIDs(s.db),
		ProjectID: &project.ID,
		Type:      models.NotifSolicitacaoReativacao,
		Message:   fmt.Sprintf("Reativação do projeto %q foi solicitada: %s", project.Title, req.Justification),
	}})
	return nil
}

// Delete soft-deletes an archived project. Admin-only and terminal;
// only Reactivate can bring the project back.
func (s *ArchivalService) Delete(projectUUID string, actor Actor) error {
	if actor.Role != models.RoleAdmin {
		return response.NewForbidden("only an admin can delete a project")
	}

	project, appErr := getProjectByUUID(s.db, projectUUID)
	if appErr != nil {
		return appErr
	}
	if project.Status != models.ProjectArchived {
		return response.NewInvalidState(fmt.Sprintf("only archived projects can be deleted; project is %q", project.Status))
	}

	before := snapshotProject(project)

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(project).Update("status", models.ProjectDeleted).Error; err != nil {
			return err
		}
		return recordAudit(tx, project.ID, actor.ID, models.ActionExclusao, before, snapshotProject(project))
	})
}

// ListRequests returns archival requests, optionally filtered by status.
// Advisors see requests addressed to them; admins see all.
func (s *ArchivalService) ListRequests(actor Actor, status string) ([]models.ArchivalRequest, error) {
	query := s.db.Model(&models.ArchivalRequest{}).
		Preload("Project").Preload("Requester").Preload("Advisor")

	switch actor.Role {
	case models.RoleAdmin:
		// all requests
	case models.RoleTeacher:
		query = query.Where("advisor_id = ?", actor.ID)
	default:
		query = query.Where("requester_id = ?", actor.ID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var requests []models.ArchivalRequest
	err := query.Order("created_at DESC").Find(&requests).Error
	return requests, err
}
