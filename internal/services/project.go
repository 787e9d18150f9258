package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/projhub/backend/internal/models"
	"github.com/projhub/backend/pkg/response"
	"gorm.io/gorm"
)

// Actor is the authenticated principal performing an operation. Identity
// is established upstream; the services trust it.
type Actor struct {
	ID   uint
	Role string
	Name string
}

// ProjectService orchestrates the creation wizard, updates and queries.
type ProjectService struct {
	db       *gorm.DB
	notifier *NotificationService
}

func NewProjectService(db *gorm.DB, notifier *NotificationService) *ProjectService {
	return &ProjectService{db: db, notifier: notifier}
}

// --- shared helpers (used by the team, phase and archival services too) ---

func getProjectByUUID(db *gorm.DB, projectUUID string) (*models.Project, *response.AppError) {
	var project models.Project
	if err := db.Where("uuid = ?", projectUUID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found")
		}
		return nil, response.NewServerError(err.Error())
	}
	return &project, nil
}

// getVisibleProject hides soft-deleted projects from everyone but admins.
// Read paths resolve through this; mutating paths keep getProjectByUUID
// because each gates on status itself.
func getVisibleProject(db *gorm.DB, projectUUID string, actor Actor) (*models.Project, *response.AppError) {
	project, appErr := getProjectByUUID(db, projectUUID)
	if appErr != nil {
		return nil, appErr
	}
	if project.Status == models.ProjectDeleted && actor.Role != models.RoleAdmin {
		return nil, response.NewNotFound("project not found")
	}
	return project, nil
}

func authorIDs(db *gorm.DB, projectID uint) []uint {
	var ids []uint
	db.Model(&models.TeamMembership{}).
		Where("project_id = ? AND role IN ? AND active = ?", projectID, []string{models.MemberLeader, models.MemberAuthor}, true).
		Pluck("user_id", &ids)
	return ids
}

func activeAdvisorIDs(db *gorm.DB, projectID uint) []uint {
	var ids []uint
	db.Model(&models.TeamMembership{}).
		Where("project_id = ? AND role = ? AND active = ?", projectID, models.MemberAdvisor, true).
		Pluck("user_id", &ids)
	return ids
}

func adminIDs(db *gorm.DB) []uint {
	var ids []uint
	db.Model(&models.User{}).
		Where("role = ? AND is_active = ?", models.RoleAdmin, true).
		Pluck("id", &ids)
	return ids
}

func teamUserIDs(db *gorm.DB, projectID uint) []uint {
	authors := authorIDs(db, projectID)
	advisors := activeAdvisorIDs(db, projectID)
	return append(authors, advisors...)
}

// CanEditProject is the permission predicate applied to every mutating
// operation. Roles are a closed set; the dispatch is an explicit switch.
// Admins always may, students iff they are a current author, teachers iff
// they are a current active advisor.
func CanEditProject(role string, userID uint, authors, activeAdvisors []uint) bool {
	switch role {
	case models.RoleAdmin:
		return true
	case models.RoleStudent:
		return containsID(authors, userID)
	case models.RoleTeacher:
		return containsID(activeAdvisors, userID)
	default:
		return false
	}
}

func containsID(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func ensureCanEdit(db *gorm.DB, actor Actor, project *models.Project) *response.AppError {
	if !CanEditProject(actor.Role, actor.ID, authorIDs(db, project.ID), activeAdvisorIDs(db, project.ID)) {
		return response.NewForbidden("you do not have permission to modify this project")
	}
	return nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}

// --- wizard step 1: create draft ---

type CreateProjectRequest struct {
	Title       string `json:"title" binding:"required,min=10,max=200"`
	Description string `json:"description"`
	Department  string `json:"department" binding:"required"`
}

// CreateDraft creates a draft project with its four phase rows and the
// creator's membership. Students become leader+author; teachers and
// admins become advisors.
func (s *ProjectService) CreateDraft(req *CreateProjectRequest, actor Actor) (*models.Project, error) {
	titleKey := strings.ToLower(strings.TrimSpace(req.Title))

	var count int64
	s.db.Model(&models.Project{}).Where("title_key = ?", titleKey).Count(&count)
	if count > 0 {
		return nil, response.NewConflict(fmt.Sprintf("a project titled %q already exists", req.Title))
	}

	project := models.Project{
		UUID:         uuid.NewString(),
		Title:        strings.TrimSpace(req.Title),
		TitleKey:     titleKey,
		Description:  req.Description,
		Department:   req.Department,
		Status:       models.ProjectDraft,
		CurrentPhase: models.PhaseIdeation,
		CreatedBy:    actor.ID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			if isDuplicateKey(err) {
				// Lost the race between pre-check and insert; the unique
				// index on title_key is the authority.
				return response.NewConflict(fmt.Sprintf("a project titled %q already exists", req.Title))
			}
			return err
		}

		for _, name := range models.PhaseOrder {
			phase := models.Phase{ProjectID: project.ID, Name: name, Status: models.PhasePending}
			if err := tx.Create(&phase).Error; err != nil {
				return err
			}
		}

		membership := models.TeamMembership{ProjectID: project.ID, UserID: actor.ID, Active: true}
		switch actor.Role {
		case models.RoleStudent:
			membership.Role = models.MemberLeader
			project.LeaderID = &actor.ID
			if err := tx.Model(&project).Update("leader_id", actor.ID).Error; err != nil {
				return err
			}
		default: // teacher or admin created it
			membership.Role = models.MemberAdvisor
		}
		if err := tx.Create(&membership).Error; err != nil {
			return err
		}

		return recordAudit(tx, project.ID, actor.ID, models.ActionCriacao, "", snapshotProject(&project))
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Dispatch([]NotifyTask{{
		UserIDs:   []uint{actor.ID},
		ProjectID: &project.ID,
		Type:      models.NotifProjetoCriado,
		Message:   fmt.Sprintf("Projeto %q criado com sucesso.", project.Title),
	}})

	return &project, nil
}

// --- wizard step 2: academic metadata ---

type UpdateMetadataRequest struct {
	Course      string `json:"course"`
	Class       string `json:"class"`
	Track       string `json:"track"`
	IsResearch  *bool  `json:"is_research"`
	IsExtension *bool  `json:"is_extension"`
}

// UpdateMetadata updates the descriptive academic fields. Team members
// are notified only when at least one field actually changed.
func (s *ProjectService) UpdateMetadata(projectUUID string, req *UpdateMetadataRequest, actor Actor) (*models.Project, error) {
	project, appErr := getProjectByUUID(s.db, projectUUID)
	if appErr != nil {
		return nil, appErr
	}
	if appErr := ensureCanEdit(s.db, actor, project); appErr != nil {
		return nil, appErr
	}

	isResearch := project.IsResearch
	if req.IsResearch != nil {
		isResearch = *req.IsResearch
	}
	isExtension := project.IsExtension
	if req.IsExtension != nil {
		isExtension = *req.IsExtension
	}

	diff := FormatDiff([]FieldChange{
		{Label: "Curso", Old: project.Course, New: req.Course},
		{Label: "Turma", Old: project.Class, New: req.Class},
		{Label: "Linha", Old: project.Track, New: req.Track},
		{Label: "Pesquisa", Old: project.IsResearch, New: isResearch},
		{Label: "Extensão", Old: project.IsExtension, New: isExtension},
	})
	if diff == "" {
		return project, nil // nothing changed: no audit, no notification
	}

	before := snapshotProject(project)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"course":       req.Course,
			"class":        req.Class,
			"track":        req.Track,
			"is_research":  isResearch,
			"is_extension": isExtension,
		}
		if err := tx.Model(project).Updates(updates).Error; err != nil {
			return err
		}
		return recordAudit(tx, project.ID, actor.ID, models.ActionAtualizacao, before, snapshotProject(project))
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Dispatch([]NotifyTask{{
		UserIDs:   teamUserIDs(s.db, project.ID),
		ProjectID: &project.ID,
		Type:      models.NotifProjetoAtualizado,
		Message:   fmt.Sprintf("Projeto %q atualizado:\n%s", project.Title, diff),
	}})

	return project, nil
}

// --- wizard step 5: publish ---

type PublishRequest struct {
	RepoURL            string `json:"repo_url"`
	CodeVisible        *bool  `json:"code_visible"`
	AttachmentsVisible *bool  `json:"attachments_visible"`
}

// validatePublish checks the publish preconditions. Pure; each violation
// names the precondition that failed.
func validatePublish(actorRole string, leaderSet bool, ideationStatus string) *response.AppError {
	if !leaderSet && actorRole != models.RoleAdmin {
		return response.NewInvalidState("project has no leader: assign a team leader before publishing")
	}
	if ideationStatus != models.PhaseDone {
		return response.NewInvalidState("ideation phase is not complete: it needs a description and at least one attachment")
	}
	return nil
}

// Publish validates the state accumulated by the previous steps, stores
// the repository/visibility configuration and publishes the project.
func (s *ProjectService) Publish(projectUUID string, req *PublishRequest, actor Actor) (*models.Project, error) {
	project, appErr := getProjectByUUID(s.db, projectUUID)
	if appErr != nil {
		return nil, appErr
	}
	if appErr := ensureCanEdit(s.db, actor, project); appErr != nil {
		return nil, appErr
	}
	if project.Status == models.ProjectPublished {
		return nil, response.NewInvalidState("project is already published")
	}
	if project.Status != models.ProjectDraft {
		return nil, response.NewInvalidState(fmt.Sprintf("project in status %q cannot be published", project.Status))
	}

	// Recompute ideation from its inputs rather than trusting the stored
	// status as a gate.
	var ideation models.Phase
	if err := s.db.Where("project_id = ? AND name = ?", project.ID, models.PhaseIdeation).First(&ideation).Error; err != nil {
		return nil, response.NewServerError(err.Error())
	}
	var attachmentCount int64
	s.db.Model(&models.Attachment{}).Where("phase_id = ?", ideation.ID).Count(&attachmentCount)
	ideationStatus := ComputePhaseStatus(ideation.Description, int(attachmentCount))

	if appErr := validatePublish(actor.Role, project.LeaderID != nil, ideationStatus); appErr != nil {
		return nil, appErr
	}

	codeVisible := project.CodeVisible
	if req.CodeVisible != nil {
		codeVisible = *req.CodeVisible
	}
	attachmentsVisible := project.AttachmentsVisible
	if req.AttachmentsVisible != nil {
		attachmentsVisible = *req.AttachmentsVisible
	}

	before := snapshotProject(project)
	now := time.Now()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		config := map[string]interface{}{
			"repo_url":            req.RepoURL,
			"code_visible":        codeVisible,
			"attachments_visible": attachmentsVisible,
		}
		if err := tx.Model(project).Updates(config).Error; err != nil {
			return err
		}
		afterConfig := snapshotProject(project)
		if err := recordAudit(tx, project.ID, actor.ID, models.ActionConfiguracao, before, afterConfig); err != nil {
			return err
		}

		publish := map[string]interface{}{
			"status":       models.ProjectPublished,
			"published_at": &now,
		}
		if err := tx.Model(project).Updates(publish).Error; err != nil {
			return err
		}
		return recordAudit(tx, project.ID, actor.ID, models.ActionPublicacao, afterConfig, snapshotProject(project))
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Dispatch([]NotifyTask{{
		UserIDs:   teamUserIDs(s.db, project.ID),
		ProjectID: &project.ID,
		Type:      models.NotifProjetoPublicado,
		Message:   fmt.Sprintf("Projeto %q foi publicado.", project.Title),
	}})

	return project, nil
}

// --- general update ---

type UpdateProjectRequest struct {
	Title              string `json:"title" binding:"omitempty,min=10,max=200"`
	Description        string `json:"description"`
	Department         string `json:"department"`
	CodeVisible        *bool  `json:"code_visible"`
	AttachmentsVisible *bool  `json:"attachments_visible"`
}

// Update applies a general edit to title, description and visibility.
func (s *ProjectService) Update(projectUUID string, req *UpdateProjectRequest, actor Actor) (*models.Project, error) {
	project, appErr := getProjectByUUID(s.db, projectUUID)
	if appErr != nil {
		return nil, appErr
	}
	if appErr := ensureCanEdit(s.db, actor, project); appErr != nil {
		return nil, appErr
	}

	title := project.Title
	if req.Title != "" {
		title = strings.TrimSpace(req.Title)
	}
	description := project.Description
	if req.Description != "" {
		description = req.Description
	}
	department := project.Department
	if req.Department != "" {
		department = req.Department
	}
	codeVisible := project.CodeVisible
	if req.CodeVisible != nil {
		codeVisible = *req.CodeVisible
	}
	attachmentsVisible := project.AttachmentsVisible
	if req.AttachmentsVisible != nil {
		attachmentsVisible = *req.AttachmentsVisible
	}

	diff := FormatDiff([]FieldChange{
		{Label: "Título", Old: project.Title, New: title},
		{Label: "Descrição", Old: project.Description, New: description},
		{Label: "Departamento", Old: project.Department, New: department},
		{Label: "Código visível", Old: project.CodeVisible, New: codeVisible},
		{Label: "Anexos visíveis", Old: project.AttachmentsVisible, New: attachmentsVisible},
	})
	if diff == "" {
		return project, nil
	}

	titleKey := strings.ToLower(title)
	if titleKey != project.TitleKey {
		var count int64
		s.db.Model(&models.Project{}).Where("title_key = ? AND id != ?", titleKey, project.ID).Count(&count)
		if count > 0 {
			return nil, response.NewConflict(fmt.Sprintf("a project titled %q already exists", title))
		}
	}

	before := snapshotProject(project)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"title":               title,
			"title_key":           titleKey,
			"description":         description,
			"department":          department,
			"code_visible":        codeVisible,
			"attachments_visible": attachmentsVisible,
		}
		if err := tx.Model(project).Updates(updates).Error; err != nil {
			if isDuplicateKey(err) {
				return response.NewConflict(fmt.Sprintf("a project titled %q already exists", title))
			}
			return err
		}
		return recordAudit(tx, project.ID, actor.ID, models.ActionAtualizacao, before, snapshotProject(project))
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Dispatch([]NotifyTask{{
		UserIDs:   teamUserIDs(s.db, project.ID),
		ProjectID: &project.ID,
		Type:      models.NotifProjetoAtualizado,
		Message:   fmt.Sprintf("Projeto %q atualizado:\n%s", project.Title, diff),
	}})

	return project, nil
}

// --- queries ---

type ProjectListRequest struct {
	Page       int    `form:"page" binding:"min=0"`
	PageSize   int    `form:"page_size" binding:"min=0,max=100"`
	Title      string `form:"title"`
	Status     string `form:"status"`
	Department string `form:"department"`
}

type ProjectListResponse struct {
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Items    []models.Project `json:"items"`
}

// List returns paginated projects. Deleted projects are visible to
// admins only.
func (s *ProjectService) List(req *ProjectListRequest, actor Actor) (*ProjectListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 10
	}

	query := s.db.Model(&models.Project{})
	if actor.Role != models.RoleAdmin {
		query = query.Where("status != ?", models.ProjectDeleted)
	}
	if req.Title != "" {
		query = query.Where("title LIKE ?", "%"+req.Title+"%")
	}
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.Department != "" {
		query = query.Where("department = ?", req.Department)
	}

	var total int64
	query.Count(&total)

	var projects []models.Project
	offset := (req.Page - 1) * req.PageSize
	if err := query.Preload("Leader").Order("created_at DESC").
		Offset(offset).Limit(req.PageSize).Find(&projects).Error; err != nil {
		return nil, err
	}

	return &ProjectListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    projects,
	}, nil
}

// GetByUUID returns a project with its team memberships preloaded.
func (s *ProjectService) GetByUUID(projectUUID string, actor Actor) (*models.Project, error) {
	project, appErr := getVisibleProject(s.db, projectUUID, actor)
	if appErr != nil {
		return nil, appErr
	}
	s.db.Preload("Leader").Preload("Creator").First(project, project.ID)
	return project, nil
}
