package handlers

import (
	"fmt"
	"mime/multipart"

	"github.com/gin-gonic/gin"
	"github.com/projhub/backend/internal/middleware"
	"github.com/projhub/backend/internal/models"
	"github.com/projhub/backend/internal/services"
	"github.com/projhub/backend/pkg/response"
	"gorm.io/gorm"
)

type ProjectHandler struct {
	projectService *services.ProjectService
	teamService    *services.TeamService
	phaseService   *services.PhaseContentService
	auditService   *services.AuditService
}

func NewProjectHandler(db *gorm.DB, storage services.FileStorage, notifier *services.NotificationService) *ProjectHandler {
	return &ProjectHandler{
		projectService: services.NewProjectService(db, notifier),
		teamService:    services.NewTeamService(db, notifier),
		phaseService:   services.NewPhaseContentService(db, storage, notifier),
		auditService:   services.NewAuditService(db),
	}
}

// List returns paginated projects
// GET /api/v1/projects
func (h *ProjectHandler) List(c *gin.Context) {
	var req services.ProjectListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.projectService.List(&req, middleware.GetActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, resp)
}

// Get returns a project by UUID
// GET /api/v1/projects/:uuid
func (h *ProjectHandler) Get(c *gin.Context) {
	project, err := h.projectService.GetByUUID(c.Param("uuid"), middleware.GetActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, project)
}

// Create starts the creation wizard with a draft project
// POST /api/v1/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req services.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.projectService.CreateDraft(&req, middleware.GetActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, project)
}

// UpdateMetadata sets the academic metadata (wizard step 2)
// PUT /api/v1/projects/:uuid/metadata
func (h *ProjectHandler) UpdateMetadata(c *gin.Context) {
	var req services.UpdateMetadataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.projectService.UpdateMetadata(c.Param("uuid"), &req, middleware.GetActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, project)
}

// UpdateTeam replaces the project team (wizard step 3)
// PUT /api/v1/projects/:uuid/team
func (h *ProjectHandler) UpdateTeam(c *gin.Context) {
	var req services.UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.teamService.UpdateTeam(c.Param("uuid"), &req, middleware.GetActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, project)
}

// ListTeam returns the project's memberships
// GET /api/v1/projects/:uuid/team
func (h *ProjectHandler) ListTeam(c *gin.Context) {
	members, err := h.teamService.ListTeam(c.Param("uuid"), middleware.GetActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, members)
}

// UpdatePhases submits phase descriptions and attachments (wizard step 4).
// Multipart form: "<phase>_description" values plus "<phase>_<kind>" files,
// e.g. ideation_description, ideation_document, modeling_image.
// PUT /api/v1/projects/:uuid/phases
func (h *ProjectHandler) UpdatePhases(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.BadRequest(c, "multipart form required: "+err.Error())
		return
	}

	req, appErr := buildPhasesRequest(form)
	if appErr != nil {
		response.Error(c, appErr)
		return
	}
	defer closePhaseFiles(req)

	project, err := h.phaseService.UpdatePhases(c.Param("uuid"), req, middleware.GetActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, project)
}

// buildPhasesRequest maps multipart fields onto per-phase inputs.
func buildPhasesRequest(form *multipart.Form) (*services.UpdatePhasesRequest, error) {
	req := &services.UpdatePhasesRequest{Phases: map[string]services.PhaseInput{}}

	for _, phase := range models.PhaseOrder {
		input := services.PhaseInput{}
		touched := false

		if values, ok := form.Value[phase+"_description"]; ok && len(values) > 0 {
			desc := values[0]
			input.Description = &desc
			touched = true
		}

		for _, kind := range models.AttachmentKinds {
			headers, ok := form.File[phase+"_"+kind]
			if !ok || len(headers) == 0 {
				continue
			}
			header := headers[0]
			file, err := header.Open()
			if err != nil {
				closePhaseFiles(req)
				return nil, response.NewValidation(fmt.Sprintf("cannot read uploaded file %q", header.Filename))
			}
			input.Attachments = append(input.Attachments, services.AttachmentUpload{
				Kind: kind,
				Upload: &services.FileUpload{
					FileName:    header.Filename,
					ContentType: header.Header.Get("Content-Type"),
					Size:        header.Size,
					Reader:      file,
				},
			})
			touched = true
		}

		if touched {
			req.Phases[phase] = input
		}
	}

	return req, nil
}

func closePhaseFiles(req *services.UpdatePhasesRequest) {
	for _, input := range req.Phases {
		for _, att := range input.Attachments {
			if closer, ok := att.Upload.Reader.(multipart.File); ok {
				closer.Close()
			}
		}
	}
}

// Publish validates and publishes the project (wizard step 5)
// POST /api/v1/projects/:uuid/publish
func (h *ProjectHandler) Publish(c *gin.Context) {
	var req services.PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.projectService.Publish(c.Param("uuid"), &req, middleware.GetActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, project)
}

// Update applies a general edit to a project
// PUT /api/v1/projects/:uuid
func (h *ProjectHandler) Update(c *gin.Context) {
	var req services.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.projectService.Update(c.Param("uuid"), &req, middleware.GetActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, project)
}

// GetProgress returns per-phase statuses and the overall phase
// GET /api/v1/projects/:uuid/progress
func (h *ProjectHandler) GetProgress(c *gin.Context) {
	progress, err := h.phaseService.GetProgress(c.Param("uuid"), middleware.GetActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, progress)
}

// ListAudit returns the project's audit trail
// GET /api/v1/projects/:uuid/audit
func (h *ProjectHandler) ListAudit(c *gin.Context) {
	var req services.AuditListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.projectService.GetByUUID(c.Param("uuid"), middleware.GetActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	resp, err := h.auditService.ListForProject(project.ID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, resp)
}

// RemoveAttachment deletes a stored attachment
// DELETE /api/v1/attachments/:id
func (h *ProjectHandler) RemoveAttachment(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.phaseService.RemoveAttachment(id, middleware.GetActor(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": true})
}
