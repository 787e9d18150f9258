package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/projhub/backend/internal/middleware"
	"github.com/projhub/backend/internal/services"
	"github.com/projhub/backend/pkg/response"
	"gorm.io/gorm"
)

type ArchivalHandler struct {
	archivalService *services.ArchivalService
}

func NewArchivalHandler(db *gorm.DB, notifier *services.NotificationService) *ArchivalHandler {
	return &ArchivalHandler{
		archivalService: services.NewArchivalService(db, notifier),
	}
}

// RequestArchival opens an archival request for a published project
// POST /api/v1/projects/:uuid/archival-requests
func (h *ArchivalHandler) RequestArchival(c *gin.Context) {
	var req services.ArchivalRequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	request, err := h.archivalService.RequestArchival(c.Param("uuid"), &req, middleware.GetActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, request)
}

// ListRequests returns archival requests visible to the caller
// GET /api/v1/archival-requests
func (h *ArchivalHandler) ListRequests(c *gin.Context) {
	requests, err := h.archivalService.ListRequests(middleware.GetActor(c), c.Query("status"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, requests)
}

// Approve approves a pending archival request and archives the project
// POST /api/v1/archival-requests/:id/approve
func (h *ArchivalHandler) Approve(c *gin.Context) {
	h.decide(c, true)
}

// Deny denies a pending archival request
// POST /api/v1/archival-requests/:id/deny
func (h *ArchivalHandler) Deny(c *gin.Context) {
	h.decide(c, false)
}

func (h *ArchivalHandler) decide(c *gin.Context, approve bool) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req services.DecideRequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var request interface{}
	var err error
	if approve {
		request, err = h.archivalService.ApproveRequest(id, &req, middleware.GetActor(c))
	} else {
		request, err = h.archivalService.DenyRequest(id, &req, middleware.GetActor(c))
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, request)
}

// Archive archives a published project directly
// POST /api/v1/projects/:uuid/archive
func (h *ArchivalHandler) Archive(c *gin.Context) {
	project, err := h.archivalService.Archive(c.Param("uuid"), middleware.GetActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, project)
}

// Reactivate restores an archived or deleted project (admin only)
// POST /api/v1/projects/:uuid/reactivate
func (h *ArchivalHandler) Reactivate(c *gin.Context) {
	project, err := h.archivalService.Reactivate(c.Param("uuid"), middleware.GetActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, project)
}

// RequestReactivation asks the admins to restore an archived project
// POST /api/v1/projects/:uuid/reactivation-requests
func (h *ArchivalHandler) RequestReactivation(c *gin.Context) {
	var req services.ArchivalRequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.archivalService.RequestReactivation(c.Param("uuid"), &req, middleware.GetActor(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"requested": true})
}

// Delete soft-deletes an archived project (admin only)
// DELETE /api/v1/projects/:uuid
func (h *ArchivalHandler) Delete(c *gin.Context) {
	if err := h.archivalService.Delete(c.Param("uuid"), middleware.GetActor(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": true})
}
