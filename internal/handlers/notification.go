package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/projhub/backend/internal/middleware"
	"github.com/projhub/backend/internal/services"
	"github.com/projhub/backend/pkg/response"
)

type NotificationHandler struct {
	notifier *services.NotificationService
}

func NewNotificationHandler(notifier *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifier: notifier}
}

// List returns the caller's notifications, newest first
// GET /api/v1/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	items, err := h.notifier.ListForUser(middleware.GetUserID(c), limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, items)
}

// MarkRead marks one of the caller's notifications as read
// PUT /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.notifier.MarkRead(middleware.GetUserID(c), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"read": true})
}
