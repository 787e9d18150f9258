package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/projhub/backend/internal/config"
	"github.com/projhub/backend/internal/models"
	"github.com/projhub/backend/pkg/logger"
	"github.com/projhub/backend/pkg/response"
	"gorm.io/gorm"
)

// NotifyChannel is the external delivery contract. Implementations must
// not let a delivery failure surface into the caller; the service logs
// and swallows returned errors.
type NotifyChannel interface {
	Notify(userIDs []uint, typ, title, message, link string) error
}

// subjects maps a notification type to its human subject line.
var subjects = map[string]string{
	models.NotifProjetoCriado:         "Projeto criado",
	models.NotifProjetoAtualizado:     "Projeto atualizado",
	models.NotifProjetoPublicado:      "Projeto publicado",
	models.NotifVinculoAdicionado:     "Você foi adicionado a um projeto",
	models.NotifVinculoRemovido:       "Você foi removido de um projeto",
	models.NotifSolicitacaoArquivar:   "Solicitação de arquivamento",
	models.NotifArquivamentoAprovado:  "Arquivamento aprovado",
	models.NotifArquivamentoNegado:    "Arquivamento negado",
	models.NotifProjetoArquivado:      "Projeto arquivado",
	models.NotifProjetoReativado:      "Projeto reativado",
	models.NotifSolicitacaoReativacao: "Solicitação de reativação",
}

// SubjectForType returns the subject line for a notification type.
func SubjectForType(typ string) string {
	if s, ok := subjects[typ]; ok {
		return s
	}
	return "Notificação"
}

// NotificationService persists per-recipient notification rows and pushes
// them through the external channel. Dispatch runs strictly after the
// business transaction commits; nothing here can roll it back.
type NotificationService struct {
	db      *gorm.DB
	channel NotifyChannel
}

func NewNotificationService(db *gorm.DB, channel NotifyChannel) *NotificationService {
	return &NotificationService{db: db, channel: channel}
}

// Dispatch fans out the collected intents. Errors are logged and
// swallowed: a notification failure must never become an operation
// failure.
func (s *NotificationService) Dispatch(intents []NotifyTask) {
	queue := GetTaskQueue()
	for i := range intents {
		task := intents[i]
		if len(task.UserIDs) == 0 {
			continue
		}
		if task.Title == "" {
			task.Title = SubjectForType(task.Type)
		}
		if queue != nil {
			if err := queue.Enqueue(&task); err != nil {
				logger.Error().Err(err).Str("type", task.Type).Msg("notification dispatch failed")
			}
			continue
		}
		// No queue configured (tests, tooling): deliver inline.
		if err := s.Process(context.Background(), &task); err != nil {
			logger.Error().Err(err).Str("type", task.Type).Msg("notification delivery failed")
		}
	}
}

// Process delivers one task: persists the inbox rows and notifies the
// external channel. Used as the queue/worker processor.
func (s *NotificationService) Process(ctx context.Context, task *NotifyTask) error {
	rows := make([]models.Notification, 0, len(task.UserIDs))
	for _, uid := range task.UserIDs {
		rows = append(rows, models.Notification{
			UserID:    uid,
			ProjectID: task.ProjectID,
			Type:      task.Type,
			Title:     task.Title,
			Message:   task.Message,
			Link:      task.Link,
		})
	}
	if len(rows) > 0 {
		if err := s.db.WithContext(ctx).Create(&rows).Error; err != nil {
			logger.Error().Err(err).Str("type", task.Type).Msg("failed to persist notifications")
		}
	}

	if s.channel != nil {
		if err := s.channel.Notify(task.UserIDs, task.Type, task.Title, task.Message, task.Link); err != nil {
			logger.Warn().Err(err).Str("type", task.Type).Msg("channel delivery failed")
		}
	}
	return nil
}

// ListForUser returns a user's notifications, newest first.
func (s *NotificationService) ListForUser(userID uint, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var rows []models.Notification
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// MarkRead marks one of the user's notifications as read.
func (s *NotificationService) MarkRead(userID, notificationID uint) error {
	result := s.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return response.NewNotFound("notification not found")
	}
	return nil
}

// WebhookChannel posts notification payloads to a configured webhook.
type WebhookChannel struct {
	url string
}

func NewWebhookChannel(cfg *config.NotifyConfig) *WebhookChannel {
	return &WebhookChannel{url: cfg.WebhookURL}
}

func (c *WebhookChannel) Notify(userIDs []uint, typ, title, message, link string) error {
	payload := map[string]interface{}{
		"user_ids": userIDs,
		"type":     typ,
		"title":    title,
		"message":  message,
		"link":     link,
	}
	return postJSON(c.url, payload)
}

// LogChannel writes deliveries to the application log. Used when no
// webhook is configured.
type LogChannel struct{}

func (LogChannel) Notify(userIDs []uint, typ, title, message, link string) error {
	logger.Info().
		Uints("user_ids", userIDs).
		Str("type", typ).
		Str("title", title).
		Msg("notification")
	return nil
}

func postJSON(webhookURL string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	resp, err := http.Post(webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
