package models

import "time"

// Notification types.
const (
	NotifProjetoCriado          = "PROJETO_CRIADO"
	NotifProjetoAtualizado      = "PROJETO_ATUALIZADO"
	NotifProjetoPublicado       = "PROJETO_PUBLICADO"
	NotifVinculoAdicionado      = "VINCULO_ADICIONADO"
	NotifVinculoRemovido        = "VINCULO_REMOVIDO"
	NotifSolicitacaoArquivar    = "SOLICITACAO_ARQUIVAMENTO"
	NotifArquivamentoAprovado   = "ARQUIVAMENTO_APROVADO"
	NotifArquivamentoNegado     = "ARQUIVAMENTO_NEGADO"
	NotifProjetoArquivado       = "PROJETO_ARQUIVADO"
	NotifProjetoReativado       = "PROJETO_REATIVADO"
	NotifSolicitacaoReativacao  = "SOLICITACAO_REATIVACAO"
)

// Notification is a persisted per-recipient fan-out record. Delivery to
// the external channel happens asynchronously after commit; the row is
// the in-app inbox entry.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	ProjectID *uint     `gorm:"index" json:"project_id"`
	Type      string    `gorm:"size:50;index;not null" json:"type"`
	Title     string    `gorm:"size:255" json:"title"`
	Message   string    `gorm:"type:text" json:"message"`
	Link      string    `gorm:"size:500" json:"link"`
	Read      bool      `gorm:"default:false" json:"read"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
