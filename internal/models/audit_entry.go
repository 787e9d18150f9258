package models

import "time"

// Audit action labels. These are the externally observed vocabulary of
// the system and are kept verbatim.
const (
	ActionCriacao                 = "CRIACAO"
	ActionAtualizacao             = "ATUALIZACAO"
	ActionAtualizacaoEquipe       = "ATUALIZACAO_EQUIPE"
	ActionAtualizacaoFases        = "ATUALIZACAO_FASES"
	ActionConfiguracao            = "CONFIGURACAO"
	ActionPublicacao              = "PUBLICACAO"
	ActionSolicitacaoArquivamento = "SOLICITACAO_ARQUIVAMENTO"
	ActionAprovacaoArquivamento   = "APROVACAO_ARQUIVAMENTO"
	ActionNegacaoArquivamento     = "NEGACAO_ARQUIVAMENTO"
	ActionArquivamento            = "ARQUIVAMENTO"
	ActionReativacao              = "REATIVACAO"
	ActionExclusao                = "EXCLUSAO"
)

// AuditEntry is an immutable before/after record of one mutating
// operation on a project. Rows are written inside the same transaction
// as the mutation and are never updated or deleted.
type AuditEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"index;not null" json:"project_id"`
	ActorID   uint      `gorm:"not null" json:"actor_id"`
	Actor     *User     `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
	Action    string    `gorm:"size:50;index;not null" json:"action"`
	Before    string    `gorm:"type:text" json:"before"` // JSON snapshot
	After     string    `gorm:"type:text" json:"after"`  // JSON snapshot
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (AuditEntry) TableName() string { return "audit_entries" }
