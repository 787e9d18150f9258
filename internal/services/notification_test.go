package services

import (
	"testing"

	"github.com/projhub/backend/internal/models"
)

func TestSubjectForType_KnownTypes(t *testing.T) {
	tests := []struct {
		typ     string
		subject string
	}{
		{models.NotifProjetoCriado, "Projeto criado"},
		{models.NotifProjetoPublicado, "Projeto publicado"},
		{models.NotifVinculoAdicionado, "Você foi adicionado a um projeto"},
		{models.NotifVinculoRemovido, "Você foi removido de um projeto"},
		{models.NotifSolicitacaoArquivar, "Solicitação de arquivamento"},
		{models.NotifProjetoReativado, "Projeto reativado"},
	}

	for _, tt := range tests {
		if got := SubjectForType(tt.typ); got != tt.subject {
			t.Errorf("SubjectForType(%q) = %q, expected %q", tt.typ, got, tt.subject)
		}
	}
}

func TestSubjectForType_UnknownType(t *testing.T) {
	if got := SubjectForType("SOMETHING_ELSE"); got != "Notificação" {
		t.Errorf("unknown type should fall back to the generic subject, got %q", got)
	}
}

func TestSubjectForType_EveryTypeHasSubject(t *testing.T) {
	all := []string{
		models.NotifProjetoCriado,
		models.NotifProjetoAtualizado,
		models.NotifProjetoPublicado,
		models.NotifVinculoAdicionado,
		models.NotifVinculoRemovido,
		models.NotifSolicitacaoArquivar,
		models.NotifArquivamentoAprovado,
		models.NotifArquivamentoNegado,
		models.NotifProjetoArquivado,
		models.NotifProjetoReativado,
		models.NotifSolicitacaoReativacao,
	}
	for _, typ := range all {
		if SubjectForType(typ) == "Notificação" {
			t.Errorf("type %q is missing a dedicated subject line", typ)
		}
	}
}

func TestLogChannel_NeverFails(t *testing.T) {
	ch := LogChannel{}
	if err := ch.Notify([]uint{1, 2}, models.NotifProjetoCriado, "t", "m", ""); err != nil {
		t.Errorf("LogChannel.Notify should never fail, got %v", err)
	}
	if err := ch.Notify(nil, "", "", "", ""); err != nil {
		t.Errorf("LogChannel.Notify with empty input should not fail, got %v", err)
	}
}
