package services

import (
	"testing"

	"github.com/projhub/backend/internal/models"
)

func newArchivalService(t *testing.T) *ArchivalService {
	t.Helper()
	db := newTestDB(t)
	return NewArchivalService(db, NewNotificationService(db, LogChannel{}))
}

func TestRequestArchival_TeacherMustAdvise(t *testing.T) {
	svc := newArchivalService(t)
	creator := seedUser(t, svc.db, models.RoleTeacher)
	outsider := seedUser(t, svc.db, models.RoleTeacher)
	project := seedProject(t, svc.db, creator, models.ProjectPublished)
	input := &ArchivalRequestInput{Justification: "Projeto concluído."}

	_, err := svc.RequestArchival(project.UUID, input, Actor{ID: outsider.ID, Role: models.RoleTeacher})
	if appErr := asAppError(t, err); appErr.HTTPStatus != 403 {
		t.Errorf("a teacher who does not advise the project must be forbidden, got status %d", appErr.HTTPStatus)
	}

	request, err := svc.RequestArchival(project.UUID, input, Actor{ID: creator.ID, Role: models.RoleTeacher})
	if err != nil {
		t.Fatalf("active advisor request: %v", err)
	}
	if request.Status != models.RequestPending {
		t.Errorf("new request should be pending, got %q", request.Status)
	}
	if request.AdvisorID != creator.ID {
		t.Errorf("request should be addressed to the active advisor, got %d", request.AdvisorID)
	}
}

func TestRequestArchival_StudentMustBeAuthor(t *testing.T) {
	svc := newArchivalService(t)
	creator := seedUser(t, svc.db, models.RoleTeacher)
	outsider := seedUser(t, svc.db, models.RoleStudent)
	project := seedProject(t, svc.db, creator, models.ProjectPublished)

	_, err := svc.RequestArchival(project.UUID, &ArchivalRequestInput{Justification: "x"},
		Actor{ID: outsider.ID, Role: models.RoleStudent})
	if appErr := asAppError(t, err); appErr.HTTPStatus != 403 {
		t.Errorf("a student outside the team must be forbidden, got status %d", appErr.HTTPStatus)
	}
}
