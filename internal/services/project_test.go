package services

import (
	"errors"
	"net/http"
	"testing"

	"github.com/projhub/backend/internal/models"
)

func TestCanEditProject(t *testing.T) {
	authors := []uint{1, 2}
	advisors := []uint{10}

	tests := []struct {
		name     string
		role     string
		userID   uint
		expected bool
	}{
		{"admin always", models.RoleAdmin, 99, true},
		{"student author", models.RoleStudent, 1, true},
		{"student non-author", models.RoleStudent, 3, false},
		{"student who is advisor id", models.RoleStudent, 10, false},
		{"teacher active advisor", models.RoleTeacher, 10, true},
		{"teacher non-advisor", models.RoleTeacher, 11, false},
		{"teacher who is author id", models.RoleTeacher, 1, false},
		{"unknown role", "guest", 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanEditProject(tt.role, tt.userID, authors, advisors)
			if got != tt.expected {
				t.Errorf("CanEditProject(%q, %d) = %v, expected %v", tt.role, tt.userID, got, tt.expected)
			}
		})
	}
}

func TestCanEditProject_EmptyTeam(t *testing.T) {
	if CanEditProject(models.RoleStudent, 1, nil, nil) {
		t.Error("student should not edit a project with no team")
	}
	if !CanEditProject(models.RoleAdmin, 1, nil, nil) {
		t.Error("admin should edit a project with no team")
	}
}

func TestValidatePublish(t *testing.T) {
	tests := []struct {
		name      string
		role      string
		leaderSet bool
		ideation  string
		wantErr   bool
	}{
		{"ready", models.RoleStudent, true, models.PhaseDone, false},
		{"no leader", models.RoleStudent, false, models.PhaseDone, true},
		{"admin without leader", models.RoleAdmin, false, models.PhaseDone, false},
		{"ideation pending", models.RoleStudent, true, models.PhasePending, true},
		{"ideation in progress", models.RoleTeacher, true, models.PhaseInProgress, true},
		{"admin cannot skip ideation", models.RoleAdmin, true, models.PhasePending, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePublish(tt.role, tt.leaderSet, tt.ideation)
			if (err != nil) != tt.wantErr {
				t.Errorf("validatePublish(%q, %v, %q) error = %v, wantErr %v",
					tt.role, tt.leaderSet, tt.ideation, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePublish_ReportsUnprocessable(t *testing.T) {
	err := validatePublish(models.RoleStudent, true, models.PhasePending)
	if err == nil {
		t.Fatal("expected error for pending ideation")
	}
	if err.HTTPStatus != http.StatusUnprocessableEntity {
		t.Errorf("HTTPStatus = %d, expected %d", err.HTTPStatus, http.StatusUnprocessableEntity)
	}
}

func TestIsDuplicateKey(t *testing.T) {
	if !isDuplicateKey(errors.New("UNIQUE constraint failed: projects.title_key")) {
		t.Error("sqlite unique violation should be detected")
	}
	if !isDuplicateKey(errors.New("Error 1062: Duplicate entry 'x' for key 'title_key'")) {
		t.Error("mysql duplicate entry should be detected")
	}
	if isDuplicateKey(errors.New("connection refused")) {
		t.Error("unrelated error should not be detected as duplicate")
	}
}

func TestContainsID(t *testing.T) {
	ids := []uint{3, 7, 12}
	if !containsID(ids, 7) {
		t.Error("expected 7 to be found")
	}
	if containsID(ids, 8) {
		t.Error("expected 8 to be absent")
	}
	if containsID(nil, 1) {
		t.Error("nil slice contains nothing")
	}
}
