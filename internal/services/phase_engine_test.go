package services

import (
	"testing"

	"github.com/projhub/backend/internal/models"
)

func TestComputePhaseStatus(t *testing.T) {
	tests := []struct {
		name        string
		description string
		attachments int
		expected    string
	}{
		{"empty and no files", "", 0, models.PhasePending},
		{"whitespace only and no files", "   \n\t ", 0, models.PhasePending},
		{"text only", "architecture sketch", 0, models.PhaseInProgress},
		{"files only", "", 1, models.PhaseInProgress},
		{"files only whitespace text", "  ", 3, models.PhaseInProgress},
		{"text and one file", "final model", 1, models.PhaseDone},
		{"text and many files", "final model", 3, models.PhaseDone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputePhaseStatus(tt.description, tt.attachments)
			if got != tt.expected {
				t.Errorf("ComputePhaseStatus(%q, %d) = %q, expected %q",
					tt.description, tt.attachments, got, tt.expected)
			}
		})
	}
}

func statuses(ideation, modeling, prototyping, implementation string) map[string]string {
	return map[string]string{
		models.PhaseIdeation:       ideation,
		models.PhaseModeling:       modeling,
		models.PhasePrototyping:    prototyping,
		models.PhaseImplementation: implementation,
	}
}

func TestComputeCurrentPhase(t *testing.T) {
	p, ip, d := models.PhasePending, models.PhaseInProgress, models.PhaseDone

	tests := []struct {
		name     string
		statuses map[string]string
		expected string
	}{
		{"all pending", statuses(p, p, p, p), models.PhaseIdeation},
		{"ideation in progress", statuses(ip, p, p, p), models.PhaseIdeation},
		{"ideation done others pending", statuses(d, p, p, p), models.PhaseIdeation},
		{"modeling started after ideation done", statuses(d, ip, p, p), models.PhaseModeling},
		{"modeling done", statuses(d, d, p, p), models.PhaseModeling},
		{"prototyping started", statuses(d, d, ip, p), models.PhasePrototyping},
		{"implementation started", statuses(d, d, d, ip), models.PhaseImplementation},
		{"everything done", statuses(d, d, d, d), models.PhaseImplementation},
		{"later work without earlier phases does not count", statuses(p, d, d, d), models.PhaseIdeation},
		{"gap in the middle falls back", statuses(d, p, ip, d), models.PhaseIdeation},
		{"prototyping in progress blocks implementation", statuses(d, d, ip, ip), models.PhasePrototyping},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeCurrentPhase(tt.statuses)
			if got != tt.expected {
				t.Errorf("ComputeCurrentPhase(%v) = %q, expected %q", tt.statuses, got, tt.expected)
			}
		})
	}
}

// The engine must never return a phase whose predecessors are not all done.
func TestComputeCurrentPhase_NoSkipping(t *testing.T) {
	all := []string{models.PhasePending, models.PhaseInProgress, models.PhaseDone}

	for _, s1 := range all {
		for _, s2 := range all {
			for _, s3 := range all {
				for _, s4 := range all {
					st := statuses(s1, s2, s3, s4)
					current := ComputeCurrentPhase(st)

					for i, name := range models.PhaseOrder {
						if name != current {
							continue
						}
						for _, earlier := range models.PhaseOrder[:i] {
							if st[earlier] != models.PhaseDone {
								t.Fatalf("phase %q returned while %q is %q (statuses %v)",
									current, earlier, st[earlier], st)
							}
						}
					}
				}
			}
		}
	}
}

func TestComputeCurrentPhase_Idempotent(t *testing.T) {
	st := statuses(models.PhaseDone, models.PhaseInProgress, models.PhasePending, models.PhasePending)

	first := ComputeCurrentPhase(st)
	second := ComputeCurrentPhase(st)

	if first != second {
		t.Errorf("same input produced %q then %q", first, second)
	}
}
