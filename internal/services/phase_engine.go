package services

import (
	"strings"

	"github.com/projhub/backend/internal/models"
)

// ComputePhaseStatus derives a phase's status from its free-text
// description and attachment count. Pure and total; callable outside a
// transaction for previewing.
func ComputePhaseStatus(description string, attachmentCount int) string {
	hasText := strings.TrimSpace(description) != ""
	hasFiles := attachmentCount > 0

	switch {
	case hasText && hasFiles:
		return models.PhaseDone
	case !hasText && !hasFiles:
		return models.PhasePending
	default:
		return models.PhaseInProgress
	}
}

// ComputeCurrentPhase derives the project's overall phase from the four
// phase statuses, most-advanced-first. A later phase is current only
// when every earlier phase is done; partial work on a later phase does
// not count until then. Total and idempotent.
func ComputeCurrentPhase(statuses map[string]string) string {
	started := func(name string) bool {
		s := statuses[name]
		return s == models.PhaseInProgress || s == models.PhaseDone
	}
	done := func(name string) bool {
		return statuses[name] == models.PhaseDone
	}

	if started(models.PhaseImplementation) &&
		done(models.PhaseIdeation) && done(models.PhaseModeling) && done(models.PhasePrototyping) {
		return models.PhaseImplementation
	}
	if started(models.PhasePrototyping) &&
		done(models.PhaseIdeation) && done(models.PhaseModeling) {
		return models.PhasePrototyping
	}
	if started(models.PhaseModeling) && done(models.PhaseIdeation) {
		return models.PhaseModeling
	}
	return models.PhaseIdeation
}
