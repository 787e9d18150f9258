package services

import (
	"fmt"
	"time"

	"github.com/projhub/backend/internal/models"
	"github.com/projhub/backend/pkg/response"
	"gorm.io/gorm"
)

// TeamService implements wizard step 3: wholesale replacement of the
// author list and soft-delete reconciliation of the advisor list.
type TeamService struct {
	db       *gorm.DB
	notifier *NotificationService
}

func NewTeamService(db *gorm.DB, notifier *NotificationService) *TeamService {
	return &TeamService{db: db, notifier: notifier}
}

type AuthorInput struct {
	UserUUID string `json:"user_uuid" binding:"required"`
	Leader   bool   `json:"leader"`
}

type UpdateTeamRequest struct {
	Authors      []AuthorInput `json:"authors" binding:"required,min=1,dive"`
	AdvisorUUIDs []string      `json:"advisor_uuids"`
}

// validateTeamComposition checks the leader count and rejects repeated
// members. Pure.
func validateTeamComposition(authors []AuthorInput) *response.AppError {
	leaders := 0
	seen := make(map[string]bool, len(authors))
	for _, a := range authors {
		if seen[a.UserUUID] {
			return response.NewValidation(fmt.Sprintf("member %s is listed more than once", a.UserUUID))
		}
		seen[a.UserUUID] = true
		if a.Leader {
			leaders++
		}
	}
	if leaders == 0 {
		return response.NewValidation("team must have exactly one leader: none was designated")
	}
	if leaders > 1 {
		return response.NewValidation(fmt.Sprintf("team must have exactly one leader: %d were designated", leaders))
	}
	return nil
}

// resolveUsers maps uuids to users of the expected role, collecting the
// uuids that do not resolve.
func resolveUsers(db *gorm.DB, uuids []string, role string) (map[string]*models.User, []string) {
	resolved := make(map[string]*models.User, len(uuids))
	var invalid []string
	for _, u := range uuids {
		if _, seen := resolved[u]; seen {
			continue
		}
		var user models.User
		if err := db.Where("uuid = ? AND role = ? AND is_active = ?", u, role, true).First(&user).Error; err != nil {
			invalid = append(invalid, u)
			continue
		}
		resolved[u] = &user
	}
	return resolved, invalid
}

// UpdateTeam replaces the project's team. Authors are replaced wholesale;
// advisors are reconciled by set difference, deactivating removed ones
// and inserting only the newly added (active advisors are never
// re-inserted, preserving their join history). A teacher who created the
// project cannot be dropped from the advisor list.
func (s *TeamService) UpdateTeam(projectUUID string, req *UpdateTeamRequest, actor Actor) (*models.Project, error) {
	project, appErr := getProjectByUUID(s.db, projectUUID)
	if appErr != nil {
		return nil, appErr
	}
	if appErr := ensureCanEdit(s.db, actor, project); appErr != nil {
		return nil, appErr
	}
	if appErr := validateTeamComposition(req.Authors); appErr != nil {
		return nil, appErr
	}

	authorUUIDs := make([]string, 0, len(req.Authors))
	for _, a := range req.Authors {
		authorUUIDs = append(authorUUIDs, a.UserUUID)
	}
	students, invalidStudents := resolveUsers(s.db, authorUUIDs, models.RoleStudent)
	advisors, invalidAdvisors := resolveUsers(s.db, req.AdvisorUUIDs, models.RoleTeacher)

	if invalid := append(invalidStudents, invalidAdvisors...); len(invalid) > 0 {
		return nil, response.NewValidation("some team members could not be found").WithDetails(map[string]interface{}{
			"invalid_uuids": invalid,
		})
	}

	// The creator, if a teacher, stays an advisor even when omitted.
	var creator models.User
	if err := s.db.First(&creator, project.CreatedBy).Error; err == nil && creator.Role == models.RoleTeacher {
		if _, present := advisors[creator.UUID]; !present {
			advisors[creator.UUID] = &creator
		}
	}

	desiredAdvisorIDs := make([]uint, 0, len(advisors))
	for _, u := range advisors {
		desiredAdvisorIDs = append(desiredAdvisorIDs, u.ID)
	}

	var newLeaderID uint
	for _, a := range req.Authors {
		if a.Leader {
			newLeaderID = students[a.UserUUID].ID
		}
	}

	currentAuthors := authorIDs(s.db, project.ID)
	currentAdvisors := activeAdvisorIDs(s.db, project.ID)

	addedAuthors, removedAuthors := DiffIDList(currentAuthors, memberIDs(req.Authors, students))
	addedAdvisors, removedAdvisors := DiffIDList(currentAdvisors, desiredAdvisorIDs)

	before := snapshotProject(project)
	now := time.Now()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Authors: replace wholesale.
		if err := tx.Where("project_id = ? AND role IN ?", project.ID,
			[]string{models.MemberLeader, models.MemberAuthor}).
			Delete(&models.TeamMembership{}).Error; err != nil {
			return err
		}
		for _, a := range req.Authors {
			role := models.MemberAuthor
			if a.Leader {
				role = models.MemberLeader
			}
			m := models.TeamMembership{
				ProjectID: project.ID,
				UserID:    students[a.UserUUID].ID,
				Role:      role,
				Active:    true,
			}
			if err := tx.Create(&m).Error; err != nil {
				return err
			}
		}

		// Advisors: deactivate the removed, insert only the newly added.
		if len(removedAdvisors) > 0 {
			if err := tx.Model(&models.TeamMembership{}).
				Where("project_id = ? AND role = ? AND active = ? AND user_id IN ?",
					project.ID, models.MemberAdvisor, true, removedAdvisors).
				Updates(map[string]interface{}{"active": false, "deactivated_at": &now}).Error; err != nil {
				return err
			}
		}
		for _, id := range addedAdvisors {
			m := models.TeamMembership{
				ProjectID: project.ID,
				UserID:    id,
				Role:      models.MemberAdvisor,
				Active:    true,
			}
			if err := tx.Create(&m).Error; err != nil {
				return err
			}
		}

		if project.LeaderID == nil || *project.LeaderID != newLeaderID {
			if err := tx.Model(project).Update("leader_id", newLeaderID).Error; err != nil {
				return err
			}
			leaderID := newLeaderID
			project.LeaderID = &leaderID
		}

		return recordAudit(tx, project.ID, actor.ID, models.ActionAtualizacaoEquipe, before, snapshotProject(project))
	})
	if err != nil {
		return nil, err
	}

	var intents []NotifyTask
	if added := append(addedAuthors, addedAdvisors...); len(added) > 0 {
		intents = append(intents, NotifyTask{
			UserIDs:   added,
			ProjectID: &project.ID,
			Type:      models.NotifVinculoAdicionado,
			Message:   fmt.Sprintf("Você foi adicionado à equipe do projeto %q.", project.Title),
		})
	}
	if removed := append(removedAuthors, removedAdvisors...); len(removed) > 0 {
		intents = append(intents, NotifyTask{
			UserIDs:   removed,
			ProjectID: &project.ID,
			Type:      models.NotifVinculoRemovido,
			Message:   fmt.Sprintf("Você foi removido da equipe do projeto %q.", project.Title),
		})
	}
	s.notifier.Dispatch(intents)

	return project, nil
}

func memberIDs(authors []AuthorInput, resolved map[string]*models.User) []uint {
	ids := make([]uint, 0, len(authors))
	for _, a := range authors {
		if u, ok := resolved[a.UserUUID]; ok {
			ids = append(ids, u.ID)
		}
	}
	return ids
}

// ListTeam returns a project's memberships, advisors including inactive
// ones for history.
func (s *TeamService) ListTeam(projectUUID string, actor Actor) ([]models.TeamMembership, error) {
	project, appErr := getVisibleProject(s.db, projectUUID, actor)
	if appErr != nil {
		return nil, appErr
	}
	var memberships []models.TeamMembership
	err := s.db.Preload("User").
		Where("project_id = ?", project.ID).
		Order("role, created_at").
		Find(&memberships).Error
	return memberships, err
}
