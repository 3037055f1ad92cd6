package marketplace

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"seekit/db"
	"seekit/models"
)

type MilestoneInput struct {
	Name        string
	Description string
	DueDate     *time.Time
	// 0 означает следующий номер после максимального.
	OrderNumber int
}

// logActivity пишет в журнал проекта. Сбой журнала не отменяет действие.
func (s *Service) logActivity(ctx context.Context, projectID, userID int, activityType, description string) {
	entry := &models.ActivityLog{
		ProjectID:    projectID,
		UserID:       userID,
		ActivityType: activityType,
		Description:  description,
	}
	if err := s.store.CreateActivity(ctx, entry); err != nil {
		s.log.Warn("write activity log",
			zap.Int("project_id", projectID), zap.String("type", activityType), zap.Error(err))
	}
}

func (s *Service) ListWorkspaces(ctx context.Context, user *models.User) ([]models.Project, error) {
	if user == nil {
		return nil, ErrAuth
	}
	return s.store.ListProjectsForUser(ctx, user.ID, "")
}

func (s *Service) GetWorkspace(ctx context.Context, user *models.User, projectID int) (*models.Workspace, error) {
	p, err := s.loadProject(ctx, user, projectID)
	if err != nil {
		return nil, err
	}
	parties, err := s.store.GetProjectParties(ctx, projectID)
	if err != nil {
		return nil, notFound(err, "project", projectID)
	}
	milestones, err := s.store.ListMilestones(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return &models.Workspace{
		Project:        *p,
		JobTitle:       parties.JobTitle,
		ClientName:     parties.ClientName,
		FreelancerName: parties.FreelancerName,
		Milestones:     milestones,
	}, nil
}

// AddMilestone добавляет этап. Номера идут по возрастанию, но уникальность
// номера не проверяется.
func (s *Service) AddMilestone(ctx context.Context, client *models.User, projectID int, in MilestoneInput) (*models.Milestone, error) {
	if err := requireRole(client, models.RoleClient); err != nil {
		return nil, s.done("add_milestone", err)
	}
	p, err := s.loadProject(ctx, client, projectID)
	if err != nil {
		return nil, s.done("add_milestone", err)
	}
	if p.Status != models.ProjectActive {
		return nil, s.done("add_milestone", statef("project %d is %s", projectID, p.Status))
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, s.done("add_milestone", validationf("milestone name cannot be empty"))
	}
	if in.OrderNumber < 0 {
		return nil, s.done("add_milestone", validationf("order number cannot be negative"))
	}
	if in.DueDate != nil && in.DueDate.Before(startOfDay(s.now().In(in.DueDate.Location()))) {
		return nil, s.done("add_milestone", validationf("due date cannot be in the past"))
	}

	existing, err := s.store.ListMilestones(ctx, projectID)
	if err != nil {
		return nil, s.done("add_milestone", err)
	}
	maxOrder := 0
	for _, m := range existing {
		if m.OrderNumber > maxOrder {
			maxOrder = m.OrderNumber
		}
	}
	if in.OrderNumber == 0 {
		in.OrderNumber = maxOrder + 1
	} else if in.OrderNumber <= maxOrder {
		return nil, s.done("add_milestone", validationf("order number must be greater than %d", maxOrder))
	}

	m := &models.Milestone{
		ProjectID:   projectID,
		Name:        in.Name,
		Description: strings.TrimSpace(in.Description),
		DueDate:     in.DueDate,
		Status:      models.MilestonePending,
		OrderNumber: in.OrderNumber,
	}
	// хранилище в той же транзакции пересчитывает прогресс: новый этап не сдан
	if err := s.store.CreateMilestone(ctx, m); err != nil {
		if isConflict(err) {
			err = statef("project %d is no longer active", projectID)
		}
		return nil, s.done("add_milestone", err)
	}
	s.logActivity(ctx, projectID, client.ID, models.ActivityMilestoneAdded,
		fmt.Sprintf("Milestone %q added as step %d", m.Name, m.OrderNumber))
	return m, s.done("add_milestone", nil, zap.Int("project_id", projectID), zap.Int("milestone_id", m.ID))
}

// SubmitDeliverable сохраняет очередную версию работы по этапу.
// Номер версии назначает хранилище: max + 1, начиная с 1.
func (s *Service) SubmitDeliverable(ctx context.Context, freelancer *models.User, milestoneID int, description, filePath string) (*models.Submission, error) {
	if err := requireRole(freelancer, models.RoleFreelancer); err != nil {
		return nil, s.done("submit_deliverable", err)
	}
	m, p, err := s.loadMilestone(ctx, freelancer, milestoneID)
	if err != nil {
		return nil, s.done("submit_deliverable", err)
	}
	if p.FreelancerID != freelancer.ID {
		return nil, s.done("submit_deliverable", forbiddenf("only the project freelancer can submit"))
	}
	if p.Status != models.ProjectActive {
		return nil, s.done("submit_deliverable", statef("project %d is %s", p.ID, p.Status))
	}
	if !m.Status.CanMoveTo(models.MilestoneInProgress) {
		return nil, s.done("submit_deliverable", statef("milestone %d is already %s", milestoneID, m.Status))
	}
	description = strings.TrimSpace(description)
	filePath = strings.TrimSpace(filePath)
	if description == "" {
		return nil, s.done("submit_deliverable", validationf("description cannot be empty"))
	}

	sub := &models.Submission{MilestoneID: milestoneID, Description: description, FilePath: filePath}
	if err := s.store.CreateSubmission(ctx, sub); err != nil {
		if isConflict(err) {
			err = statef("milestone %d is already done", milestoneID)
		}
		return nil, s.done("submit_deliverable", err)
	}
	s.logActivity(ctx, p.ID, freelancer.ID, models.ActivityDeliverableSubmitted,
		fmt.Sprintf("Submitted version %d for %q", sub.VersionNumber, m.Name))
	return sub, s.done("submit_deliverable", nil,
		zap.Int("milestone_id", milestoneID), zap.Int("version", sub.VersionNumber))
}

func (s *Service) ListSubmissions(ctx context.Context, user *models.User, milestoneID int) ([]models.Submission, error) {
	if _, _, err := s.loadMilestone(ctx, user, milestoneID); err != nil {
		return nil, err
	}
	return s.store.ListSubmissions(ctx, milestoneID)
}

// AddFeedback прикрепляет отзыв клиента к сдаче, новая версия не создается.
func (s *Service) AddFeedback(ctx context.Context, client *models.User, submissionID int, feedback string) (*models.Submission, error) {
	if err := requireRole(client, models.RoleClient); err != nil {
		return nil, s.done("add_feedback", err)
	}
	feedback = strings.TrimSpace(feedback)
	if feedback == "" {
		return nil, s.done("add_feedback", validationf("feedback cannot be empty"))
	}
	sub, err := s.store.GetSubmission(ctx, submissionID)
	if err != nil {
		return nil, s.done("add_feedback", notFound(err, "submission", submissionID))
	}
	m, p, err := s.loadMilestone(ctx, client, sub.MilestoneID)
	if err != nil {
		return nil, s.done("add_feedback", err)
	}
	if p.ClientID != client.ID {
		return nil, s.done("add_feedback", forbiddenf("only the project client can leave feedback"))
	}
	if err := s.store.SetSubmissionFeedback(ctx, submissionID, feedback); err != nil {
		return nil, s.done("add_feedback", notFound(err, "submission", submissionID))
	}
	sub.Feedback = &feedback
	s.logActivity(ctx, p.ID, client.ID, models.ActivityFeedbackAdded,
		fmt.Sprintf("Feedback on version %d of %q", sub.VersionNumber, m.Name))
	return sub, s.done("add_feedback", nil, zap.Int("submission_id", submissionID))
}

// ReviewDeliverable принимает этап или отправляет на доработку.
// Отзыв прикрепляется к последней версии.
func (s *Service) ReviewDeliverable(ctx context.Context, client *models.User, milestoneID int, approve bool, feedback string) (*models.Project, error) {
	if err := requireRole(client, models.RoleClient); err != nil {
		return nil, s.done("review_deliverable", err)
	}
	m, p, err := s.loadMilestone(ctx, client, milestoneID)
	if err != nil {
		return nil, s.done("review_deliverable", err)
	}
	if p.ClientID != client.ID {
		return nil, s.done("review_deliverable", forbiddenf("only the project client can review"))
	}
	if p.Status != models.ProjectActive {
		return nil, s.done("review_deliverable", statef("project %d is %s", p.ID, p.Status))
	}
	feedback = strings.TrimSpace(feedback)
	if !approve && feedback == "" {
		return nil, s.done("review_deliverable", validationf("revision request needs feedback"))
	}

	latest, err := s.store.LatestSubmission(ctx, milestoneID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			err = statef("milestone %d has no submission to review", milestoneID)
		}
		return nil, s.done("review_deliverable", err)
	}
	next := models.MilestoneInProgress
	if approve {
		next = models.MilestoneDone
	}
	if !m.Status.CanMoveTo(next) {
		return nil, s.done("review_deliverable", statef("milestone %d is already %s", milestoneID, m.Status))
	}

	params := db.ReviewParams{
		Project:      p,
		MilestoneID:  milestoneID,
		SubmissionID: latest.ID,
		Feedback:     feedback,
		Approve:      approve,
		Activity: &models.ActivityLog{
			UserID:       client.ID,
			ActivityType: models.ActivityRevisionRequested,
			Description:  fmt.Sprintf("Revision requested for %q: %s", m.Name, feedback),
		},
	}
	if approve {
		params.Activity.ActivityType = models.ActivityMilestoneApproved
		params.Activity.Description = fmt.Sprintf("Milestone %q approved (version %d)", m.Name, latest.VersionNumber)
		params.CompletedAt = s.now()
		params.Completion = &models.ActivityLog{
			UserID:       client.ID,
			ActivityType: models.ActivityProjectCompleted,
			Description:  "All milestones approved",
		}
	}
	if err := s.store.ReviewMilestone(ctx, params); err != nil {
		if isConflict(err) {
			err = statef("milestone %d or its project changed concurrently", milestoneID)
		}
		return nil, s.done("review_deliverable", err)
	}
	return p, s.done("review_deliverable", nil,
		zap.Int("milestone_id", milestoneID), zap.Bool("approved", approve), zap.Int("progress", p.ProgressPercentage))
}

func (s *Service) finishProject(ctx context.Context, p *models.Project, userID int, status models.ProjectStatus, note string) error {
	if !p.Status.CanMoveTo(status) {
		return statef("project %d is %s", p.ID, p.Status)
	}
	p.Status = status
	activity := models.ActivityProjectCancelled
	if status == models.ProjectCompleted {
		now := s.now()
		p.ProgressPercentage = 100
		p.CompletedAt = &now
		activity = models.ActivityProjectCompleted
	}
	entry := &models.ActivityLog{UserID: userID, ActivityType: activity, Description: note}
	if err := s.store.FinishProject(ctx, p, entry); err != nil {
		if isConflict(err) {
			return statef("project %d is no longer active", p.ID)
		}
		return err
	}
	return nil
}

// CompleteProject: клиент вручную завершает проект.
func (s *Service) CompleteProject(ctx context.Context, client *models.User, projectID int) (*models.Project, error) {
	if err := requireRole(client, models.RoleClient); err != nil {
		return nil, s.done("complete_project", err)
	}
	p, err := s.loadProject(ctx, client, projectID)
	if err != nil {
		return nil, s.done("complete_project", err)
	}
	if err := s.finishProject(ctx, p, client.ID, models.ProjectCompleted, "Project marked complete by client"); err != nil {
		return nil, s.done("complete_project", err)
	}
	return p, s.done("complete_project", nil, zap.Int("project_id", projectID))
}

// CancelProject доступен обеим сторонам активного проекта.
func (s *Service) CancelProject(ctx context.Context, user *models.User, projectID int) (*models.Project, error) {
	p, err := s.loadProject(ctx, user, projectID)
	if err != nil {
		return nil, s.done("cancel_project", err)
	}
	note := fmt.Sprintf("Project cancelled by %s", user.Name)
	if err := s.finishProject(ctx, p, user.ID, models.ProjectCancelled, note); err != nil {
		return nil, s.done("cancel_project", err)
	}
	return p, s.done("cancel_project", nil, zap.Int("project_id", projectID), zap.Int("user_id", user.ID))
}

// startOfDay: срок "сегодня" еще не в прошлом. Даты сроков приходят полуночью UTC.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func (s *Service) ActivityLog(ctx context.Context, user *models.User, projectID int) ([]models.ActivityLog, error) {
	if _, err := s.loadProject(ctx, user, projectID); err != nil {
		return nil, err
	}
	return s.store.ListActivity(ctx, projectID)
}
