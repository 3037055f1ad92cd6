package marketplace

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"seekit/db"
	"seekit/models"
)

const minCoverLetterLen = 5

// Этапы, которые создаются вместе с новым проектом.
var defaultMilestones = []struct{ name, description string }{
	{"Initial Design", "Design mockups and wireframes"},
	{"Development", "Core functionality implementation"},
	{"Testing", "Quality assurance and testing"},
	{"Final Delivery", "Final review and delivery"},
}

func (s *Service) Apply(ctx context.Context, freelancer *models.User, jobID int, coverLetter string) (*models.Application, error) {
	if err := requireRole(freelancer, models.RoleFreelancer); err != nil {
		return nil, s.done("apply", err)
	}
	coverLetter = strings.TrimSpace(coverLetter)
	if len(coverLetter) < minCoverLetterLen {
		return nil, s.done("apply", validationf("cover letter must be at least %d characters", minCoverLetterLen))
	}

	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, s.done("apply", notFound(err, "job", jobID))
	}
	if job.Status != models.JobOpen {
		return nil, s.done("apply", statef("job %d is %s, not open", jobID, job.Status))
	}

	dup := fmt.Errorf("%w: you already applied to job %d", ErrDuplicate, jobID)
	if _, err := s.store.FindApplication(ctx, jobID, freelancer.ID); err == nil {
		return nil, s.done("apply", dup)
	} else if !errors.Is(err, db.ErrNotFound) {
		return nil, s.done("apply", err)
	}

	app := &models.Application{
		JobID:          jobID,
		FreelancerID:   freelancer.ID,
		FreelancerName: freelancer.Name,
		CoverLetter:    coverLetter,
		Status:         models.ApplicationPending,
	}
	if err := s.store.CreateApplication(ctx, app); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			err = dup
		}
		return nil, s.done("apply", err)
	}
	return app, s.done("apply", nil, zap.Int("application_id", app.ID), zap.Int("job_id", jobID))
}

func (s *Service) ListFreelancerApplications(ctx context.Context, freelancer *models.User) ([]models.Application, error) {
	if err := requireRole(freelancer, models.RoleFreelancer); err != nil {
		return nil, err
	}
	return s.store.ListApplicationsByFreelancer(ctx, freelancer.ID)
}

func (s *Service) ListJobApplications(ctx context.Context, client *models.User, jobID int) ([]models.Application, error) {
	if _, err := s.ownedJob(ctx, client, jobID); err != nil {
		return nil, err
	}
	return s.store.ListApplicationsByJob(ctx, jobID)
}

func (s *Service) ListClientApplications(ctx context.Context, client *models.User) ([]models.Application, error) {
	if err := requireRole(client, models.RoleClient); err != nil {
		return nil, err
	}
	return s.store.ListApplicationsByClient(ctx, client.ID)
}

func (s *Service) ownedJob(ctx context.Context, client *models.User, jobID int) (*models.Job, error) {
	if err := requireRole(client, models.RoleClient); err != nil {
		return nil, err
	}
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, notFound(err, "job", jobID)
	}
	if job.ClientID != client.ID {
		return nil, forbiddenf("job %d belongs to another client", jobID)
	}
	return job, nil
}

// pendingApplication загружает отклик на вакансию клиента и требует статус pending.
func (s *Service) pendingApplication(ctx context.Context, client *models.User, appID int) (*models.Application, *models.Job, error) {
	app, err := s.store.GetApplication(ctx, appID)
	if err != nil {
		return nil, nil, notFound(err, "application", appID)
	}
	job, err := s.ownedJob(ctx, client, app.JobID)
	if err != nil {
		return nil, nil, err
	}
	if !app.Status.CanMoveTo(models.ApplicationAccepted) {
		return nil, nil, statef("application %d is already %s", appID, app.Status)
	}
	return app, job, nil
}

// AcceptApplication принимает отклик и создает ровно один проект.
// Вторая приемка по той же вакансии невозможна: вакансия уже не open.
func (s *Service) AcceptApplication(ctx context.Context, client *models.User, appID int, rejectOthers bool) (*models.Project, error) {
	app, job, err := s.pendingApplication(ctx, client, appID)
	if err != nil {
		return nil, s.done("accept_application", err)
	}
	if job.Status != models.JobOpen {
		return nil, s.done("accept_application", statef("job %d is %s, not open", job.ID, job.Status))
	}

	milestones := make([]models.Milestone, len(defaultMilestones))
	for i, d := range defaultMilestones {
		milestones[i] = models.Milestone{
			Name:        d.name,
			Description: d.description,
			Status:      models.MilestonePending,
			OrderNumber: i + 1,
		}
	}

	project, err := s.store.AcceptApplication(ctx, db.AcceptParams{
		Application:  *app,
		ClientID:     job.ClientID,
		RejectOthers: rejectOthers,
		Milestones:   milestones,
		Activity:     fmt.Sprintf("Workspace created for %q with %s", job.Title, app.FreelancerName),
	})
	if err != nil {
		if isConflict(err) {
			err = statef("application %d or job %d changed status concurrently", appID, job.ID)
		}
		return nil, s.done("accept_application", err)
	}
	return project, s.done("accept_application", nil,
		zap.Int("application_id", appID), zap.Int("project_id", project.ID), zap.Bool("reject_others", rejectOthers))
}

func (s *Service) RejectApplication(ctx context.Context, client *models.User, appID int) (*models.Application, error) {
	app, _, err := s.pendingApplication(ctx, client, appID)
	if err != nil {
		return nil, s.done("reject_application", err)
	}
	if err := s.store.UpdateApplicationStatus(ctx, appID, models.ApplicationPending, models.ApplicationRejected); err != nil {
		if isConflict(err) {
			err = statef("application %d changed status concurrently", appID)
		}
		return nil, s.done("reject_application", err)
	}
	app.Status = models.ApplicationRejected
	return app, s.done("reject_application", nil, zap.Int("application_id", appID))
}
