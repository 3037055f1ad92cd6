package marketplace

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"seekit/models"
)

type JobInput struct {
	Title          string
	Description    string
	RequiredSkills []string
	BudgetMin      *float64
	BudgetMax      *float64
	Deadline       *time.Time
}

// MaxBudget: предел колонок NUMERIC(12,2).
const MaxBudget = 9999999999.99

// checkBudget отсекает NaN и бесконечность: сравнения с ними всегда ложны.
func checkBudget(name string, v *float64) error {
	if v == nil {
		return nil
	}
	switch {
	case math.IsNaN(*v) || math.IsInf(*v, 0):
		return validationf("%s must be a finite number", name)
	case *v < 0:
		return validationf("%s cannot be negative", name)
	case *v > MaxBudget:
		return validationf("%s cannot exceed %.2f", name, MaxBudget)
	}
	return nil
}

func (s *Service) validateJob(in *JobInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.Title == "" {
		return validationf("title cannot be empty")
	}
	if in.Description == "" {
		return validationf("description cannot be empty")
	}
	if err := checkBudget("budget_min", in.BudgetMin); err != nil {
		return err
	}
	if err := checkBudget("budget_max", in.BudgetMax); err != nil {
		return err
	}
	if in.BudgetMin != nil && in.BudgetMax != nil && *in.BudgetMin > *in.BudgetMax {
		return validationf("budget_min (%.2f) cannot exceed budget_max (%.2f)", *in.BudgetMin, *in.BudgetMax)
	}
	if in.Deadline != nil && !in.Deadline.After(s.now()) {
		return validationf("deadline must be in the future")
	}
	return nil
}

func (s *Service) PostJob(ctx context.Context, client *models.User, in JobInput) (*models.Job, error) {
	if err := requireRole(client, models.RoleClient); err != nil {
		return nil, s.done("post_job", err)
	}
	if err := s.validateJob(&in); err != nil {
		return nil, s.done("post_job", err)
	}

	skills := make([]string, 0, len(in.RequiredSkills))
	for _, sk := range in.RequiredSkills {
		if sk = strings.TrimSpace(sk); sk != "" {
			skills = append(skills, sk)
		}
	}
	job := &models.Job{
		ClientID:       client.ID,
		Title:          in.Title,
		Description:    in.Description,
		RequiredSkills: skills,
		BudgetMin:      in.BudgetMin,
		BudgetMax:      in.BudgetMax,
		Deadline:       in.Deadline,
		Status:         models.JobOpen,
	}
	if err := s.store.CreateJob(ctx, job); err != nil {
		return nil, s.done("post_job", err)
	}
	return job, s.done("post_job", nil, zap.Int("job_id", job.ID), zap.Int("client_id", client.ID))
}

func (s *Service) ListClientJobs(ctx context.Context, client *models.User) ([]models.Job, error) {
	if err := requireRole(client, models.RoleClient); err != nil {
		return nil, err
	}
	return s.store.ListJobsByClient(ctx, client.ID)
}

func (s *Service) GetJob(ctx context.Context, jobID int) (*models.Job, error) {
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, notFound(err, "job", jobID)
	}
	return job, nil
}

// CloseJob закрывает вакансию, статус двигается только вперед.
func (s *Service) CloseJob(ctx context.Context, client *models.User, jobID int) (*models.Job, error) {
	if err := requireRole(client, models.RoleClient); err != nil {
		return nil, s.done("close_job", err)
	}
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, s.done("close_job", notFound(err, "job", jobID))
	}
	if job.ClientID != client.ID {
		return nil, s.done("close_job", forbiddenf("job %d belongs to another client", jobID))
	}
	if !job.Status.CanMoveTo(models.JobClosed) {
		return nil, s.done("close_job", statef("job %d is already %s", jobID, job.Status))
	}
	if err := s.store.UpdateJobStatus(ctx, job.ID, job.Status, models.JobClosed); err != nil {
		if isConflict(err) {
			err = statef("job %d changed status concurrently", jobID)
		}
		return nil, s.done("close_job", err)
	}
	job.Status = models.JobClosed
	return job, s.done("close_job", nil, zap.Int("job_id", job.ID))
}

// SearchJobs ищет открытые вакансии. Поиск авторизованного пользователя
// попадает в историю.
func (s *Service) SearchJobs(ctx context.Context, user *models.User, f models.JobFilter) ([]models.Job, error) {
	f.Keywords = strings.TrimSpace(f.Keywords)
	if err := checkBudget("minimum budget", f.MinBudget); err != nil {
		return nil, err
	}
	if err := checkBudget("maximum budget", f.MaxBudget); err != nil {
		return nil, err
	}
	if f.MinBudget != nil && f.MaxBudget != nil && *f.MinBudget > *f.MaxBudget {
		return nil, validationf("minimum budget cannot exceed maximum budget")
	}

	jobs, err := s.store.SearchJobs(ctx, f)
	if err != nil {
		return nil, err
	}

	if user != nil {
		entry := &models.SearchHistory{UserID: user.ID, Query: describeFilter(f)}
		if err := s.store.CreateSearchHistory(ctx, entry); err != nil {
			// история вторична, поиск не роняем
			s.log.Warn("save search history", zap.Int("user_id", user.ID), zap.Error(err))
		}
	}
	return jobs, nil
}

func describeFilter(f models.JobFilter) string {
	parts := []string{}
	if f.Keywords != "" {
		parts = append(parts, f.Keywords)
	}
	if f.MinBudget != nil {
		parts = append(parts, fmt.Sprintf("min=%.2f", *f.MinBudget))
	}
	if f.MaxBudget != nil {
		parts = append(parts, fmt.Sprintf("max=%.2f", *f.MaxBudget))
	}
	if len(parts) == 0 {
		return "all open jobs"
	}
	return strings.Join(parts, " ")
}

func (s *Service) SearchHistory(ctx context.Context, user *models.User) ([]models.SearchHistory, error) {
	if user == nil {
		return nil, ErrAuth
	}
	return s.store.ListSearchHistory(ctx, user.ID, 20)
}
