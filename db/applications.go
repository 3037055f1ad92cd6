package db

import (
	"context"

	"github.com/jmoiron/sqlx"

	"seekit/models"
)

const applicationSelect = `
        SELECT a.id, a.job_id, a.freelancer_id, u.name AS freelancer_name,
               a.cover_letter, a.status, a.applied_at, a.updated_at
        FROM applications a
        JOIN users u ON a.freelancer_id = u.id`

func (s *Storage) CreateApplication(ctx context.Context, a *models.Application) error {
	query := `
        INSERT INTO applications (job_id, freelancer_id, cover_letter, status)
        VALUES ($1, $2, $3, $4)
        RETURNING id, applied_at, updated_at`
	err := s.db.QueryRowContext(ctx, query, a.JobID, a.FreelancerID, a.CoverLetter, a.Status).
		Scan(&a.ID, &a.AppliedAt, &a.UpdatedAt)
	return translate(err)
}

func (s *Storage) GetApplication(ctx context.Context, id int) (*models.Application, error) {
	a := &models.Application{}
	if err := s.db.GetContext(ctx, a, applicationSelect+` WHERE a.id=$1`, id); err != nil {
		return nil, translate(err)
	}
	return a, nil
}

// FindApplication возвращает отклик фрилансера на вакансию или ErrNotFound.
func (s *Storage) FindApplication(ctx context.Context, jobID, freelancerID int) (*models.Application, error) {
	a := &models.Application{}
	query := applicationSelect + ` WHERE a.job_id=$1 AND a.freelancer_id=$2`
	if err := s.db.GetContext(ctx, a, query, jobID, freelancerID); err != nil {
		return nil, translate(err)
	}
	return a, nil
}

func (s *Storage) ListApplicationsByJob(ctx context.Context, jobID int) ([]models.Application, error) {
	apps := []models.Application{}
	query := applicationSelect + ` WHERE a.job_id=$1 ORDER BY a.applied_at DESC, a.id DESC`
	err := s.db.SelectContext(ctx, &apps, query, jobID)
	return apps, err
}

func (s *Storage) ListApplicationsByFreelancer(ctx context.Context, freelancerID int) ([]models.Application, error) {
	apps := []models.Application{}
	query := applicationSelect + ` WHERE a.freelancer_id=$1 ORDER BY a.applied_at DESC, a.id DESC`
	err := s.db.SelectContext(ctx, &apps, query, freelancerID)
	return apps, err
}

// ListApplicationsByClient: все отклики на вакансии клиента.
func (s *Storage) ListApplicationsByClient(ctx context.Context, clientID int) ([]models.Application, error) {
	apps := []models.Application{}
	query := applicationSelect + `
        JOIN jobs j ON a.job_id = j.id
        WHERE j.client_id=$1
        ORDER BY a.applied_at DESC, a.id DESC`
	err := s.db.SelectContext(ctx, &apps, query, clientID)
	return apps, err
}

func (s *Storage) UpdateApplicationStatus(ctx context.Context, id int, from, to models.ApplicationStatus) error {
	query := `UPDATE applications SET status=$1, updated_at=NOW() WHERE id=$2 AND status=$3`
	res, err := s.db.ExecContext(ctx, query, to, id, from)
	return expectRows(res, err)
}

// AcceptParams описывает принятие отклика и создание проекта.
type AcceptParams struct {
	Application  models.Application
	ClientID     int
	RejectOthers bool
	Milestones   []models.Milestone
	Activity     string
}

// AcceptApplication в одной транзакции принимает отклик, переводит вакансию в работу
// и создает проект с этапами. ErrConflict, если вакансия уже не open или отклик не pending.
func (s *Storage) AcceptApplication(ctx context.Context, p AcceptParams) (*models.Project, error) {
	project := &models.Project{
		JobID:         p.Application.JobID,
		ApplicationID: p.Application.ID,
		FreelancerID:  p.Application.FreelancerID,
		ClientID:      p.ClientID,
		Status:        models.ProjectActive,
	}

	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE jobs SET status=$1, updated_at=NOW() WHERE id=$2 AND status=$3`,
			models.JobInProgress, p.Application.JobID, models.JobOpen)
		if err := expectRows(res, err); err != nil {
			return err
		}

		res, err = tx.ExecContext(ctx,
			`UPDATE applications SET status=$1, updated_at=NOW() WHERE id=$2 AND status=$3`,
			models.ApplicationAccepted, p.Application.ID, models.ApplicationPending)
		if err := expectRows(res, err); err != nil {
			return err
		}

		if p.RejectOthers {
			_, err := tx.ExecContext(ctx,
				`UPDATE applications SET status=$1, updated_at=NOW() WHERE job_id=$2 AND id<>$3 AND status=$4`,
				models.ApplicationRejected, p.Application.JobID, p.Application.ID, models.ApplicationPending)
			if err != nil {
				return err
			}
		}

		query := `
            INSERT INTO projects (job_id, application_id, freelancer_id, client_id, status, progress_percentage)
            VALUES ($1, $2, $3, $4, $5, 0)
            RETURNING id, created_at`
		err = tx.QueryRowContext(ctx, query,
			project.JobID, project.ApplicationID, project.FreelancerID, project.ClientID, project.Status).
			Scan(&project.ID, &project.CreatedAt)
		if err != nil {
			return translate(err)
		}

		for i := range p.Milestones {
			m := &p.Milestones[i]
			m.ProjectID = project.ID
			if err := insertMilestone(ctx, tx, m); err != nil {
				return err
			}
		}

		if p.Activity != "" {
			entry := &models.ActivityLog{
				ProjectID:    project.ID,
				UserID:       p.ClientID,
				ActivityType: models.ActivityWorkspaceCreated,
				Description:  p.Activity,
			}
			if err := insertActivity(ctx, tx, entry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}
