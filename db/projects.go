package db

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"seekit/models"
)

const (
	projectColumns    = `id, job_id, application_id, freelancer_id, client_id, status, progress_percentage, created_at, completed_at`
	milestoneColumns  = `id, project_id, name, description, due_date, status, order_number, created_at, updated_at`
	submissionColumns = `id, milestone_id, description, file_path, version_number, feedback, submitted_at`
)

// Project (Проект)

func (s *Storage) GetProject(ctx context.Context, id int) (*models.Project, error) {
	p := &models.Project{}
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id=$1`
	if err := s.db.GetContext(ctx, p, query, id); err != nil {
		return nil, translate(err)
	}
	return p, nil
}

// ListProjectsForUser: проекты, где пользователь клиент или исполнитель. Пустой status дает все.
func (s *Storage) ListProjectsForUser(ctx context.Context, userID int, status models.ProjectStatus) ([]models.Project, error) {
	projects := []models.Project{}
	query := `
        SELECT ` + projectColumns + `
        FROM projects
        WHERE (client_id=$1 OR freelancer_id=$1) AND ($2 = '' OR status=$2)
        ORDER BY created_at DESC, id DESC`
	err := s.db.SelectContext(ctx, &projects, query, userID, string(status))
	return projects, err
}

// refreshProgress пересчитывает прогресс проекта по этапам: done*100/total с округлением вниз.
func refreshProgress(ctx context.Context, tx *sqlx.Tx, projectID int) (int, error) {
	var pct int
	err := tx.QueryRowxContext(ctx, `
        UPDATE projects
        SET progress_percentage = (
            SELECT COALESCE(COUNT(*) FILTER (WHERE status = $2) * 100 / NULLIF(COUNT(*), 0), 0)
            FROM milestones
            WHERE project_id = $1)
        WHERE id = $1 AND status = $3
        RETURNING progress_percentage`,
		projectID, models.MilestoneDone, models.ProjectActive).Scan(&pct)
	return pct, translate(err)
}

// Milestone (Этап)

func insertMilestone(ctx context.Context, q sqlx.QueryerContext, m *models.Milestone) error {
	query := `
        INSERT INTO milestones (project_id, name, description, due_date, status, order_number)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`
	err := q.QueryRowxContext(ctx, query,
		m.ProjectID, m.Name, m.Description, m.DueDate, m.Status, m.OrderNumber).
		Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	return translate(err)
}

// CreateMilestone добавляет этап и пересчитывает прогресс активного проекта.
func (s *Storage) CreateMilestone(ctx context.Context, m *models.Milestone) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := insertMilestone(ctx, tx, m); err != nil {
			return err
		}
		if _, err := refreshProgress(ctx, tx, m.ProjectID); err != nil {
			if err == ErrNotFound {
				return ErrConflict
			}
			return err
		}
		return nil
	})
}

func (s *Storage) GetMilestone(ctx context.Context, id int) (*models.Milestone, error) {
	m := &models.Milestone{}
	query := `SELECT ` + milestoneColumns + ` FROM milestones WHERE id=$1`
	if err := s.db.GetContext(ctx, m, query, id); err != nil {
		return nil, translate(err)
	}
	return m, nil
}

func (s *Storage) ListMilestones(ctx context.Context, projectID int) ([]models.Milestone, error) {
	milestones := []models.Milestone{}
	query := `SELECT ` + milestoneColumns + ` FROM milestones WHERE project_id=$1 ORDER BY order_number ASC, id ASC`
	err := s.db.SelectContext(ctx, &milestones, query, projectID)
	return milestones, err
}

// Submission (Сдача результата)

// CreateSubmission вычисляет номер версии тем же запросом, что и вставка,
// и в той же транзакции переводит этап из pending в in_progress.
// ErrConflict, если этап уже done.
func (s *Storage) CreateSubmission(ctx context.Context, sub *models.Submission) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
            UPDATE milestones SET status=$1, updated_at=NOW()
            WHERE id=$2 AND status IN ($3, $1)`,
			models.MilestoneInProgress, sub.MilestoneID, models.MilestonePending)
		if err := expectRows(res, err); err != nil {
			return err
		}

		query := `
            INSERT INTO submissions (milestone_id, description, file_path, version_number)
            SELECT $1, $2, $3, COALESCE(MAX(version_number), 0) + 1
            FROM submissions
            WHERE milestone_id = $1
            RETURNING id, version_number, submitted_at`
		err = tx.QueryRowxContext(ctx, query, sub.MilestoneID, sub.Description, sub.FilePath).
			Scan(&sub.ID, &sub.VersionNumber, &sub.SubmittedAt)
		return translate(err)
	})
}

func (s *Storage) GetSubmission(ctx context.Context, id int) (*models.Submission, error) {
	sub := &models.Submission{}
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE id=$1`
	if err := s.db.GetContext(ctx, sub, query, id); err != nil {
		return nil, translate(err)
	}
	return sub, nil
}

// ListSubmissions: история версий, новые сверху.
func (s *Storage) ListSubmissions(ctx context.Context, milestoneID int) ([]models.Submission, error) {
	subs := []models.Submission{}
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE milestone_id=$1 ORDER BY version_number DESC`
	err := s.db.SelectContext(ctx, &subs, query, milestoneID)
	return subs, err
}

func (s *Storage) LatestSubmission(ctx context.Context, milestoneID int) (*models.Submission, error) {
	sub := &models.Submission{}
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE milestone_id=$1 ORDER BY version_number DESC LIMIT 1`
	if err := s.db.GetContext(ctx, sub, query, milestoneID); err != nil {
		return nil, translate(err)
	}
	return sub, nil
}

// SetSubmissionFeedback не создает новую версию.
func (s *Storage) SetSubmissionFeedback(ctx context.Context, id int, feedback string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE submissions SET feedback=$1 WHERE id=$2`, feedback, id)
	if err := expectRows(res, err); err != nil {
		if err == ErrConflict {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *Storage) GetProjectParties(ctx context.Context, projectID int) (*models.ProjectParties, error) {
	parties := &models.ProjectParties{}
	query := `
        SELECT j.title AS job_title, c.name AS client_name, f.name AS freelancer_name
        FROM projects p
        JOIN jobs j ON p.job_id = j.id
        JOIN users c ON p.client_id = c.id
        JOIN users f ON p.freelancer_id = f.id
        WHERE p.id=$1`
	if err := s.db.GetContext(ctx, parties, query, projectID); err != nil {
		return nil, translate(err)
	}
	return parties, nil
}

// finishProject переводит активный проект в p.Status, закрывает вакансию
// и пишет запись в журнал.
func finishProject(ctx context.Context, tx *sqlx.Tx, p *models.Project, entry *models.ActivityLog) error {
	res, err := tx.ExecContext(ctx, `
        UPDATE projects
        SET status=$1, progress_percentage=$2, completed_at=$3
        WHERE id=$4 AND status=$5`,
		p.Status, p.ProgressPercentage, p.CompletedAt, p.ID, models.ProjectActive)
	if err := expectRows(res, err); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE jobs SET status=$1, updated_at=NOW() WHERE id=$2 AND status<>$1`,
		models.JobClosed, p.JobID)
	if err != nil {
		return err
	}

	if entry != nil {
		entry.ProjectID = p.ID
		return insertActivity(ctx, tx, entry)
	}
	return nil
}

// FinishProject завершает или отменяет проект. ErrConflict, если проект уже не active.
func (s *Storage) FinishProject(ctx context.Context, p *models.Project, entry *models.ActivityLog) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		return finishProject(ctx, tx, p, entry)
	})
}

// ReviewParams описывает решение клиента по последней версии этапа.
type ReviewParams struct {
	Project      *models.Project
	MilestoneID  int
	SubmissionID int
	// Пустой отзыв не записывается.
	Feedback string
	Approve  bool
	Activity *models.ActivityLog
	// Completion пишется в журнал, если приемка довела прогресс до 100.
	Completion  *models.ActivityLog
	CompletedAt time.Time
}

// ReviewMilestone в одной транзакции сохраняет отзыв, меняет статус этапа,
// пересчитывает прогресс и на 100% завершает проект. Project обновляется на месте.
// ErrConflict, если этап уже done или проект уже не active.
func (s *Storage) ReviewMilestone(ctx context.Context, p ReviewParams) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		if p.Feedback != "" {
			res, err := tx.ExecContext(ctx,
				`UPDATE submissions SET feedback=$1 WHERE id=$2 AND milestone_id=$3`,
				p.Feedback, p.SubmissionID, p.MilestoneID)
			if err := expectRows(res, err); err != nil {
				if err == ErrConflict {
					return ErrNotFound
				}
				return err
			}
		}

		status := models.MilestoneInProgress
		if p.Approve {
			status = models.MilestoneDone
		}
		res, err := tx.ExecContext(ctx,
			`UPDATE milestones SET status=$1, updated_at=NOW() WHERE id=$2 AND status<>$3`,
			status, p.MilestoneID, models.MilestoneDone)
		if err := expectRows(res, err); err != nil {
			return err
		}

		if p.Activity != nil {
			p.Activity.ProjectID = p.Project.ID
			if err := insertActivity(ctx, tx, p.Activity); err != nil {
				return err
			}
		}
		if !p.Approve {
			return nil
		}

		pct, err := refreshProgress(ctx, tx, p.Project.ID)
		if err != nil {
			if err == ErrNotFound {
				return ErrConflict
			}
			return err
		}
		p.Project.ProgressPercentage = pct
		if pct < 100 {
			return nil
		}
		completedAt := p.CompletedAt
		p.Project.Status = models.ProjectCompleted
		p.Project.CompletedAt = &completedAt
		return finishProject(ctx, tx, p.Project, p.Completion)
	})
}
