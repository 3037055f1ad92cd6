package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"seekit/models"
)

const jobColumns = `id, client_id, title, description, required_skills, budget_min, budget_max, deadline, status, created_at, updated_at`

func (s *Storage) CreateJob(ctx context.Context, j *models.Job) error {
	if j.RequiredSkills == nil {
		// nil-массив pq пишет как NULL
		j.RequiredSkills = pq.StringArray{}
	}
	query := `
        INSERT INTO jobs
            (client_id, title, description, required_skills, budget_min, budget_max, deadline, status)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, created_at, updated_at`
	err := s.db.QueryRowContext(ctx, query,
		j.ClientID, j.Title, j.Description, j.RequiredSkills, j.BudgetMin, j.BudgetMax, j.Deadline, j.Status).
		Scan(&j.ID, &j.CreatedAt, &j.UpdatedAt)
	return translate(err)
}

func (s *Storage) GetJob(ctx context.Context, id int) (*models.Job, error) {
	j := &models.Job{}
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id=$1`
	if err := s.db.GetContext(ctx, j, query, id); err != nil {
		return nil, translate(err)
	}
	return j, nil
}

func (s *Storage) ListJobsByClient(ctx context.Context, clientID int) ([]models.Job, error) {
	jobs := []models.Job{}
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE client_id=$1 ORDER BY created_at DESC, id DESC`
	err := s.db.SelectContext(ctx, &jobs, query, clientID)
	return jobs, err
}

// SearchJobs ищет только открытые вакансии.
func (s *Storage) SearchJobs(ctx context.Context, f models.JobFilter) ([]models.Job, error) {
	conds := []string{"status = 'open'"}
	var args []interface{}

	if kw := strings.TrimSpace(f.Keywords); kw != "" {
		args = append(args, "%"+kw+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(title ILIKE $%d OR description ILIKE $%d OR array_to_string(required_skills, ',') ILIKE $%d)", n, n, n))
	}
	if f.MinBudget != nil {
		args = append(args, *f.MinBudget)
		conds = append(conds, fmt.Sprintf("budget_max >= $%d", len(args)))
	}
	if f.MaxBudget != nil {
		args = append(args, *f.MaxBudget)
		conds = append(conds, fmt.Sprintf("budget_min <= $%d", len(args)))
	}

	query := `SELECT ` + jobColumns + ` FROM jobs WHERE ` + strings.Join(conds, " AND ") +
		` ORDER BY created_at DESC, id DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)
	}

	jobs := []models.Job{}
	if err := s.db.SelectContext(ctx, &jobs, query, args...); err != nil {
		return nil, err
	}
	return jobs, nil
}

// UpdateJobStatus меняет статус, только если текущий статус равен from.
func (s *Storage) UpdateJobStatus(ctx context.Context, id int, from, to models.JobStatus) error {
	query := `UPDATE jobs SET status=$1, updated_at=NOW() WHERE id=$2 AND status=$3`
	res, err := s.db.ExecContext(ctx, query, to, id, from)
	return expectRows(res, err)
}
