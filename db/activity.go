package db

import (
	"context"

	"github.com/jmoiron/sqlx"

	"seekit/models"
)

// Журналы только дополняются, UPDATE/DELETE для них нет.

func insertActivity(ctx context.Context, q sqlx.QueryerContext, a *models.ActivityLog) error {
	query := `
        INSERT INTO activity_log (project_id, user_id, activity_type, description)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at`
	err := q.QueryRowxContext(ctx, query, a.ProjectID, a.UserID, a.ActivityType, a.Description).
		Scan(&a.ID, &a.CreatedAt)
	return translate(err)
}

func (s *Storage) CreateActivity(ctx context.Context, a *models.ActivityLog) error {
	return insertActivity(ctx, s.db, a)
}

// ListActivity: история проекта, новые записи сверху.
func (s *Storage) ListActivity(ctx context.Context, projectID int) ([]models.ActivityLog, error) {
	entries := []models.ActivityLog{}
	query := `
        SELECT al.id, al.project_id, al.user_id, u.name AS user_name,
               al.activity_type, al.description, al.created_at
        FROM activity_log al
        JOIN users u ON al.user_id = u.id
        WHERE al.project_id=$1
        ORDER BY al.created_at DESC, al.id DESC`
	err := s.db.SelectContext(ctx, &entries, query, projectID)
	return entries, err
}

func (s *Storage) CreateSearchHistory(ctx context.Context, h *models.SearchHistory) error {
	query := `
        INSERT INTO search_history (user_id, query)
        VALUES ($1, $2)
        RETURNING id, searched_at`
	return translate(s.db.QueryRowContext(ctx, query, h.UserID, h.Query).Scan(&h.ID, &h.SearchedAt))
}

func (s *Storage) ListSearchHistory(ctx context.Context, userID, limit int) ([]models.SearchHistory, error) {
	if limit <= 0 {
		limit = 20
	}
	history := []models.SearchHistory{}
	query := `
        SELECT id, user_id, query, searched_at
        FROM search_history
        WHERE user_id=$1
        ORDER BY searched_at DESC, id DESC
        LIMIT $2`
	err := s.db.SelectContext(ctx, &history, query, userID, limit)
	return history, err
}
