package db

import (
	"context"

	"seekit/models"
)

const reviewSelect = `
        SELECT r.id, r.project_id, r.reviewer_id, u.name AS reviewer_name,
               r.reviewee_id, r.rating, r.comment, r.created_at
        FROM reviews r
        JOIN users u ON r.reviewer_id = u.id`

func (s *Storage) CreateReview(ctx context.Context, r *models.Review) error {
	query := `
        INSERT INTO reviews (project_id, reviewer_id, reviewee_id, rating, comment)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at`
	err := s.db.QueryRowContext(ctx, query, r.ProjectID, r.ReviewerID, r.RevieweeID, r.Rating, r.Comment).
		Scan(&r.ID, &r.CreatedAt)
	return translate(err)
}

func (s *Storage) ListReviewsByProject(ctx context.Context, projectID int) ([]models.Review, error) {
	reviews := []models.Review{}
	query := reviewSelect + ` WHERE r.project_id=$1 ORDER BY r.created_at DESC, r.id DESC`
	err := s.db.SelectContext(ctx, &reviews, query, projectID)
	return reviews, err
}

// ListReviewsForUser: отзывы, полученные пользователем.
func (s *Storage) ListReviewsForUser(ctx context.Context, revieweeID int) ([]models.Review, error) {
	reviews := []models.Review{}
	query := reviewSelect + ` WHERE r.reviewee_id=$1 ORDER BY r.created_at DESC, r.id DESC`
	err := s.db.SelectContext(ctx, &reviews, query, revieweeID)
	return reviews, err
}

// ListPortfolioEntries: завершенные проекты фрилансера с отзывом клиента, если он есть.
func (s *Storage) ListPortfolioEntries(ctx context.Context, freelancerID int) ([]models.PortfolioEntry, error) {
	entries := []models.PortfolioEntry{}
	query := `
        SELECT p.id AS project_id, j.title, j.description, j.required_skills, p.completed_at,
               r.rating, COALESCE(r.comment, '') AS review_comment
        FROM projects p
        JOIN jobs j ON p.job_id = j.id
        LEFT JOIN reviews r ON r.project_id = p.id AND r.reviewee_id = p.freelancer_id
        WHERE p.freelancer_id=$1 AND p.status=$2
        ORDER BY p.completed_at DESC NULLS LAST, p.id DESC`
	err := s.db.SelectContext(ctx, &entries, query, freelancerID, models.ProjectCompleted)
	return entries, err
}
