package marketplace

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"seekit/db"
	"seekit/models"
)

// AddReview: отзыв одной стороны о другой, только по завершенному проекту.
func (s *Service) AddReview(ctx context.Context, reviewer *models.User, projectID, revieweeID, rating int, comment string) (*models.Review, error) {
	if reviewer == nil {
		return nil, s.done("add_review", ErrAuth)
	}
	if rating < 1 || rating > 5 {
		return nil, s.done("add_review", validationf("rating must be between 1 and 5"))
	}
	if reviewer.ID == revieweeID {
		return nil, s.done("add_review", validationf("you cannot review yourself"))
	}
	p, err := s.loadProject(ctx, reviewer, projectID)
	if err != nil {
		return nil, s.done("add_review", err)
	}
	if p.Status != models.ProjectCompleted {
		return nil, s.done("add_review", statef("project %d is %s, reviews need a completed project", projectID, p.Status))
	}
	if p.Counterpart(reviewer.ID) != revieweeID {
		return nil, s.done("add_review", validationf("user %d is not the other party of project %d", revieweeID, projectID))
	}

	r := &models.Review{
		ProjectID:    projectID,
		ReviewerID:   reviewer.ID,
		ReviewerName: reviewer.Name,
		RevieweeID:   revieweeID,
		Rating:       rating,
		Comment:      strings.TrimSpace(comment),
	}
	if err := s.store.CreateReview(ctx, r); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			err = fmt.Errorf("%w: you already reviewed project %d", ErrDuplicate, projectID)
		}
		return nil, s.done("add_review", err)
	}
	s.logActivity(ctx, projectID, reviewer.ID, models.ActivityReviewAdded,
		fmt.Sprintf("%s left a %d-star review", reviewer.Name, rating))
	return r, s.done("add_review", nil, zap.Int("project_id", projectID), zap.Int("rating", rating))
}

func (s *Service) ProjectReviews(ctx context.Context, projectID int) ([]models.Review, error) {
	if _, err := s.store.GetProject(ctx, projectID); err != nil {
		return nil, notFound(err, "project", projectID)
	}
	return s.store.ListReviewsByProject(ctx, projectID)
}

// Portfolio собирается из завершенных проектов и полученных отзывов.
func (s *Service) Portfolio(ctx context.Context, freelancerID int) (*models.Portfolio, error) {
	u, err := s.store.GetUser(ctx, freelancerID)
	if err != nil {
		return nil, notFound(err, "user", freelancerID)
	}
	if u.Role != models.RoleFreelancer {
		return nil, validationf("user %d is not a freelancer", freelancerID)
	}

	entries, err := s.store.ListPortfolioEntries(ctx, freelancerID)
	if err != nil {
		return nil, err
	}
	reviews, err := s.store.ListReviewsForUser(ctx, freelancerID)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	skills := []string{}
	for _, e := range entries {
		for _, sk := range e.RequiredSkills {
			key := strings.ToLower(strings.TrimSpace(sk))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			skills = append(skills, strings.TrimSpace(sk))
		}
	}
	sort.Strings(skills)

	stats := models.PortfolioStats{CompletedProjects: len(entries), TotalReviews: len(reviews)}
	if len(reviews) > 0 {
		sum := 0
		for _, r := range reviews {
			sum += r.Rating
		}
		stats.AverageRating = math.Round(float64(sum)/float64(len(reviews))*100) / 100
	}

	return &models.Portfolio{
		FreelancerID: freelancerID,
		Entries:      entries,
		Skills:       skills,
		Reviews:      reviews,
		Stats:        stats,
	}, nil
}
