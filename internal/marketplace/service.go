package marketplace

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"seekit/db"
	"seekit/internal/metrics"
	"seekit/models"
)

// Service проверяет правила жизненного цикла и пишет в Storage.
type Service struct {
	store Storage
	log   *zap.Logger
	now   func() time.Time
}

func NewService(store Storage, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, log: log, now: time.Now}
}

// done считает метрику операции и пишет лог. Ошибки таксономии идут в Warn,
// остальные в Error.
func (s *Service) done(op string, err error, fields ...zap.Field) error {
	result := resultLabel(err)
	metrics.RecordOperation(op, result)
	switch {
	case err == nil:
		s.log.Info(op, fields...)
	case result == "error":
		s.log.Error(op+" failed", append(fields, zap.Error(err))...)
	default:
		s.log.Warn(op+" rejected", append(fields, zap.String("reason", err.Error()))...)
	}
	return err
}

func requireRole(u *models.User, role models.Role) error {
	if u == nil {
		return ErrAuth
	}
	if u.Role != role {
		return forbiddenf("only a %s can do this", role)
	}
	return nil
}

// loadProject возвращает проект, если user одна из его сторон.
func (s *Service) loadProject(ctx context.Context, user *models.User, projectID int) (*models.Project, error) {
	if user == nil {
		return nil, ErrAuth
	}
	p, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, notFound(err, "project", projectID)
	}
	if !p.IsParty(user.ID) {
		return nil, forbiddenf("you are not part of project %d", projectID)
	}
	return p, nil
}

// loadMilestone возвращает этап и его проект с той же проверкой доступа.
func (s *Service) loadMilestone(ctx context.Context, user *models.User, milestoneID int) (*models.Milestone, *models.Project, error) {
	m, err := s.store.GetMilestone(ctx, milestoneID)
	if err != nil {
		return nil, nil, notFound(err, "milestone", milestoneID)
	}
	p, err := s.loadProject(ctx, user, m.ProjectID)
	if err != nil {
		return nil, nil, err
	}
	return m, p, nil
}

func isConflict(err error) bool {
	return errors.Is(err, db.ErrConflict)
}
