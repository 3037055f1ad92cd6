package db

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"seekit/models"
)

const userColumns = `id, name, email, password_hash, location, role, created_at`

// CreateUser сохраняет пользователя вместе с его навыками.
func (s *Storage) CreateUser(ctx context.Context, u *models.User) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		query := `
        INSERT INTO users (name, email, password_hash, location, role)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at`
		err := tx.QueryRowContext(ctx, query, u.Name, u.Email, u.PasswordHash, u.Location, u.Role).
			Scan(&u.ID, &u.CreatedAt)
		if err != nil {
			return translate(err)
		}
		for i := range u.Skills {
			u.Skills[i].UserID = u.ID
			if err := insertSkill(ctx, tx, &u.Skills[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Storage) GetUser(ctx context.Context, id int) (*models.User, error) {
	u := &models.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	if err := s.db.GetContext(ctx, u, query, id); err != nil {
		return nil, translate(err)
	}
	skills, err := s.ListSkills(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	u.Skills = skills
	return u, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u := &models.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email)=LOWER($1) LIMIT 1`
	if err := s.db.GetContext(ctx, u, query, strings.TrimSpace(email)); err != nil {
		return nil, translate(err)
	}
	skills, err := s.ListSkills(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	u.Skills = skills
	return u, nil
}

// ListUsers возвращает пользователей, role == "" означает всех.
func (s *Storage) ListUsers(ctx context.Context, role models.Role) ([]models.User, error) {
	users := []models.User{}
	var err error
	if role == "" {
		query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC, id DESC`
		err = s.db.SelectContext(ctx, &users, query)
	} else {
		query := `SELECT ` + userColumns + ` FROM users WHERE role=$1 ORDER BY created_at DESC, id DESC`
		err = s.db.SelectContext(ctx, &users, query, role)
	}
	if err != nil {
		return nil, err
	}
	if err := s.attachSkills(ctx, users); err != nil {
		return nil, err
	}
	return users, nil
}

// FindFreelancersBySkills ищет фрилансеров хотя бы с одним из навыков (без учета регистра).
func (s *Storage) FindFreelancersBySkills(ctx context.Context, names []string) ([]models.User, error) {
	lowered := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.ToLower(strings.TrimSpace(n)); n != "" {
			lowered = append(lowered, n)
		}
	}
	query := `
        SELECT DISTINCT u.id, u.name, u.email, u.password_hash, u.location, u.role, u.created_at
        FROM users u
        JOIN skills sk ON sk.user_id = u.id
        WHERE u.role = 'freelancer' AND LOWER(sk.name) = ANY($1)
        ORDER BY u.created_at DESC, u.id DESC`
	users := []models.User{}
	if err := s.db.SelectContext(ctx, &users, query, pq.Array(lowered)); err != nil {
		return nil, err
	}
	if err := s.attachSkills(ctx, users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Storage) attachSkills(ctx context.Context, users []models.User) error {
	if len(users) == 0 {
		return nil
	}
	ids := make([]int64, len(users))
	for i, u := range users {
		ids[i] = int64(u.ID)
	}
	skills := []models.Skill{}
	query := `
        SELECT id, user_id, name, level, created_at
        FROM skills
        WHERE user_id = ANY($1)
        ORDER BY name ASC`
	if err := s.db.SelectContext(ctx, &skills, query, pq.Array(ids)); err != nil {
		return err
	}
	byUser := make(map[int][]models.Skill, len(users))
	for _, sk := range skills {
		byUser[sk.UserID] = append(byUser[sk.UserID], sk)
	}
	for i := range users {
		users[i].Skills = byUser[users[i].ID]
	}
	return nil
}

// Skill (Навык)

func insertSkill(ctx context.Context, tx *sqlx.Tx, sk *models.Skill) error {
	query := `
        INSERT INTO skills (user_id, name, level)
        VALUES ($1, $2, $3)
        RETURNING id, created_at`
	return translate(tx.QueryRowContext(ctx, query, sk.UserID, sk.Name, sk.Level).Scan(&sk.ID, &sk.CreatedAt))
}

func (s *Storage) CreateSkill(ctx context.Context, sk *models.Skill) error {
	query := `
        INSERT INTO skills (user_id, name, level)
        VALUES ($1, $2, $3)
        RETURNING id, created_at`
	return translate(s.db.QueryRowContext(ctx, query, sk.UserID, sk.Name, sk.Level).Scan(&sk.ID, &sk.CreatedAt))
}

func (s *Storage) ListSkills(ctx context.Context, userID int) ([]models.Skill, error) {
	skills := []models.Skill{}
	query := `SELECT id, user_id, name, level, created_at FROM skills WHERE user_id=$1 ORDER BY name ASC`
	err := s.db.SelectContext(ctx, &skills, query, userID)
	return skills, err
}

func (s *Storage) DeleteSkill(ctx context.Context, userID, skillID int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM skills WHERE id=$1 AND user_id=$2`, skillID, userID)
	if err := expectRows(res, err); err != nil {
		if err == ErrConflict {
			return ErrNotFound
		}
		return err
	}
	return nil
}
