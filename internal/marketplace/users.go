package marketplace

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"seekit/db"
	"seekit/internal/auth"
	"seekit/models"
)

var emailRe = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.\w+$`)

const minPasswordLen = 6

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Location string
	Role     models.Role
	Skills   []string
}

// SplitList режет строку через запятую и выбрасывает пустые элементы.
func SplitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateRegistration(in *RegisterInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.Location = strings.TrimSpace(in.Location)
	in.Role = models.Role(strings.ToLower(strings.TrimSpace(string(in.Role))))

	if in.Name == "" {
		return validationf("name cannot be empty")
	}
	if !emailRe.MatchString(in.Email) {
		return validationf("please enter a valid email address")
	}
	if len(in.Password) < minPasswordLen {
		return validationf("password should be at least %d characters long", minPasswordLen)
	}
	if !in.Role.Valid() {
		return validationf("role must be one of: client, freelancer")
	}
	if in.Role == models.RoleFreelancer && len(in.Skills) == 0 {
		return validationf("please provide at least one skill")
	}
	return nil
}

// Register создает пользователя. Пароль хранится только как bcrypt-хеш.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := validateRegistration(&in); err != nil {
		return nil, s.done("register", err)
	}

	if _, err := s.store.GetUserByEmail(ctx, in.Email); err == nil {
		return nil, s.done("register", fmt.Errorf("%w: email %s is already registered", ErrDuplicate, in.Email))
	} else if !errors.Is(err, db.ErrNotFound) {
		return nil, s.done("register", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, s.done("register", err)
	}

	u := &models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Location:     in.Location,
		Role:         in.Role,
	}
	if in.Role == models.RoleFreelancer {
		seen := map[string]bool{}
		for _, name := range in.Skills {
			key := strings.ToLower(name)
			if seen[key] {
				continue
			}
			seen[key] = true
			u.Skills = append(u.Skills, models.Skill{Name: name, Level: models.LevelIntermediate})
		}
	}

	if err := s.store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			err = fmt.Errorf("%w: email %s is already registered", ErrDuplicate, in.Email)
		}
		return nil, s.done("register", err)
	}
	return u, s.done("register", nil, zap.Int("user_id", u.ID), zap.String("role", string(u.Role)))
}

// Authenticate не различает неизвестный email и неверный пароль.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.store.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			err = fmt.Errorf("%w: invalid email or password", ErrAuth)
		}
		return nil, s.done("authenticate", err)
	}
	if !auth.CheckPassword(password, u.PasswordHash) {
		return nil, s.done("authenticate", fmt.Errorf("%w: invalid email or password", ErrAuth))
	}
	return u, s.done("authenticate", nil, zap.Int("user_id", u.ID))
}

func (s *Service) GetUser(ctx context.Context, id int) (*models.User, error) {
	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, notFound(err, "user", id)
	}
	return u, nil
}

// ListUsers с пустой ролью возвращает всех пользователей.
func (s *Service) ListUsers(ctx context.Context, role models.Role) ([]models.User, error) {
	if role != "" && !role.Valid() {
		return nil, validationf("unknown role %q", role)
	}
	return s.store.ListUsers(ctx, role)
}

func validLevel(level string) bool {
	switch level {
	case models.LevelBeginner, models.LevelIntermediate, models.LevelAdvanced, models.LevelExpert:
		return true
	}
	return false
}

func (s *Service) AddSkill(ctx context.Context, user *models.User, name, level string) (*models.Skill, error) {
	if user == nil {
		return nil, s.done("add_skill", ErrAuth)
	}
	if user.Role != models.RoleFreelancer {
		return nil, s.done("add_skill", statef("only freelancers have skills"))
	}
	name = strings.TrimSpace(name)
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		level = models.LevelIntermediate
	}
	if name == "" {
		return nil, s.done("add_skill", validationf("skill name cannot be empty"))
	}
	if !validLevel(level) {
		return nil, s.done("add_skill", validationf("level must be beginner, intermediate, advanced or expert"))
	}

	sk := &models.Skill{UserID: user.ID, Name: name, Level: level}
	if err := s.store.CreateSkill(ctx, sk); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			err = fmt.Errorf("%w: skill %q", ErrDuplicate, name)
		}
		return nil, s.done("add_skill", err)
	}
	user.Skills = append(user.Skills, *sk)
	return sk, s.done("add_skill", nil, zap.Int("user_id", user.ID), zap.String("skill", name))
}

func (s *Service) RemoveSkill(ctx context.Context, user *models.User, skillID int) error {
	if user == nil {
		return s.done("remove_skill", ErrAuth)
	}
	if err := s.store.DeleteSkill(ctx, user.ID, skillID); err != nil {
		return s.done("remove_skill", notFound(err, "skill", skillID))
	}
	for i, sk := range user.Skills {
		if sk.ID == skillID {
			user.Skills = append(user.Skills[:i], user.Skills[i+1:]...)
			break
		}
	}
	return s.done("remove_skill", nil, zap.Int("user_id", user.ID), zap.Int("skill_id", skillID))
}

func (s *Service) BrowseFreelancers(ctx context.Context, client *models.User) ([]models.User, error) {
	if err := requireRole(client, models.RoleClient); err != nil {
		return nil, err
	}
	return s.store.ListUsers(ctx, models.RoleFreelancer)
}

// MatchFreelancers ищет фрилансеров под навыки вакансии клиента.
// Если навыки не указаны, возвращаются все фрилансеры.
func (s *Service) MatchFreelancers(ctx context.Context, client *models.User, jobID int) ([]models.FreelancerMatch, error) {
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

	var users []models.User
	if len(job.RequiredSkills) == 0 {
		users, err = s.store.ListUsers(ctx, models.RoleFreelancer)
	} else {
		users, err = s.store.FindFreelancersBySkills(ctx, job.RequiredSkills)
	}
	if err != nil {
		return nil, err
	}

	required := make(map[string]bool, len(job.RequiredSkills))
	for _, name := range job.RequiredSkills {
		required[strings.ToLower(strings.TrimSpace(name))] = true
	}
	matches := make([]models.FreelancerMatch, 0, len(users))
	for _, u := range users {
		m := models.FreelancerMatch{Freelancer: u, Matched: []string{}}
		for _, sk := range u.Skills {
			if required[strings.ToLower(sk.Name)] {
				m.Matched = append(m.Matched, sk.Name)
			}
		}
		matches = append(matches, m)
	}
	return matches, nil
}
