package models

import (
	"time"

	"github.com/lib/pq"
)

type Role string

const (
	RoleClient     Role = "client"
	RoleFreelancer Role = "freelancer"
)

func (r Role) Valid() bool {
	return r == RoleClient || r == RoleFreelancer
}

// Сущность Пользователя
type User struct {
	ID           int       `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Location     string    `db:"location" json:"location"`
	Role         Role      `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	Skills       []Skill   `db:"-" json:"skills,omitempty"`
}

func (u *User) SkillNames() []string {
	names := make([]string, 0, len(u.Skills))
	for _, s := range u.Skills {
		names = append(names, s.Name)
	}
	return names
}

const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
	LevelExpert       = "expert"
)

// Сущность Навыка (принадлежит фрилансеру)
type Skill struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"userId"`
	Name      string    `db:"name" json:"name"`
	Level     string    `db:"level" json:"level"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type JobStatus string

const (
	JobOpen       JobStatus = "open"
	JobInProgress JobStatus = "in_progress"
	JobClosed     JobStatus = "closed"
)

// CanMoveTo разрешает только движение вперед: open -> in_progress -> closed.
func (s JobStatus) CanMoveTo(next JobStatus) bool {
	switch s {
	case JobOpen:
		return next == JobInProgress || next == JobClosed
	case JobInProgress:
		return next == JobClosed
	}
	return false
}

// Сущность Вакансии
type Job struct {
	ID             int            `db:"id" json:"id"`
	ClientID       int            `db:"client_id" json:"clientId"`
	Title          string         `db:"title" json:"title"`
	Description    string         `db:"description" json:"description"`
	RequiredSkills pq.StringArray `db:"required_skills" json:"requiredSkills"`
	BudgetMin      *float64       `db:"budget_min" json:"budgetMin,omitempty"`
	BudgetMax      *float64       `db:"budget_max" json:"budgetMax,omitempty"`
	Deadline       *time.Time     `db:"deadline" json:"deadline,omitempty"`
	Status         JobStatus      `db:"status" json:"status"`
	CreatedAt      time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time      `db:"updated_at" json:"-"`
}

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

// CanMoveTo: решение по отклику принимается один раз, из pending.
func (s ApplicationStatus) CanMoveTo(next ApplicationStatus) bool {
	return s == ApplicationPending && (next == ApplicationAccepted || next == ApplicationRejected)
}

// Сущность Отклика
type Application struct {
	ID             int               `db:"id" json:"id"`
	JobID          int               `db:"job_id" json:"jobId"`
	FreelancerID   int               `db:"freelancer_id" json:"freelancerId"`
	FreelancerName string            `db:"freelancer_name" json:"freelancerName,omitempty"`
	CoverLetter    string            `db:"cover_letter" json:"coverLetter"`
	Status         ApplicationStatus `db:"status" json:"status"`
	AppliedAt      time.Time         `db:"applied_at" json:"appliedAt"`
	UpdatedAt      time.Time         `db:"updated_at" json:"-"`
}

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectCancelled ProjectStatus = "cancelled"
)

// CanMoveTo: из active в completed или cancelled, дальше никуда.
func (s ProjectStatus) CanMoveTo(next ProjectStatus) bool {
	return s == ProjectActive && (next == ProjectCompleted || next == ProjectCancelled)
}

// Сущность Проекта (создается из принятого отклика)
type Project struct {
	ID                 int           `db:"id" json:"id"`
	JobID              int           `db:"job_id" json:"jobId"`
	ApplicationID      int           `db:"application_id" json:"applicationId"`
	FreelancerID       int           `db:"freelancer_id" json:"freelancerId"`
	ClientID           int           `db:"client_id" json:"clientId"`
	Status             ProjectStatus `db:"status" json:"status"`
	ProgressPercentage int           `db:"progress_percentage" json:"progressPercentage"`
	CreatedAt          time.Time     `db:"created_at" json:"createdAt"`
	CompletedAt        *time.Time    `db:"completed_at" json:"completedAt,omitempty"`
}

// IsParty проверяет, что пользователь клиент или исполнитель проекта.
func (p *Project) IsParty(userID int) bool {
	return p.ClientID == userID || p.FreelancerID == userID
}

// Counterpart возвращает вторую сторону проекта.
func (p *Project) Counterpart(userID int) int {
	if userID == p.ClientID {
		return p.FreelancerID
	}
	return p.ClientID
}

type MilestoneStatus string

const (
	MilestonePending    MilestoneStatus = "pending"
	MilestoneInProgress MilestoneStatus = "in_progress"
	MilestoneDone       MilestoneStatus = "done"
)

// CanMoveTo: pending -> in_progress -> done. Запрос доработки оставляет
// этап в in_progress.
func (s MilestoneStatus) CanMoveTo(next MilestoneStatus) bool {
	switch s {
	case MilestonePending:
		return next == MilestoneInProgress
	case MilestoneInProgress:
		return next == MilestoneInProgress || next == MilestoneDone
	}
	return false
}

// Progress: доля сданных этапов в процентах, с округлением вниз.
func Progress(milestones []Milestone) int {
	if len(milestones) == 0 {
		return 0
	}
	done := 0
	for _, m := range milestones {
		if m.Status == MilestoneDone {
			done++
		}
	}
	return done * 100 / len(milestones)
}

// Сущность Этапа
type Milestone struct {
	ID          int             `db:"id" json:"id"`
	ProjectID   int             `db:"project_id" json:"projectId"`
	Name        string          `db:"name" json:"name"`
	Description string          `db:"description" json:"description"`
	DueDate     *time.Time      `db:"due_date" json:"dueDate,omitempty"`
	Status      MilestoneStatus `db:"status" json:"status"`
	OrderNumber int             `db:"order_number" json:"orderNumber"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time       `db:"updated_at" json:"-"`
}

// Сущность Сдачи результата (версионируется в рамках этапа)
type Submission struct {
	ID            int       `db:"id" json:"id"`
	MilestoneID   int       `db:"milestone_id" json:"milestoneId"`
	Description   string    `db:"description" json:"description"`
	FilePath      string    `db:"file_path" json:"filePath"`
	VersionNumber int       `db:"version_number" json:"versionNumber"`
	Feedback      *string   `db:"feedback" json:"feedback,omitempty"`
	SubmittedAt   time.Time `db:"submitted_at" json:"submittedAt"`
}

// Сущность Отзыва
type Review struct {
	ID           int       `db:"id" json:"id"`
	ProjectID    int       `db:"project_id" json:"projectId"`
	ReviewerID   int       `db:"reviewer_id" json:"reviewerId"`
	ReviewerName string    `db:"reviewer_name" json:"reviewerName,omitempty"`
	RevieweeID   int       `db:"reviewee_id" json:"revieweeId"`
	Rating       int       `db:"rating" json:"rating"`
	Comment      string    `db:"comment" json:"comment"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

type SearchHistory struct {
	ID         int       `db:"id" json:"id"`
	UserID     int       `db:"user_id" json:"userId"`
	Query      string    `db:"query" json:"query"`
	SearchedAt time.Time `db:"searched_at" json:"searchedAt"`
}

const (
	ActivityWorkspaceCreated     = "workspace_created"
	ActivityDeliverableSubmitted = "deliverable_submitted"
	ActivityFeedbackAdded        = "feedback_added"
	ActivityMilestoneAdded       = "milestone_added"
	ActivityMilestoneApproved    = "milestone_approved"
	ActivityRevisionRequested    = "revision_requested"
	ActivityProjectCompleted     = "project_completed"
	ActivityProjectCancelled     = "project_cancelled"
	ActivityReviewAdded          = "review_added"
)

type ActivityLog struct {
	ID           int       `db:"id" json:"id"`
	ProjectID    int       `db:"project_id" json:"projectId"`
	UserID       int       `db:"user_id" json:"userId"`
	UserName     string    `db:"user_name" json:"userName,omitempty"`
	ActivityType string    `db:"activity_type" json:"activityType"`
	Description  string    `db:"description" json:"description"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// ProjectParties: название вакансии и имена сторон проекта.
type ProjectParties struct {
	JobTitle       string `db:"job_title"`
	ClientName     string `db:"client_name"`
	FreelancerName string `db:"freelancer_name"`
}

// Workspace: проект вместе с деталями вакансии, сторон и этапов.
type Workspace struct {
	Project        Project     `json:"project"`
	JobTitle       string      `json:"jobTitle"`
	ClientName     string      `json:"clientName"`
	FreelancerName string      `json:"freelancerName"`
	Milestones     []Milestone `json:"milestones"`
}

type PortfolioEntry struct {
	ProjectID      int            `db:"project_id" json:"projectId"`
	Title          string         `db:"title" json:"title"`
	Description    string         `db:"description" json:"description"`
	RequiredSkills pq.StringArray `db:"required_skills" json:"requiredSkills"`
	CompletedAt    *time.Time     `db:"completed_at" json:"completedAt,omitempty"`
	Rating         *int           `db:"rating" json:"rating,omitempty"`
	ReviewComment  string         `db:"review_comment" json:"reviewComment,omitempty"`
}

type PortfolioStats struct {
	CompletedProjects int     `json:"completedProjects"`
	TotalReviews      int     `json:"totalReviews"`
	AverageRating     float64 `json:"averageRating"`
}

// Portfolio собирается из завершенных проектов и отзывов, отдельной таблицы нет.
type Portfolio struct {
	FreelancerID int              `json:"freelancerId"`
	Entries      []PortfolioEntry `json:"entries"`
	Skills       []string         `json:"skills"`
	Reviews      []Review         `json:"reviews"`
	Stats        PortfolioStats   `json:"stats"`
}

type FreelancerMatch struct {
	Freelancer User     `json:"freelancer"`
	Matched    []string `json:"matched"`
}

// JobFilter: фильтры поиска открытых вакансий.
type JobFilter struct {
	Keywords  string
	MinBudget *float64
	MaxBudget *float64
	Limit     int
	Offset    int
}
