package marketplace

import (
	"context"

	"seekit/db"
	"seekit/models"
)

// Storage: то, что сервису нужно от хранилища. Реализуется *db.Storage.
type Storage interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id int) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context, role models.Role) ([]models.User, error)
	FindFreelancersBySkills(ctx context.Context, names []string) ([]models.User, error)

	CreateSkill(ctx context.Context, sk *models.Skill) error
	ListSkills(ctx context.Context, userID int) ([]models.Skill, error)
	DeleteSkill(ctx context.Context, userID, skillID int) error

	CreateJob(ctx context.Context, j *models.Job) error
	GetJob(ctx context.Context, id int) (*models.Job, error)
	ListJobsByClient(ctx context.Context, clientID int) ([]models.Job, error)
	SearchJobs(ctx context.Context, f models.JobFilter) ([]models.Job, error)
	UpdateJobStatus(ctx context.Context, id int, from, to models.JobStatus) error

	CreateApplication(ctx context.Context, a *models.Application) error
	GetApplication(ctx context.Context, id int) (*models.Application, error)
	FindApplication(ctx context.Context, jobID, freelancerID int) (*models.Application, error)
	ListApplicationsByJob(ctx context.Context, jobID int) ([]models.Application, error)
	ListApplicationsByFreelancer(ctx context.Context, freelancerID int) ([]models.Application, error)
	ListApplicationsByClient(ctx context.Context, clientID int) ([]models.Application, error)
	UpdateApplicationStatus(ctx context.Context, id int, from, to models.ApplicationStatus) error
	AcceptApplication(ctx context.Context, p db.AcceptParams) (*models.Project, error)

	GetProject(ctx context.Context, id int) (*models.Project, error)
	GetProjectParties(ctx context.Context, projectID int) (*models.ProjectParties, error)
	ListProjectsForUser(ctx context.Context, userID int, status models.ProjectStatus) ([]models.Project, error)
	FinishProject(ctx context.Context, p *models.Project, entry *models.ActivityLog) error

	CreateMilestone(ctx context.Context, m *models.Milestone) error
	GetMilestone(ctx context.Context, id int) (*models.Milestone, error)
	ListMilestones(ctx context.Context, projectID int) ([]models.Milestone, error)
	ReviewMilestone(ctx context.Context, p db.ReviewParams) error

	CreateSubmission(ctx context.Context, sub *models.Submission) error
	GetSubmission(ctx context.Context, id int) (*models.Submission, error)
	ListSubmissions(ctx context.Context, milestoneID int) ([]models.Submission, error)
	LatestSubmission(ctx context.Context, milestoneID int) (*models.Submission, error)
	SetSubmissionFeedback(ctx context.Context, id int, feedback string) error

	CreateReview(ctx context.Context, r *models.Review) error
	ListReviewsByProject(ctx context.Context, projectID int) ([]models.Review, error)
	ListReviewsForUser(ctx context.Context, revieweeID int) ([]models.Review, error)
	ListPortfolioEntries(ctx context.Context, freelancerID int) ([]models.PortfolioEntry, error)

	CreateActivity(ctx context.Context, a *models.ActivityLog) error
	ListActivity(ctx context.Context, projectID int) ([]models.ActivityLog, error)
	CreateSearchHistory(ctx context.Context, h *models.SearchHistory) error
	ListSearchHistory(ctx context.Context, userID, limit int) ([]models.SearchHistory, error)
}

var _ Storage = (*db.Storage)(nil)
