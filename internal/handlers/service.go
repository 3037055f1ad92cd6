package handlers

import (
	"context"

	"seekit/internal/marketplace"
	"seekit/models"
)

// Marketplace: операции сервиса, которые нужны обработчикам.
type Marketplace interface {
	Register(ctx context.Context, in marketplace.RegisterInput) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetUser(ctx context.Context, id int) (*models.User, error)
	ListUsers(ctx context.Context, role models.Role) ([]models.User, error)
	AddSkill(ctx context.Context, user *models.User, name, level string) (*models.Skill, error)
	RemoveSkill(ctx context.Context, user *models.User, skillID int) error
	BrowseFreelancers(ctx context.Context, client *models.User) ([]models.User, error)
	MatchFreelancers(ctx context.Context, client *models.User, jobID int) ([]models.FreelancerMatch, error)

	PostJob(ctx context.Context, client *models.User, in marketplace.JobInput) (*models.Job, error)
	GetJob(ctx context.Context, jobID int) (*models.Job, error)
	ListClientJobs(ctx context.Context, client *models.User) ([]models.Job, error)
	CloseJob(ctx context.Context, client *models.User, jobID int) (*models.Job, error)
	SearchJobs(ctx context.Context, user *models.User, f models.JobFilter) ([]models.Job, error)
	SearchHistory(ctx context.Context, user *models.User) ([]models.SearchHistory, error)

	Apply(ctx context.Context, freelancer *models.User, jobID int, coverLetter string) (*models.Application, error)
	ListFreelancerApplications(ctx context.Context, freelancer *models.User) ([]models.Application, error)
	ListJobApplications(ctx context.Context, client *models.User, jobID int) ([]models.Application, error)
	ListClientApplications(ctx context.Context, client *models.User) ([]models.Application, error)
	AcceptApplication(ctx context.Context, client *models.User, appID int, rejectOthers bool) (*models.Project, error)
	RejectApplication(ctx context.Context, client *models.User, appID int) (*models.Application, error)

	ListWorkspaces(ctx context.Context, user *models.User) ([]models.Project, error)
	GetWorkspace(ctx context.Context, user *models.User, projectID int) (*models.Workspace, error)
	AddMilestone(ctx context.Context, client *models.User, projectID int, in marketplace.MilestoneInput) (*models.Milestone, error)
	SubmitDeliverable(ctx context.Context, freelancer *models.User, milestoneID int, description, filePath string) (*models.Submission, error)
	ListSubmissions(ctx context.Context, user *models.User, milestoneID int) ([]models.Submission, error)
	AddFeedback(ctx context.Context, client *models.User, submissionID int, feedback string) (*models.Submission, error)
	ReviewDeliverable(ctx context.Context, client *models.User, milestoneID int, approve bool, feedback string) (*models.Project, error)
	CompleteProject(ctx context.Context, client *models.User, projectID int) (*models.Project, error)
	CancelProject(ctx context.Context, user *models.User, projectID int) (*models.Project, error)
	ActivityLog(ctx context.Context, user *models.User, projectID int) ([]models.ActivityLog, error)

	AddReview(ctx context.Context, reviewer *models.User, projectID, revieweeID, rating int, comment string) (*models.Review, error)
	ProjectReviews(ctx context.Context, projectID int) ([]models.Review, error)
	Portfolio(ctx context.Context, freelancerID int) (*models.Portfolio, error)
}

var _ Marketplace = (*marketplace.Service)(nil)
