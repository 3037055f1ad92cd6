package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"seekit/internal/metrics"
)

// NewRouter собирает маршруты API. Все, кроме ping/register/login, требуют токен.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(h.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", h.PingHandler)
		r.Post("/users/register", h.RegisterHandler)
		r.Post("/users/login", h.LoginHandler)

		r.Group(func(r chi.Router) {
			r.Use(h.Authenticate)

			// пользователи и навыки
			r.Get("/users", h.ListUsersHandler)
			r.Get("/users/me", h.MeHandler)
			r.Get("/users/me/searches", h.SearchHistoryHandler)
			r.Post("/users/me/skills", h.AddSkillHandler)
			r.Delete("/users/me/skills/{skillId}", h.RemoveSkillHandler)
			r.Get("/users/{userId}", h.GetUserHandler)
			r.Get("/freelancers", h.BrowseFreelancersHandler)
			r.Get("/freelancers/{userId}/portfolio", h.PortfolioHandler)

			// вакансии и отклики
			r.Get("/jobs", h.SearchJobsHandler)
			r.Post("/jobs", h.PostJobHandler)
			r.Get("/jobs/my", h.ListMyJobsHandler)
			r.Get("/jobs/{jobId}", h.GetJobHandler)
			r.Put("/jobs/{jobId}/close", h.CloseJobHandler)
			r.Get("/jobs/{jobId}/matches", h.MatchFreelancersHandler)
			r.Post("/jobs/{jobId}/applications", h.ApplyHandler)
			r.Get("/jobs/{jobId}/applications", h.ListJobApplicationsHandler)
			r.Get("/applications/my", h.ListMyApplicationsHandler)
			r.Put("/applications/{applicationId}/accept", h.AcceptApplicationHandler)
			r.Put("/applications/{applicationId}/reject", h.RejectApplicationHandler)

			// проекты
			r.Get("/projects", h.ListWorkspacesHandler)
			r.Get("/projects/{projectId}", h.GetWorkspaceHandler)
			r.Post("/projects/{projectId}/milestones", h.AddMilestoneHandler)
			r.Put("/projects/{projectId}/complete", h.CompleteProjectHandler)
			r.Put("/projects/{projectId}/cancel", h.CancelProjectHandler)
			r.Get("/projects/{projectId}/activity", h.ActivityLogHandler)
			r.Post("/projects/{projectId}/reviews", h.AddReviewHandler)
			r.Get("/projects/{projectId}/reviews", h.ProjectReviewsHandler)
			r.Post("/milestones/{milestoneId}/submissions", h.SubmitDeliverableHandler)
			r.Get("/milestones/{milestoneId}/submissions", h.ListSubmissionsHandler)
			r.Put("/milestones/{milestoneId}/review", h.ReviewDeliverableHandler)
			r.Put("/submissions/{submissionId}/feedback", h.FeedbackHandler)
		})
	})
	return r
}
