package handlers

import (
	"net/http"
	"time"

	"seekit/internal/marketplace"
)

func (h *Handler) ListWorkspacesHandler(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Svc.ListWorkspaces(r.Context(), CurrentUser(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// GetWorkspaceHandler обрабатывает GET /api/projects/{projectId}
func (h *Handler) GetWorkspaceHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "projectId")
	if !ok {
		return
	}
	ws, err := h.Svc.GetWorkspace(r.Context(), CurrentUser(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ws)
}

// AddMilestoneHandler обрабатывает POST /api/projects/{projectId}/milestones
func (h *Handler) AddMilestoneHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "projectId")
	if !ok {
		return
	}
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		DueDate     string `json:"dueDate"`
		OrderNumber int    `json:"orderNumber"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	in := marketplace.MilestoneInput{Name: req.Name, Description: req.Description, OrderNumber: req.OrderNumber}
	if req.DueDate != "" {
		d, err := time.Parse(dateLayout, req.DueDate)
		if err != nil {
			http.Error(w, "dueDate must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		in.DueDate = &d
	}
	m, err := h.Svc.AddMilestone(r.Context(), CurrentUser(r.Context()), id, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// SubmitDeliverableHandler обрабатывает POST /api/milestones/{milestoneId}/submissions
func (h *Handler) SubmitDeliverableHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "milestoneId")
	if !ok {
		return
	}
	var req struct {
		Description string `json:"description"`
		FilePath    string `json:"filePath"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	sub, err := h.Svc.SubmitDeliverable(r.Context(), CurrentUser(r.Context()), id, req.Description, req.FilePath)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

func (h *Handler) ListSubmissionsHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "milestoneId")
	if !ok {
		return
	}
	subs, err := h.Svc.ListSubmissions(r.Context(), CurrentUser(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

// ReviewDeliverableHandler обрабатывает PUT /api/milestones/{milestoneId}/review
func (h *Handler) ReviewDeliverableHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "milestoneId")
	if !ok {
		return
	}
	var req struct {
		Approve  bool   `json:"approve"`
		Feedback string `json:"feedback"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	project, err := h.Svc.ReviewDeliverable(r.Context(), CurrentUser(r.Context()), id, req.Approve, req.Feedback)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// FeedbackHandler обрабатывает PUT /api/submissions/{submissionId}/feedback
func (h *Handler) FeedbackHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "submissionId")
	if !ok {
		return
	}
	var req struct {
		Feedback string `json:"feedback"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	sub, err := h.Svc.AddFeedback(r.Context(), CurrentUser(r.Context()), id, req.Feedback)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (h *Handler) CompleteProjectHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "projectId")
	if !ok {
		return
	}
	p, err := h.Svc.CompleteProject(r.Context(), CurrentUser(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) CancelProjectHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "projectId")
	if !ok {
		return
	}
	p, err := h.Svc.CancelProject(r.Context(), CurrentUser(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) ActivityLogHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "projectId")
	if !ok {
		return
	}
	entries, err := h.Svc.ActivityLog(r.Context(), CurrentUser(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// AddReviewHandler обрабатывает POST /api/projects/{projectId}/reviews
func (h *Handler) AddReviewHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "projectId")
	if !ok {
		return
	}
	var req struct {
		RevieweeID int    `json:"revieweeId"`
		Rating     int    `json:"rating"`
		Comment    string `json:"comment"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	review, err := h.Svc.AddReview(r.Context(), CurrentUser(r.Context()), id, req.RevieweeID, req.Rating, req.Comment)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

func (h *Handler) ProjectReviewsHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "projectId")
	if !ok {
		return
	}
	reviews, err := h.Svc.ProjectReviews(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}
