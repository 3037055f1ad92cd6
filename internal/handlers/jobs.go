package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"seekit/internal/marketplace"
	"seekit/models"
)

const dateLayout = "2006-01-02"

type PaginationParams struct {
	Limit  int
	Offset int
}

// parsePaginationParams парсит limit и offset из query, с дефолтами и ограничениями
func parsePaginationParams(r *http.Request) PaginationParams {
	var params PaginationParams
	limitStr := r.URL.Query().Get("limit")
	offsetStr := r.URL.Query().Get("offset")

	params.Limit = 20 // дефолт
	params.Offset = 0

	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			params.Limit = l
		}
	}
	if offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			params.Offset = o
		}
	}
	return params
}

func parseBudget(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, errors.New("budget must be a number")
	}
	return &v, nil
}

type jobRequest struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	RequiredSkills []string `json:"requiredSkills"`
	BudgetMin      *float64 `json:"budgetMin"`
	BudgetMax      *float64 `json:"budgetMax"`
	Deadline       string   `json:"deadline"`
}

// PostJobHandler обрабатывает POST /api/jobs
func (h *Handler) PostJobHandler(w http.ResponseWriter, r *http.Request) {
	var req jobRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	in := marketplace.JobInput{
		Title:          req.Title,
		Description:    req.Description,
		RequiredSkills: req.RequiredSkills,
		BudgetMin:      req.BudgetMin,
		BudgetMax:      req.BudgetMax,
	}
	if req.Deadline != "" {
		d, err := time.Parse(dateLayout, req.Deadline)
		if err != nil {
			http.Error(w, "deadline must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		in.Deadline = &d
	}

	job, err := h.Svc.PostJob(r.Context(), CurrentUser(r.Context()), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, job)
}

// SearchJobsHandler обрабатывает GET /api/jobs?q=&min=&max=
func (h *Handler) SearchJobsHandler(w http.ResponseWriter, r *http.Request) {
	params := parsePaginationParams(r)
	q := r.URL.Query()

	minBudget, err := parseBudget(q.Get("min"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	maxBudget, err := parseBudget(q.Get("max"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	jobs, err := h.Svc.SearchJobs(r.Context(), CurrentUser(r.Context()), models.JobFilter{
		Keywords:  q.Get("q"),
		MinBudget: minBudget,
		MaxBudget: maxBudget,
		Limit:     params.Limit,
		Offset:    params.Offset,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

// ListMyJobsHandler: вакансии текущего клиента
func (h *Handler) ListMyJobsHandler(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.Svc.ListClientJobs(r.Context(), CurrentUser(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (h *Handler) GetJobHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "jobId")
	if !ok {
		return
	}
	job, err := h.Svc.GetJob(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// CloseJobHandler обрабатывает PUT /api/jobs/{jobId}/close
func (h *Handler) CloseJobHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "jobId")
	if !ok {
		return
	}
	job, err := h.Svc.CloseJob(r.Context(), CurrentUser(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// MatchFreelancersHandler обрабатывает GET /api/jobs/{jobId}/matches
func (h *Handler) MatchFreelancersHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "jobId")
	if !ok {
		return
	}
	matches, err := h.Svc.MatchFreelancers(r.Context(), CurrentUser(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, matches)
}
