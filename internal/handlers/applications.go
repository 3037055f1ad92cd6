package handlers

import (
	"net/http"
	"strconv"

	"seekit/models"
)

// ApplyHandler обрабатывает POST /api/jobs/{jobId}/applications
func (h *Handler) ApplyHandler(w http.ResponseWriter, r *http.Request) {
	jobID, ok := urlID(w, r, "jobId")
	if !ok {
		return
	}
	var req struct {
		CoverLetter string `json:"coverLetter"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	app, err := h.Svc.Apply(r.Context(), CurrentUser(r.Context()), jobID, req.CoverLetter)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

// ListJobApplicationsHandler: отклики на вакансию, только владельцу
func (h *Handler) ListJobApplicationsHandler(w http.ResponseWriter, r *http.Request) {
	jobID, ok := urlID(w, r, "jobId")
	if !ok {
		return
	}
	apps, err := h.Svc.ListJobApplications(r.Context(), CurrentUser(r.Context()), jobID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

// ListMyApplicationsHandler: для фрилансера его отклики, для клиента отклики на его вакансии
func (h *Handler) ListMyApplicationsHandler(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r.Context())
	var (
		apps interface{}
		err  error
	)
	if user.Role == models.RoleClient {
		apps, err = h.Svc.ListClientApplications(r.Context(), user)
	} else {
		apps, err = h.Svc.ListFreelancerApplications(r.Context(), user)
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

// AcceptApplicationHandler обрабатывает PUT /api/applications/{applicationId}/accept?reject_others=true
func (h *Handler) AcceptApplicationHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "applicationId")
	if !ok {
		return
	}
	rejectOthers := true
	if raw := r.URL.Query().Get("reject_others"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			http.Error(w, "Invalid reject_others", http.StatusBadRequest)
			return
		}
		rejectOthers = v
	}
	project, err := h.Svc.AcceptApplication(r.Context(), CurrentUser(r.Context()), id, rejectOthers)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

func (h *Handler) RejectApplicationHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "applicationId")
	if !ok {
		return
	}
	app, err := h.Svc.RejectApplication(r.Context(), CurrentUser(r.Context()), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}
