package handlers

import (
	"net/http"

	"seekit/internal/marketplace"
	"seekit/models"
)

type registerRequest struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Location string   `json:"location"`
	Role     string   `json:"role"`
	Skills   []string `json:"skills"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// RegisterHandler обрабатывает POST /api/users/register
func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.Svc.Register(r.Context(), marketplace.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Location: req.Location,
		Role:     models.Role(req.Role),
		Skills:   req.Skills,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respondWithToken(w, r, http.StatusCreated, user)
}

// LoginHandler обрабатывает POST /api/users/login
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.Svc.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respondWithToken(w, r, http.StatusOK, user)
}

func (h *Handler) respondWithToken(w http.ResponseWriter, r *http.Request, status int, user *models.User) {
	token, err := h.Tokens.Issue(user.ID, string(user.Role))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, status, authResponse{Token: token, User: user})
}

// MeHandler возвращает текущего пользователя
func (h *Handler) MeHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, CurrentUser(r.Context()))
}

// ListUsersHandler обрабатывает GET /api/users?role=
func (h *Handler) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := h.Svc.ListUsers(r.Context(), models.Role(r.URL.Query().Get("role")))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *Handler) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "userId")
	if !ok {
		return
	}
	user, err := h.Svc.GetUser(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// AddSkillHandler обрабатывает POST /api/users/me/skills
func (h *Handler) AddSkillHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Level string `json:"level"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	skill, err := h.Svc.AddSkill(r.Context(), CurrentUser(r.Context()), req.Name, req.Level)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, skill)
}

func (h *Handler) RemoveSkillHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "skillId")
	if !ok {
		return
	}
	if err := h.Svc.RemoveSkill(r.Context(), CurrentUser(r.Context()), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SearchHistoryHandler(w http.ResponseWriter, r *http.Request) {
	history, err := h.Svc.SearchHistory(r.Context(), CurrentUser(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func (h *Handler) BrowseFreelancersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := h.Svc.BrowseFreelancers(r.Context(), CurrentUser(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// PortfolioHandler обрабатывает GET /api/freelancers/{userId}/portfolio
func (h *Handler) PortfolioHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "userId")
	if !ok {
		return
	}
	pf, err := h.Svc.Portfolio(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pf)
}
